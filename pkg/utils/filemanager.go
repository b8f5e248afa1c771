// =============================================================================
// Payment Advice Generator - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the CLI, including:
//   - Output directory management
//   - Archive naming with placeholders
//   - Writing the finished archive
//   - Run summary generation
//
// WRITE STRATEGY:
//   - The archive is written to a temporary file in the output directory and
//     renamed into place, so a failed write never leaves a half-written zip
//     under the final name
//   - Summary files are created next to the archive
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArchiveExt is the extension every archive name ends with.
const ArchiveExt = ".zip"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the CLI.
type FileManager struct {
	// OutputDir is the directory where archives and summaries are written.
	OutputDir string
}

// NewFileManager creates a new FileManager writing to outputDir.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{OutputDir: outputDir}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
//
// RETURNS:
//   - An error if the directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// ARCHIVE OUTPUT
// =============================================================================

// WriteArchive stores data as name inside the output directory.
//
// PARAMETERS:
//   - name: The archive file name (no directory part).
//   - data: The archive bytes.
//
// RETURNS:
//   - The path to the written archive.
//   - An error if writing fails.
func (fm *FileManager) WriteArchive(name string, data []byte) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	finalPath := filepath.Join(fm.OutputDir, filepath.Base(name))

	tmp, err := os.CreateTemp(fm.OutputDir, ".invoices-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary archive: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to sync archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close archive: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move archive into place: %w", err)
	}

	return finalPath, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands an archive name pattern.
//
// PARAMETERS:
//   - format: The pattern for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - now as YYYYMMDD_HHMMSS
//               {date}      - now as YYYYMMDD
//               {time}      - now as HHMMSS
//               {source}    - the input file name without extension,
//                             when params carries it (see SourceStem)
//   - now: The time used for the time placeholders.
//   - params: Extra placeholder values, keyed without braces.
//
// RETURNS:
//   - The generated file name, always ending in ".zip".
//
// EXAMPLE:
//   format: "Invoices_{date}"
//   output: "Invoices_20250131.zip"
func GenerateOutputFileName(format string, now time.Time, params map[string]string) string {
	if strings.TrimSpace(format) == "" {
		format = "Invoices"
	}

	pairs := []string{
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	}
	for key, value := range params {
		pairs = append(pairs, "{"+key+"}", value)
	}

	result := strings.NewReplacer(pairs...).Replace(format)

	if !strings.HasSuffix(strings.ToLower(result), ArchiveExt) {
		result += ArchiveExt
	}

	return result
}

// SourceStem returns the base name of an input file without its extension,
// for the {source} placeholder. Both slash styles are treated as separators,
// since uploaded names may carry a client-side path.
//
// EXAMPLE:
//   `C:\exports\sessions.csv` -> "sessions"
func SourceStem(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "." || stem == "/" {
		return ""
	}
	return stem
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about a generation run.
type RunSummary struct {
	RunID       string
	StartTime   time.Time
	EndTime     time.Time
	Source      string
	InvoiceDate time.Time
	ArchivePath string
	TotalRows   int
	Documents   []DocumentInfo
	Warnings    []WarningInfo
}

// DocumentInfo describes one generated document.
type DocumentInfo struct {
	FileName  string
	Recipient string
	Number    int
	Lines     int
	Total     string
}

// WarningInfo describes a cell that could not be parsed. Skipped marks a
// row that was left out of every invoice.
type WarningInfo struct {
	RowNumber int
	FieldName string
	Value     string
	Skipped   bool
}

// WriteSummaryLog writes a run summary to a text file.
//
// PARAMETERS:
//   - summary: The run summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	timestamp := summary.EndTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("invoice_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	writeSummary(writer, summary)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

func writeSummary(w *bufio.Writer, summary RunSummary) {
	const rule = "================================================================================\n"
	const thin = "--------------------------------------------------------------------------------\n"

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(w, "Payment Advice Generator - Run Summary\n"+
		rule+"\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Source:         %s\n"+
		"  Invoice Date:   %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Archive:        %s\n\n"+
		"Statistics:\n"+
		"  Total Rows:     %d\n"+
		"  Documents:      %d\n"+
		"  Warnings:       %d\n\n",
		summary.RunID,
		summary.Source,
		summary.InvoiceDate.Format("02-01-2006"),
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.ArchivePath,
		summary.TotalRows,
		len(summary.Documents),
		len(summary.Warnings))

	if len(summary.Documents) > 0 {
		w.WriteString("Documents:\n")
		w.WriteString(thin)
		for _, d := range summary.Documents {
			fmt.Fprintf(w, "  File:      %s\n", d.FileName)
			fmt.Fprintf(w, "  Recipient: %s\n", d.Recipient)
			fmt.Fprintf(w, "  Invoice:   %d\n", d.Number)
			fmt.Fprintf(w, "  Lines:     %d\n", d.Lines)
			fmt.Fprintf(w, "  Total:     %s\n\n", d.Total)
		}
	}

	if len(summary.Warnings) > 0 {
		w.WriteString("Warnings:\n")
		w.WriteString(thin)
		for _, wi := range summary.Warnings {
			if wi.Skipped {
				fmt.Fprintf(w, "  Row %d, %s: blank, row skipped\n", wi.RowNumber, wi.FieldName)
				continue
			}
			fmt.Fprintf(w, "  Row %d, %s: %q is not a number, excluded from total\n", wi.RowNumber, wi.FieldName, wi.Value)
		}
		w.WriteString("\n")
	}

	w.WriteString(rule + "End of Summary\n")
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
