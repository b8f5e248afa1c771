// =============================================================================
// Payment Advice Generator - Archive Builder
// =============================================================================
//
// This module packs the rendered documents into one in-memory zip. It owns
// the file naming rules:
//
//   <identity with spaces and slashes as "_", sanitized>_invoice_<number>.pdf
//
// Names are unique inside an archive. When two recipients derive the same
// name, the later one gets "_2", "_3", ... before the extension.
//
// =============================================================================

package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ginjaninja78/payment-advice-generator/internal/sanitize"
)

// DocumentExt is the extension of every archived document.
const DocumentExt = ".pdf"

// WriteError reports a packaging failure.
type WriteError struct {
	Name string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("failed to write archive: %v", e.Err)
	}
	return fmt.Sprintf("failed to write %q to archive: %v", e.Name, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// FileName derives the archive entry name for a recipient's document.
func FileName(identity string, number int) string {
	base := strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(identity)
	return fmt.Sprintf("%s_invoice_%d%s", sanitize.String(base), number, DocumentExt)
}

// Builder accumulates documents into a zip held in memory. It is not safe
// for concurrent use.
type Builder struct {
	buf      bytes.Buffer
	zw       *zip.Writer
	modified time.Time
	names    map[string]bool
	entries  []string
	closed   bool
}

// NewBuilder returns an empty archive. Every entry is stamped with modified
// so identical runs produce identical bytes.
func NewBuilder(modified time.Time) *Builder {
	b := &Builder{
		modified: modified,
		names:    make(map[string]bool),
	}
	b.zw = zip.NewWriter(&b.buf)
	return b
}

// Add stores data under name, made unique if needed.
//
// RETURNS:
//   - The entry name actually used.
//   - A *WriteError if the entry cannot be written.
func (b *Builder) Add(name string, data []byte) (string, error) {
	if b.closed {
		return "", &WriteError{Name: name, Err: fmt.Errorf("archive already closed")}
	}

	name = b.unique(name)

	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: b.modified,
	}
	w, err := b.zw.CreateHeader(header)
	if err != nil {
		return "", &WriteError{Name: name, Err: err}
	}
	if _, err := w.Write(data); err != nil {
		return "", &WriteError{Name: name, Err: err}
	}

	b.names[name] = true
	b.entries = append(b.entries, name)
	return name, nil
}

// Entries returns the entry names in the order they were added.
func (b *Builder) Entries() []string {
	return append([]string(nil), b.entries...)
}

// Len is the number of documents added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Close finishes the archive and returns its bytes. comment is stored as the
// zip comment and may be empty.
func (b *Builder) Close(comment string) ([]byte, error) {
	if b.closed {
		return nil, &WriteError{Err: fmt.Errorf("archive already closed")}
	}
	b.closed = true

	if comment != "" {
		if err := b.zw.SetComment(comment); err != nil {
			return nil, &WriteError{Err: err}
		}
	}
	if err := b.zw.Close(); err != nil {
		return nil, &WriteError{Err: err}
	}
	return b.buf.Bytes(), nil
}

func (b *Builder) unique(name string) string {
	if !b.names[name] {
		return name
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !b.names[candidate] {
			return candidate
		}
	}
}
