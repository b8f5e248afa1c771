// =============================================================================
// Payment Advice Generator - Generator Module
// =============================================================================
//
// This module contains the core generation logic. It runs the whole pipeline
// for one parsed table, from grouping to the finished archive.
//
// GENERATION PIPELINE:
//   1. Validate the schema and group records by recipient
//   2. Load the brand image
//   3. Render one document per group, assigning invoice numbers
//   4. Add each document to the archive under a unique name
//   5. Close the archive and report the run
//
// FAILURE POLICY:
//   All-or-nothing. The first group that fails to render aborts the run and
//   no archive is returned. Amounts that do not parse are not failures; they
//   are logged and reported as warnings.
//
// =============================================================================

package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ginjaninja78/payment-advice-generator/internal/aggregate"
	"github.com/ginjaninja78/payment-advice-generator/internal/archive"
	"github.com/ginjaninja78/payment-advice-generator/internal/brand"
	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/ginjaninja78/payment-advice-generator/internal/render"
	"github.com/ginjaninja78/payment-advice-generator/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of a successful run.
type Result struct {
	// RunID identifies the run in logs and summaries.
	RunID string

	// Archive is the finished zip.
	Archive []byte

	// Documents describes each archived document, in archive order.
	Documents []Document

	// Warnings lists every amount that could not be parsed and every row
	// skipped for a blank recipient, by row number.
	Warnings []types.CoercionWarning

	Stats Stats
}

// Count is the number of documents generated.
func (r *Result) Count() int {
	return len(r.Documents)
}

// Document describes one archived payment advice.
type Document struct {
	FileName  string
	Recipient string
	Number    int
	Lines     int
	Total     decimal.Decimal
	Bytes     int
}

// Stats contains statistics about the run.
type Stats struct {
	// RowsProcessed is the number of input records.
	RowsProcessed int

	// DocumentsCreated is the number of documents in the archive.
	DocumentsCreated int

	// LineItemsCreated is the number of table rows across all documents.
	LineItemsCreated int

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// GENERATOR STRUCTURE
// =============================================================================

// Renderer draws one recipient's document.
type Renderer interface {
	Render(group types.Group, number int, settings config.Settings) ([]byte, error)
}

// LogoLoader loads the brand image.
type LogoLoader interface {
	Load(ctx context.Context, source string) (*brand.Asset, error)
}

// Generator turns parsed tables into invoice archives.
type Generator struct {
	// settings is the run configuration; it is never modified.
	settings config.Settings

	// logger receives progress and warnings.
	logger zerolog.Logger

	// renderer, when set, is used instead of one built from the logo.
	renderer Renderer

	logoLoader LogoLoader
	logoSource string

	// newRunID returns the identifier of each run.
	newRunID func() string
}

// Option customizes a Generator.
type Option func(*Generator)

// WithLogo makes every document carry the image at source.
func WithLogo(loader LogoLoader, source string) Option {
	return func(g *Generator) {
		g.logoLoader = loader
		g.logoSource = source
	}
}

// WithRenderer replaces the PDF renderer.
func WithRenderer(r Renderer) Option {
	return func(g *Generator) {
		g.renderer = r
	}
}

// WithRunID fixes the run identifier.
func WithRunID(id string) Option {
	return func(g *Generator) {
		g.newRunID = func() string { return id }
	}
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Generator.
//
// PARAMETERS:
//   - settings: The run configuration.
//   - logger: Receives progress and warnings.
//   - opts: Optional logo source, renderer or run ID.
//
// RETURNS:
//   - A new Generator.
//   - An error if the settings are invalid.
func New(settings config.Settings, logger zerolog.Logger, opts ...Option) (*Generator, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	g := &Generator{
		settings: settings,
		logger:   logger,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run generates the archive for a table.
//
// PARAMETERS:
//   - ctx: Cancels the brand image download. Rendering itself is not
//     interruptible.
//   - table: The parsed input.
//
// RETURNS:
//   - The run result.
//   - A *validation.SchemaError, *render.RenderError or *archive.WriteError.
func (g *Generator) Run(ctx context.Context, table *types.Table) (*Result, error) {
	startTime := time.Now()
	runID := g.newRunID()
	logger := g.logger.With().Str("run_id", runID).Logger()

	// =========================================================================
	// STEP 1: GROUP RECORDS
	// =========================================================================

	groups, skipped, err := aggregate.Group(table, g.settings.GroupOrder)
	if err != nil {
		logger.Error().Err(err).Msg("Input rejected")
		return nil, err
	}

	logger.Info().
		Str("source", table.Source).
		Int("rows", len(table.Records)).
		Int("recipients", len(groups)).
		Int("skipped", len(skipped)).
		Msg("Grouped records")

	for _, w := range skipped {
		logger.Warn().
			Int("row", w.RowNumber).
			Str("field", w.Field).
			Msg("Recipient blank, row skipped")
	}

	result := &Result{
		RunID:    runID,
		Warnings: append([]types.CoercionWarning(nil), skipped...),
		Stats:    Stats{RowsProcessed: len(table.Records)},
	}

	// =========================================================================
	// STEP 2: PREPARE RENDERER
	// =========================================================================

	renderer, err := g.prepareRenderer(ctx, groups)
	if err != nil {
		logger.Error().Err(err).Msg("Brand image unavailable")
		return nil, err
	}

	// =========================================================================
	// STEP 3-4: RENDER AND ARCHIVE
	// =========================================================================

	builder := archive.NewBuilder(g.settings.InvoiceDate)

	for i, group := range groups {
		number := NumberFor(g.settings.Numbering, g.settings.InvoiceNumberStart, i)

		data, err := renderer.Render(group, number, g.settings)
		if err != nil {
			logger.Error().Err(err).Str("recipient", group.Key).Msg("Render failed, aborting run")
			return nil, asRenderError(group.Key, err)
		}

		name, err := builder.Add(archive.FileName(group.Key, number), data)
		if err != nil {
			logger.Error().Err(err).Msg("Archive write failed, aborting run")
			return nil, err
		}

		for _, w := range group.Warnings {
			logger.Warn().
				Int("row", w.RowNumber).
				Str("field", w.Field).
				Str("value", w.Value).
				Str("recipient", group.Key).
				Msg("Amount not numeric, excluded from total")
		}

		result.Documents = append(result.Documents, Document{
			FileName:  name,
			Recipient: group.Recipient.Name,
			Number:    number,
			Lines:     len(group.Lines),
			Total:     group.Subtotal,
			Bytes:     len(data),
		})
		result.Warnings = append(result.Warnings, group.Warnings...)
		result.Stats.LineItemsCreated += len(group.Lines)

		logger.Debug().
			Str("file", name).
			Int("number", number).
			Str("total", group.Subtotal.StringFixed(2)).
			Msg("Rendered invoice")
	}

	// =========================================================================
	// STEP 5: CLOSE ARCHIVE
	// =========================================================================

	comment := fmt.Sprintf("%d invoices dated %s", len(groups), render.Date(g.settings.InvoiceDate))
	data, err := builder.Close(comment)
	if err != nil {
		logger.Error().Err(err).Msg("Archive write failed, aborting run")
		return nil, err
	}

	sort.SliceStable(result.Warnings, func(a, b int) bool {
		return result.Warnings[a].RowNumber < result.Warnings[b].RowNumber
	})

	result.Archive = data
	result.Stats.DocumentsCreated = len(result.Documents)
	result.Stats.ProcessingTime = time.Since(startTime)

	logger.Info().
		Int("documents", result.Stats.DocumentsCreated).
		Int("warnings", len(result.Warnings)).
		Dur("elapsed", result.Stats.ProcessingTime).
		Msg("Generated invoices")

	return result, nil
}

// Preview groups the table without rendering and returns the entry count
// per recipient.
func (g *Generator) Preview(table *types.Table) ([]aggregate.Count, error) {
	groups, _, err := aggregate.Group(table, g.settings.GroupOrder)
	if err != nil {
		return nil, err
	}
	return aggregate.Counts(groups), nil
}

// Settings returns the run configuration.
func (g *Generator) Settings() config.Settings {
	return g.settings
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// NumberFor returns the invoice number of the group at index.
func NumberFor(policy config.NumberingPolicy, start, index int) int {
	if policy == config.NumberingConstant {
		return start
	}
	return start + index
}

func (g *Generator) prepareRenderer(ctx context.Context, groups []types.Group) (Renderer, error) {
	if g.renderer != nil {
		return g.renderer, nil
	}
	if g.logoLoader == nil || g.logoSource == "" || len(groups) == 0 {
		return render.New(nil), nil
	}

	logo, err := g.logoLoader.Load(ctx, g.logoSource)
	if err != nil {
		// The first document is the one that cannot be drawn.
		return nil, &render.RenderError{Recipient: groups[0].Key, Err: err}
	}
	return render.New(logo), nil
}

func asRenderError(recipient string, err error) error {
	var renderErr *render.RenderError
	if errors.As(err, &renderErr) {
		return err
	}
	return &render.RenderError{Recipient: recipient, Err: err}
}
