package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/ginjaninja78/payment-advice-generator/internal/input"
	"github.com/ginjaninja78/payment-advice-generator/internal/types"
	"github.com/ginjaninja78/payment-advice-generator/internal/validation"
	"github.com/ginjaninja78/payment-advice-generator/pkg/utils"
	"github.com/rs/zerolog"
)

// Form fields accepted next to the uploaded file.
const (
	fieldFile        = "file"
	fieldInvoiceDate = "invoice_date"
	fieldStart       = "invoice_number_start"
	fieldCompany     = "company_name"
	fieldAddress1    = "address_line1"
	fieldAddress2    = "address_line2"
	fieldNumbering   = "numbering"
)

const defaultFormMemory = 32 << 20

// HeaderInvoiceCount carries the number of documents in a generated archive.
const HeaderInvoiceCount = "X-Invoice-Count"

// HeaderRunID carries the generation run identifier.
const HeaderRunID = "X-Run-ID"

type Handler struct {
	service     InvoiceService
	cfg         *config.MainConfig
	maxUpload   int64
	archiveName string
	now         func() time.Time
}

func NewHandler(service InvoiceService, cfg *config.MainConfig, maxUpload int64, archiveName string) *Handler {
	return &Handler{
		service:     service,
		cfg:         cfg,
		maxUpload:   maxUpload,
		archiveName: archiveName,
		now:         time.Now,
	}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
	Present []string `json:"present,omitempty"`
}

// PreviewResponse lists how many entries each recipient has.
type PreviewResponse struct {
	Rows       int              `json:"rows"`
	Recipients []RecipientCount `json:"recipients"`
}

type RecipientCount struct {
	Recipient string `json:"recipient"`
	Entries   int    `json:"entries"`
}

// badRequest marks errors caused by the request itself.
type badRequest struct {
	err error
}

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

// Generate renders the uploaded table and answers with the zip archive.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	table, settings, err := h.readRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.service.Generate(ctx, table, settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	name := utils.GenerateOutputFileName(h.archiveName, h.now(), map[string]string{
		"source": utils.SourceStem(table.Source),
	})

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Archive)))
	w.Header().Set(HeaderInvoiceCount, strconv.Itoa(result.Count()))
	w.Header().Set(HeaderRunID, result.RunID)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(result.Archive); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to write archive")
	}
}

// Preview reports the entries per recipient without rendering.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	table, settings, err := h.readRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	counts, err := h.service.Preview(ctx, table, settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := PreviewResponse{Rows: len(table.Records), Recipients: []RecipientCount{}}
	for _, c := range counts {
		response.Recipients = append(response.Recipients, RecipientCount{Recipient: c.Recipient, Entries: c.Entries})
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) readRequest(w http.ResponseWriter, r *http.Request) (*types.Table, config.Settings, error) {
	memory := int64(defaultFormMemory)
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
		memory = h.maxUpload
	}
	if err := r.ParseMultipartForm(memory); err != nil {
		return nil, config.Settings{}, badRequest{fmt.Errorf("invalid upload: %w", err)}
	}

	file, header, err := r.FormFile(fieldFile)
	if err != nil {
		return nil, config.Settings{}, badRequest{fmt.Errorf("missing %q file field: %w", fieldFile, err)}
	}
	defer file.Close()

	table, err := input.Load(file, header.Filename, h.cfg.Input)
	if err != nil {
		return nil, config.Settings{}, badRequest{err}
	}

	settings, err := h.settingsFromForm(r)
	if err != nil {
		return nil, config.Settings{}, badRequest{err}
	}

	return table, settings, nil
}

// settingsFromForm applies the request's form fields over the configured
// settings.
func (h *Handler) settingsFromForm(r *http.Request) (config.Settings, error) {
	settings, err := h.cfg.Settings(h.now())
	if err != nil {
		return config.Settings{}, err
	}

	if v := strings.TrimSpace(r.FormValue(fieldInvoiceDate)); v != "" {
		if settings.InvoiceDate, err = config.ParseDate(v); err != nil {
			return config.Settings{}, err
		}
	}
	if v := strings.TrimSpace(r.FormValue(fieldStart)); v != "" {
		if settings.InvoiceNumberStart, err = strconv.Atoi(v); err != nil {
			return config.Settings{}, fmt.Errorf("invalid %s %q", fieldStart, v)
		}
	}
	if v := strings.TrimSpace(r.FormValue(fieldNumbering)); v != "" {
		if settings.Numbering, err = config.ParseNumbering(v); err != nil {
			return config.Settings{}, err
		}
	}
	if v := r.FormValue(fieldCompany); v != "" {
		settings.CompanyName = v
	}
	if v := r.FormValue(fieldAddress1); v != "" {
		settings.AddressLine1 = v
	}
	if v := r.FormValue(fieldAddress2); v != "" {
		settings.AddressLine2 = v
	}

	return settings, settings.Validate()
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var schemaErr *validation.SchemaError
	var reqErr badRequest

	switch {
	case errors.As(err, &schemaErr):
		h.writeJSON(w, r, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   schemaErr.Error(),
			Missing: schemaErr.Missing,
			Present: schemaErr.Present,
		})
	case errors.As(err, &reqErr):
		h.writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger.Error().
			Err(err).
			Msg("invoice generation failed")
		h.writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
