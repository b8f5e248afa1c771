package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/payment-advice-generator/internal/aggregate"
	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/ginjaninja78/payment-advice-generator/internal/generator"
	"github.com/ginjaninja78/payment-advice-generator/internal/render"
	"github.com/ginjaninja78/payment-advice-generator/internal/types"
	"github.com/ginjaninja78/payment-advice-generator/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) Generate(ctx context.Context, table *types.Table, settings config.Settings) (*generator.Result, error) {
	args := m.Called(ctx, table, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generator.Result), args.Error(1)
}

func (m *mockInvoiceService) Preview(ctx context.Context, table *types.Table, settings config.Settings) ([]aggregate.Count, error) {
	args := m.Called(ctx, table, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]aggregate.Count), args.Error(1)
}

const sampleCSV = "Mentor/Alumni,Session Date,Amount,Name,Email,Account Holder,Pan Number,Bank,Account Number,IFSC Code,Branch\n" +
	"Asha,2025-01-02,100.50,Mock interview,asha@example.com,Asha K,ABCDE1234F,HDFC,123456789.0,HDFC0001,Pune\n" +
	"Ravi,2025-01-03,50,Resume review,ravi@example.com,Ravi S,,SBI,987654321,SBIN0002,Delhi\n" +
	"Asha,2025-01-04,200.25,Career talk,asha@example.com,Asha K,ABCDE1234F,HDFC,123456789.0,HDFC0001,Pune\n"

func upload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func post(t *testing.T, srv *httptest.Server, path string, body *bytes.Buffer, contentType string) *http.Response {
	t.Helper()

	resp, err := http.Post(srv.URL+path, contentType, body)
	require.NoError(t, err)
	return resp
}

func testConfig(service InvoiceService) Config {
	cfg := config.DefaultMainConfig()
	cfg.Invoice.Date = "2025-01-31"

	return Config{
		Addr:           ":0",
		MaxUploadBytes: 1 << 20,
		ArchiveName:    "Invoices.zip",
		Dependencies: Dependencies{
			Invoices: service,
			Config:   cfg,
		},
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	srv := httptest.NewServer(ConfigureRouter(logger, testConfig(NewGeneratorService(nil, ""))))
	defer srv.Close()

	body, ct := upload(t, "sessions.csv", sampleCSV, map[string]string{
		"invoice_number_start": "5",
		"company_name":         "ACME",
	})
	resp := post(t, srv, "/api/v1/invoices", body, ct)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Invoices.zip"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "2", resp.Header.Get(HeaderInvoiceCount))
	assert.NotEmpty(t, resp.Header.Get(HeaderRunID))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Asha_invoice_5.pdf", "Ravi_invoice_6.pdf"}, names)
}

func TestGeneratePassesFormSettings(t *testing.T) {
	svc := new(mockInvoiceService)
	svc.On("Generate", mock.Anything, mock.Anything, mock.MatchedBy(func(s config.Settings) bool {
		return s.InvoiceNumberStart == 3 &&
			s.CompanyName == "ACME" &&
			s.AddressLine1 == "Street 1" &&
			s.Numbering == config.NumberingConstant &&
			s.InvoiceDate.Equal(time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC))
	})).Return(&generator.Result{RunID: "r", Archive: []byte("zip"), Documents: make([]generator.Document, 2)}, nil)

	srv := httptest.NewServer(ConfigureRouter(zerolog.Nop(), testConfig(svc)))
	defer srv.Close()

	body, ct := upload(t, "sessions.csv", sampleCSV, map[string]string{
		"invoice_date":         "2025-02-14",
		"invoice_number_start": "3",
		"company_name":         "ACME",
		"address_line1":        "Street 1",
		"numbering":            "constant",
	})
	resp := post(t, srv, "/api/v1/invoices", body, ct)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get(HeaderInvoiceCount))
	svc.AssertExpectations(t)
}

func TestGenerateArchiveNameUsesUploadName(t *testing.T) {
	svc := new(mockInvoiceService)
	svc.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Return(&generator.Result{RunID: "r", Archive: []byte("zip")}, nil)

	cfg := testConfig(svc)
	cfg.ArchiveName = "Invoices_{source}"
	srv := httptest.NewServer(ConfigureRouter(zerolog.Nop(), cfg))
	defer srv.Close()

	body, ct := upload(t, "march_sessions.csv", sampleCSV, nil)
	resp := post(t, srv, "/api/v1/invoices", body, ct)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="Invoices_march_sessions.zip"`, resp.Header.Get("Content-Disposition"))
	svc.AssertExpectations(t)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name           string
		filename       string
		content        string
		fields         map[string]string
		setupMock      func(*mockInvoiceService)
		expectedStatus int
		check          func(*testing.T, ErrorResponse)
	}{
		{
			name:           "missing file",
			fields:         map[string]string{"company_name": "ACME"},
			setupMock:      func(*mockInvoiceService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "start below one",
			filename:       "sessions.csv",
			content:        sampleCSV,
			fields:         map[string]string{"invoice_number_start": "0"},
			setupMock:      func(*mockInvoiceService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad date",
			filename:       "sessions.csv",
			content:        sampleCSV,
			fields:         map[string]string{"invoice_date": "31st Jan"},
			setupMock:      func(*mockInvoiceService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "schema error",
			filename: "sessions.csv",
			content:  sampleCSV,
			setupMock: func(m *mockInvoiceService) {
				m.On("Generate", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, &validation.SchemaError{Missing: []string{"Branch"}, Present: []string{"Amount"}})
			},
			expectedStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body ErrorResponse) {
				assert.Equal(t, []string{"Branch"}, body.Missing)
				assert.Equal(t, []string{"Amount"}, body.Present)
			},
		},
		{
			name:     "render error",
			filename: "sessions.csv",
			content:  sampleCSV,
			setupMock: func(m *mockInvoiceService) {
				m.On("Generate", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, &render.RenderError{Recipient: "Asha", Err: errors.New("logo unavailable")})
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body ErrorResponse) {
				assert.Contains(t, body.Error, "logo unavailable")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockInvoiceService)
			tt.setupMock(svc)

			srv := httptest.NewServer(ConfigureRouter(zerolog.Nop(), testConfig(svc)))
			defer srv.Close()

			body, ct := upload(t, tt.filename, tt.content, tt.fields)
			resp := post(t, srv, "/api/v1/invoices", body, ct)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var errBody ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
			assert.NotEmpty(t, errBody.Error)
			if tt.check != nil {
				tt.check(t, errBody)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestPreview(t *testing.T) {
	srv := httptest.NewServer(ConfigureRouter(zerolog.Nop(), testConfig(NewGeneratorService(nil, ""))))
	defer srv.Close()

	body, ct := upload(t, "sessions.csv", sampleCSV, nil)
	resp := post(t, srv, "/api/v1/invoices/preview", body, ct)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var preview PreviewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&preview))
	assert.Equal(t, PreviewResponse{
		Rows: 3,
		Recipients: []RecipientCount{
			{Recipient: "Asha", Entries: 2},
			{Recipient: "Ravi", Entries: 1},
		},
	}, preview)
}

func TestPreviewSchemaError(t *testing.T) {
	srv := httptest.NewServer(ConfigureRouter(zerolog.Nop(), testConfig(NewGeneratorService(nil, ""))))
	defer srv.Close()

	body, ct := upload(t, "sessions.csv", "Mentor/Alumni,Amount\nAsha,1\n", nil)
	resp := post(t, srv, "/api/v1/invoices/preview", body, ct)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var errBody ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Contains(t, errBody.Missing, "Branch")
	assert.NotContains(t, errBody.Missing, "Amount")
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(ConfigureRouter(zerolog.Nop(), testConfig(new(mockInvoiceService))))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"ok"`))
}
