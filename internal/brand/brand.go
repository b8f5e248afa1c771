// =============================================================================
// Payment Advice Generator - Brand Asset
// =============================================================================
//
// The brand mark is drawn in the top-left corner of every document. It is
// loaded once per run, either from a local file or from an http(s) URL, and
// the same bytes are then embedded in each document.
//
// Remote fetches go through go-retryablehttp so a transient 5xx or connection
// reset does not fail a whole batch. A logo that cannot be loaded at all is an
// error; the caller turns it into a render failure.
//
// =============================================================================

package brand

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Image formats understood by the layout engine.
const (
	FormatPNG  = "PNG"
	FormatJPEG = "JPG"
	FormatGIF  = "GIF"
)

// maxImageBytes bounds a remote logo download.
const maxImageBytes = 5 << 20

// ErrUnsupportedImage is returned when the loaded bytes are not PNG, JPEG or GIF.
var ErrUnsupportedImage = errors.New("unsupported image format")

// Asset is a loaded brand image.
type Asset struct {
	Data   []byte
	Format string

	// Source is the path or URL the image came from.
	Source string
}

// Loader fetches brand images.
type Loader struct {
	client *retryablehttp.Client
	logger zerolog.Logger
}

// NewLoader returns a Loader whose remote fetches give up after timeout.
func NewLoader(timeout time.Duration, logger zerolog.Logger) *Loader {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = leveledLogger{logger}

	return &Loader{client: client, logger: logger}
}

// Load reads the image at source, a file path or an http(s) URL.
//
// PARAMETERS:
//   - ctx: Cancels a remote fetch.
//   - source: Where the image lives. Empty means no brand mark.
//
// RETURNS:
//   - The asset, or nil when source is empty.
//   - An error if the image cannot be read or is not a supported format.
func (l *Loader) Load(ctx context.Context, source string) (*Asset, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}

	var (
		data []byte
		err  error
	)
	if isURL(source) {
		data, err = l.fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load brand image %s: %w", source, err)
	}

	format, err := DetectFormat(data)
	if err != nil {
		return nil, fmt.Errorf("brand image %s: %w", source, err)
	}

	l.logger.Debug().
		Str("source", source).
		Str("format", format).
		Int("bytes", len(data)).
		Msg("Loaded brand image")

	return &Asset{Data: data, Format: format, Source: source}, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image larger than %d bytes", maxImageBytes)
	}
	return data, nil
}

// DetectFormat sniffs the image type from its leading bytes.
func DetectFormat(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/png":
		return FormatPNG, nil
	case "image/jpeg":
		return FormatJPEG, nil
	case "image/gif":
		return FormatGIF, nil
	default:
		return "", ErrUnsupportedImage
	}
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// leveledLogger routes retryablehttp's logging into zerolog.
type leveledLogger struct {
	zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug().Fields(keysAndValues).Msg(msg)
}
