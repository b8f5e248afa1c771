package brand

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func newLoader() *Loader {
	l := NewLoader(2*time.Second, zerolog.Nop())
	l.client.RetryMax = 0
	return l
}

func TestLoadFromURL(t *testing.T) {
	data := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	asset, err := newLoader().Load(context.Background(), srv.URL+"/logo.png")
	require.NoError(t, err)

	assert.Equal(t, FormatPNG, asset.Format)
	assert.Equal(t, data, asset.Data)
}

func TestLoadFromURLNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newLoader().Load(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t), 0o644))

	asset, err := newLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, asset.Format)
	assert.Equal(t, path, asset.Source)

	_, err = newLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestLoadEmptySource(t *testing.T) {
	asset, err := newLoader().Load(context.Background(), "  ")
	require.NoError(t, err)
	assert.Nil(t, asset)
}

func TestLoadRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := newLoader().Load(context.Background(), path)
	assert.True(t, errors.Is(err, ErrUnsupportedImage))
}

func TestDetectFormat(t *testing.T) {
	format, err := DetectFormat([]byte("\xff\xd8\xff\xe0\x00\x10JFIF"))
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, format)

	format, err = DetectFormat([]byte("GIF89a"))
	require.NoError(t, err)
	assert.Equal(t, FormatGIF, format)
}
