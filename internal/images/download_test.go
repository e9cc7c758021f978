package images

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/img/"):
			w.Header().Set("Content-Type", "image/jpeg")
			fmt.Fprintf(w, "payload-%s", strings.TrimPrefix(r.URL.Path, "/img/"))
		case r.URL.Path == "/html":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html></html>")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_PreservesOrder(t *testing.T) {
	srv := imageServer(t)
	d := NewDownloader(config.ImagesConfig{MaxImages: 6, Concurrency: 3})

	urls := []string{
		srv.URL + "/img/a",
		srv.URL + "/img/b",
		srv.URL + "/img/c",
	}
	payloads, err := d.Fetch(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, payloads, 3)
	assert.Equal(t, "payload-a", string(payloads[0]))
	assert.Equal(t, "payload-b", string(payloads[1]))
	assert.Equal(t, "payload-c", string(payloads[2]))
}

func TestFetch_CapsAtMaxImages(t *testing.T) {
	srv := imageServer(t)
	d := NewDownloader(config.ImagesConfig{MaxImages: 2, Concurrency: 2})

	urls := []string{
		srv.URL + "/img/a",
		srv.URL + "/img/b",
		srv.URL + "/img/c",
		srv.URL + "/img/d",
	}
	payloads, err := d.Fetch(context.Background(), urls)
	require.NoError(t, err)
	assert.Len(t, payloads, 2)
}

func TestFetch_DropsFailedDownloads(t *testing.T) {
	srv := imageServer(t)
	d := NewDownloader(config.ImagesConfig{MaxImages: 6, Concurrency: 2})

	urls := []string{
		srv.URL + "/img/a",
		srv.URL + "/missing",
		srv.URL + "/html",
		srv.URL + "/img/b",
	}
	payloads, err := d.Fetch(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.Equal(t, "payload-a", string(payloads[0]))
	assert.Equal(t, "payload-b", string(payloads[1]))
}

func TestFetch_EmptyInput(t *testing.T) {
	d := NewDownloader(config.ImagesConfig{})
	payloads, err := d.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, payloads)
}
