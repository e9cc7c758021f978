// Package images downloads candidate image payloads for catalog upload.
package images

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
)

// Downloader fetches image payloads with bounded concurrency. Results keep
// the input order so upload positions match the listing's image order.
type Downloader struct {
	http        *http.Client
	maxImages   int
	concurrency int
}

// NewDownloader builds a Downloader from config, with sane defaults for
// unset values.
func NewDownloader(cfg config.ImagesConfig) *Downloader {
	maxImages := cfg.MaxImages
	if maxImages <= 0 {
		maxImages = 6
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Downloader{
		http:        &http.Client{Timeout: timeout},
		maxImages:   maxImages,
		concurrency: concurrency,
	}
}

// Fetch downloads up to maxImages payloads from urls, in order. A failed or
// non-image URL drops out with a warning; the remaining images keep their
// relative order. Only a fully empty result is an error for the caller to
// decide on.
func (d *Downloader) Fetch(ctx context.Context, urls []string) ([][]byte, error) {
	if len(urls) > d.maxImages {
		urls = urls[:d.maxImages]
	}
	if len(urls) == 0 {
		return nil, nil
	}

	payloads := make([][]byte, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, url := range urls {
		g.Go(func() error {
			data, err := d.fetchOne(gctx, url)
			if err != nil {
				zap.L().Warn("image download failed",
					zap.String("url", url),
					zap.Error(err),
				)
				return nil
			}
			payloads[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "images: fetch")
	}

	out := make([][]byte, 0, len(payloads))
	for _, p := range payloads {
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (d *Downloader) fetchOne(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "images: create request")
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "images: request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("images: status %d for %s", resp.StatusCode, url)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, eris.Errorf("images: unexpected content type %s for %s", ct, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "images: read body")
	}
	if len(data) == 0 {
		return nil, eris.Errorf("images: empty payload for %s", url)
	}
	return data, nil
}
