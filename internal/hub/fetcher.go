// Package hub downloads model artifacts from a Hugging Face style model hub.
package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/polyreview/internal/common"
)

// ErrArtifactNotFound is returned when the hub has no such file.
var ErrArtifactNotFound = errors.New("artifact not found on hub")

// Config configures the hub fetcher.
type Config struct {
	Endpoint string
	Revision string
	Token    string
	Timeout  time.Duration
	Retry    common.RetryOptions
}

// Fetcher downloads artifacts into local storage.
type Fetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
	revision   string
	token      string
	retry      common.RetryOptions
}

// NewFetcher creates a fetcher for the given hub.
func NewFetcher(cfg Config, logger *slog.Logger) (*Fetcher, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: hub endpoint", common.ErrMissingConfig)
	}
	if _, err := url.Parse(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("%w: hub endpoint: %v", common.ErrInvalidConfig, err)
	}

	revision := cfg.Revision
	if revision == "" {
		revision = "main"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Minute
	}

	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = common.DefaultRetryOptions()
	}

	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     common.OrDefault(logger),
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		revision:   revision,
		token:      cfg.Token,
		retry:      retry,
	}, nil
}

// URL returns the download URL of filename in repoID.
func (f *Fetcher) URL(repoID, filename string) string {
	return fmt.Sprintf("%s/%s/resolve/%s/%s", f.endpoint, repoID, url.PathEscape(f.revision), filename)
}

// Fetch downloads repoID/filename to dest. The file appears at dest only once
// it has been completely written.
func (f *Fetcher) Fetch(ctx context.Context, repoID, filename, dest string) error {
	if repoID == "" || filename == "" {
		return fmt.Errorf("%w: repo and filename are required", common.ErrMissingConfig)
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	src := f.URL(repoID, filename)
	f.logger.Info("Downloading model artifact", "url", src, "dest", dest)

	start := time.Now()
	var written int64
	err := common.WithRetry(ctx, func() error {
		n, downloadErr := f.download(ctx, src, dest)
		written = n
		return downloadErr
	}, f.retry)
	if err != nil {
		return fmt.Errorf("failed to download %s/%s: %w", repoID, filename, err)
	}

	f.logger.Info("Model artifact downloaded",
		"dest", dest,
		"bytes", written,
		"duration", time.Since(start).Round(time.Millisecond))

	return nil
}

func (f *Fetcher) download(ctx context.Context, src, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return 0, common.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, common.Permanent(ctx.Err())
		}
		return 0, common.Transient(fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, common.Permanent(fmt.Errorf("%w: %s", ErrArtifactNotFound, src))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return 0, common.Permanent(fmt.Errorf("hub refused access (status %d)", resp.StatusCode))
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return 0, common.Transient(fmt.Errorf("hub error (status %d)", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return 0, common.Permanent(fmt.Errorf("unexpected hub status %d", resp.StatusCode))
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, common.Permanent(fmt.Errorf("failed to create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		return 0, common.Transient(fmt.Errorf("failed to write artifact: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return 0, common.Permanent(fmt.Errorf("failed to close artifact: %w", err))
	}
	if resp.ContentLength > 0 && n != resp.ContentLength {
		return 0, common.Transient(fmt.Errorf("short download: got %d of %d bytes", n, resp.ContentLength))
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return 0, common.Permanent(fmt.Errorf("failed to move artifact into place: %w", err))
	}

	return n, nil
}

// Ensure makes sure dest exists, fetching repoID/filename when it does not.
// It reports whether a download happened.
func (f *Fetcher) Ensure(ctx context.Context, repoID, filename, dest string) (bool, error) {
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", dest, err)
	}

	if err := f.Fetch(ctx, repoID, filename, dest); err != nil {
		return false, err
	}
	return true, nil
}
