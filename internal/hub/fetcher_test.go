package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T, endpoint string) *Fetcher {
	t.Helper()
	f, err := NewFetcher(Config{
		Endpoint: endpoint,
		Token:    "hf_test",
		Retry: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			Multiplier:   2,
		},
	}, nil)
	require.NoError(t, err)
	return f
}

func TestFetcher_URL(t *testing.T) {
	f := newTestFetcher(t, "https://huggingface.co/")
	assert.Equal(t,
		"https://huggingface.co/facebook/fasttext-language-identification/resolve/main/model.bin",
		f.URL("facebook/fasttext-language-identification", "model.bin"))
}

func TestFetcher_Fetch(t *testing.T) {
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		assert.Equal(t, "/facebook/fasttext-language-identification/resolve/main/model.bin", r.URL.Path)
		_, _ = w.Write([]byte("fasttext-binary"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "models", "lid.176.bin")
	f := newTestFetcher(t, srv.URL)

	require.NoError(t, f.Fetch(context.Background(), "facebook/fasttext-language-identification", "model.bin", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "fasttext-binary", string(data))
	assert.Equal(t, "Bearer hf_test", authHeader)

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "model.bin")
	require.NoError(t, newTestFetcher(t, srv.URL).Fetch(context.Background(), "org/repo", "model.bin", dest))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetcher_NotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "model.bin")
	err := newTestFetcher(t, srv.URL).Fetch(context.Background(), "org/repo", "model.bin", dest)

	assert.ErrorIs(t, err, ErrArtifactNotFound)
	assert.Equal(t, int32(1), calls.Load())
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetcher_Ensure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("model"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv.URL)
	dest := filepath.Join(t.TempDir(), "lid.176.bin")

	downloaded, err := f.Ensure(context.Background(), "org/repo", "model.bin", dest)
	require.NoError(t, err)
	assert.True(t, downloaded)

	downloaded, err = f.Ensure(context.Background(), "org/repo", "model.bin", dest)
	require.NoError(t, err)
	assert.False(t, downloaded)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewFetcher_RequiresEndpoint(t *testing.T) {
	_, err := NewFetcher(Config{}, nil)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
