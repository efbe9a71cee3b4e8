package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean(DefaultInputPath), cfg.Data.Input)
	assert.Equal(t, filepath.Clean(DefaultOutputPath), cfg.Data.Output)
	assert.Equal(t, "https://huggingface.co", cfg.Hub.Endpoint)
	assert.Equal(t, "main", cfg.Hub.Revision)
	assert.Equal(t, DefaultLangIDRepo, cfg.LangID.Repo)
	assert.Equal(t, "lid.176.bin", cfg.LangID.LocalName)
	assert.Equal(t, 512, cfg.Sentiment.MaxTokens)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Inference.Timeout)
	assert.Empty(t, cfg.Metrics.Textfile)
	assert.False(t, cfg.Database.Disabled)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("inference.endpoint", "http://models.internal:9000/")
	v.Set("pipeline.workers", 4)
	v.Set("translation.models", map[string]string{"pt": "Helsinki-NLP/opus-mt-pt-en"})

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://models.internal:9000", cfg.Inference.Endpoint)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, map[string]string{"pt": "Helsinki-NLP/opus-mt-pt-en"}, cfg.Translation.Models)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		set     map[string]any
		name    string
		wantErr error
	}{
		{
			name:    "zero workers",
			set:     map[string]any{"pipeline.workers": 0},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "zero token budget",
			set:     map[string]any{"sentiment.max_tokens": 0},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "missing endpoint",
			set:     map[string]any{"inference.endpoint": ""},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "long language code",
			set:     map[string]any{"translation.models": map[string]string{"deu": "x"}},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("POLYREVIEW_TEST_DIR", "/tmp/polyreview")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, filepath.Join(home, "data", "reviews.csv"), ExpandPath("~/data/reviews.csv"))
	assert.Equal(t, "/tmp/polyreview/out.csv", ExpandPath("$POLYREVIEW_TEST_DIR/out.csv"))
	assert.Equal(t, "data/reviews.csv", ExpandPath("./data/reviews.csv"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte("id\n"), 0o600))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing.csv")))
}
