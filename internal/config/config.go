package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/spf13/viper"
)

// Default values.
const (
	DefaultInputPath         = "data/reviews.csv"
	DefaultOutputPath        = "data/processed_reviews.csv"
	DefaultModelsDir         = "models"
	DefaultHubEndpoint       = "https://huggingface.co"
	DefaultHubRevision       = "main"
	DefaultLangIDRepo        = "facebook/fasttext-language-identification"
	DefaultLangIDFilename    = "model.bin"
	DefaultLangIDLocalName   = "lid.176.bin"
	DefaultInferenceEndpoint = "http://localhost:8008"
	DefaultSentimentModel    = "distilbert-base-uncased-finetuned-sst-2-english"
	DefaultSentimentTokens   = 512
	DefaultDatabasePath      = "$HOME/.local/share/polyreview/polyreview.db"
)

// Config is the typed view of everything polyreview reads from viper.
type Config struct {
	Translation TranslationConfig
	Data        DataConfig
	Hub         HubConfig
	LangID      LangIDConfig
	Inference   InferenceConfig
	Sentiment   SentimentConfig
	Database    DatabaseConfig
	Metrics     MetricsConfig
	ModelsDir   string
	Workers     int
}

// DataConfig locates the input and output review tables.
type DataConfig struct {
	Input  string
	Output string
}

// HubConfig configures model artifact downloads.
type HubConfig struct {
	Endpoint string
	Revision string
	Token    string
}

// LangIDConfig configures the language identification artifact.
type LangIDConfig struct {
	Repo      string
	Filename  string
	LocalName string
}

// InferenceConfig configures the model-serving backend.
type InferenceConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// SentimentConfig configures the sentiment classifier.
type SentimentConfig struct {
	Model     string
	MaxTokens int
}

// TranslationConfig carries extra language-code to model mappings.
type TranslationConfig struct {
	Models map[string]string
}

// DatabaseConfig configures the run history database.
type DatabaseConfig struct {
	Path     string
	Disabled bool
}

// MetricsConfig configures the optional Prometheus textfile.
type MetricsConfig struct {
	Textfile string
}

// SetDefaults registers polyreview's default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.input", DefaultInputPath)
	v.SetDefault("data.output", DefaultOutputPath)
	v.SetDefault("models.dir", DefaultModelsDir)
	v.SetDefault("hub.endpoint", DefaultHubEndpoint)
	v.SetDefault("hub.revision", DefaultHubRevision)
	v.SetDefault("langid.repo", DefaultLangIDRepo)
	v.SetDefault("langid.filename", DefaultLangIDFilename)
	v.SetDefault("langid.local_name", DefaultLangIDLocalName)
	v.SetDefault("inference.endpoint", DefaultInferenceEndpoint)
	v.SetDefault("inference.timeout", 2*time.Minute)
	v.SetDefault("sentiment.model", DefaultSentimentModel)
	v.SetDefault("sentiment.max_tokens", DefaultSentimentTokens)
	v.SetDefault("pipeline.workers", 1)
	v.SetDefault("database.path", DefaultDatabasePath)
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Data: DataConfig{
			Input:  ExpandPath(v.GetString("data.input")),
			Output: ExpandPath(v.GetString("data.output")),
		},
		ModelsDir: ExpandPath(v.GetString("models.dir")),
		Hub: HubConfig{
			Endpoint: strings.TrimRight(v.GetString("hub.endpoint"), "/"),
			Revision: v.GetString("hub.revision"),
			Token:    v.GetString("hub.token"),
		},
		LangID: LangIDConfig{
			Repo:      v.GetString("langid.repo"),
			Filename:  v.GetString("langid.filename"),
			LocalName: v.GetString("langid.local_name"),
		},
		Inference: InferenceConfig{
			Endpoint: strings.TrimRight(v.GetString("inference.endpoint"), "/"),
			APIKey:   v.GetString("inference.api_key"),
			Timeout:  v.GetDuration("inference.timeout"),
		},
		Sentiment: SentimentConfig{
			Model:     v.GetString("sentiment.model"),
			MaxTokens: v.GetInt("sentiment.max_tokens"),
		},
		Translation: TranslationConfig{
			Models: v.GetStringMapString("translation.models"),
		},
		Workers: v.GetInt("pipeline.workers"),
		Database: DatabaseConfig{
			Path:     ExpandPath(v.GetString("database.path")),
			Disabled: v.GetBool("database.disabled"),
		},
		Metrics: MetricsConfig{
			Textfile: ExpandPath(v.GetString("metrics.textfile")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	if c.Data.Input == "" || c.Data.Output == "" {
		return fmt.Errorf("%w: input and output paths are required", common.ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: pipeline.workers must be at least 1, got %d", common.ErrInvalidConfig, c.Workers)
	}
	if c.Sentiment.MaxTokens < 1 {
		return fmt.Errorf("%w: sentiment.max_tokens must be positive, got %d", common.ErrInvalidConfig, c.Sentiment.MaxTokens)
	}
	if c.Inference.Endpoint == "" {
		return fmt.Errorf("%w: inference.endpoint", common.ErrMissingConfig)
	}
	for code := range c.Translation.Models {
		if len(code) != 2 {
			return fmt.Errorf("%w: translation.models key %q must be a 2-letter code", common.ErrInvalidConfig, code)
		}
	}
	return nil
}
