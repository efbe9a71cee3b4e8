// Package langid identifies the language of review text using a pretrained
// fastText-style classifier.
package langid

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/model"
)

// labelPrefix is prepended to every label by fastText models.
const labelPrefix = "__label__"

// Classifier is a loaded language identification model.
type Classifier interface {
	Predict(ctx context.Context, text string, k int) (model.Predictions, error)
}

// Fetcher makes sure a model artifact exists on local disk.
type Fetcher interface {
	Ensure(ctx context.Context, repoID, filename, dest string) (bool, error)
}

// LoaderFunc loads the artifact at path into a Classifier.
type LoaderFunc func(ctx context.Context, path string) (Classifier, error)

// Config locates the language identification artifact.
type Config struct {
	ModelsDir string
	Repo      string
	Filename  string
	LocalName string
}

// Path returns where the artifact lives on local disk.
func (c Config) Path() string {
	return filepath.Join(c.ModelsDir, c.LocalName)
}

// Identifier detects the language of a text. It owns its loaded classifier.
type Identifier struct {
	classifier Classifier
	logger     *slog.Logger
}

// New ensures the artifact is present (fetching it if needed) and loads it once.
func New(ctx context.Context, cfg Config, fetcher Fetcher, load LoaderFunc, logger *slog.Logger) (*Identifier, error) {
	if cfg.LocalName == "" {
		return nil, fmt.Errorf("%w: language model file name", common.ErrMissingConfig)
	}
	if load == nil {
		return nil, fmt.Errorf("%w: language model loader", common.ErrMissingConfig)
	}
	logger = common.OrDefault(logger)

	path := cfg.Path()
	if fetcher != nil {
		downloaded, err := fetcher.Ensure(ctx, cfg.Repo, cfg.Filename, path)
		if err != nil {
			return nil, fmt.Errorf("%w: language identification artifact: %w", common.ErrModelUnavailable, err)
		}
		if downloaded {
			logger.Info("Downloaded language identification model", "path", path)
		}
	}

	classifier, err := load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load language model: %w", common.ErrModelUnavailable, err)
	}

	logger.Info("Language detection model loaded", "path", path)

	return NewWithClassifier(classifier, logger), nil
}

// NewWithClassifier wraps an already loaded classifier.
func NewWithClassifier(classifier Classifier, logger *slog.Logger) *Identifier {
	return &Identifier{
		classifier: classifier,
		logger:     common.OrDefault(logger),
	}
}

// Detect returns the language code and confidence for text.
// Empty text yields ("unknown", 0) without touching the model. Classifier
// errors are returned to the caller unchanged in kind.
func (i *Identifier) Detect(ctx context.Context, text string) (model.DetectionResult, error) {
	if text == "" {
		return model.UnknownLanguage, nil
	}

	preds, err := i.classifier.Predict(ctx, singleLine(text), 1)
	if err != nil {
		return model.DetectionResult{}, fmt.Errorf("language detection failed: %w", err)
	}

	top := preds.Top()
	if top == nil {
		return model.DetectionResult{}, fmt.Errorf("language detection failed: %w", common.ErrEmptyPrediction)
	}

	return model.DetectionResult{
		Language:   strings.TrimPrefix(top.Label, labelPrefix),
		Confidence: top.Score,
	}, nil
}

// singleLine collapses line breaks; fastText predicts one line at a time.
func singleLine(text string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
}
