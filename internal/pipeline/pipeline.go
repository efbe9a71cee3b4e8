// Package pipeline enriches review rows with language, English text and sentiment.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/model"
	"golang.org/x/sync/errgroup"
)

// Detector identifies the language of a piece of text.
type Detector interface {
	Detect(ctx context.Context, text string) (model.DetectionResult, error)
}

// Translator renders text in English.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang string) model.TranslationResult
}

// Scorer assigns a sentiment label to English text.
type Scorer interface {
	Analyze(ctx context.Context, text string) model.SentimentResult
}

// Progress is told about every processed row.
type Progress interface {
	Start(total int)
	Advance()
	Finish()
}

// Recorder receives the outcome of every processed row.
type Recorder interface {
	RecordRow(outcome Outcome)
}

// Outcome describes how a single row went through the pipeline.
type Outcome struct {
	Err         error
	Language    string
	Translation model.TranslationStatus
	Sentiment   model.SentimentLabel
	Duration    time.Duration
}

// Failed reports whether the row was replaced by the failure record.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Stats summarizes a batch.
type Stats struct {
	Total      int
	Failed     int
	Translated int
	Duration   time.Duration
}

// Config holds configuration options for the pipeline.
type Config struct {
	Workers int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Workers: 1}
}

// Pipeline composes the three model adapters into the per-row transform.
type Pipeline struct {
	detector   Detector
	translator Translator
	scorer     Scorer
	progress   Progress
	recorder   Recorder
	logger     *slog.Logger
	workers    int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProgress attaches a progress observer.
func WithProgress(p Progress) Option {
	return func(pl *Pipeline) {
		pl.progress = p
	}
}

// WithRecorder attaches a per-row outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(pl *Pipeline) {
		pl.recorder = r
	}
}

// WithLogger sets the logger used for per-row warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(pl *Pipeline) {
		pl.logger = logger
	}
}

// New creates a pipeline with the default configuration.
func New(detector Detector, translator Translator, scorer Scorer, opts ...Option) *Pipeline {
	return NewWithConfig(detector, translator, scorer, DefaultConfig(), opts...)
}

// NewWithConfig creates a pipeline with a custom configuration.
func NewWithConfig(detector Detector, translator Translator, scorer Scorer, cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		detector:   detector,
		translator: translator,
		scorer:     scorer,
		workers:    cfg.Workers,
	}
	if p.workers < 1 {
		p.workers = 1
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = common.OrDefault(p.logger)
	return p
}

// ProcessReview runs one text through detection, translation and scoring.
// Text detected as exactly "en" is scored as-is.
func (p *Pipeline) ProcessReview(ctx context.Context, text string) (model.Enrichment, error) {
	enrichment, _, err := p.processReview(ctx, text)
	return enrichment, err
}

func (p *Pipeline) processReview(ctx context.Context, text string) (model.Enrichment, model.TranslationStatus, error) {
	detected, err := p.detector.Detect(ctx, text)
	if err != nil {
		return model.Enrichment{}, "", fmt.Errorf("language detection failed: %w", err)
	}

	translation := model.TranslationResult{Text: text, Status: model.TranslationSkipped}
	if detected.Language != model.LanguageEnglish {
		translation = p.translator.Translate(ctx, text, detected.Language)
	}

	sentiment := p.scorer.Analyze(ctx, translation.Text)

	return model.Enrichment{
		OriginalLang:   detected.Language,
		LangConf:       detected.Confidence,
		TranslatedText: translation.Text,
		SentimentLabel: sentiment.Label,
		SentimentScore: sentiment.Score,
	}, translation.Status, nil
}

// Process enriches every review. A row that fails for any reason, including
// a panic in a model adapter, gets the failure record instead. Output order
// matches input order. The only error returned is the context's.
func (p *Pipeline) Process(ctx context.Context, reviews []model.Review) ([]model.EnrichedReview, Stats, error) {
	start := time.Now()
	rows := make([]model.EnrichedReview, len(reviews))
	outcomes := make([]Outcome, len(reviews))

	if p.progress != nil {
		p.progress.Start(len(reviews))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range reviews {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i], outcomes[i] = p.processRow(gctx, reviews[i])
			if p.recorder != nil {
				p.recorder.RecordRow(outcomes[i])
			}
			if p.progress != nil {
				p.progress.Advance()
			}
			return nil
		})
	}

	err := g.Wait()
	if p.progress != nil {
		p.progress.Finish()
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{Total: len(rows), Duration: time.Since(start)}
	for _, o := range outcomes {
		if o.Failed() {
			stats.Failed++
		}
		if o.Translation == model.TranslationApplied {
			stats.Translated++
		}
	}
	return rows, stats, nil
}

func (p *Pipeline) processRow(ctx context.Context, review model.Review) (row model.EnrichedReview, outcome Outcome) {
	start := time.Now()
	row.Review = review

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("panic: %v", r)
		}
		if outcome.Err != nil {
			p.logger.Warn("Failed to process review",
				"id", review.ID,
				"product_id", review.ProductID,
				"error", outcome.Err)
			row.Enrichment = model.FailedEnrichment(review.Text)
			outcome.Language = model.LanguageError
			outcome.Sentiment = model.SentimentFailed
			outcome.Translation = ""
		}
		outcome.Duration = time.Since(start)
	}()

	enrichment, status, err := p.processReview(ctx, review.Text)
	if err != nil {
		outcome.Err = err
		return row, outcome
	}

	row.Enrichment = enrichment
	outcome.Language = enrichment.OriginalLang
	outcome.Translation = status
	outcome.Sentiment = enrichment.SentimentLabel
	return row, outcome
}
