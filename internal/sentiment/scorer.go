// Package sentiment scores English review text as POSITIVE or NEGATIVE.
package sentiment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/model"
)

// DefaultMaxTokens is the input budget of the default DistilBERT classifier.
const DefaultMaxTokens = 512

// Classifier is a loaded sentiment model.
type Classifier interface {
	Classify(ctx context.Context, text string, maxLength int) (model.Predictions, error)
}

// Scorer assigns a sentiment label to text. It owns its loaded classifier.
type Scorer struct {
	classifier Classifier
	logger     *slog.Logger
	maxTokens  int
}

// New wraps a loaded classifier. maxTokens <= 0 selects DefaultMaxTokens.
func New(classifier Classifier, maxTokens int, logger *slog.Logger) *Scorer {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Scorer{
		classifier: classifier,
		maxTokens:  maxTokens,
		logger:     common.OrDefault(logger),
	}
}

// Analyze returns the sentiment of text. Empty text is NEUTRAL; any model
// failure is reported as ERROR with a zero score instead of an error.
func (s *Scorer) Analyze(ctx context.Context, text string) model.SentimentResult {
	if text == "" {
		return model.NeutralSentiment
	}

	preds, err := s.classifier.Classify(ctx, text, s.maxTokens)
	if err != nil {
		s.logger.Error("Sentiment analysis failed", "error", err)
		return model.ErrorSentiment
	}

	top := preds.Top()
	if top == nil {
		s.logger.Error("Sentiment analysis failed", "error", common.ErrEmptyPrediction)
		return model.ErrorSentiment
	}

	return model.SentimentResult{
		Label: model.SentimentLabel(strings.ToUpper(top.Label)),
		Score: top.Score,
	}
}
