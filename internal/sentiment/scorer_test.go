package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/polyreview/internal/model"
	"github.com/stretchr/testify/assert"
)

type stubClassifier struct {
	err        error
	preds      model.Predictions
	calls      int
	lastLength int
}

func (s *stubClassifier) Classify(_ context.Context, _ string, maxLength int) (model.Predictions, error) {
	s.calls++
	s.lastLength = maxLength
	return s.preds, s.err
}

func TestScorer_Analyze(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		stub      *stubClassifier
		want      model.SentimentResult
		wantCalls int
	}{
		{
			name:      "empty text is neutral",
			text:      "",
			stub:      &stubClassifier{},
			want:      model.SentimentResult{Label: model.SentimentNeutral, Score: 0},
			wantCalls: 0,
		},
		{
			name:      "positive",
			text:      "I love this product! It's amazing.",
			stub:      &stubClassifier{preds: model.Predictions{{Label: "POSITIVE", Score: 0.9998}}},
			want:      model.SentimentResult{Label: model.SentimentPositive, Score: 0.9998},
			wantCalls: 1,
		},
		{
			name:      "lower-case labels are normalized",
			text:      "This is garbage.",
			stub:      &stubClassifier{preds: model.Predictions{{Label: "negative", Score: 0.97}}},
			want:      model.SentimentResult{Label: model.SentimentNegative, Score: 0.97},
			wantCalls: 1,
		},
		{
			name:      "model error becomes ERROR",
			text:      "anything",
			stub:      &stubClassifier{err: errors.New("CUDA out of memory")},
			want:      model.SentimentResult{Label: model.SentimentError, Score: 0},
			wantCalls: 1,
		},
		{
			name:      "no predictions becomes ERROR",
			text:      "anything",
			stub:      &stubClassifier{},
			want:      model.SentimentResult{Label: model.SentimentError, Score: 0},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.stub, 0, nil)
			assert.Equal(t, tt.want, s.Analyze(context.Background(), tt.text))
			assert.Equal(t, tt.wantCalls, tt.stub.calls)
		})
	}
}

func TestScorer_TruncationBudget(t *testing.T) {
	stub := &stubClassifier{preds: model.Predictions{{Label: "POSITIVE", Score: 0.8}}}

	New(stub, 0, nil).Analyze(context.Background(), "fine")
	assert.Equal(t, 512, stub.lastLength)

	New(stub, 128, nil).Analyze(context.Background(), "fine")
	assert.Equal(t, 128, stub.lastLength)
}
