package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/model"
)

// Model is a handle to a model loaded in the backend.
type Model struct {
	client *Client
	handle string
	name   string
	device string
}

// Name returns the model identifier or artifact path the handle was loaded from.
func (m *Model) Name() string { return m.name }

// Device returns where the backend placed the model (e.g. "cpu", "cuda").
func (m *Model) Device() string { return m.device }

type predictRequest struct {
	Text string `json:"text"`
	K    int    `json:"k"`
}

type classifyRequest struct {
	Text       string `json:"text"`
	Truncation bool   `json:"truncation"`
	MaxLength  int    `json:"max_length,omitempty"`
}

type translateRequest struct {
	Text       string `json:"text"`
	Truncation bool   `json:"truncation"`
}

type predictionsResponse struct {
	Predictions []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	} `json:"predictions"`
}

type translateResponse struct {
	TranslationText string `json:"translation_text"`
}

// Predict returns the top k labels for text. Used for language identification.
func (m *Model) Predict(ctx context.Context, text string, k int) (model.Predictions, error) {
	if k <= 0 {
		k = 1
	}
	var resp predictionsResponse
	if err := m.call(ctx, "predict", predictRequest{Text: text, K: k}, &resp); err != nil {
		return nil, err
	}
	return resp.predictions(m.name)
}

// Classify runs a text classifier with input truncated to maxLength tokens.
func (m *Model) Classify(ctx context.Context, text string, maxLength int) (model.Predictions, error) {
	var resp predictionsResponse
	req := classifyRequest{Text: text, Truncation: true, MaxLength: maxLength}
	if err := m.call(ctx, "classify", req, &resp); err != nil {
		return nil, err
	}
	return resp.predictions(m.name)
}

// Translate runs a translation model over text.
func (m *Model) Translate(ctx context.Context, text string) (string, error) {
	var resp translateResponse
	if err := m.call(ctx, "translate", translateRequest{Text: text, Truncation: true}, &resp); err != nil {
		return "", err
	}
	return resp.TranslationText, nil
}

// call performs one inference request. Inference calls are not retried.
func (m *Model) call(ctx context.Context, op string, payload, v any) error {
	path := fmt.Sprintf("/v1/models/%s/%s", url.PathEscape(m.handle), op)
	if err := m.client.do(ctx, http.MethodPost, path, payload, v); err != nil {
		var retryable *common.RetryableError
		if errors.As(err, &retryable) {
			err = retryable.Err
		}
		return fmt.Errorf("%s %s: %w", op, m.name, err)
	}
	return nil
}

// predictions validates the backend output and orders it by score, highest first.
func (r predictionsResponse) predictions(name string) (model.Predictions, error) {
	preds := make(model.Predictions, 0, len(r.Predictions))
	for _, p := range r.Predictions {
		pred := model.Prediction{Label: p.Label, Score: p.Score}
		if err := pred.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s returned an invalid prediction: %w", ErrBackend, name, err)
		}
		pred.Score = min(pred.Score, 1.0)
		preds = append(preds, pred)
	}
	preds.Sort()
	return preds, nil
}
