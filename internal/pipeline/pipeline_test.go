package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/model"
	"github.com/Veraticus/polyreview/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeDetector struct {
	langs map[string]model.DetectionResult
	fail  map[string]error
	panic map[string]bool
	calls atomic.Int32
}

func (d *fakeDetector) Detect(_ context.Context, text string) (model.DetectionResult, error) {
	d.calls.Add(1)
	if d.panic[text] {
		panic("native crash")
	}
	if err := d.fail[text]; err != nil {
		return model.DetectionResult{}, err
	}
	if text == "" {
		return model.UnknownLanguage, nil
	}
	if r, ok := d.langs[text]; ok {
		return r, nil
	}
	return model.DetectionResult{Language: "en", Confidence: 0.99}, nil
}

type fakeTranslator struct {
	mu    sync.Mutex
	calls []string
}

func (t *fakeTranslator) Translate(_ context.Context, text, lang string) model.TranslationResult {
	t.mu.Lock()
	t.calls = append(t.calls, lang)
	t.mu.Unlock()
	if text == "" || lang == "unknown" {
		return model.TranslationResult{Text: text, Status: model.TranslationSkipped}
	}
	return model.TranslationResult{Text: "EN(" + text + ")", Status: model.TranslationApplied}
}

type fakeScorer struct{}

func (fakeScorer) Analyze(_ context.Context, text string) model.SentimentResult {
	if text == "" {
		return model.NeutralSentiment
	}
	return model.SentimentResult{Label: model.SentimentPositive, Score: 0.9}
}

type countingProgress struct {
	started  int
	advanced atomic.Int32
	finished bool
}

func (p *countingProgress) Start(total int) { p.started = total }
func (p *countingProgress) Advance()        { p.advanced.Add(1) }
func (p *countingProgress) Finish()         { p.finished = true }

type collectingRecorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *collectingRecorder) RecordRow(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func reviews(texts ...string) []model.Review {
	out := make([]model.Review, len(texts))
	for i, text := range texts {
		out[i] = model.Review{ID: fmt.Sprint(i + 1), ProductID: 101 + i%2, Text: text}
	}
	return out
}

func TestProcessReview_EnglishPassthrough(t *testing.T) {
	tr := &fakeTranslator{}
	p := New(&fakeDetector{}, tr, fakeScorer{}, WithLogger(quiet))

	got, err := p.ProcessReview(context.Background(), "I love this product!")
	require.NoError(t, err)

	assert.Equal(t, model.Enrichment{
		OriginalLang:   "en",
		LangConf:       0.99,
		TranslatedText: "I love this product!",
		SentimentLabel: model.SentimentPositive,
		SentimentScore: 0.9,
	}, got)
	assert.Empty(t, tr.calls, "english text must not reach the translator")
}

func TestProcessReview_Translates(t *testing.T) {
	det := &fakeDetector{langs: map[string]model.DetectionResult{
		"Das ist super!": {Language: "de", Confidence: 0.97},
	}}
	tr := &fakeTranslator{}
	p := New(det, tr, fakeScorer{}, WithLogger(quiet))

	got, err := p.ProcessReview(context.Background(), "Das ist super!")
	require.NoError(t, err)
	assert.Equal(t, "de", got.OriginalLang)
	assert.Equal(t, "EN(Das ist super!)", got.TranslatedText)
	assert.Equal(t, []string{"de"}, tr.calls)
}

func TestProcessReview_EmptyText(t *testing.T) {
	p := New(&fakeDetector{}, &fakeTranslator{}, fakeScorer{}, WithLogger(quiet))

	got, err := p.ProcessReview(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, model.Enrichment{
		OriginalLang:   model.LanguageUnknown,
		SentimentLabel: model.SentimentNeutral,
	}, got)
}

func TestProcessReview_DetectorError(t *testing.T) {
	det := &fakeDetector{fail: map[string]error{"boom": errors.New("backend down")}}
	p := New(det, &fakeTranslator{}, fakeScorer{}, WithLogger(quiet))

	_, err := p.ProcessReview(context.Background(), "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestProcess_FaultIsolation(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			det := &fakeDetector{fail: map[string]error{"third": errors.New("model exploded")}}
			progress := &countingProgress{}
			recorder := &collectingRecorder{}
			p := NewWithConfig(det, &fakeTranslator{}, fakeScorer{}, Config{Workers: workers},
				WithLogger(quiet), WithProgress(progress), WithRecorder(recorder))

			input := reviews("first", "second", "third", "fourth", "fifth")
			rows, stats, err := p.Process(context.Background(), input)
			require.NoError(t, err)

			require.Len(t, rows, len(input))
			for i, row := range rows {
				assert.Equal(t, input[i], row.Review, "row %d out of order", i)
			}

			assert.Equal(t, model.Enrichment{
				OriginalLang:   "error",
				LangConf:       0,
				TranslatedText: "third",
				SentimentLabel: "neutral",
				SentimentScore: 0,
			}, rows[2].Enrichment)
			for _, i := range []int{0, 1, 3, 4} {
				assert.Equal(t, "en", rows[i].OriginalLang)
				assert.Equal(t, model.SentimentPositive, rows[i].SentimentLabel)
			}

			assert.Equal(t, 5, stats.Total)
			assert.Equal(t, 1, stats.Failed)
			assert.Equal(t, 5, progress.started)
			assert.Equal(t, int32(5), progress.advanced.Load())
			assert.True(t, progress.finished)
			assert.Len(t, recorder.outcomes, 5)
		})
	}
}

func TestProcess_RecoversPanics(t *testing.T) {
	det := &fakeDetector{panic: map[string]bool{"crash": true}}
	p := New(det, &fakeTranslator{}, fakeScorer{}, WithLogger(quiet))

	rows, stats, err := p.Process(context.Background(), reviews("ok", "crash", "ok again"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[1].Failed())
	assert.Equal(t, "crash", rows[1].TranslatedText)
	assert.False(t, rows[2].Failed())
	assert.Equal(t, 1, stats.Failed)
}

func TestProcess_CountsTranslations(t *testing.T) {
	det := &fakeDetector{langs: map[string]model.DetectionResult{
		"Très bon": {Language: "fr", Confidence: 0.9},
		"Muy bien": {Language: "es", Confidence: 0.9},
	}}
	p := New(det, &fakeTranslator{}, fakeScorer{}, WithLogger(quiet))

	_, stats, err := p.Process(context.Background(), reviews("Très bon", "fine", "Muy bien", ""))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Translated)
	assert.Equal(t, 0, stats.Failed)
}

func TestProcess_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	det := &fakeDetector{}
	p := New(det, &fakeTranslator{}, fakeScorer{}, WithLogger(quiet))

	rows, _, err := p.Process(ctx, reviews("a", "b", "c"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, rows)
	assert.Equal(t, int32(0), det.calls.Load())
}

type memorySource struct {
	ds  *table.Dataset
	err error
}

func (s memorySource) Load(context.Context) (*table.Dataset, error) { return s.ds, s.err }

type memorySink struct {
	header []string
	rows   []model.EnrichedReview
	saved  bool
}

func (s *memorySink) Save(_ context.Context, header []string, rows []model.EnrichedReview) error {
	s.header, s.rows, s.saved = header, rows, true
	return nil
}

func TestRun(t *testing.T) {
	src := memorySource{ds: &table.Dataset{
		Header:  []string{"id", "product_id", "label", "text"},
		Reviews: reviews("one", "two"),
	}}
	sink := &memorySink{}
	p := New(&fakeDetector{}, &fakeTranslator{}, fakeScorer{}, WithLogger(quiet))

	result, err := p.Run(context.Background(), src, sink)
	require.NoError(t, err)

	assert.True(t, sink.saved)
	assert.Equal(t, append([]string{"id", "product_id", "label", "text"}, model.ResultColumns...), sink.header)
	assert.Len(t, sink.rows, 2)
	assert.Equal(t, sink.rows, result.Rows)
	assert.Equal(t, 2, result.Stats.Total)
}

func TestRun_MissingInput(t *testing.T) {
	src := table.CSVSource{Path: filepath.Join(t.TempDir(), "reviews.csv"), Hint: table.HintGenerateData}
	sink := &memorySink{}
	p := New(&fakeDetector{}, &fakeTranslator{}, fakeScorer{}, WithLogger(quiet))

	_, err := p.Run(context.Background(), src, sink)
	assert.ErrorIs(t, err, common.ErrInputNotFound)
	assert.False(t, sink.saved)
}

func TestRun_CanceledWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := memorySource{ds: &table.Dataset{Header: model.InputColumns, Reviews: reviews("x")}}
	sink := &memorySink{}
	p := New(&fakeDetector{}, &fakeTranslator{}, fakeScorer{}, WithLogger(quiet))

	_, err := p.Run(ctx, src, sink)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, sink.saved)
}

func TestRun_CSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "reviews.csv")
	out := filepath.Join(dir, "processed.csv")

	rows := []model.EnrichedReview{{Review: model.Review{ID: "1", ProductID: 101, Label: 1, Text: "Good"}}}
	require.NoError(t, table.WriteEnriched(in, model.InputColumns, rows))

	p := New(&fakeDetector{}, &fakeTranslator{}, fakeScorer{}, WithLogger(quiet))
	_, err := p.Run(context.Background(), table.CSVSource{Path: in}, table.CSVSink{Path: out})
	require.NoError(t, err)

	_, loaded, err := table.LoadEnriched(out)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "en", loaded[0].OriginalLang)
	assert.Equal(t, model.SentimentPositive, loaded[0].SentimentLabel)
}
