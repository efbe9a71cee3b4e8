// Package translate turns non-English review text into English using
// per-language-pair translation models that are loaded on first use.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/model"
	"golang.org/x/sync/singleflight"
)

// Model is a loaded translation model for one language pair.
type Model interface {
	Translate(ctx context.Context, text string) (string, error)
}

// LoaderFunc loads the translation model identified by modelID.
type LoaderFunc func(ctx context.Context, modelID string) (Model, error)

// DefaultModels maps 2-letter source codes to X→English model identifiers.
// "sp" is what a truncated "spa_Latn" tag turns into, so it shares the Spanish model.
var DefaultModels = map[string]string{
	"de": "Helsinki-NLP/opus-mt-de-en",
	"fr": "Helsinki-NLP/opus-mt-fr-en",
	"es": "Helsinki-NLP/opus-mt-es-en",
	"it": "Helsinki-NLP/opus-mt-it-en",
	"sp": "Helsinki-NLP/opus-mt-es-en",
}

// Translator translates text to English, caching one loaded model per language.
type Translator struct {
	load    LoaderFunc
	logger  *slog.Logger
	mapping map[string]string
	models  map[string]Model
	group   singleflight.Group
	mu      sync.RWMutex
}

// Option configures a Translator.
type Option func(*Translator)

// WithModels adds or overrides language-code to model mappings.
func WithModels(extra map[string]string) Option {
	return func(t *Translator) {
		for code, id := range extra {
			t.mapping[NormalizeLanguage(code)] = id
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = common.OrDefault(logger)
	}
}

// New creates a translator. No model is loaded until it is first needed.
func New(load LoaderFunc, opts ...Option) *Translator {
	t := &Translator{
		load:    load,
		logger:  slog.Default(),
		mapping: make(map[string]string, len(DefaultModels)),
		models:  make(map[string]Model),
	}
	for code, id := range DefaultModels {
		t.mapping[code] = id
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NormalizeLanguage reduces a detector language tag to the lower-cased 2-letter
// prefix used for every lookup ("deu_Latn" → "de").
func NormalizeLanguage(lang string) string {
	if len(lang) > 2 {
		lang = lang[:2]
	}
	return strings.ToLower(lang)
}

// ModelFor returns the model identifier serving lang, if any.
func (t *Translator) ModelFor(lang string) (string, bool) {
	id, ok := t.mapping[NormalizeLanguage(lang)]
	return id, ok
}

// SupportedLanguages returns the language codes with a translation model, sorted.
func (t *Translator) SupportedLanguages() []string {
	codes := make([]string, 0, len(t.mapping))
	for code := range t.mapping {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LoadedLanguages returns the language codes whose model is in the cache, sorted.
func (t *Translator) LoadedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	codes := make([]string, 0, len(t.models))
	for code := range t.models {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Translate returns English text for text written in sourceLang.
// It never fails: when no translation can be produced the input comes back
// unchanged and the result's Status says why.
func (t *Translator) Translate(ctx context.Context, text, sourceLang string) model.TranslationResult {
	passthrough := func(status model.TranslationStatus) model.TranslationResult {
		return model.TranslationResult{Text: text, Status: status}
	}

	if text == "" {
		return passthrough(model.TranslationSkipped)
	}

	lang := NormalizeLanguage(sourceLang)
	if lang == model.LanguageEnglish {
		return passthrough(model.TranslationSkipped)
	}

	modelID, ok := t.mapping[lang]
	if !ok {
		t.logger.Warn("No translation model found", "language", sourceLang)
		return passthrough(model.TranslationUnsupported)
	}

	m, err := t.model(ctx, lang, modelID)
	if err != nil {
		t.logger.Warn("Translation model unavailable", "language", lang, "model", modelID, "error", err)
		return passthrough(model.TranslationFailed)
	}

	translated, err := m.Translate(ctx, text)
	if err != nil {
		t.logger.Warn("Translation failed", "language", lang, "error", err)
		return passthrough(model.TranslationFailed)
	}

	return model.TranslationResult{Text: translated, Status: model.TranslationApplied}
}

// model returns the cached model for lang, loading it at most once even under
// concurrent first use. Failed loads are not cached.
func (t *Translator) model(ctx context.Context, lang, modelID string) (Model, error) {
	t.mu.RLock()
	m, ok := t.models[lang]
	t.mu.RUnlock()
	if ok {
		return m, nil
	}

	v, err, _ := t.group.Do(lang, func() (any, error) {
		t.mu.RLock()
		cached, ok := t.models[lang]
		t.mu.RUnlock()
		if ok {
			return cached, nil
		}

		if t.load == nil {
			return nil, fmt.Errorf("%w: no translation loader configured", common.ErrModelUnavailable)
		}

		t.logger.Info("Loading translation model", "language", lang, "model", modelID)
		loaded, err := t.load(ctx, modelID)
		if err != nil {
			return nil, err
		}

		t.mu.Lock()
		t.models[lang] = loaded
		t.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Model), nil
}
