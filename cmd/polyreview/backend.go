package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/config"
	"github.com/Veraticus/polyreview/internal/hub"
	"github.com/Veraticus/polyreview/internal/inference"
	"github.com/Veraticus/polyreview/internal/langid"
	"github.com/Veraticus/polyreview/internal/sentiment"
	"github.com/Veraticus/polyreview/internal/translate"
)

// analyzers holds the three model adapters a run needs. Each owns its loaded model.
type analyzers struct {
	detector   *langid.Identifier
	translator *translate.Translator
	scorer     *sentiment.Scorer
}

func newInferenceClient(cfg config.Config, logger *slog.Logger) (*inference.Client, error) {
	return inference.NewClient(inference.Config{
		Endpoint: cfg.Inference.Endpoint,
		APIKey:   cfg.Inference.APIKey,
		Timeout:  cfg.Inference.Timeout,
		Retry:    common.DefaultRetryOptions(),
	}, logger)
}

func newHubFetcher(cfg config.Config, logger *slog.Logger) (*hub.Fetcher, error) {
	return hub.NewFetcher(hub.Config{
		Endpoint: cfg.Hub.Endpoint,
		Revision: cfg.Hub.Revision,
		Token:    cfg.Hub.Token,
		Retry:    common.DefaultRetryOptions(),
	}, logger)
}

func langIDConfig(cfg config.Config) langid.Config {
	return langid.Config{
		ModelsDir: cfg.ModelsDir,
		Repo:      cfg.LangID.Repo,
		Filename:  cfg.LangID.Filename,
		LocalName: cfg.LangID.LocalName,
	}
}

// loadAnalyzers builds the detector and the scorer eagerly and the translator
// lazily. Any failure here stops the run before a single row is processed.
func loadAnalyzers(ctx context.Context, cfg config.Config, logger *slog.Logger) (*analyzers, error) {
	client, err := newInferenceClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	fetcher, err := newHubFetcher(cfg, logger)
	if err != nil {
		return nil, err
	}

	detector, err := langid.New(ctx, langIDConfig(cfg), fetcher, languageLoader(client), logger)
	if err != nil {
		return nil, err
	}

	classifier, err := client.Load(ctx, inference.LoadRequest{
		Task:  inference.TaskSentiment,
		Model: cfg.Sentiment.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: sentiment model %s: %w", common.ErrModelUnavailable, cfg.Sentiment.Model, err)
	}
	logger.Info("Sentiment model loaded", "model", cfg.Sentiment.Model, "device", classifier.Device())

	translator := translate.New(translationLoader(client),
		translate.WithModels(cfg.Translation.Models),
		translate.WithLogger(logger),
	)

	return &analyzers{
		detector:   detector,
		translator: translator,
		scorer:     sentiment.New(classifier, cfg.Sentiment.MaxTokens, logger),
	}, nil
}

func languageLoader(client *inference.Client) langid.LoaderFunc {
	return func(ctx context.Context, path string) (langid.Classifier, error) {
		m, err := client.Load(ctx, inference.LoadRequest{Task: inference.TaskLanguageID, Path: path})
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

func translationLoader(client *inference.Client) translate.LoaderFunc {
	return func(ctx context.Context, modelID string) (translate.Model, error) {
		m, err := client.Load(ctx, inference.LoadRequest{Task: inference.TaskTranslation, Model: modelID})
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}
