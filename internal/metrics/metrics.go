// Package metrics exposes batch-run counters in the Prometheus text format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/polyreview/internal/model"
	"github.com/Veraticus/polyreview/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
)

// Row outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Collector records per-row pipeline outcomes. It implements pipeline.Recorder.
type Collector struct {
	reg          *prometheus.Registry
	Rows         *prometheus.CounterVec
	Translations *prometheus.CounterVec
	Sentiments   *prometheus.CounterVec
	RowLatency   prometheus.Histogram
	ModelsLoaded prometheus.Gauge
	LastRun      prometheus.Gauge
}

// NewCollector builds a collector on its own registry.
func NewCollector() *Collector {
	r := prometheus.NewRegistry()
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polyreview_rows_total",
		Help: "Reviews processed, by outcome.",
	}, []string{"outcome"})
	translations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polyreview_translations_total",
		Help: "Translation attempts, by detected language and status.",
	}, []string{"language", "status"})
	sentiments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polyreview_sentiment_total",
		Help: "Sentiment labels assigned.",
	}, []string{"label"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "polyreview_row_duration_seconds",
		Help:    "Time spent enriching one review.",
		Buckets: prometheus.DefBuckets,
	})
	loaded := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "polyreview_translation_models_loaded",
		Help: "Translation models held in the cache.",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "polyreview_last_run_timestamp_seconds",
		Help: "Unix time the last batch finished.",
	})

	r.MustRegister(rows, translations, sentiments, latency, loaded, lastRun)
	return &Collector{
		reg:          r,
		Rows:         rows,
		Translations: translations,
		Sentiments:   sentiments,
		RowLatency:   latency,
		ModelsLoaded: loaded,
		LastRun:      lastRun,
	}
}

// RecordRow implements pipeline.Recorder.
func (c *Collector) RecordRow(o pipeline.Outcome) {
	c.RowLatency.Observe(o.Duration.Seconds())
	if o.Failed() {
		c.Rows.WithLabelValues(OutcomeFailed).Inc()
		return
	}
	c.Rows.WithLabelValues(OutcomeOK).Inc()
	c.Sentiments.WithLabelValues(string(o.Sentiment)).Inc()
	if o.Translation != "" && o.Language != model.LanguageEnglish {
		c.Translations.WithLabelValues(o.Language, string(o.Translation)).Inc()
	}
}

// Finish stamps the end of a batch and the size of the translation cache.
func (c *Collector) Finish(loadedModels int) {
	c.ModelsLoaded.Set(float64(loadedModels))
	c.LastRun.SetToCurrentTime()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// WriteTextfile writes every metric to path for the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.reg); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
