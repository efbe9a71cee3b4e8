package model

import "strconv"

// Language sentinels.
const (
	LanguageEnglish = "en"
	LanguageUnknown = "unknown"
	LanguageError   = "error"
)

// Output table column names appended after the input columns.
const (
	ColumnOriginalLang   = "original_lang"
	ColumnLangConf       = "lang_conf"
	ColumnTranslatedText = "translated_text"
	ColumnSentimentLabel = "sentiment_label"
	ColumnSentimentScore = "sentiment_score"
)

// ResultColumns lists the enrichment columns in output order.
var ResultColumns = []string{
	ColumnOriginalLang,
	ColumnLangConf,
	ColumnTranslatedText,
	ColumnSentimentLabel,
	ColumnSentimentScore,
}

// DetectionResult is the outcome of language identification for one review.
type DetectionResult struct {
	Language   string
	Confidence float64
}

// UnknownLanguage is returned for empty text without consulting a model.
var UnknownLanguage = DetectionResult{Language: LanguageUnknown}

// TranslationStatus records what the translator did with a piece of text.
type TranslationStatus string

// Translation status constants.
const (
	TranslationSkipped     TranslationStatus = "skipped"
	TranslationApplied     TranslationStatus = "translated"
	TranslationUnsupported TranslationStatus = "unsupported"
	TranslationFailed      TranslationStatus = "failed"
)

// TranslationResult holds English text and how it was obtained.
// For every status other than TranslationApplied, Text is the input unchanged.
type TranslationResult struct {
	Text   string
	Status TranslationStatus
}

// Translated reports whether a model actually produced the text.
func (r TranslationResult) Translated() bool {
	return r.Status == TranslationApplied
}

// SentimentLabel is the categorical sentiment of a review.
type SentimentLabel string

// Sentiment label constants.
const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
	SentimentError    SentimentLabel = "ERROR"

	// SentimentFailed is the lower-case label written by the batch driver
	// when a row could not be processed at all.
	SentimentFailed SentimentLabel = "neutral"
)

// SentimentResult is the outcome of sentiment scoring for one review.
type SentimentResult struct {
	Label SentimentLabel
	Score float64
}

// NeutralSentiment is returned for empty text without consulting a model.
var NeutralSentiment = SentimentResult{Label: SentimentNeutral}

// ErrorSentiment is returned when the sentiment model fails.
var ErrorSentiment = SentimentResult{Label: SentimentError}

// Enrichment is the merged result of running one review through the pipeline.
type Enrichment struct {
	OriginalLang   string
	TranslatedText string
	SentimentLabel SentimentLabel
	LangConf       float64
	SentimentScore float64
}

// FailedEnrichment is the substitute record for a review whose processing failed.
func FailedEnrichment(text string) Enrichment {
	return Enrichment{
		OriginalLang:   LanguageError,
		TranslatedText: text,
		SentimentLabel: SentimentFailed,
	}
}

// Failed reports whether this is the batch driver's substitute record.
func (e Enrichment) Failed() bool {
	return e.OriginalLang == LanguageError
}

// Value returns the string form of an enrichment column.
func (e Enrichment) Value(column string) string {
	switch column {
	case ColumnOriginalLang:
		return e.OriginalLang
	case ColumnLangConf:
		return formatFloat(e.LangConf)
	case ColumnTranslatedText:
		return e.TranslatedText
	case ColumnSentimentLabel:
		return string(e.SentimentLabel)
	case ColumnSentimentScore:
		return formatFloat(e.SentimentScore)
	default:
		return ""
	}
}

// EnrichedReview is one row of the output table.
type EnrichedReview struct {
	Enrichment
	Review
}

// IsPositive reports whether the row's sentiment is POSITIVE.
func (r EnrichedReview) IsPositive() bool {
	return r.SentimentLabel == SentimentPositive
}

// Value returns the string value of any input or output column.
func (r EnrichedReview) Value(column string) string {
	for _, c := range ResultColumns {
		if c == column {
			return r.Enrichment.Value(column)
		}
	}
	return r.Review.Value(column)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
