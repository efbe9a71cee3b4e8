package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Veraticus/polyreview/internal/analytics"
	"github.com/Veraticus/polyreview/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func enriched(product int, lang string, label model.SentimentLabel) model.EnrichedReview {
	return model.EnrichedReview{
		Review:     model.Review{ProductID: product},
		Enrichment: model.Enrichment{OriginalLang: lang, SentimentLabel: label},
	}
}

func sampleReport() Report {
	rows := []model.EnrichedReview{
		enriched(101, "en", model.SentimentPositive),
		enriched(101, "de", model.SentimentNegative),
		enriched(102, "fr", model.SentimentPositive),
		enriched(102, "es", model.SentimentPositive),
		enriched(103, "de", model.SentimentNegative),
	}
	return Build(analytics.New(rows), "data/processed_reviews.csv", nil)
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", " yaml ", "csv"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestBuild(t *testing.T) {
	r := sampleReport()

	require.NotNil(t, r.Winner)
	assert.Equal(t, 102, r.Winner.ProductID)
	assert.Equal(t, []int{102, 101, 103}, []int{r.Products[0].ProductID, r.Products[1].ProductID, r.Products[2].ProductID})
	assert.Equal(t, model.Summary{Total: 5, Positive: 3, Negative: 2, PositivityRate: 60}, r.Summary)
	assert.Equal(t, "de", r.Breakdown[0].Language)
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatTable))

	out := buf.String()
	assert.Contains(t, out, "WINNER: Product 102 with 100% positive feedback")
	assert.Contains(t, out, "Positivity by product")
	assert.Contains(t, out, "German")

	// Products appear in descending order of positivity.
	i102 := strings.Index(out, "102")
	i101 := strings.Index(out, "101")
	i103 := strings.Index(out, "103")
	assert.True(t, i102 < i101 && i101 < i103, "products out of order:\n%s", out)
}

func TestRender_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(analytics.New(nil), "", []string{"ja"}), FormatTable))
	assert.Contains(t, buf.String(), "No reviews match")
	assert.NotContains(t, buf.String(), "WINNER")
}

func TestRender_JSONAndYAMLCarrySameData(t *testing.T) {
	r := sampleReport()

	var jbuf, ybuf bytes.Buffer
	require.NoError(t, Render(&jbuf, r, FormatJSON))
	require.NoError(t, Render(&ybuf, r, FormatYAML))

	var fromJSON, fromYAML Report
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &fromJSON))
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &fromYAML))

	assert.Equal(t, r, fromJSON)
	assert.Equal(t, fromJSON, fromYAML)
	assert.Contains(t, ybuf.String(), "positivity_rate: 100")
}

func TestRender_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatCSV))
	assert.Equal(t, "product_id,positivity_rate,review_count\n102,100,2\n101,50,2\n103,0,1\n", buf.String())
}

func TestWinnerLine(t *testing.T) {
	assert.Equal(t, "WINNER: Product 104 with 66.7% positive feedback",
		WinnerLine(model.ProductStats{ProductID: 104, PositivityRate: 66.7}))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", Bar(1, 0, 10))
	assert.Equal(t, 10, strings.Count(Bar(50, 100, 10), "█")+strings.Count(Bar(50, 100, 10), "░"))
	assert.Equal(t, 10, strings.Count(Bar(200, 100, 10), "█"))
}
