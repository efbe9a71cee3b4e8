package sample

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/polyreview/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviews(t *testing.T) {
	reviews := Reviews()
	require.Len(t, reviews, 20)

	perLang := map[string]int{}
	perProduct := map[int]int{}
	for _, r := range reviews {
		perLang[strings.SplitN(r.ID, "_", 2)[0]]++
		perProduct[r.ProductID]++
		assert.NotEmpty(t, r.Text, r.ID)
	}
	assert.Equal(t, map[string]int{"en": 5, "de": 5, "fr": 5, "es": 5}, perLang)
	assert.Equal(t, map[int]int{101: 8, 102: 4, 103: 4, 104: 4}, perProduct)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "reviews.csv")

	n, err := Write(path)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	ds, err := table.LoadReviews(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "product_id", "label", "text"}, ds.Header)
	assert.Equal(t, Reviews(), ds.Reviews)
}
