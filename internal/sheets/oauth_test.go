package sheets

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens", "sheets.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, saveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, loaded.Expiry.Equal(token.Expiry))
}

func TestLoadToken_Missing(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestCallbackHandler(t *testing.T) {
	codes := make(chan string, 1)
	errs := make(chan error, 1)
	h := callbackHandler("expected-state", codes, errs)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, codes)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/callback?state=expected-state", nil))
	assert.Contains(t, rec.Body.String(), "Authentication Failed")
	require.Len(t, errs, 1)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/callback?state=expected-state&code=abc", nil))
	assert.Contains(t, rec.Body.String(), "Authentication Successful")
	assert.Equal(t, "abc", <-codes)
}
