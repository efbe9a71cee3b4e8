package config

import (
	"testing"

	"github.com/Veraticus/polyreview/internal/sheets"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSheetsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSheetsConfig_FromViper(t *testing.T) {
	clearSheetsEnv(t)
	t.Setenv("HOME", "/home/tester")

	v := viper.New()
	v.Set("sheets.service_account_path", "~/keys/sa.json")
	v.Set("sheets.spreadsheet_id", "abc123")

	cfg, err := LoadSheetsConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/keys/sa.json", cfg.ServiceAccountPath)
	assert.Equal(t, "abc123", cfg.SpreadsheetID)
	assert.Equal(t, sheets.DefaultSpreadsheetName, cfg.SpreadsheetName)
}

func TestLoadSheetsConfig_EnvFallback(t *testing.T) {
	clearSheetsEnv(t)
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")

	cfg, err := LoadSheetsConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "refresh", cfg.RefreshToken)
}

func TestLoadSheetsConfig_NoAuth(t *testing.T) {
	clearSheetsEnv(t)

	_, err := LoadSheetsConfig(viper.New())
	assert.ErrorIs(t, err, sheets.ErrNoAuth)
}
