package config

import (
	"github.com/Veraticus/polyreview/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig builds the Google Sheets export configuration.
// Values come from viper (config file or POLYREVIEW_SHEETS_* variables) first,
// then from GOOGLE_SHEETS_* variables, then from defaults.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = ExpandPath(v.GetString("sheets.service_account_path"))
	cfg.ClientID = v.GetString("sheets.client_id")
	cfg.ClientSecret = v.GetString("sheets.client_secret")
	cfg.RefreshToken = v.GetString("sheets.refresh_token")
	cfg.SpreadsheetID = v.GetString("sheets.spreadsheet_id")
	if name := v.GetString("sheets.spreadsheet_name"); name != "" {
		cfg.SpreadsheetName = name
	}

	cfg.LoadFromEnv()
	cfg.ServiceAccountPath = ExpandPath(cfg.ServiceAccountPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
