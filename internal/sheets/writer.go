package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/report"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Tab names written by the exporter.
const (
	TabSummary   = "Summary"
	TabProducts  = "Products"
	TabLanguages = "Languages"
)

// Tab is a block of rows destined for one sheet.
type Tab struct {
	Title  string
	Values [][]any
}

// Writer exports reports to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewWriterWithService(service, config, logger), nil
}

// NewWriterWithService wraps an existing Sheets service.
func NewWriterWithService(service *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Writer{
		config:  config,
		service: service,
		logger:  common.OrDefault(logger),
	}
}

// Write replaces the Summary, Products and Languages tabs with r and returns
// the spreadsheet ID.
func (w *Writer) Write(ctx context.Context, r report.Report) (string, error) {
	w.logger.Info("starting sheets export",
		"products", len(r.Products),
		"languages", len(r.Breakdown))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	sheetIDs, err := w.ensureTabs(ctx, spreadsheetID)
	if err != nil {
		return "", fmt.Errorf("failed to prepare tabs: %w", err)
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	for _, tab := range BuildTabs(r) {
		err := common.WithRetry(ctx, func() error {
			if err := w.clearTab(ctx, spreadsheetID, tab.Title); err != nil {
				return fmt.Errorf("failed to clear %s: %w", tab.Title, err)
			}
			return w.writeData(ctx, spreadsheetID, tab)
		}, retryOpts)
		if err != nil {
			return "", fmt.Errorf("failed to write %s: %w", tab.Title, err)
		}
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, sheetIDs)
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets export completed", "spreadsheet_id", spreadsheetID)
	return spreadsheetID, nil
}

// BuildTabs lays out a report as sheet rows.
func BuildTabs(r report.Report) []Tab {
	summary := [][]any{
		{"Multilingual Review Report", time.Now().UTC().Format(time.RFC3339)},
		{},
		{"Total Reviews", r.Summary.Total},
		{"Positive", r.Summary.Positive},
		{"Negative", r.Summary.Negative},
		{"Positivity %", r.Summary.PositivityRate},
	}
	if r.Source != "" {
		summary = append(summary, []any{"Source", r.Source})
	}
	if len(r.Languages) > 0 {
		langs := make([]any, 0, len(r.Languages)+1)
		langs = append(langs, "Languages")
		for _, l := range r.Languages {
			langs = append(langs, l)
		}
		summary = append(summary, langs)
	}
	if r.Winner != nil {
		summary = append(summary, []any{}, []any{report.WinnerLine(*r.Winner)})
	}

	products := make([][]any, 0, len(r.Products)+1)
	products = append(products, []any{"Product", "Positivity %", "Reviews"})
	for _, p := range r.Products {
		products = append(products, []any{p.ProductID, p.PositivityRate, p.ReviewCount})
	}

	languages := make([][]any, 0, len(r.Breakdown)+1)
	languages = append(languages, []any{"Language", "Name", "Reviews"})
	for _, l := range r.Breakdown {
		languages = append(languages, []any{l.Language, l.Name, l.Count})
	}

	return []Tab{
		{Title: TabSummary, Values: summary},
		{Title: TabProducts, Values: products},
		{Title: TabLanguages, Values: languages},
	}
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: TabSummary}},
			{Properties: &sheets.SheetProperties{Title: TabProducts}},
			{Properties: &sheets.SheetProperties{Title: TabLanguages}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// ensureTabs adds any missing report tabs and returns the sheet ID of each.
func (w *Writer) ensureTabs(ctx context.Context, spreadsheetID string) (map[string]int64, error) {
	existing, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", spreadsheetID, err)
	}

	ids := make(map[string]int64)
	for _, s := range existing.Sheets {
		if s.Properties != nil {
			ids[s.Properties.Title] = s.Properties.SheetId
		}
	}

	var requests []*sheets.Request
	for _, title := range []string{TabSummary, TabProducts, TabLanguages} {
		if _, ok := ids[title]; !ok {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			})
		}
	}
	if len(requests) == 0 {
		return ids, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to add tabs: %w", err)
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			ids[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}
	return ids, nil
}

// clearTab clears all data from one tab.
func (w *Writer) clearTab(ctx context.Context, spreadsheetID, title string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, title+"!A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes a tab's rows in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, tab Tab) error {
	for i := 0; i < len(tab.Values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(tab.Values))

		batch := tab.Values[i:end]
		rangeStr := fmt.Sprintf("%s!A%d", tab.Title, i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "tab", tab.Title, "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting bolds and freezes the header row of each table tab.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetIDs map[string]int64) error {
	var requests []*sheets.Request
	for _, title := range []string{TabProducts, TabLanguages} {
		id, ok := sheetIDs[title]
		if !ok {
			continue
		}
		requests = append(requests,
			&sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:       id,
						StartRowIndex: 0,
						EndRowIndex:   1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat: &sheets.TextFormat{Bold: true},
						},
					},
					Fields: "userEnteredFormat.textFormat",
				},
			},
			&sheets.Request{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId:        id,
						GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
			&sheets.Request{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:    id,
						Dimension:  "COLUMNS",
						StartIndex: 0,
						EndIndex:   3,
					},
				},
			},
		)
	}
	if len(requests) == 0 {
		return nil
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
