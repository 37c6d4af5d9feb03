package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/export"
)

// Repository appends report tables to a spreadsheet.
type Repository interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ExportTable(ctx context.Context, table export.Table, at time.Time) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRows appends the rows after the last filled row of sheetRange.
func (r *GoogleSheetRepository) AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: rows}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("rows appended to sheet", zap.String("range", sheetRange), zap.Int("rows", len(rows)))
	return nil
}

// ExportTable appends a dated copy of the table to the tab named after it.
// The header row is written only while the tab is still empty. The tab must
// already exist.
func (r *GoogleSheetRepository) ExportTable(ctx context.Context, table export.Table, at time.Time) error {
	rows := TableValues(table, at)

	empty, err := r.tabEmpty(ctx, table)
	if err != nil {
		return err
	}
	if empty {
		rows = append([][]interface{}{TableHeader(table)}, rows...)
	}
	return r.AppendRows(ctx, TableRange(table), rows)
}

func (r *GoogleSheetRepository) tabEmpty(ctx context.Context, table export.Table) (bool, error) {
	firstCell := fmt.Sprintf("'%s'!A1:A1", table.Name)
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, firstCell).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read range %s: %w", firstCell, err)
	}
	return len(resp.Values) == 0, nil
}

// TableRange is the A1 range covering the table's columns on its own tab.
func TableRange(table export.Table) string {
	return fmt.Sprintf("'%s'!A:%s", table.Name, column(len(table.Headers)+1))
}

// TableHeader is the header row of an exported table.
func TableHeader(table export.Table) []interface{} {
	header := make([]interface{}, 0, len(table.Headers)+1)
	header = append(header, "Exported")
	for _, h := range table.Headers {
		header = append(header, h)
	}
	return header
}

// TableValues lays the table's data out as sheet rows, each prefixed with
// the export date.
func TableValues(table export.Table, at time.Time) [][]interface{} {
	stamp := at.Format("2006-01-02")
	rows := make([][]interface{}, 0, len(table.Rows))
	for _, cells := range table.Strings() {
		row := make([]interface{}, 0, len(cells)+1)
		row = append(row, stamp)
		for _, c := range cells {
			row = append(row, c)
		}
		rows = append(rows, row)
	}
	return rows
}

// column converts a 1-based column index to its letter name.
func column(n int) string {
	if n < 1 {
		n = 1
	}
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
