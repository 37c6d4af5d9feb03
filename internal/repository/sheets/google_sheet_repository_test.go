package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/inventory-portal/internal/export"
)

func TestColumn(t *testing.T) {
	cases := map[int]string{1: "A", 7: "G", 26: "Z", 27: "AA", 52: "AZ", 0: "A"}
	for n, want := range cases {
		if got := column(n); got != want {
			t.Errorf("column(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestTableLayout(t *testing.T) {
	table := export.Table{
		Name:    "Current Stock",
		Headers: []string{"Item", "On Hand"},
		Rows:    [][]any{{"Paper", 6}, {"Chair", 0}},
	}

	if got := TableRange(table); got != "'Current Stock'!A:C" {
		t.Fatalf("unexpected range %q", got)
	}

	header := TableHeader(table)
	if len(header) != 3 || header[0] != "Exported" || header[2] != "On Hand" {
		t.Fatalf("unexpected header %v", header)
	}

	rows := TableValues(table, time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC))
	if len(rows) != 2 {
		t.Fatalf("want 2 data rows without a header, got %d", len(rows))
	}
	if rows[0][0] != "2025-03-14" || rows[0][1] != "Paper" || rows[0][2] != "6" {
		t.Fatalf("unexpected row %v", rows[0])
	}
}

func newTestRepository(t *testing.T, firstCell string) (*GoogleSheetRepository, *[][]interface{}) {
	t.Helper()
	var appended [][]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
			var body sheetsapi.ValueRange
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode append body: %v", err)
			}
			appended = body.Values
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodGet:
			if firstCell == "" {
				_, _ = w.Write([]byte(`{"range":"A1:A1"}`))
				return
			}
			_, _ = w.Write([]byte(`{"range":"A1:A1","values":[["` + firstCell + `"]]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	service, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("sheets service: %v", err)
	}
	return &GoogleSheetRepository{service: service, spreadsheetID: "sheet", logger: zap.NewNop()}, &appended
}

func TestExportTable_WritesHeaderOnlyOnce(t *testing.T) {
	table := export.Table{
		Name:    "Current Stock",
		Headers: []string{"Item", "On Hand"},
		Rows:    [][]any{{"Paper", 6}, {"Chair", 0}},
	}
	at := time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		firstCell string
		wantRows  int
	}{
		{"empty tab gets a header", "", 3},
		{"filled tab gets data only", "Exported", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, appended := newTestRepository(t, tt.firstCell)
			if err := repo.ExportTable(context.Background(), table, at); err != nil {
				t.Fatalf("export: %v", err)
			}
			if len(*appended) != tt.wantRows {
				t.Fatalf("want %d rows appended, got %d: %v", tt.wantRows, len(*appended), *appended)
			}
			if (*appended)[len(*appended)-1][1] != "Chair" {
				t.Fatalf("unexpected last row %v", (*appended)[len(*appended)-1])
			}
		})
	}
}
