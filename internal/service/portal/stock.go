package portal

import (
	"time"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
)

// currentStock balances every item: received minus issued minus written off.
// Movements of items missing from the item list are kept under
// "Unknown Item" so totals still add up.
func currentStock(ds *Dataset) []models.CurrentStockRow {
	rows := make([]models.CurrentStockRow, 0, len(ds.Items))
	pos := make(map[string]int, len(ds.Items))
	for _, item := range ds.Items {
		if _, dup := pos[item.ID]; dup {
			continue
		}
		pos[item.ID] = len(rows)
		rows = append(rows, models.CurrentStockRow{
			ItemID:   item.ID,
			ItemName: item.Name,
			Category: item.Category,
			Unit:     item.Unit,
		})
	}

	at := func(itemID string) *models.CurrentStockRow {
		i, ok := pos[itemID]
		if !ok {
			i = len(rows)
			pos[itemID] = i
			rows = append(rows, models.CurrentStockRow{
				ItemID:   itemID,
				ItemName: models.UnknownItem,
				Category: models.NotAvailable,
			})
		}
		return &rows[i]
	}

	for _, rec := range normalize.All(ds.Raw(config.ResourceStockIns), normalize.StockIn) {
		if rec.ItemID != "" {
			at(rec.ItemID).Received += rec.Quantity
		}
	}
	for _, rec := range normalize.All(ds.Raw(config.ResourceStockOuts), normalize.StockOut) {
		if rec.ItemID != "" {
			at(rec.ItemID).Issued += rec.Quantity
		}
	}
	for _, rec := range normalize.All(ds.Raw(config.ResourceDeadstocks), normalize.Deadstock) {
		if rec.ItemID != "" {
			at(rec.ItemID).WrittenOff += rec.Quantity
		}
	}

	for i := range rows {
		rows[i].OnHand = rows[i].Received - rows[i].Issued - rows[i].WrittenOff
	}
	return rows
}

// availableStock maps stock-in record ids to the quantity they still hold.
func availableStock(records []models.StockInRecord) map[string]int {
	out := make(map[string]int, len(records))
	for _, rec := range records {
		if rec.ID != "" && rec.Quantity > 0 {
			out[rec.ID] = rec.Quantity
		}
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
