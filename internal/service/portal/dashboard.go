package portal

import (
	"context"
	"sort"
	"time"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
)

const recentEntries = 3

// Dashboard builds the admin landing view. Every collection is fetched
// tolerantly; failures only set Partial.
func (s *Service) Dashboard(ctx context.Context) models.Dashboard {
	ds := s.load(ctx,
		config.ResourceItems, config.ResourceDeadstocks, config.ResourceUsers,
		config.ResourceDepartments, config.ResourceStockIns, config.ResourceStockOuts,
	)
	now := s.now()

	stockIns := normalize.All(ds.Raw(config.ResourceStockIns), normalize.StockIn)
	stockOuts := normalize.All(ds.Raw(config.ResourceStockOuts), normalize.StockOut)

	d := models.Dashboard{
		Stats: models.DashboardStats{
			TotalItems:       len(ds.Raw(config.ResourceItems)),
			DeadStockCount:   len(ds.Raw(config.ResourceDeadstocks)),
			UsersCount:       len(ds.Raw(config.ResourceUsers)),
			DepartmentsCount: len(ds.Raw(config.ResourceDepartments)),
		},
		Partial:     len(ds.Failed()) > 0,
		GeneratedAt: now,
	}

	for _, rec := range stockIns {
		if sameMonth(rec.ReceivedAt, now) {
			d.Stats.StockInCount++
		}
	}
	for _, rec := range stockOuts {
		if sameMonth(rec.IssuedAt, now) {
			d.Stats.StockOutCount++
		}
	}

	sort.SliceStable(stockIns, func(i, j int) bool { return stockIns[i].ReceivedAt.After(stockIns[j].ReceivedAt) })
	sort.SliceStable(stockOuts, func(i, j int) bool { return stockOuts[i].IssuedAt.After(stockOuts[j].IssuedAt) })

	d.RecentStockIn = make([]models.RecentStockIn, 0, recentEntries)
	for _, rec := range head(stockIns, recentEntries) {
		d.RecentStockIn = append(d.RecentStockIn, models.RecentStockIn{
			ID:         rec.ID,
			ItemName:   recentItemName(ds, rec.ItemID),
			Quantity:   rec.Quantity,
			ReceivedAt: rec.ReceivedAt,
			Supplier:   rec.SupplierLabel,
		})
	}

	d.RecentStockOut = make([]models.RecentStockOut, 0, recentEntries)
	for _, rec := range head(stockOuts, recentEntries) {
		entry := models.RecentStockOut{
			ID:       rec.ID,
			ItemName: recentItemName(ds, rec.ItemID),
			Quantity: rec.Quantity,
			IssuedAt: rec.IssuedAt,
			UserName: rec.UserLabel,
			UserRole: rec.RoleLabel,
		}
		if entry.UserName == "" {
			entry.UserName = models.UnknownUser
		}
		if entry.UserRole == "" {
			entry.UserRole = models.UnknownRole
		}
		d.RecentStockOut = append(d.RecentStockOut, entry)
	}

	return d
}

// recentItemName resolves an item id, falling back to the raw id and then
// to "Unknown Item".
func recentItemName(ds *Dataset, id string) string {
	if item, ok := ds.ItemIndex[id]; ok && item.Name != "" {
		return item.Name
	}
	if id != "" {
		return id
	}
	return models.UnknownItem
}

func sameMonth(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	t = t.In(now.Location())
	return t.Year() == now.Year() && t.Month() == now.Month()
}

func head[T any](s []T, n int) []T {
	if len(s) < n {
		return s
	}
	return s[:n]
}
