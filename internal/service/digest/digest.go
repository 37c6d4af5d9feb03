// Package digest summarises recent inventory movements as short text
// messages for the weekly notifier.
package digest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/normalize"
	"github.com/mamadbah2/inventory-portal/pkg/clients/inventory"
)

const dateLayout = "2006-01-02"

// Fetcher loads one backend collection.
type Fetcher interface {
	Fetch(ctx context.Context, res config.Resource) inventory.Collection
}

// Service builds digest lines from the backend collections.
type Service struct {
	client    Fetcher
	endpoints config.Endpoints
	logger    *zap.Logger
}

// NewService wires a new digest service instance.
func NewService(client Fetcher, endpoints config.Endpoints, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, endpoints: endpoints, logger: logger}
}

func (s *Service) records(ctx context.Context, resource string) ([]normalize.Raw, error) {
	col := s.client.Fetch(ctx, s.endpoints.MustResource(resource))
	if col.Failed() {
		return nil, fmt.Errorf("load %s: %w", resource, col.Err())
	}
	return col.Records, nil
}

func within(t, start, end time.Time) bool {
	return !t.IsZero() && !t.Before(start) && !t.After(end)
}

func firstSet(ts ...time.Time) time.Time {
	for _, t := range ts {
		if !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

func period(start, end time.Time) string {
	return start.Format(dateLayout) + "-" + end.Format(dateLayout)
}

// StockInSummary totals received quantity and value for a period.
func (s *Service) StockInSummary(ctx context.Context, start, end time.Time) (string, error) {
	raws, err := s.records(ctx, config.ResourceStockIns)
	if err != nil {
		return "", err
	}

	var (
		quantity int
		value    float64
		entries  int
		invoices = make(map[string]struct{})
	)
	for _, rec := range normalize.All(raws, normalize.StockIn) {
		if !within(firstSet(rec.ReceivedAt, rec.PurchaseDate), start, end) {
			continue
		}
		quantity += rec.Quantity
		value += rec.TotalPrice
		entries++
		if rec.InvoiceNo != "" {
			invoices[rec.InvoiceNo] = struct{}{}
		}
	}

	if entries == 0 {
		return fmt.Sprintf("Stock in (%s): nothing received.", period(start, end)), nil
	}
	return fmt.Sprintf("Stock in (%s): %d units worth %.2f across %d entries on %d invoices.",
		period(start, end), quantity, value, entries, len(invoices)), nil
}

// StockOutSummary totals issued quantity and recipients for a period.
func (s *Service) StockOutSummary(ctx context.Context, start, end time.Time) (string, error) {
	raws, err := s.records(ctx, config.ResourceStockOuts)
	if err != nil {
		return "", err
	}

	var (
		quantity int
		entries  int
		users    = make(map[string]struct{})
	)
	for _, rec := range normalize.All(raws, normalize.StockOut) {
		if !within(firstSet(rec.IssuedAt, rec.IssueDate), start, end) {
			continue
		}
		quantity += rec.Quantity
		entries++
		if rec.UserID != "" {
			users[rec.UserID] = struct{}{}
		}
	}

	if entries == 0 {
		return fmt.Sprintf("Stock out (%s): nothing issued.", period(start, end)), nil
	}
	return fmt.Sprintf("Stock out (%s): %d units issued to %d users across %d entries.",
		period(start, end), quantity, len(users), entries), nil
}

// DeadstockSummary totals written-off quantity and names the most common
// reasons.
func (s *Service) DeadstockSummary(ctx context.Context, start, end time.Time) (string, error) {
	raws, err := s.records(ctx, config.ResourceDeadstocks)
	if err != nil {
		return "", err
	}

	var (
		quantity int
		reports  int
		reasons  = make(map[string]int)
	)
	for _, rec := range normalize.All(raws, normalize.Deadstock) {
		if !within(firstSet(rec.ReportedAt, rec.CreatedAt), start, end) {
			continue
		}
		quantity += rec.Quantity
		reports++
		if rec.Reason != "" {
			reasons[rec.Reason]++
		}
	}

	if reports == 0 {
		return fmt.Sprintf("Dead stock (%s): no reports.", period(start, end)), nil
	}
	msg := fmt.Sprintf("Dead stock (%s): %d units in %d reports.", period(start, end), quantity, reports)
	if top := topReasons(reasons, 2); len(top) > 0 {
		msg += " Mostly " + strings.Join(top, ", ") + "."
	}
	return msg, nil
}

func topReasons(counts map[string]int, n int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

// GenerateWeeklyReport combines the summaries of the seven days ending at
// now. Sections whose collection failed are reported as unavailable; the
// report fails only when every section does.
func (s *Service) GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error) {
	start := now.AddDate(0, 0, -7)

	sections := []struct {
		name string
		fn   func(context.Context, time.Time, time.Time) (string, error)
	}{
		{"Stock in", s.StockInSummary},
		{"Stock out", s.StockOutSummary},
		{"Dead stock", s.DeadstockSummary},
	}

	lines := []string{fmt.Sprintf("Inventory digest %s", period(start, now))}
	var errs []error
	for _, sec := range sections {
		line, err := sec.fn(ctx, start, now)
		if err != nil {
			s.logger.Warn("digest section unavailable", zap.String("section", sec.name), zap.Error(err))
			errs = append(errs, err)
			line = sec.name + ": unavailable."
		}
		lines = append(lines, line)
	}

	if len(errs) == len(sections) {
		return "", fmt.Errorf("weekly report: %w", errors.Join(errs...))
	}
	return strings.Join(lines, "\n"), nil
}
