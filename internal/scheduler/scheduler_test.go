package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/export"
)

type fakeDashboards struct{ failPage string }

func (f fakeDashboards) Dashboard(context.Context) models.Dashboard {
	return models.Dashboard{Stats: models.DashboardStats{TotalItems: 7}, Partial: true}
}

func (f fakeDashboards) Report(_ context.Context, page string) (export.Table, error) {
	if page == f.failPage {
		return export.Table{}, errors.New("load failed")
	}
	return export.Table{Name: page}, nil
}

type fakeStore struct{ saved []models.DashboardSnapshot }

func (f *fakeStore) SaveDashboardSnapshot(_ context.Context, s models.DashboardSnapshot) error {
	f.saved = append(f.saved, s)
	return nil
}

type fakeSink struct{ tables []string }

func (f *fakeSink) ExportTable(_ context.Context, t export.Table, _ time.Time) error {
	f.tables = append(f.tables, t.Name)
	return nil
}

type fakeDigests struct{ err error }

func (f fakeDigests) GenerateWeeklyReport(context.Context, time.Time) (string, error) {
	return "digest", f.err
}

type fakeNotifier struct{ sent []string }

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

type fakeSessions struct{ swept, live int }

func (f *fakeSessions) Sweep() int {
	f.swept++
	return 1
}

func (f *fakeSessions) Len() int { return f.live }

type fakeGauge struct{ n int }

func (f *fakeGauge) SetSessions(n int) { f.n = n }

var schedules = config.SchedulerConfig{
	SnapshotSchedule: "0 23 * * *",
	DigestSchedule:   "0 20 * * 5",
	SweepSchedule:    "@every 10m",
	Timezone:         "Asia/Dhaka",
}

func TestTakeSnapshot(t *testing.T) {
	store, sink := &fakeStore{}, &fakeSink{}
	s := NewScheduler(schedules, Jobs{Dashboards: fakeDashboards{failPage: "dead-stock"}, Snapshots: store, Sheets: sink}, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC) }

	s.takeSnapshot()

	if len(store.saved) != 1 {
		t.Fatalf("want one snapshot, got %d", len(store.saved))
	}
	snap := store.saved[0]
	if snap.Stats.TotalItems != 7 || !snap.Partial {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	// 18:30 UTC is already the next day in Dhaka.
	if snap.Date.Day() != 15 || snap.Date.Hour() != 0 {
		t.Fatalf("want local midnight date, got %v", snap.Date)
	}
	if len(sink.tables) != 1 || sink.tables[0] != "current-stock" {
		t.Fatalf("want only the successful report exported, got %v", sink.tables)
	}
}

func TestSendWeeklyDigest(t *testing.T) {
	n := &fakeNotifier{}
	s := NewScheduler(schedules, Jobs{Digests: fakeDigests{}, Notifier: n}, nil)
	s.sendWeeklyDigest()
	if len(n.sent) != 1 || n.sent[0] != "digest" {
		t.Fatalf("unexpected sends %v", n.sent)
	}

	n = &fakeNotifier{}
	s = NewScheduler(schedules, Jobs{Digests: fakeDigests{err: errors.New("down")}, Notifier: n}, nil)
	s.sendWeeklyDigest()
	if len(n.sent) != 0 {
		t.Fatalf("want nothing sent when the digest fails")
	}
}

func TestSweepSessions(t *testing.T) {
	sessions, gauge := &fakeSessions{live: 3}, &fakeGauge{}
	s := NewScheduler(schedules, Jobs{Sessions: sessions, Gauge: gauge}, nil)
	s.sweepSessions()
	if sessions.swept != 1 || gauge.n != 3 {
		t.Fatalf("want sweep and gauge update, got swept=%d gauge=%d", sessions.swept, gauge.n)
	}
}

func TestStart_RegistersEnabledJobs(t *testing.T) {
	s := NewScheduler(schedules, Jobs{Sessions: &fakeSessions{}, Digests: fakeDigests{}}, nil)
	s.Start()
	defer s.Stop()
	if got := s.Entries(); got != 1 {
		t.Fatalf("want only the sweep job, got %d", got)
	}

	bad := schedules
	bad.SweepSchedule = "not a schedule"
	s2 := NewScheduler(bad, Jobs{Sessions: &fakeSessions{}}, nil)
	s2.Start()
	defer s2.Stop()
	if got := s2.Entries(); got != 0 {
		t.Fatalf("want invalid schedule skipped, got %d", got)
	}
}
