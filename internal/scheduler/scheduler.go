package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-portal/internal/config"
	"github.com/mamadbah2/inventory-portal/internal/domain/models"
	"github.com/mamadbah2/inventory-portal/internal/export"
	"github.com/mamadbah2/inventory-portal/internal/service/portal"
)

// reportPages are pushed to the spreadsheet with every snapshot.
var reportPages = []string{portal.PageCurrentStock, portal.PageDeadstock}

// Dashboards builds the dashboard and page reports.
type Dashboards interface {
	Dashboard(ctx context.Context) models.Dashboard
	Report(ctx context.Context, page string) (export.Table, error)
}

// SnapshotStore persists dashboard snapshots.
type SnapshotStore interface {
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// TableSink receives exported report tables.
type TableSink interface {
	ExportTable(ctx context.Context, table export.Table, at time.Time) error
}

// Digests produces the weekly digest text.
type Digests interface {
	GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error)
}

// Notifier delivers the digest.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Sessions expires idle sessions.
type Sessions interface {
	Sweep() int
	Len() int
}

// Gauge tracks the live session count.
type Gauge interface {
	SetSessions(n int)
}

// Jobs bundles the collaborators of the scheduled jobs. Nil members disable
// the jobs that need them.
type Jobs struct {
	Dashboards Dashboards
	Snapshots  SnapshotStore
	Sheets     TableSink
	Digests    Digests
	Notifier   Notifier
	Sessions   Sessions
	Gauge      Gauge
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	jobs   Jobs
	cfg    config.SchedulerConfig
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone.
func NewScheduler(cfg config.SchedulerConfig, jobs Jobs, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		jobs:   jobs,
		cfg:    cfg,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// Start registers the enabled jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if s.jobs.Dashboards != nil && (s.jobs.Snapshots != nil || s.jobs.Sheets != nil) {
		s.add("snapshot", s.cfg.SnapshotSchedule, s.takeSnapshot)
	}
	if s.jobs.Digests != nil && s.jobs.Notifier != nil {
		s.add("digest", s.cfg.DigestSchedule, s.sendWeeklyDigest)
	}
	if s.jobs.Sessions != nil {
		s.add("session sweep", s.cfg.SweepSchedule, s.sweepSessions)
	}

	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries reports the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) add(name, spec string, fn func()) {
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		s.logger.Error("failed to schedule job", zap.String("job", name), zap.String("schedule", spec), zap.Error(err))
		return
	}
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("schedule", spec))
}

func (s *Scheduler) takeSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := s.now().In(s.loc)
	if s.jobs.Snapshots != nil {
		d := s.jobs.Dashboards.Dashboard(ctx)
		snapshot := models.DashboardSnapshot{
			Date:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc),
			Stats:     d.Stats,
			Partial:   d.Partial,
			CreatedAt: now,
		}
		if err := s.jobs.Snapshots.SaveDashboardSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to save dashboard snapshot", zap.Error(err))
		} else {
			s.logger.Info("dashboard snapshot saved", zap.Bool("partial", d.Partial))
		}
	}

	if s.jobs.Sheets == nil {
		return
	}
	for _, page := range reportPages {
		table, err := s.jobs.Dashboards.Report(ctx, page)
		if err != nil {
			s.logger.Error("failed to build report", zap.String("page", page), zap.Error(err))
			continue
		}
		if err := s.jobs.Sheets.ExportTable(ctx, table, now); err != nil {
			s.logger.Error("failed to export report", zap.String("page", page), zap.Error(err))
		}
	}
}

func (s *Scheduler) sendWeeklyDigest() {
	s.logger.Info("generating weekly digest")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.jobs.Digests.GenerateWeeklyReport(ctx, s.now().In(s.loc))
	if err != nil {
		s.logger.Error("failed to generate weekly digest", zap.Error(err))
		return
	}

	if err := s.jobs.Notifier.Notify(ctx, report); err != nil {
		s.logger.Error("failed to send weekly digest", zap.Error(err))
	} else {
		s.logger.Info("weekly digest sent successfully")
	}
}

func (s *Scheduler) sweepSessions() {
	s.jobs.Sessions.Sweep()
	if s.jobs.Gauge != nil {
		s.jobs.Gauge.SetSessions(s.jobs.Sessions.Len())
	}
}
