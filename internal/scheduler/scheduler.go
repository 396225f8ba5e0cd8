package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"StonksPoller/internal/collector"
	"StonksPoller/internal/model"
	"StonksPoller/internal/notifier"
	"StonksPoller/internal/recorder"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Notifier delivers operator alerts.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// TickResult summarizes one fetch-then-upload cycle.
type TickResult struct {
	ID      string
	Batch   model.Batch
	Dropped int
	Outcome model.UploadOutcome
}

// Scheduler runs ticks back to back, waiting for the schedule between them.
type Scheduler struct {
	Collector *collector.Collector
	Uploader  *recorder.Uploader
	Symbols   []model.Symbol
	Target    model.Target
	Schedule  cron.Schedule
	Notifier  Notifier
	Stats     *Stats

	logger *slog.Logger
}

// ConstantDelay is a cron.Schedule that fires a fixed duration after t.
// Unlike cron.Every it keeps sub-second precision.
type ConstantDelay time.Duration

func (d ConstantDelay) Next(t time.Time) time.Time { return t.Add(time.Duration(d)) }

// ParseSchedule returns a constant delay of interval, or the cron schedule
// described by spec when it is set.
func ParseSchedule(interval time.Duration, spec string) (cron.Schedule, error) {
	if spec != "" {
		sched, err := cron.ParseStandard(spec)
		if err != nil {
			return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
		}
		return sched, nil
	}
	return ConstantDelay(interval), nil
}

// NewScheduler creates a new Scheduler.
func NewScheduler(col *collector.Collector, up *recorder.Uploader, symbols []model.Symbol, target model.Target, sched cron.Schedule, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		Collector: col,
		Uploader:  up,
		Symbols:   symbols,
		Target:    target,
		Schedule:  sched,
		Stats:     &Stats{},
		logger:    logger,
	}
}

// Run polls until ctx is cancelled. Cancellation is only observed between
// ticks; a tick in progress always runs to completion. Returns nil on a clean stop.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("polling started",
		"symbols", s.Symbols,
		"namespace", s.Target.Namespace,
		"table", s.Target.Table,
	)

	for ctx.Err() == nil {
		s.Tick(ctx)
		if !s.wait(ctx) {
			break
		}
	}

	snap := s.Stats.Snapshot()
	s.logger.Info("loop interrupted, exiting",
		"ticks", snap.Ticks,
		"rows_uploaded", snap.RowsUploaded,
		"upload_failures", snap.UploadFailures,
	)
	return nil
}

// wait blocks until the next scheduled tick. It reports false if ctx ended first.
func (s *Scheduler) wait(ctx context.Context) bool {
	next := s.Schedule.Next(time.Now())
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	s.logger.Debug("sleeping until next tick", "next", next.Format(model.DateLayout))
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Tick collects and uploads one batch. Cancelling ctx does not interrupt it.
func (s *Scheduler) Tick(ctx context.Context) TickResult {
	work := context.WithoutCancel(ctx)
	id := uuid.NewString()
	start := time.Now()

	batch := s.Collector.Collect(work, s.Symbols)
	out := s.Uploader.Upload(work, batch, s.Target)

	res := TickResult{
		ID:      id,
		Batch:   batch,
		Dropped: len(s.Symbols) - batch.Len(),
		Outcome: out,
	}
	s.Stats.record(len(s.Symbols), batch, out, start)

	s.logger.Info("tick complete",
		"tick", id,
		"requested", len(s.Symbols),
		"fetched", batch.Len(),
		"dropped", res.Dropped,
		"rows", out.Rows,
		"ok", out.OK(),
		"duration", time.Since(start),
	)

	if !out.OK() {
		s.trySend(ctx, notifier.FormatUploadFailure(id, out))
	}
	return res
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	name := ""
	if f := strings.Fields(command); len(f) > 0 {
		// Group chats address commands as /status@BotName.
		name, _, _ = strings.Cut(f[0], "@")
	}
	switch name {
	case "/status":
		return notifier.FormatStatus(s.Stats.Snapshot(), s.Target)
	case "/symbols":
		return notifier.FormatSymbols(s.Symbols)
	default:
		return "Available commands:\n• /status\n• /symbols"
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		s.logger.Error("send notification", "error", err)
	}
}
