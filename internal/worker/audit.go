package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leaderboard_app/internal/model"
	"leaderboard_app/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type Config struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type Auditor interface {
	Check(ctx context.Context) ([]*model.Discrepancy, error)
}

// AuditWorker runs the ledger audit on a fixed interval. Runs never overlap;
// a slow run pushes the next one back.
type AuditWorker struct {
	sched    gocron.Scheduler
	auditor  Auditor
	interval time.Duration
	cancel   context.CancelFunc
}

func NewAuditWorker(auditor Auditor, interval time.Duration) (*AuditWorker, error) {
	if interval <= 0 {
		return nil, errors.New("audit interval must be positive")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &AuditWorker{
		sched:    sched,
		auditor:  auditor,
		interval: interval,
	}, nil
}

func (w *AuditWorker) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	_, err := w.sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			w.run(ctx)
		}),
		gocron.WithName("ledger-audit"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		w.cancel()
		return fmt.Errorf("failed to schedule audit: %w", err)
	}

	w.sched.Start()

	logger.Logger().Info("Ledger audit scheduled", zap.Duration("interval", w.interval))

	return nil
}

func (w *AuditWorker) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.sched.Shutdown()
}

func (w *AuditWorker) run(ctx context.Context) {
	log := logger.Logger()

	ctx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	found, err := w.auditor.Check(ctx)
	if err != nil {
		log.Error("ledger audit failed", zap.Error(err))
		return
	}
	if len(found) > 0 {
		log.Warn("ledger audit found discrepancies", zap.Int("count", len(found)))
	}
}
