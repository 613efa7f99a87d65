package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	appallocation "github.com/akrmotors/backoffice/internal/application/allocation"
	"go.uber.org/zap"
)

// ErrSchedulerNotRunning is returned when a manual trigger is requested while
// the scheduler is stopped
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// ChequeReminderScheduler periodically sweeps the cheque reminder queue and
// logs the cheques that are due or overdue for release. The sweep is
// read-only; releasing a cheque stays a manual back-office action.
type ChequeReminderScheduler struct {
	service   *appallocation.ChequeReminderService
	logger    *zap.Logger
	config    ChequeReminderSchedulerConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// ChequeReminderSchedulerConfig holds configuration for the reminder sweep
type ChequeReminderSchedulerConfig struct {
	Enabled       bool
	SweepInterval time.Duration
	SweepTimeout  time.Duration
}

// DefaultChequeReminderSchedulerConfig returns default configuration
func DefaultChequeReminderSchedulerConfig() ChequeReminderSchedulerConfig {
	return ChequeReminderSchedulerConfig{
		Enabled:       true,
		SweepInterval: time.Hour,
		SweepTimeout:  time.Minute,
	}
}

// NewChequeReminderScheduler creates a new cheque reminder scheduler
func NewChequeReminderScheduler(
	service *appallocation.ChequeReminderService,
	logger *zap.Logger,
	config ChequeReminderSchedulerConfig,
) *ChequeReminderScheduler {
	return &ChequeReminderScheduler{
		service: service,
		logger:  logger,
		config:  config,
	}
}

// Start starts the reminder sweep loop
func (s *ChequeReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Cheque reminder scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runSweepLoop(ctx)

	s.logger.Info("Cheque reminder scheduler started",
		zap.Duration("sweep_interval", s.config.SweepInterval),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *ChequeReminderScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Cheque reminder scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Cheque reminder scheduler stop timed out")
		return ctx.Err()
	}
}

// TriggerImmediateSweep runs a sweep right away without waiting for the next tick
func (s *ChequeReminderScheduler) TriggerImmediateSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.executeSweep(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *ChequeReminderScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *ChequeReminderScheduler) runSweepLoop(ctx context.Context) {
	defer s.wg.Done()

	// First sweep shortly after startup so a restart never misses a day
	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	s.executeSweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Cheque reminder sweep loop stopping")
			return
		case <-ticker.C:
			s.executeSweep(ctx)
		}
	}
}

func (s *ChequeReminderScheduler) executeSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	startTime := time.Now()
	reminders, err := s.service.ListDue(sweepCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Cheque reminder sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	overdue := 0
	for _, reminder := range reminders {
		if !reminder.IsOverdue {
			continue
		}
		overdue++
		s.logger.Warn("Cheque release overdue",
			zap.String("coupon_number", reminder.CouponNumber),
			zap.String("customer_name", reminder.CustomerName),
			zap.String("customer_phone", reminder.CustomerPhone),
			zap.String("down_payment", reminder.DownPayment.String()),
			zap.Int("days_overdue", reminder.DaysOverdue),
		)
	}

	s.logger.Info("Cheque reminder sweep completed",
		zap.Duration("duration", duration),
		zap.Int("due", len(reminders)),
		zap.Int("overdue", overdue),
	)
}
