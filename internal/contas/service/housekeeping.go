package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/controlefin/contas/internal/contas/ledger"
)

// HousekeepingService periodically sweeps expired entries out of the pending
// ledger. Expired entries already behave as absent, so this is purely memory
// hygiene for long-running processes.
type HousekeepingService struct {
	ledger   ledger.Ledger
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewHousekeepingService(lg ledger.Ledger, interval time.Duration, logger *slog.Logger) *HousekeepingService {
	return &HousekeepingService{
		ledger:   lg,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the sweep loop. It returns immediately; the loop runs until
// Stop is called or ctx is cancelled.
func (s *HousekeepingService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *HousekeepingService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *HousekeepingService) sweep(ctx context.Context) {
	removed, err := s.ledger.SweepExpired(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "ledger sweep failed", slog.Any("error", err))
		return
	}
	if removed > 0 {
		s.logger.DebugContext(ctx, "swept expired pending entries",
			slog.Int("removed", removed))
	}
}
