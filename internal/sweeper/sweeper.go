// Package sweeper drives the periodic expiry reconciliation pass.
package sweeper

import (
	"context"
	"time"

	"github.com/rolevault/rolevault/internal/store"
	"go.uber.org/zap"
)

// Revoker applies one revoke instruction against the outside world, typically
// removing a Discord role and posting a notification. A failed revoke is
// logged and dropped; the ledger row is already gone, so it is never retried.
type Revoker interface {
	Revoke(instr store.RevokeInstruction) error
}

// Sweeper calls the store's expiry sweep at a fixed cadence. A shutdown
// cancels the wait between passes, never a pass in flight.
type Sweeper struct {
	interval time.Duration
	store    *store.Store
	revoker  Revoker
	logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func New(interval time.Duration, st *store.Store, revoker Revoker, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{
		interval: interval,
		store:    st,
		revoker:  revoker,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins the sweep loop in a background goroutine. Calling Start more
// than once has no effect.
func (s *Sweeper) Start(parent context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel

	go s.loop(ctx)
}

func (s *Sweeper) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		close(s.done)
	}()

	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopping")
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce executes a single sweep pass. A storage failure aborts the pass
// only; the next tick retries the scan.
func (s *Sweeper) RunOnce() {
	instructions, err := s.store.SweepExpired()
	if err != nil {
		s.logger.Error("sweep pass failed", zap.Error(err))
		return
	}
	if len(instructions) == 0 {
		return
	}

	removed, failed := 0, 0
	for _, instr := range instructions {
		if err := s.revoker.Revoke(instr); err != nil {
			failed++
			s.logger.Warn("revoke failed",
				zap.Int64("guild_id", instr.GuildID),
				zap.Int64("user_id", instr.UserID),
				zap.Int64("role_id", instr.RoleID),
				zap.Error(err))
			continue
		}
		removed++
	}
	s.logger.Info("sweep pass finished", zap.Int("removed", removed), zap.Int("failed", failed))
}

// Stop cancels the loop and waits for the in-flight pass to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}
