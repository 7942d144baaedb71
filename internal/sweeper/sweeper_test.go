package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rolevault/rolevault/internal/database"
	"github.com/rolevault/rolevault/internal/store"
	"go.uber.org/zap"
)

type fakeRevoker struct {
	mu     sync.Mutex
	calls  []store.RevokeInstruction
	failOn int64
}

func (f *fakeRevoker) Revoke(instr store.RevokeInstruction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, instr)
	if instr.UserID == f.failOn {
		return errors.New("role removal failed")
	}
	return nil
}

func newSweepFixture(t *testing.T) (*store.Store, func(time.Time)) {
	t.Helper()
	db, err := database.Connect(":memory:")
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	s := store.New(db)
	return s, s.SetNowForTest
}

func TestRunOnceAppliesInstructions(t *testing.T) {
	s, setNow := newSweepFixture(t)
	base := time.Now().Truncate(time.Second)
	setNow(base)

	s.CreateCode(1, "TEMP", nil, nil, 42, int64Ptr(60))
	if _, err := s.Redeem(1, "TEMP", 900); err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	setNow(base.Add(61 * time.Second))

	revoker := &fakeRevoker{}
	sw := New(time.Second, s, revoker, zap.NewNop())
	sw.RunOnce()

	if len(revoker.calls) != 1 {
		t.Fatalf("expected 1 revoke call, got %d", len(revoker.calls))
	}
	if revoker.calls[0].UserID != 900 || revoker.calls[0].RoleID != 42 {
		t.Errorf("unexpected instruction: %+v", revoker.calls[0])
	}

	// The row is gone, so a failing revoker is never retried.
	sw.RunOnce()
	if len(revoker.calls) != 1 {
		t.Errorf("expected no further calls, got %d", len(revoker.calls))
	}
}

func TestRunOnceKeepsGoingAfterRevokeFailure(t *testing.T) {
	s, setNow := newSweepFixture(t)
	base := time.Now().Truncate(time.Second)
	setNow(base)

	s.CreateCode(1, "TEMP", nil, nil, 42, int64Ptr(60))
	s.Redeem(1, "TEMP", 900)
	s.Redeem(1, "TEMP", 901)
	setNow(base.Add(61 * time.Second))

	revoker := &fakeRevoker{failOn: 900}
	sw := New(time.Second, s, revoker, zap.NewNop())
	sw.RunOnce()

	// Both instructions are attempted even though one fails.
	if len(revoker.calls) != 2 {
		t.Fatalf("expected 2 revoke calls, got %d", len(revoker.calls))
	}
}

func TestStartStop(t *testing.T) {
	s, _ := newSweepFixture(t)
	sw := New(10*time.Millisecond, s, &fakeRevoker{}, zap.NewNop())

	sw.Start(context.Background())
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		sw.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func int64Ptr(v int64) *int64 { return &v }
