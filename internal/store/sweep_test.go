package store

import (
	"testing"
	"time"
)

func TestSweepExpired(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().Truncate(time.Second)
	s.now = func() time.Time { return base }

	if _, err := s.CreateCode(1, "WELCOME", nil, ptrInt(1), 42, ptrInt64(3600)); err != nil {
		t.Fatalf("CreateCode returned error: %v", err)
	}
	s.SetChannel(1, 555)

	result, err := s.Redeem(1, "WELCOME", 900)
	if err != nil {
		t.Fatalf("Redeem by user A returned error: %v", err)
	}
	if result.Grant.ExpireSeconds == nil || *result.Grant.ExpireSeconds != 3600 {
		t.Fatalf("expected grant duration 3600, got %v", result.Grant.ExpireSeconds)
	}

	_, err = s.Redeem(1, "WELCOME", 901)
	if !ErrKind(err, CodeFullyUsed) {
		t.Fatalf("expected CodeFullyUsed for user B, got %v", err)
	}

	// Before the grant runs out nothing is swept.
	instructions, err := s.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired returned error: %v", err)
	}
	if len(instructions) != 0 {
		t.Fatalf("expected no instructions before expiry, got %d", len(instructions))
	}

	// Advance past the grant duration.
	s.now = func() time.Time { return base.Add(3601 * time.Second) }

	instructions, err = s.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired returned error: %v", err)
	}
	if len(instructions) != 1 {
		t.Fatalf("expected exactly one instruction, got %d", len(instructions))
	}
	instr := instructions[0]
	if instr.GuildID != 1 || instr.UserID != 900 || instr.RoleID != 42 {
		t.Errorf("unexpected instruction: %+v", instr)
	}
	if instr.ChannelID == nil || *instr.ChannelID != 555 {
		t.Errorf("expected channel 555, got %v", instr.ChannelID)
	}

	// The pass already deleted the row; a second pass finds nothing.
	instructions, err = s.SweepExpired()
	if err != nil {
		t.Fatalf("second SweepExpired returned error: %v", err)
	}
	if len(instructions) != 0 {
		t.Errorf("expected empty second pass, got %d instructions", len(instructions))
	}
}

func TestSweepExactBoundaryNotSelected(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().Truncate(time.Second)
	s.now = func() time.Time { return base }

	s.CreateCode(1, "EDGE", nil, nil, 42, ptrInt64(60))
	if _, err := s.Redeem(1, "EDGE", 900); err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}

	// expires_at == now: strictly-passed only, so the row stays.
	s.now = func() time.Time { return base.Add(60 * time.Second) }
	instructions, err := s.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired returned error: %v", err)
	}
	if len(instructions) != 0 {
		t.Fatalf("expected boundary row to be kept, got %d instructions", len(instructions))
	}

	s.now = func() time.Time { return base.Add(61 * time.Second) }
	instructions, err = s.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired returned error: %v", err)
	}
	if len(instructions) != 1 {
		t.Fatalf("expected one instruction once strictly past, got %d", len(instructions))
	}
}

func TestSweepSkipsRemovedCode(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().Truncate(time.Second)
	s.now = func() time.Time { return base }

	s.CreateCode(1, "KEEP", nil, nil, 42, ptrInt64(60))
	s.CreateCode(1, "DROP", nil, nil, 43, ptrInt64(60))
	if _, err := s.Redeem(1, "KEEP", 900); err != nil {
		t.Fatalf("Redeem KEEP returned error: %v", err)
	}
	if _, err := s.Redeem(1, "DROP", 901); err != nil {
		t.Fatalf("Redeem DROP returned error: %v", err)
	}

	// RemoveCode already takes its redemptions with it, so the sweep only
	// ever sees the surviving code.
	if _, err := s.RemoveCode(1, "DROP"); err != nil {
		t.Fatalf("RemoveCode returned error: %v", err)
	}

	s.now = func() time.Time { return base.Add(61 * time.Second) }
	instructions, err := s.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired returned error: %v", err)
	}
	if len(instructions) != 1 {
		t.Fatalf("expected one instruction, got %d", len(instructions))
	}
	if instructions[0].UserID != 900 || instructions[0].RoleID != 42 {
		t.Errorf("unexpected instruction: %+v", instructions[0])
	}
}

func TestSweepGroupsGuildLookups(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().Truncate(time.Second)
	s.now = func() time.Time { return base }

	s.CreateCode(1, "A", nil, nil, 42, ptrInt64(60))
	s.CreateCode(2, "B", nil, nil, 43, ptrInt64(60))
	s.SetChannel(2, 777)

	s.Redeem(1, "A", 900)
	s.Redeem(1, "A", 901)
	s.Redeem(2, "B", 902)

	s.now = func() time.Time { return base.Add(120 * time.Second) }
	instructions, err := s.SweepExpired()
	if err != nil {
		t.Fatalf("SweepExpired returned error: %v", err)
	}
	if len(instructions) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(instructions))
	}

	byGuild := map[int64]int{}
	for _, instr := range instructions {
		byGuild[instr.GuildID]++
		if instr.GuildID == 2 {
			if instr.ChannelID == nil || *instr.ChannelID != 777 {
				t.Errorf("expected channel 777 for guild 2, got %v", instr.ChannelID)
			}
		} else if instr.ChannelID != nil {
			t.Errorf("expected no channel for guild 1, got %d", *instr.ChannelID)
		}
	}
	if byGuild[1] != 2 || byGuild[2] != 1 {
		t.Errorf("unexpected guild distribution: %v", byGuild)
	}
}
