package store

import (
	"testing"
	"time"

	"github.com/rolevault/rolevault/internal/models"
)

func TestCreateAndLookupCode(t *testing.T) {
	s := newTestStore(t)

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	_, err := s.CreateCode(1, "WELCOME", ptrTime(expires), ptrInt(5), 42, ptrInt64(3600))
	if err != nil {
		t.Fatalf("CreateCode returned error: %v", err)
	}

	view, err := s.LookupCode(1, "WELCOME")
	if err != nil {
		t.Fatalf("LookupCode returned error: %v", err)
	}
	if view.Code != "WELCOME" {
		t.Errorf("expected code WELCOME, got %q", view.Code)
	}
	if view.ExpiresAt == nil || !view.ExpiresAt.Equal(expires) {
		t.Errorf("expected expiry %v, got %v", expires, view.ExpiresAt)
	}
	if view.MaxUses == nil || *view.MaxUses != 5 {
		t.Errorf("expected max uses 5, got %v", view.MaxUses)
	}
	if view.UsesCount != 0 {
		t.Errorf("expected zero uses, got %d", view.UsesCount)
	}
	if view.Grant.RoleID != 42 {
		t.Errorf("expected role 42, got %d", view.Grant.RoleID)
	}
	if view.Grant.ExpireSeconds == nil || *view.Grant.ExpireSeconds != 3600 {
		t.Errorf("expected grant duration 3600, got %v", view.Grant.ExpireSeconds)
	}
}

func TestCreateCodeDuplicate(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateCode(1, "DUP", nil, nil, 42, nil); err != nil {
		t.Fatalf("first CreateCode returned error: %v", err)
	}

	_, err := s.CreateCode(1, "DUP", nil, nil, 43, nil)
	if !ErrKind(err, CodeAlreadyExists) {
		t.Fatalf("expected CodeAlreadyExists, got %v", err)
	}
}

func TestCreateCodeUniquePerGuild(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateCode(1, "SHARED", nil, nil, 42, nil); err != nil {
		t.Fatalf("CreateCode in guild 1 returned error: %v", err)
	}
	// The same text in another guild is a different code.
	if _, err := s.CreateCode(2, "SHARED", nil, nil, 42, nil); err != nil {
		t.Fatalf("CreateCode in guild 2 returned error: %v", err)
	}

	if _, err := s.LookupCode(1, "SHARED"); err != nil {
		t.Errorf("LookupCode in guild 1 returned error: %v", err)
	}
	if _, err := s.LookupCode(2, "SHARED"); err != nil {
		t.Errorf("LookupCode in guild 2 returned error: %v", err)
	}
}

func TestLookupCodeNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LookupCode(1, "MISSING")
	if !ErrKind(err, CodeNotFound) {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestRemoveCode(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateCode(1, "GONE", nil, nil, 42, ptrInt64(60)); err != nil {
		t.Fatalf("CreateCode returned error: %v", err)
	}
	if _, err := s.Redeem(1, "GONE", 900); err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}

	if _, err := s.RemoveCode(1, "GONE"); err != nil {
		t.Fatalf("RemoveCode returned error: %v", err)
	}

	_, err := s.LookupCode(1, "GONE")
	if !ErrKind(err, CodeNotFound) {
		t.Fatalf("expected CodeNotFound after removal, got %v", err)
	}

	// No orphaned rows survive the removal.
	var grants, redemptions int64
	s.db.Model(&models.Grant{}).Count(&grants)
	s.db.Model(&models.Redemption{}).Count(&redemptions)
	if grants != 0 {
		t.Errorf("expected 0 grants after removal, got %d", grants)
	}
	if redemptions != 0 {
		t.Errorf("expected 0 redemptions after removal, got %d", redemptions)
	}
}

func TestRemoveCodeNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.RemoveCode(1, "MISSING")
	if !ErrKind(err, CodeNotFound) {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestListCodes(t *testing.T) {
	s := newTestStore(t)

	s.CreateCode(1, "ONE", nil, nil, 42, nil)
	s.CreateCode(1, "TWO", nil, nil, 43, nil)
	s.CreateCode(2, "OTHER", nil, nil, 44, nil)

	views, err := s.ListCodes(1)
	if err != nil {
		t.Fatalf("ListCodes returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 codes in guild 1, got %d", len(views))
	}
}
