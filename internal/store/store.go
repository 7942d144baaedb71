// Package store owns the transactional boundary over guilds, grants, codes
// and redemptions. Every exported operation runs inside a single gorm
// transaction, so concurrent callers interleave only at operation boundaries
// and a failure never leaves partial writes visible.
package store

import (
	"time"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB

	// now is swapped out by tests to pin time-dependent behaviour.
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// GuildConfig is the per-guild association returned by most operations so the
// caller can decide whether to post a notification.
type GuildConfig struct {
	ID        int64
	ChannelID *int64
}

// GrantView is the read model of a grant embedded in lookup and redeem
// results. ExpireSeconds is nil for lifetime grants.
type GrantView struct {
	RoleID        int64
	ExpireSeconds *int64
}

// CodeView is the read model returned by Lookup and List.
type CodeView struct {
	Code      string
	ExpiresAt *time.Time
	MaxUses   *int
	UsesCount int
	Grant     GrantView
	CreatedAt time.Time
}
