package models

import (
	"time"
)

// Code is a redeemable token scoped to one guild. The composite unique index
// on (guild_id, code) makes concurrent duplicate creates fail deterministically
// instead of racing past the existence check.
type Code struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	GuildID   int64      `gorm:"not null;uniqueIndex:idx_guild_code" json:"guild_id"`
	Code      string     `gorm:"not null;uniqueIndex:idx_guild_code" json:"code"`
	ExpiresAt *time.Time `json:"expires_at"`
	MaxUses   *int       `json:"max_uses"`
	UsesCount int        `gorm:"not null;default:0" json:"uses_count"`
	GrantID   uint       `gorm:"not null" json:"grant_id"`
	Grant     Grant      `gorm:"foreignKey:GrantID" json:"grant"`
	CreatedAt time.Time
}
