package models

import (
	"time"
)

// Guild is created lazily on first reference and never deleted.
// ID is the external Discord snowflake, not an autoincrement key.
type Guild struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ChannelID *int64 `json:"channel_id"`
	CreatedAt time.Time
}
