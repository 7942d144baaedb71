package models

import (
	"time"
)

// Redemption records that a user consumed a code. ExpiresAt is derived at
// redemption time from the grant's duration; nil means the grant is permanent
// and the row persists as audit history.
//
// There is deliberately no unique index on (user_id, code_id): the
// check-then-insert inside the redeem transaction is the authority.
type Redemption struct {
	UserID     int64      `gorm:"not null;index" json:"user_id"`
	GrantID    uint       `gorm:"not null" json:"grant_id"`
	CodeID     uint       `gorm:"not null;index" json:"code_id"`
	ExpiresAt  *time.Time `gorm:"index" json:"expires_at"`
	RedeemedAt time.Time  `gorm:"not null" json:"redeemed_at"`
}
