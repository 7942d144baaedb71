package models

// Grant is what a code confers: a Discord role, optionally for a limited
// duration. A nil ExpireSeconds means the role is kept for life.
// Each Grant is owned by exactly one Code and is deleted with it.
type Grant struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	RoleID        int64  `gorm:"not null" json:"role_id"`
	ExpireSeconds *int64 `json:"expire_seconds"`
}
