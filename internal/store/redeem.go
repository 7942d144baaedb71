package store

import (
	"fmt"
	"time"

	"github.com/rolevault/rolevault/internal/models"
	"gorm.io/gorm"
)

// RedeemResult is what a successful redemption hands back to the caller: the
// guild config for notification routing and the grant to apply.
type RedeemResult struct {
	Guild GuildConfig
	Grant GrantView
}

// Redeem validates and records a user's redemption of a code. Checks run in a
// fixed order, first failure wins: existence, use limit, code expiry, prior
// redemption by the same user. On success exactly one redemption row is
// written and the code's use count increments by one; all of it happens in a
// single transaction, so a failure at any step leaves nothing behind.
func (s *Store) Redeem(guildID int64, codeText string, userID int64) (RedeemResult, error) {
	var result RedeemResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		code, err := findCode(tx, guildID, codeText)
		if err != nil {
			return err
		}

		if code.MaxUses != nil && code.UsesCount >= *code.MaxUses {
			return newCodeError(CodeFullyUsed, codeText)
		}

		now := s.now()
		if code.ExpiresAt != nil && !now.Before(*code.ExpiresAt) {
			return newCodeError(CodeExpired, codeText)
		}

		var count int64
		if err := tx.Model(&models.Redemption{}).
			Where("user_id = ? AND code_id = ?", userID, code.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check prior redemption: %w", err)
		}
		if count > 0 {
			return newCodeError(CodeAlreadyUsed, codeText)
		}

		var expiresAt *time.Time
		if code.Grant.ExpireSeconds != nil {
			t := now.Add(time.Duration(*code.Grant.ExpireSeconds) * time.Second)
			expiresAt = &t
		}

		redemption := models.Redemption{
			UserID:     userID,
			GrantID:    code.GrantID,
			CodeID:     code.ID,
			ExpiresAt:  expiresAt,
			RedeemedAt: now,
		}
		if err := tx.Create(&redemption).Error; err != nil {
			return fmt.Errorf("record redemption: %w", err)
		}

		if err := tx.Model(&models.Code{}).Where("id = ?", code.ID).
			Update("uses_count", gorm.Expr("uses_count + 1")).Error; err != nil {
			return fmt.Errorf("increment use count: %w", err)
		}

		cfg, err := getOrCreateGuild(tx, guildID)
		if err != nil {
			return err
		}
		result = RedeemResult{
			Guild: cfg,
			Grant: GrantView{
				RoleID:        code.Grant.RoleID,
				ExpireSeconds: code.Grant.ExpireSeconds,
			},
		}
		return nil
	})
	return result, err
}
