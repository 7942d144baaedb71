package store

import (
	"errors"
	"fmt"

	"github.com/rolevault/rolevault/internal/models"
	"gorm.io/gorm"
)

// RevokeInstruction tells the caller to take a granted role away from a user.
// ChannelID is the guild's notification channel, nil when none is configured.
type RevokeInstruction struct {
	GuildID   int64
	ChannelID *int64
	UserID    int64
	RoleID    int64
}

// SweepExpired runs one reconciliation pass: it snapshots every redemption
// whose expiry has strictly passed, deletes each row, and returns one revoke
// instruction per row whose code and grant still resolve. Rows left dangling
// by an earlier RemoveCode are deleted and silently skipped.
//
// The whole pass is one transaction and its commit does not depend on what the
// caller does with the instructions: a revoke is attempted at most once, and a
// failed external revoke is not retried on the next tick.
func (s *Store) SweepExpired() ([]RevokeInstruction, error) {
	var instructions []RevokeInstruction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Snapshot before mutating, ordered so rows of the same code (and
		// therefore the same guild) are adjacent for the config cache below.
		var expired []models.Redemption
		err := tx.Where("expires_at IS NOT NULL AND expires_at < ?", s.now()).
			Order("code_id").
			Find(&expired).Error
		if err != nil {
			return fmt.Errorf("select expired redemptions: %w", err)
		}

		guilds := map[int64]GuildConfig{}
		for _, redemption := range expired {
			err := tx.Delete(&models.Redemption{},
				"user_id = ? AND grant_id = ? AND code_id = ?",
				redemption.UserID, redemption.GrantID, redemption.CodeID).Error
			if err != nil {
				return fmt.Errorf("delete expired redemption: %w", err)
			}

			var code models.Code
			err = tx.Preload("Grant").First(&code, "id = ? AND grant_id = ?", redemption.CodeID, redemption.GrantID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Code was removed since redemption; nothing to revoke.
				continue
			}
			if err != nil {
				return fmt.Errorf("resolve code %d: %w", redemption.CodeID, err)
			}

			cfg, ok := guilds[code.GuildID]
			if !ok {
				cfg, err = getOrCreateGuild(tx, code.GuildID)
				if err != nil {
					return err
				}
				guilds[code.GuildID] = cfg
			}

			instructions = append(instructions, RevokeInstruction{
				GuildID:   cfg.ID,
				ChannelID: cfg.ChannelID,
				UserID:    redemption.UserID,
				RoleID:    code.Grant.RoleID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return instructions, nil
}
