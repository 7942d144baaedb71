package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/rolevault/rolevault/internal/models"
	"gorm.io/gorm"
)

// CreateCode inserts a grant and the code that owns it in one transaction and
// returns the guild's config. Code text is unique per guild: a duplicate
// fails with CodeAlreadyExists, either on the pre-check or, under a
// concurrent create of the same text, on the unique index.
func (s *Store) CreateCode(guildID int64, codeText string, expiresAt *time.Time, maxUses *int, roleID int64, grantExpireSeconds *int64) (GuildConfig, error) {
	var cfg GuildConfig
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cfg, err = getOrCreateGuild(tx, guildID)
		if err != nil {
			return err
		}

		var existing models.Code
		err = tx.First(&existing, "guild_id = ? AND code = ?", guildID, codeText).Error
		if err == nil {
			return newCodeError(CodeAlreadyExists, codeText)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check code %q: %w", codeText, err)
		}

		grant := models.Grant{RoleID: roleID, ExpireSeconds: grantExpireSeconds}
		if err := tx.Create(&grant).Error; err != nil {
			return fmt.Errorf("create grant: %w", err)
		}

		code := models.Code{
			GuildID:   guildID,
			Code:      codeText,
			ExpiresAt: expiresAt,
			MaxUses:   maxUses,
			GrantID:   grant.ID,
		}
		if err := tx.Create(&code).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newCodeError(CodeAlreadyExists, codeText)
			}
			return fmt.Errorf("create code %q: %w", codeText, err)
		}
		return nil
	})
	return cfg, err
}

// LookupCode returns the code's expiry, usage counters and grant info.
// Read-only, no side effects.
func (s *Store) LookupCode(guildID int64, codeText string) (CodeView, error) {
	var view CodeView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		code, err := findCode(tx, guildID, codeText)
		if err != nil {
			return err
		}
		view = codeView(code)
		return nil
	})
	return view, err
}

// ListCodes returns all codes of a guild, newest first.
func (s *Store) ListCodes(guildID int64) ([]CodeView, error) {
	var views []CodeView
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var codes []models.Code
		if err := tx.Preload("Grant").Order("created_at DESC").Find(&codes, "guild_id = ?", guildID).Error; err != nil {
			return fmt.Errorf("list codes for guild %d: %w", guildID, err)
		}
		views = make([]CodeView, 0, len(codes))
		for _, code := range codes {
			views = append(views, codeView(code))
		}
		return nil
	})
	return views, err
}

// RemoveCode deletes a code, its grant and every redemption referencing the
// pair, atomically, and returns the guild's config.
func (s *Store) RemoveCode(guildID int64, codeText string) (GuildConfig, error) {
	var cfg GuildConfig
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cfg, err = getOrCreateGuild(tx, guildID)
		if err != nil {
			return err
		}

		code, err := findCode(tx, guildID, codeText)
		if err != nil {
			return err
		}

		if err := tx.Delete(&models.Code{}, "id = ?", code.ID).Error; err != nil {
			return fmt.Errorf("delete code %q: %w", codeText, err)
		}
		if err := tx.Delete(&models.Grant{}, "id = ?", code.GrantID).Error; err != nil {
			return fmt.Errorf("delete grant %d: %w", code.GrantID, err)
		}
		if err := tx.Delete(&models.Redemption{}, "code_id = ? AND grant_id = ?", code.ID, code.GrantID).Error; err != nil {
			return fmt.Errorf("delete redemptions for code %q: %w", codeText, err)
		}
		return nil
	})
	return cfg, err
}

func findCode(tx *gorm.DB, guildID int64, codeText string) (models.Code, error) {
	var code models.Code
	err := tx.Preload("Grant").First(&code, "guild_id = ? AND code = ?", guildID, codeText).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return code, newCodeError(CodeNotFound, codeText)
	}
	if err != nil {
		return code, fmt.Errorf("load code %q: %w", codeText, err)
	}
	return code, nil
}

func codeView(code models.Code) CodeView {
	return CodeView{
		Code:      code.Code,
		ExpiresAt: code.ExpiresAt,
		MaxUses:   code.MaxUses,
		UsesCount: code.UsesCount,
		Grant: GrantView{
			RoleID:        code.Grant.RoleID,
			ExpireSeconds: code.Grant.ExpireSeconds,
		},
		CreatedAt: code.CreatedAt,
	}
}
