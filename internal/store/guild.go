package store

import (
	"errors"
	"fmt"

	"github.com/rolevault/rolevault/internal/models"
	"gorm.io/gorm"
)

// GetOrCreateGuild returns the guild's config, creating the row with no
// notification channel on first reference. It never fails with a domain error.
func (s *Store) GetOrCreateGuild(guildID int64) (GuildConfig, error) {
	var cfg GuildConfig
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		cfg, err = getOrCreateGuild(tx, guildID)
		return err
	})
	return cfg, err
}

func getOrCreateGuild(tx *gorm.DB, guildID int64) (GuildConfig, error) {
	var guild models.Guild
	err := tx.First(&guild, "id = ?", guildID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		guild = models.Guild{ID: guildID}
		if err := tx.Create(&guild).Error; err != nil {
			return GuildConfig{}, fmt.Errorf("create guild %d: %w", guildID, err)
		}
	} else if err != nil {
		return GuildConfig{}, fmt.Errorf("load guild %d: %w", guildID, err)
	}
	return GuildConfig{ID: guild.ID, ChannelID: guild.ChannelID}, nil
}

// SetChannel toggles the guild's notification channel: setting the channel
// that is already active clears it. The returned bool reports whether the
// channel is active after the call, so callers can word their reply.
func (s *Store) SetChannel(guildID, channelID int64) (bool, error) {
	changed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var guild models.Guild
		err := tx.First(&guild, "id = ?", guildID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			guild = models.Guild{ID: guildID, ChannelID: &channelID}
			if err := tx.Create(&guild).Error; err != nil {
				return fmt.Errorf("create guild %d: %w", guildID, err)
			}
			changed = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("load guild %d: %w", guildID, err)
		}

		if guild.ChannelID != nil && *guild.ChannelID == channelID {
			// Toggle off.
			if err := tx.Model(&guild).Update("channel_id", nil).Error; err != nil {
				return fmt.Errorf("clear channel for guild %d: %w", guildID, err)
			}
			changed = false
			return nil
		}

		if err := tx.Model(&guild).Update("channel_id", channelID).Error; err != nil {
			return fmt.Errorf("set channel for guild %d: %w", guildID, err)
		}
		changed = true
		return nil
	})
	return changed, err
}
