package gormstore

import (
	"context"

	settingsDomain "guild-bank-ledger/internal/domain/settings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) *SettingsRepository { return &SettingsRepository{db: db} }

func (r *SettingsRepository) Get(ctx context.Context, guildID string) (*settingsDomain.GuildSettings, error) {
	var out settingsDomain.GuildSettings
	res := r.db.WithContext(ctx).Where("guild_id = ?", guildID).First(&out)
	return &out, res.Error
}

func (r *SettingsRepository) Upsert(ctx context.Context, s *settingsDomain.GuildSettings) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(s).Error
}

func (r *SettingsRepository) Delete(ctx context.Context, guildID string) error {
	return r.db.WithContext(ctx).Where("guild_id = ?", guildID).Delete(&settingsDomain.GuildSettings{}).Error
}
