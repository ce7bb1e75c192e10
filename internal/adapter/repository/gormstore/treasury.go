package gormstore

import (
	"context"

	treasuryDomain "guild-bank-ledger/internal/domain/treasury"

	"gorm.io/gorm"
)

type TreasuryRepository struct{ db *gorm.DB }

func NewTreasuryRepository(db *gorm.DB) *TreasuryRepository { return &TreasuryRepository{db: db} }

func (r *TreasuryRepository) Get(ctx context.Context, guildID string) (*treasuryDomain.Treasury, error) {
	var out treasuryDomain.Treasury
	res := r.db.WithContext(ctx).Where("guild_id = ?", guildID).First(&out)
	return &out, res.Error
}

func (r *TreasuryRepository) GetForUpdate(ctx context.Context, guildID string) (*treasuryDomain.Treasury, error) {
	var out treasuryDomain.Treasury
	res := forUpdate(r.db.WithContext(ctx)).Where("guild_id = ?", guildID).First(&out)
	return &out, res.Error
}

func (r *TreasuryRepository) Create(ctx context.Context, t *treasuryDomain.Treasury) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TreasuryRepository) Update(ctx context.Context, t *treasuryDomain.Treasury) error {
	prev := t.Version
	t.Version = prev + 1
	res := r.db.WithContext(ctx).Model(t).Where("version = ?", prev).Select("*").Omit("created_at").Updates(t)
	if res.Error != nil {
		t.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		t.Version = prev
		return treasuryDomain.ErrConcurrentUpdate
	}
	return nil
}
