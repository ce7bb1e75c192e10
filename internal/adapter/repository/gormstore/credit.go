package gormstore

import (
	"context"

	creditDomain "guild-bank-ledger/internal/domain/credit"

	"gorm.io/gorm"
)

type CreditRepository struct{ db *gorm.DB }

func NewCreditRepository(db *gorm.DB) *CreditRepository { return &CreditRepository{db: db} }

func (r *CreditRepository) Get(ctx context.Context, guildID, userID string) (*creditDomain.Profile, error) {
	var out creditDomain.Profile
	res := r.db.WithContext(ctx).Where("guild_id = ? AND user_id = ?", guildID, userID).First(&out)
	return &out, res.Error
}

func (r *CreditRepository) GetForUpdate(ctx context.Context, guildID, userID string) (*creditDomain.Profile, error) {
	var out creditDomain.Profile
	res := forUpdate(r.db.WithContext(ctx)).Where("guild_id = ? AND user_id = ?", guildID, userID).First(&out)
	return &out, res.Error
}

func (r *CreditRepository) Create(ctx context.Context, p *creditDomain.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *CreditRepository) Save(ctx context.Context, p *creditDomain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *CreditRepository) ListByUser(ctx context.Context, userID string) ([]creditDomain.Profile, error) {
	var out []creditDomain.Profile
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("guild_id").Find(&out)
	return out, res.Error
}
