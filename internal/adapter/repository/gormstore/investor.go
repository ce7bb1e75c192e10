package gormstore

import (
	"context"

	investmentDomain "guild-bank-ledger/internal/domain/investment"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvestorRepository struct{ db *gorm.DB }

func NewInvestorRepository(db *gorm.DB) *InvestorRepository { return &InvestorRepository{db: db} }

func (r *InvestorRepository) Get(ctx context.Context, guildID, userID string) (*investmentDomain.Investor, error) {
	var out investmentDomain.Investor
	res := r.db.WithContext(ctx).Where("guild_id = ? AND user_id = ?", guildID, userID).First(&out)
	return &out, res.Error
}

func (r *InvestorRepository) GetForUpdate(ctx context.Context, guildID, userID string) (*investmentDomain.Investor, error) {
	var out investmentDomain.Investor
	res := forUpdate(r.db.WithContext(ctx)).Where("guild_id = ? AND user_id = ?", guildID, userID).First(&out)
	return &out, res.Error
}

func (r *InvestorRepository) Save(ctx context.Context, inv *investmentDomain.Investor) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(inv).Error
}

func (r *InvestorRepository) Delete(ctx context.Context, guildID, userID string) error {
	return r.db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Delete(&investmentDomain.Investor{}).Error
}

func (r *InvestorRepository) DeleteByGuild(ctx context.Context, guildID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("guild_id = ?", guildID).Delete(&investmentDomain.Investor{})
	return res.RowsAffected, res.Error
}

func (r *InvestorRepository) ListByGuild(ctx context.Context, guildID string) ([]investmentDomain.Investor, error) {
	var out []investmentDomain.Investor
	res := r.db.WithContext(ctx).Where("guild_id = ?", guildID).Order("user_id").Find(&out)
	return out, res.Error
}

func (r *InvestorRepository) ListGuildIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&investmentDomain.Investor{}).
		Distinct().
		Order("guild_id").
		Pluck("guild_id", &ids).Error
	return ids, err
}
