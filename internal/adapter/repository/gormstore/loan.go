package gormstore

import (
	"context"

	loanDomain "guild-bank-ledger/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// Update writes every column, guarded by the version read with the row.
func (r *LoanRepository) Update(ctx context.Context, l *loanDomain.Loan) error {
	prev := l.Version
	l.Version = prev + 1
	res := r.db.WithContext(ctx).Model(l).Where("version = ?", prev).Select("*").Omit("created_at").Updates(l)
	if res.Error != nil {
		l.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		l.Version = prev
		return loanDomain.ErrConcurrentUpdate
	}
	return nil
}

func (r *LoanRepository) Delete(ctx context.Context, l *loanDomain.Loan) error {
	res := r.db.WithContext(ctx).Where("loan_id = ? AND version = ?", l.LoanID, l.Version).Delete(&loanDomain.Loan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return loanDomain.ErrConcurrentUpdate
	}
	return nil
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := forUpdate(r.db.WithContext(ctx)).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) Exists(ctx context.Context, loanID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).Where("loan_id = ?", loanID).Count(&n).Error
	return n > 0, err
}

func (r *LoanRepository) GetOpenByBorrower(ctx context.Context, guildID, userID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := forUpdate(r.db.WithContext(ctx)).
		Where("guild_id = ? AND user_id = ? AND status IN ?", guildID, userID,
			[]loanDomain.Status{loanDomain.StatusPending, loanDomain.StatusActive}).
		Order("requested_at DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) CountOpen(ctx context.Context, guildID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("guild_id = ? AND status IN ?", guildID,
			[]loanDomain.Status{loanDomain.StatusPending, loanDomain.StatusActive}).
		Count(&n).Error
	return n, err
}

func (r *LoanRepository) ListByStatus(ctx context.Context, guildID string, status loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("guild_id = ? AND status = ?", guildID, status).
		Order("requested_at ASC, loan_id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByBorrower(ctx context.Context, guildID, userID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Order("requested_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListGuildIDs(ctx context.Context, status loanDomain.Status) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("status = ?", status).
		Distinct().
		Order("guild_id").
		Pluck("guild_id", &ids).Error
	return ids, err
}
