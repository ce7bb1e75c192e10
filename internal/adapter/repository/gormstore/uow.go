package gormstore

import (
	"context"
	"errors"

	"guild-bank-ledger/internal/domain/bankerr"
	loanDomain "guild-bank-ledger/internal/domain/loan"
	treasuryDomain "guild-bank-ledger/internal/domain/treasury"
	"guild-bank-ledger/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Settings:   &SettingsRepository{db: tx},
		Credits:    &CreditRepository{db: tx},
		Loans:      &LoanRepository{db: tx},
		Treasuries: &TreasuryRepository{db: tx},
		Investors:  &InvestorRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, guildID, loanID string, fn func(r uow.Repos, l *loanDomain.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bankerr.NotFound("loan", loanID)
		}
		if err != nil {
			return err
		}
		if l.GuildID != guildID {
			return bankerr.NotFound("loan", loanID)
		}
		return fn(r, l)
	})
}

func (u *GormUoW) WithinTreasuryTx(ctx context.Context, guildID string, fn func(r uow.Repos, t *treasuryDomain.Treasury) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		t, err := treasuryDomain.GetOrInit(ctx, r.Treasuries, guildID)
		if err != nil {
			return err
		}
		return fn(r, t)
	})
}
