package uow

import (
	"context"

	"guild-bank-ledger/internal/domain/credit"
	"guild-bank-ledger/internal/domain/investment"
	"guild-bank-ledger/internal/domain/loan"
	"guild-bank-ledger/internal/domain/settings"
	"guild-bank-ledger/internal/domain/treasury"
)

// Repos are bound to one transaction. Rows are locked in the order
// loan, treasury, investor, credit profile.
type Repos struct {
	Settings   settings.Repository
	Credits    credit.Repository
	Loans      loan.Repository
	Treasuries treasury.Repository
	Investors  investment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan first, then pass it in; the loan must belong to guildID
	WithinLoanTx(ctx context.Context, guildID, loanID string, fn func(r Repos, l *loan.Loan) error) error
	// lock (or create) the guild treasury first, then pass it in
	WithinTreasuryTx(ctx context.Context, guildID string, fn func(r Repos, t *treasury.Treasury) error) error
}
