package uowmock

import (
	"context"
	"errors"

	"guild-bank-ledger/internal/domain/loan"
	"guild-bank-ledger/internal/domain/treasury"
	"guild-bank-ledger/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn     func(ctx context.Context, guildID, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error
	WithinTreasuryTxFn func(ctx context.Context, guildID string, fn func(r uow.Repos, t *treasury.Treasury) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every callback directly against r, loading the locked
// rows through r the way the gorm implementation does.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error { return fn(r) },
		WithinLoanTxFn: func(ctx context.Context, guildID, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
			l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
			if err != nil {
				return err
			}
			return fn(r, l)
		},
		WithinTreasuryTxFn: func(ctx context.Context, guildID string, fn func(uow.Repos, *treasury.Treasury) error) error {
			t, err := treasury.GetOrInit(ctx, r.Treasuries, guildID)
			if err != nil {
				return err
			}
			return fn(r, t)
		},
	}
}

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}

func (m *UoW) WithWithinLoanTx(fn func(context.Context, string, string, func(uow.Repos, *loan.Loan) error) error) *UoW {
	m.WithinLoanTxFn = fn
	return m
}

func (m *UoW) WithWithinTreasuryTx(fn func(context.Context, string, func(uow.Repos, *treasury.Treasury) error) error) *UoW {
	m.WithinTreasuryTxFn = fn
	return m
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, guildID, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, guildID, loanID, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinTreasuryTx(ctx context.Context, guildID string, fn func(r uow.Repos, t *treasury.Treasury) error) error {
	if m.WithinTreasuryTxFn != nil {
		return m.WithinTreasuryTxFn(ctx, guildID, fn)
	}
	return errUnimplemented
}
