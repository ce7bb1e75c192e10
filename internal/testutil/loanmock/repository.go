package loanmock

import (
	"context"

	domain "guild-bank-ledger/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error; reads default to context.Canceled.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	UpdateFn               func(ctx context.Context, l *domain.Loan) error
	DeleteFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ExistsFn               func(ctx context.Context, loanID string) (bool, error)
	GetOpenByBorrowerFn    func(ctx context.Context, guildID, userID string) (*domain.Loan, error)
	CountOpenFn            func(ctx context.Context, guildID string) (int64, error)
	ListByStatusFn         func(ctx context.Context, guildID string, status domain.Status) ([]domain.Loan, error)
	ListByBorrowerFn       func(ctx context.Context, guildID, userID string) ([]domain.Loan, error)
	ListGuildIDsFn         func(ctx context.Context, status domain.Status) ([]string, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Update(ctx context.Context, l *domain.Loan) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, l *domain.Loan) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) Exists(ctx context.Context, loanID string) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, loanID)
	}
	return false, context.Canceled
}

func (m *Repo) GetOpenByBorrower(ctx context.Context, guildID, userID string) (*domain.Loan, error) {
	if m.GetOpenByBorrowerFn != nil {
		return m.GetOpenByBorrowerFn(ctx, guildID, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) CountOpen(ctx context.Context, guildID string) (int64, error) {
	if m.CountOpenFn != nil {
		return m.CountOpenFn(ctx, guildID)
	}
	return 0, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, guildID string, status domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, guildID, status)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByBorrower(ctx context.Context, guildID, userID string) ([]domain.Loan, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, guildID, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListGuildIDs(ctx context.Context, status domain.Status) ([]string, error) {
	if m.ListGuildIDsFn != nil {
		return m.ListGuildIDsFn(ctx, status)
	}
	return nil, context.Canceled
}
