package loan

import (
	"context"

	"guild-bank-ledger/internal/domain/bankerr"
)

// ErrConcurrentUpdate is returned by Update when the stored version moved.
var ErrConcurrentUpdate error = &bankerr.StateConflictError{Reason: "loan updated concurrently"}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Update(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Exists(ctx context.Context, loanID string) (bool, error)
	GetOpenByBorrower(ctx context.Context, guildID, userID string) (*Loan, error)
	CountOpen(ctx context.Context, guildID string) (int64, error)
	ListByStatus(ctx context.Context, guildID string, status Status) ([]Loan, error)
	ListByBorrower(ctx context.Context, guildID, userID string) ([]Loan, error)
	ListGuildIDs(ctx context.Context, status Status) ([]string, error)
}
