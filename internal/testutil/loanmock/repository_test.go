package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "guild-bank-ledger/internal/domain/loan"
)

func TestRepo_UsesProvidedFuncs(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: "L0001"}
	wantErr := errors.New("boom")

	called := false
	m := &Repo{
		UpdateFn: func(gotCtx context.Context, got *domain.Loan) error {
			called = true
			if gotCtx != ctx || got != l {
				t.Fatalf("Update arg mismatch")
			}
			return wantErr
		},
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*domain.Loan, error) {
			if loanID != "L0001" {
				t.Fatalf("loanID mismatch: got %s", loanID)
			}
			return l, nil
		},
	}
	if err := m.Update(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Update: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("UpdateFn not called")
	}
	got, err := m.GetByLoanIDForUpdate(ctx, "L0001")
	if err != nil || got != l {
		t.Fatalf("GetByLoanIDForUpdate = %+v, %v", got, err)
	}
}

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	// writes: no-op, nil error
	if err := m.Create(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
	if err := m.Delete(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Delete default: want nil, got %v", err)
	}

	// reads: context.Canceled
	if _, err := m.GetByLoanID(ctx, "x"); err != context.Canceled {
		t.Fatalf("GetByLoanID default: want context.Canceled, got %v", err)
	}
	if _, err := m.GetOpenByBorrower(ctx, "g", "u"); err != context.Canceled {
		t.Fatalf("GetOpenByBorrower default: want context.Canceled, got %v", err)
	}
	if _, err := m.ListGuildIDs(ctx, domain.StatusActive); err != context.Canceled {
		t.Fatalf("ListGuildIDs default: want context.Canceled, got %v", err)
	}
	if _, err := m.Exists(ctx, "x"); err != context.Canceled {
		t.Fatalf("Exists default: want context.Canceled, got %v", err)
	}
}
