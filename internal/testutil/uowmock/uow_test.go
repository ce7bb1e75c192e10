package uowmock

import (
	"context"
	"errors"
	"testing"

	"guild-bank-ledger/internal/domain/loan"
	"guild-bank-ledger/internal/domain/treasury"
	"guild-bank-ledger/internal/domain/uow"
	"guild-bank-ledger/internal/testutil/loanmock"
	"guild-bank-ledger/internal/testutil/treasurymock"
)

func TestUoW_Unimplemented(t *testing.T) {
	m := New()
	ctx := context.Background()

	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx: want errUnimplemented, got %v", err)
	}
	if err := m.WithinLoanTx(ctx, "g", "L1", func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLoanTx: want errUnimplemented, got %v", err)
	}
	if err := m.WithinTreasuryTx(ctx, "g", func(uow.Repos, *treasury.Treasury) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTreasuryTx: want errUnimplemented, got %v", err)
	}
}

func TestUoW_FluentSettersAndReset(t *testing.T) {
	sentinel := errors.New("called")
	m := New().WithWithinTx(func(context.Context, func(uow.Repos) error) error { return sentinel })

	if err := m.WithinTx(context.Background(), nil); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want sentinel, got %v", err)
	}
	m.Reset()
	if m.WithinTxFn != nil {
		t.Fatalf("Reset did not clear WithinTxFn")
	}
}

func TestPassthrough_LoadsLockedRows(t *testing.T) {
	want := &loan.Loan{LoanID: "L0001"}
	r := uow.Repos{
		Loans: &loanmock.Repo{
			GetByLoanIDForUpdateFn: func(context.Context, string) (*loan.Loan, error) { return want, nil },
		},
		Treasuries: &treasurymock.Repo{
			GetForUpdateFn: func(_ context.Context, guildID string) (*treasury.Treasury, error) {
				return &treasury.Treasury{GuildID: guildID}, nil
			},
		},
	}
	m := Passthrough(r)
	ctx := context.Background()

	err := m.WithinLoanTx(ctx, "g1", "L0001", func(_ uow.Repos, l *loan.Loan) error {
		if l != want {
			t.Fatalf("loan mismatch: %+v", l)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}

	err = m.WithinTreasuryTx(ctx, "g1", func(_ uow.Repos, tr *treasury.Treasury) error {
		if tr.GuildID != "g1" {
			t.Fatalf("treasury mismatch: %+v", tr)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTreasuryTx: %v", err)
	}
}
