package treasury

import (
	"context"
	"errors"

	"guild-bank-ledger/internal/domain/bankerr"
	"guild-bank-ledger/internal/domain/treasury"
	"guild-bank-ledger/internal/domain/uow"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	repo treasury.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(repo treasury.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, uow: tx}
}

func toDTO(t *treasury.Treasury) (*TreasuryDTO, error) {
	l, err := t.Ledger()
	if err != nil {
		return nil, err
	}
	dto := &TreasuryDTO{
		GuildID:        t.GuildID,
		Balance:        t.Balance,
		PendingCount:   len(l.Pending),
		PendingTotal:   decimal.Zero,
		ConfirmedTotal: l.ConfirmedTotal,
		ConfirmedCount: l.ConfirmedCount,
	}
	for _, p := range l.Pending {
		dto.PendingTotal = dto.PendingTotal.Add(p.Amount)
	}
	if !t.UpdatedAt.IsZero() {
		at := t.UpdatedAt
		dto.UpdatedAt = &at
	}
	return dto, nil
}

// Get reports the guild treasury. A guild that never touched the bank reads
// as an empty treasury; no row is created.
func (u *Usecase) Get(ctx context.Context, guildID string) (*TreasuryDTO, error) {
	if err := bankerr.Required("guild_id", guildID); err != nil {
		return nil, err
	}
	t, err := u.repo.Get(ctx, guildID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &TreasuryDTO{GuildID: guildID, Balance: decimal.Zero, PendingTotal: decimal.Zero, ConfirmedTotal: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}
	return toDTO(t)
}

// Deposit credits outside funds to the treasury.
func (u *Usecase) Deposit(ctx context.Context, guildID string, amount int64) (*TreasuryDTO, error) {
	return u.move(ctx, guildID, amount, (*treasury.Treasury).Credit)
}

// Withdraw debits the treasury, refusing to go below zero.
func (u *Usecase) Withdraw(ctx context.Context, guildID string, amount int64) (*TreasuryDTO, error) {
	return u.move(ctx, guildID, amount, (*treasury.Treasury).Debit)
}

func (u *Usecase) move(ctx context.Context, guildID string, amount int64, apply func(*treasury.Treasury, decimal.Decimal) error) (*TreasuryDTO, error) {
	if err := bankerr.Required("guild_id", guildID); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, bankerr.Validation("amount", "must be positive")
	}
	var dto *TreasuryDTO
	err := u.uow.WithinTreasuryTx(ctx, guildID, func(r uow.Repos, t *treasury.Treasury) error {
		if err := apply(t, decimal.NewFromInt(amount)); err != nil {
			return err
		}
		if err := r.Treasuries.Update(ctx, t); err != nil {
			return err
		}
		var err error
		dto, err = toDTO(t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
