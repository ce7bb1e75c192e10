package treasury

import (
	"context"
	"errors"

	"guild-bank-ledger/internal/domain/bankerr"

	"gorm.io/gorm"
)

var ErrConcurrentUpdate error = &bankerr.StateConflictError{Reason: "treasury updated concurrently"}

type Repository interface {
	Get(ctx context.Context, guildID string) (*Treasury, error)
	GetForUpdate(ctx context.Context, guildID string) (*Treasury, error)
	Create(ctx context.Context, t *Treasury) error
	Update(ctx context.Context, t *Treasury) error
}

// GetOrInit returns the locked treasury row, creating a zero balance one on
// first use.
func GetOrInit(ctx context.Context, repo Repository, guildID string) (*Treasury, error) {
	t, err := repo.GetForUpdate(ctx, guildID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	t = &Treasury{GuildID: guildID}
	if err := t.SetLedger(Ledger{}); err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
