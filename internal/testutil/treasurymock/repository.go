package treasurymock

import (
	"context"

	domain "guild-bank-ledger/internal/domain/treasury"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	GetFn          func(ctx context.Context, guildID string) (*domain.Treasury, error)
	GetForUpdateFn func(ctx context.Context, guildID string) (*domain.Treasury, error)
	CreateFn       func(ctx context.Context, t *domain.Treasury) error
	UpdateFn       func(ctx context.Context, t *domain.Treasury) error
}

func (m *Repo) Get(ctx context.Context, guildID string) (*domain.Treasury, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, guildID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetForUpdate(ctx context.Context, guildID string) (*domain.Treasury, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, guildID)
	}
	return nil, context.Canceled
}

func (m *Repo) Create(ctx context.Context, t *domain.Treasury) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) Update(ctx context.Context, t *domain.Treasury) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, t)
	}
	return nil
}
