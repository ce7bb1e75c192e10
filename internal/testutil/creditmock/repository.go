package creditmock

import (
	"context"

	domain "guild-bank-ledger/internal/domain/credit"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetFn          func(ctx context.Context, guildID, userID string) (*domain.Profile, error)
	GetForUpdateFn func(ctx context.Context, guildID, userID string) (*domain.Profile, error)
	CreateFn       func(ctx context.Context, p *domain.Profile) error
	SaveFn         func(ctx context.Context, p *domain.Profile) error
	ListByUserFn   func(ctx context.Context, userID string) ([]domain.Profile, error)
}

func (m *Repo) Get(ctx context.Context, guildID, userID string) (*domain.Profile, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, guildID, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetForUpdate(ctx context.Context, guildID, userID string) (*domain.Profile, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, guildID, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) Create(ctx context.Context, p *domain.Profile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, p *domain.Profile) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Profile, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, context.Canceled
}
