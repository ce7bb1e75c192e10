package investmentmock

import (
	"context"

	domain "guild-bank-ledger/internal/domain/investment"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	GetFn           func(ctx context.Context, guildID, userID string) (*domain.Investor, error)
	GetForUpdateFn  func(ctx context.Context, guildID, userID string) (*domain.Investor, error)
	SaveFn          func(ctx context.Context, inv *domain.Investor) error
	DeleteFn        func(ctx context.Context, guildID, userID string) error
	DeleteByGuildFn func(ctx context.Context, guildID string) (int64, error)
	ListByGuildFn   func(ctx context.Context, guildID string) ([]domain.Investor, error)
	ListGuildIDsFn  func(ctx context.Context) ([]string, error)
}

func (m *Repo) Get(ctx context.Context, guildID, userID string) (*domain.Investor, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, guildID, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetForUpdate(ctx context.Context, guildID, userID string) (*domain.Investor, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, guildID, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, inv *domain.Investor) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, inv)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, guildID, userID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, guildID, userID)
	}
	return nil
}

func (m *Repo) DeleteByGuild(ctx context.Context, guildID string) (int64, error) {
	if m.DeleteByGuildFn != nil {
		return m.DeleteByGuildFn(ctx, guildID)
	}
	return 0, nil
}

func (m *Repo) ListByGuild(ctx context.Context, guildID string) ([]domain.Investor, error) {
	if m.ListByGuildFn != nil {
		return m.ListByGuildFn(ctx, guildID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListGuildIDs(ctx context.Context) ([]string, error) {
	if m.ListGuildIDsFn != nil {
		return m.ListGuildIDsFn(ctx)
	}
	return nil, context.Canceled
}
