package settingsmock

import (
	"context"

	domain "guild-bank-ledger/internal/domain/settings"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo defaults Get to gorm.ErrRecordNotFound so callers fall back to
// guild defaults without extra wiring.
type Repo struct {
	GetFn    func(ctx context.Context, guildID string) (*domain.GuildSettings, error)
	UpsertFn func(ctx context.Context, s *domain.GuildSettings) error
	DeleteFn func(ctx context.Context, guildID string) error
}

func (m *Repo) Get(ctx context.Context, guildID string) (*domain.GuildSettings, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, guildID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Upsert(ctx context.Context, s *domain.GuildSettings) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, s)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, guildID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, guildID)
	}
	return nil
}
