package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Get(ctx context.Context, guildID string) (*GuildSettings, error)
	Upsert(ctx context.Context, s *GuildSettings) error
	Delete(ctx context.Context, guildID string) error
}

// Resolve returns the stored settings or the defaults when none were saved.
func Resolve(ctx context.Context, repo Repository, guildID string) (GuildSettings, error) {
	s, err := repo.Get(ctx, guildID)
	switch {
	case err == nil:
		return *s, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Defaults(guildID), nil
	default:
		return GuildSettings{}, err
	}
}
