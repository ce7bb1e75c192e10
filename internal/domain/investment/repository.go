package investment

import "context"

type Repository interface {
	Get(ctx context.Context, guildID, userID string) (*Investor, error)
	GetForUpdate(ctx context.Context, guildID, userID string) (*Investor, error)
	Save(ctx context.Context, inv *Investor) error
	Delete(ctx context.Context, guildID, userID string) error
	DeleteByGuild(ctx context.Context, guildID string) (int64, error)
	ListByGuild(ctx context.Context, guildID string) ([]Investor, error)
	ListGuildIDs(ctx context.Context) ([]string, error)
}
