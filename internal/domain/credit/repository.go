package credit

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Get(ctx context.Context, guildID, userID string) (*Profile, error)
	GetForUpdate(ctx context.Context, guildID, userID string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Save(ctx context.Context, p *Profile) error
	ListByUser(ctx context.Context, userID string) ([]Profile, error)
}

// GetOrInit loads the profile under lock, creating one at defaultScore when
// the member has never interacted with the bank. A non-empty username
// refreshes the stored display name.
func GetOrInit(ctx context.Context, repo Repository, guildID, userID, username string, defaultScore int) (*Profile, error) {
	p, err := repo.GetForUpdate(ctx, guildID, userID)
	if err == nil {
		if username != "" {
			p.Username = username
		}
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	p = &Profile{
		UserID:      userID,
		GuildID:     guildID,
		Username:    username,
		CreditScore: Clamp(defaultScore),
	}
	if err := repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
