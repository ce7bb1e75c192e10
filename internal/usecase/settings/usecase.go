package settings

import (
	"context"
	"errors"

	"guild-bank-ledger/internal/domain/bankerr"
	"guild-bank-ledger/internal/domain/settings"
	"guild-bank-ledger/internal/domain/uow"

	"gorm.io/gorm"
)

type Usecase struct {
	repo settings.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(repo settings.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, uow: tx}
}

func (u *Usecase) Get(ctx context.Context, guildID string) (*SettingsDTO, error) {
	if err := bankerr.Required("guild_id", guildID); err != nil {
		return nil, err
	}
	s, err := u.repo.Get(ctx, guildID)
	switch {
	case err == nil:
		return &SettingsDTO{GuildSettings: *s, Customized: true}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &SettingsDTO{GuildSettings: settings.Defaults(guildID)}, nil
	default:
		return nil, err
	}
}

// Update merges patch over the effective settings and stores the result.
func (u *Usecase) Update(ctx context.Context, guildID string, patch settings.Patch) (*SettingsDTO, error) {
	if err := bankerr.Required("guild_id", guildID); err != nil {
		return nil, err
	}
	var dto *SettingsDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		current, err := settings.Resolve(ctx, r.Settings, guildID)
		if err != nil {
			return err
		}
		next := current.Apply(patch)
		next.GuildID = guildID
		if err := next.Validate(); err != nil {
			return err
		}
		if err := r.Settings.Upsert(ctx, &next); err != nil {
			return err
		}
		dto = &SettingsDTO{GuildSettings: next, Customized: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Reset drops the stored row so the guild falls back to defaults.
func (u *Usecase) Reset(ctx context.Context, guildID string) (*SettingsDTO, error) {
	if err := bankerr.Required("guild_id", guildID); err != nil {
		return nil, err
	}
	if err := u.repo.Delete(ctx, guildID); err != nil {
		return nil, err
	}
	return &SettingsDTO{GuildSettings: settings.Defaults(guildID)}, nil
}
