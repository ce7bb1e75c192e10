package settings

import "guild-bank-ledger/internal/domain/settings"

type SettingsDTO struct {
	settings.GuildSettings
	// Customized is false when the guild runs on defaults.
	Customized bool `json:"customized"`
}
