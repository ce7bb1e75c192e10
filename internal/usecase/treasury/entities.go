package treasury

import (
	"time"

	"github.com/shopspring/decimal"
)

type TreasuryDTO struct {
	GuildID        string          `json:"guild_id"`
	Balance        decimal.Decimal `json:"balance"`
	PendingCount   int             `json:"pending_count"`
	PendingTotal   decimal.Decimal `json:"pending_total"`
	ConfirmedTotal decimal.Decimal `json:"confirmed_total"`
	ConfirmedCount int             `json:"confirmed_count"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}
