package investment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Investor struct {
	GuildID             string          `gorm:"primaryKey;size:32" json:"guild_id"`
	UserID              string          `gorm:"primaryKey;size:32" json:"user_id"`
	Username            string          `gorm:"size:100" json:"username"`
	InvestmentAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"investment_amount"`
	ReinvestmentEnabled bool            `gorm:"not null" json:"reinvestment_enabled"`
	DividendsReceived   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"dividends_received"`
	LastDividendDate    *time.Time      `json:"last_dividend_date,omitempty"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Investor) TableName() string { return "investors" }
