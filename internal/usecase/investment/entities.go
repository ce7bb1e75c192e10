package investment

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestInput struct {
	GuildID  string
	UserID   string
	Username string
	Amount   int64
}

type PendingDTO struct {
	TxnID       string          `json:"txn_id"`
	GuildID     string          `json:"guild_id"`
	UserID      string          `json:"user_id"`
	Username    string          `json:"username"`
	Amount      decimal.Decimal `json:"amount"`
	RequestedAt time.Time       `json:"requested_at"`
}

type InvestorDTO struct {
	GuildID             string          `json:"guild_id"`
	UserID              string          `json:"user_id"`
	Username            string          `json:"username"`
	InvestmentAmount    decimal.Decimal `json:"investment_amount"`
	ReinvestmentEnabled bool            `json:"reinvestment_enabled"`
	DividendsReceived   decimal.Decimal `json:"dividends_received"`
	LastDividendDate    *time.Time      `json:"last_dividend_date,omitempty"`
}

type WithdrawDTO struct {
	GuildID   string          `json:"guild_id"`
	UserID    string          `json:"user_id"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
	Remaining decimal.Decimal `json:"remaining"`
	// Removed is true when the withdrawal emptied the position.
	Removed bool `json:"removed"`
}

type Share struct {
	UserID     string          `json:"user_id"`
	Username   string          `json:"username"`
	Invested   decimal.Decimal `json:"invested"`
	Amount     decimal.Decimal `json:"amount"`
	Reinvested bool            `json:"reinvested"`
}

// DividendReport describes one distribution. Remainder is the part of Total
// lost to flooring; it is debited but credited to nobody.
type DividendReport struct {
	GuildID     string          `json:"guild_id"`
	Total       decimal.Decimal `json:"total"`
	Distributed decimal.Decimal `json:"distributed"`
	Remainder   decimal.Decimal `json:"remainder"`
	Shares      []Share         `json:"shares"`
	PaidAt      time.Time       `json:"paid_at"`
}

type ClearDTO struct {
	GuildID          string `json:"guild_id"`
	InvestorsRemoved int64  `json:"investors_removed"`
}
