package sweep

import (
	"time"

	"github.com/shopspring/decimal"
)

// Channels the sweep reports are published on.
const (
	OverdueChannel  = "bank:sweeps:overdue"
	DividendChannel = "bank:sweeps:dividends"
)

type Penalty struct {
	GuildID     string `json:"guild_id"`
	LoanID      string `json:"loan_id"`
	UserID      string `json:"user_id"`
	DaysOverdue int    `json:"days_overdue"`
	NewDays     int    `json:"new_days"`
	ScoreDelta  int    `json:"score_delta"`
	Collections bool   `json:"collections"`
	CreditScore int    `json:"credit_score"`
}

type Failure struct {
	GuildID string `json:"guild_id"`
	LoanID  string `json:"loan_id,omitempty"`
	Error   string `json:"error"`
}

type OverdueReport struct {
	RunID     string    `json:"run_id"`
	RanAt     time.Time `json:"ran_at"`
	Guilds    int       `json:"guilds"`
	Scanned   int       `json:"scanned"`
	Penalties []Penalty `json:"penalties"`
	Failures  []Failure `json:"failures"`
}

type Reminder struct {
	UserID           string          `json:"user_id"`
	Username         string          `json:"username"`
	InvestmentAmount decimal.Decimal `json:"investment_amount"`
	Due              decimal.Decimal `json:"due"`
}

type GuildReminder struct {
	GuildID         string          `json:"guild_id"`
	DividendPercent decimal.Decimal `json:"dividend_percent"`
	Total           decimal.Decimal `json:"total"`
	Reminders       []Reminder      `json:"reminders"`
}

type DividendReport struct {
	RunID    string          `json:"run_id"`
	RanAt    time.Time       `json:"ran_at"`
	Guilds   []GuildReminder `json:"guilds"`
	Failures []Failure       `json:"failures"`
}
