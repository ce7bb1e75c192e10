package credit

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProfileDTO struct {
	UserID                string     `json:"user_id"`
	GuildID               string     `json:"guild_id"`
	Username              string     `json:"username"`
	CreditScore           int        `json:"credit_score"`
	InterestAdjustment    int        `json:"interest_adjustment"`
	TotalLoans            int        `json:"total_loans"`
	LoansRepaid           int        `json:"loans_repaid"`
	PendingOverduePenalty int        `json:"pending_overdue_penalty"`
	LastPaymentDate       *time.Time `json:"last_payment_date,omitempty"`
	LastPenaltyDate       *time.Time `json:"last_penalty_date,omitempty"`
}

type GuildScore struct {
	GuildID     string `json:"guild_id"`
	CreditScore int    `json:"credit_score"`
}

type GlobalDTO struct {
	UserID     string       `json:"user_id"`
	TotalScore int          `json:"total_score"`
	Guilds     []GuildScore `json:"guilds"`
}

type QuoteInput struct {
	GuildID    string
	UserID     string
	Amount     int64
	TermWeeks  int
	TaxRevenue int64
}

type QuoteDTO struct {
	CreditScore    int             `json:"credit_score"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	TotalRepayment decimal.Decimal `json:"total_repayment"`
	WeeklyPayment  decimal.Decimal `json:"weekly_payment"`
	NumWeeks       int             `json:"num_weeks"`
	MaxLoan        decimal.Decimal `json:"max_loan"`
	Unlimited      bool            `json:"unlimited"`
}
