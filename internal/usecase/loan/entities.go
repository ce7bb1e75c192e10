package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestInput struct {
	GuildID    string
	UserID     string
	Username   string
	Amount     int64
	TermWeeks  int
	TaxRevenue int64 // zero falls back to the guild default
}

// ForgiveInput forgives Amount, or the whole remaining balance when nil.
type ForgiveInput struct {
	Amount    *int64
	HandledBy string
}

type LoanDTO struct {
	LoanID                    string          `json:"loan_id"`
	GuildID                   string          `json:"guild_id"`
	UserID                    string          `json:"user_id"`
	Username                  string          `json:"username"`
	Status                    string          `json:"status"`
	Amount                    decimal.Decimal `json:"amount"`
	TermDays                  int             `json:"term_days"`
	NumWeeks                  int             `json:"num_weeks"`
	InterestRate              decimal.Decimal `json:"interest_rate"`
	TotalRepayment            decimal.Decimal `json:"total_repayment"`
	WeeklyPayment             decimal.Decimal `json:"weekly_payment"`
	AmountPaid                decimal.Decimal `json:"amount_paid"`
	Remaining                 decimal.Decimal `json:"remaining"`
	PaymentsMade              int             `json:"payments_made"`
	PaymentsRemaining         int             `json:"payments_remaining"`
	RequestedAt               time.Time       `json:"requested_at"`
	DisbursedAt               *time.Time      `json:"disbursed_at,omitempty"`
	NextPaymentDue            *time.Time      `json:"next_payment_due,omitempty"`
	DueDate                   *time.Time      `json:"due_date,omitempty"`
	LastPaymentDate           *time.Time      `json:"last_payment_date,omitempty"`
	DaysOverdue               int             `json:"days_overdue"`
	OverdueDaysApplied        int             `json:"overdue_days_applied"`
	CollectionsPenaltyApplied bool            `json:"collections_penalty_applied"`
	InterestWaivedAt          *time.Time      `json:"interest_waived_at,omitempty"`
	RefinancedAt              *time.Time      `json:"refinanced_at,omitempty"`
	HandledBy                 string          `json:"handled_by,omitempty"`
}

// ResultDTO reports a mutation. Closed is true when the loan row was
// removed, in which case Loan is the last state before removal.
type ResultDTO struct {
	Loan   LoanDTO         `json:"loan"`
	Closed bool            `json:"closed"`
	Repaid bool            `json:"repaid"`
	Paid   decimal.Decimal `json:"paid"`
}
