package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusDefaulted Status = "defaulted"
)

// Repaid and cancelled loans are deleted, so only the transitions between
// stored states are listed here.
var transitions = map[Status][]Status{
	StatusPending: {StatusActive},
	StatusActive:  {StatusActive, StatusDefaulted},
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Open reports whether the loan still blocks the borrower from a new one.
func (s Status) Open() bool { return s == StatusPending || s == StatusActive }

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusDefaulted:
		return true
	}
	return false
}

type Loan struct {
	LoanID                    string          `gorm:"primaryKey;size:16;uniqueIndex:ux_loans_guild_user_loan,priority:3" json:"loan_id"`
	GuildID                   string          `gorm:"size:32;not null;uniqueIndex:ux_loans_guild_user_loan,priority:1;index:idx_loans_guild_status,priority:1" json:"guild_id"`
	UserID                    string          `gorm:"size:32;not null;uniqueIndex:ux_loans_guild_user_loan,priority:2" json:"user_id"`
	Username                  string          `gorm:"size:100" json:"username"`
	Amount                    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	// PrincipalBase is what the current terms are computed on: the amount
	// at request, the outstanding balance after a refinance.
	PrincipalBase             decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"principal_base"`
	TermDays                  int             `gorm:"not null" json:"term_days"`
	NumWeeks                  int             `gorm:"not null" json:"num_weeks"`
	InterestRate              decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"interest_rate"`
	TotalRepayment            decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_repayment"`
	WeeklyPayment             decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"weekly_payment"`
	Status                    Status          `gorm:"size:16;not null;index:idx_loans_guild_status,priority:2" json:"status"`
	RequestedAt               time.Time       `json:"requested_at"`
	DisbursedAt               *time.Time      `json:"disbursed_at,omitempty"`
	DueDate                   *time.Time      `json:"due_date,omitempty"`
	NextPaymentDue            *time.Time      `json:"next_payment_due,omitempty"`
	LastPaymentDate           *time.Time      `json:"last_payment_date,omitempty"`
	PaymentsMade              int             `gorm:"not null" json:"payments_made"`
	PaymentsRemaining         int             `gorm:"not null" json:"payments_remaining"`
	AmountPaid                decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount_paid"`
	OverdueDaysApplied        int             `gorm:"not null" json:"overdue_days_applied"`
	CollectionsPenaltyApplied bool            `gorm:"not null" json:"collections_penalty_applied"`
	TotalLoansCounted         bool            `gorm:"not null" json:"-"`
	InterestWaivedAt          *time.Time      `json:"interest_waived_at,omitempty"`
	RefinancedAt              *time.Time      `json:"refinanced_at,omitempty"`
	HandledBy                 string          `gorm:"size:32" json:"handled_by,omitempty"`
	Version                   int64           `gorm:"not null" json:"-"`
	CreatedAt                 time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }
