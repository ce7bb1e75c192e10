package settings

import (
	"fmt"

	"guild-bank-ledger/internal/domain/bankerr"

	"github.com/shopspring/decimal"
)

// Score bounds are duplicated from the credit package to keep settings a leaf.
const (
	scoreFloor   = -100
	scoreCeiling = 100
)

func (s GuildSettings) Validate() error {
	switch {
	case s.MaxLoans < 0:
		return bankerr.Validation("max_loans", "must not be negative")
	case s.MaxLoanMultiplier <= 0:
		return bankerr.Validation("max_loan_multiplier", "must be positive")
	case s.DividendPercent.IsNegative() || s.DividendPercent.GreaterThan(decimal.NewFromInt(1)):
		return bankerr.Validation("dividend_percent", "must be between 0 and 1")
	case s.BaseInterest.IsNegative():
		return bankerr.Validation("base_interest", "must not be negative")
	case s.InterestPerDay.IsNegative():
		return bankerr.Validation("interest_per_day", "must not be negative")
	case s.MaxLoanWeeks < 1 || s.MaxLoanWeeks > MaxLoanWeeksCeiling:
		return bankerr.Validation("max_loan_weeks", fmt.Sprintf("must be between 1 and %d", MaxLoanWeeksCeiling))
	case s.MaxInvestmentAmount.IsNegative():
		return bankerr.Validation("max_investment_amount", "must not be negative")
	case s.DefaultCreditScore < scoreFloor || s.DefaultCreditScore > scoreCeiling:
		return bankerr.Validation("default_credit_score", fmt.Sprintf("must be between %d and %d", scoreFloor, scoreCeiling))
	case !s.DefaultTaxRevenue.IsPositive():
		return bankerr.Validation("default_tax_revenue", "must be positive")
	}
	return nil
}
