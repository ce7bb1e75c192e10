package credit

import (
	"guild-bank-ledger/internal/domain/settings"

	"github.com/shopspring/decimal"
)

const (
	MinScore = -100
	MaxScore = 100

	// LegacyUnlimitedScore lifts the loan ceiling entirely. It sits far
	// outside [MinScore, MaxScore] and only triggers on rows written before
	// the clamp existed.
	LegacyUnlimitedScore = 300000

	// OverdueDayPenalty is applied once per newly overdue day.
	OverdueDayPenalty = -1
	// CollectionsPenalty is applied once when a loan goes to collections.
	CollectionsPenalty = -10
)

var minimumRate = decimal.NewFromInt(1)

func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Adjustment maps a score to interest percentage points. Good scores earn a
// discount, bad scores a surcharge capped at +3.
func Adjustment(score int) int {
	switch {
	case score >= 90:
		return -4
	case score >= 75:
		return -3
	case score >= 60:
		return -2
	case score >= 50:
		return -1
	case score >= 0:
		return 0
	case score >= -25:
		return 1
	case score >= -50:
		return 2
	default:
		return 3
	}
}

// InterestRate returns the loan rate in percent, never below 1.
func InterestRate(termDays, score int, s settings.GuildSettings) decimal.Decimal {
	rate := s.BaseInterest.
		Add(s.InterestPerDay.Mul(decimal.NewFromInt(int64(termDays)))).
		Add(decimal.NewFromInt(int64(Adjustment(score))))
	return decimal.Max(minimumRate, rate)
}

// MaxLoan returns the ceiling for a new loan. unlimited reports the legacy
// override, in which case amount is meaningless.
func MaxLoan(p Profile, taxRevenue decimal.Decimal, s settings.GuildSettings) (amount decimal.Decimal, unlimited bool) {
	if p.CreditScore > LegacyUnlimitedScore {
		return decimal.Zero, true
	}
	return taxRevenue.Mul(decimal.NewFromInt(int64(s.MaxLoanMultiplier))), false
}

func TotalScore(scores []int) int {
	total := 0
	for _, s := range scores {
		total += s
	}
	return total
}
