package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DaysPerWeek = 7
	week        = DaysPerWeek * 24 * time.Hour
	day         = 24 * time.Hour
)

var hundred = decimal.NewFromInt(100)

// NormalizeTermWeeks accepts either a week count or a day count that is an
// exact multiple of seven, and returns weeks. ok is false for anything else.
func NormalizeTermWeeks(term int, maxWeeks int) (weeks int, ok bool) {
	if term >= 1 && term <= maxWeeks {
		return term, true
	}
	if term > maxWeeks && term%DaysPerWeek == 0 {
		w := term / DaysPerWeek
		if w >= 1 && w <= maxWeeks {
			return w, true
		}
	}
	return 0, false
}

// Terms derives the repayment schedule for base at rate percent over weeks.
func Terms(base decimal.Decimal, rate decimal.Decimal, weeks int) (total, weekly decimal.Decimal) {
	total = base.Mul(decimal.NewFromInt(1).Add(rate.Div(hundred))).Round(2)
	weekly = total.Div(decimal.NewFromInt(int64(weeks))).Ceil()
	return total, weekly
}

func (l *Loan) Remaining() decimal.Decimal {
	return l.TotalRepayment.Sub(l.AmountPaid)
}

// PaymentsLeft is the number of weekly instalments needed to cover remaining.
func (l *Loan) PaymentsLeft() int {
	rem := l.Remaining()
	if !rem.IsPositive() || !l.WeeklyPayment.IsPositive() {
		return 0
	}
	return int(rem.Div(l.WeeklyPayment).Ceil().IntPart())
}

// DaysOverdue counts whole days past the next payment due date.
func (l *Loan) DaysOverdue(now time.Time) int {
	if l.NextPaymentDue == nil || !now.After(*l.NextPaymentDue) {
		return 0
	}
	return int(now.Sub(*l.NextPaymentDue) / day)
}

// PastFinalDue reports whether the final scheduled date passed unpaid.
func (l *Loan) PastFinalDue(now time.Time) bool {
	return l.DueDate != nil && now.After(*l.DueDate) && l.Remaining().IsPositive()
}

// Activate moves a pending loan to active at now with a fresh schedule.
func (l *Loan) Activate(now time.Time) {
	l.Status = StatusActive
	l.DisbursedAt = &now
	next := now
	l.NextPaymentDue = &next
	l.Reschedule(now)
	l.PaymentsRemaining = l.NumWeeks
}

// Reschedule recomputes the final due date from the week count.
func (l *Loan) Reschedule(from time.Time) {
	due := from.Add(time.Duration(l.NumWeeks) * week)
	l.DueDate = &due
}

// AdvanceDue moves the next payment reference forward by the instalments
// paid covers, at least one. Overdue days already charged against the old
// reference carry over, less the days the move absorbs.
func (l *Loan) AdvanceDue(paid decimal.Decimal) int {
	if l.NextPaymentDue == nil {
		return 0
	}
	weeks := 1
	if l.WeeklyPayment.IsPositive() {
		if n := int(paid.Div(l.WeeklyPayment).Floor().IntPart()); n > weeks {
			weeks = n
		}
	}
	next := l.NextPaymentDue.Add(time.Duration(weeks) * week)
	l.NextPaymentDue = &next
	l.OverdueDaysApplied -= weeks * DaysPerWeek
	if l.OverdueDaysApplied < 0 {
		l.OverdueDaysApplied = 0
	}
	return weeks
}
