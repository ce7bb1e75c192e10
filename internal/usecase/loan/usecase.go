package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guild-bank-ledger/internal/domain/bankerr"
	"guild-bank-ledger/internal/domain/credit"
	"guild-bank-ledger/internal/domain/loan"
	"guild-bank-ledger/internal/domain/settings"
	"guild-bank-ledger/internal/domain/treasury"
	"guild-bank-ledger/internal/domain/uow"
	"guild-bank-ledger/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const loanIDPrefix = "L"

type Usecase struct {
	loans loan.Repository
	uow   uow.UnitOfWork
	now   func() time.Time
}

// NewUsecase: loans serves read-only listings, tx every mutation.
func NewUsecase(loans loan.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loans: loans, uow: tx, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source, for tests and replays.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func toDTO(l *loan.Loan, now time.Time) LoanDTO {
	return LoanDTO{
		LoanID:                    l.LoanID,
		GuildID:                   l.GuildID,
		UserID:                    l.UserID,
		Username:                  l.Username,
		Status:                    string(l.Status),
		Amount:                    l.Amount,
		TermDays:                  l.TermDays,
		NumWeeks:                  l.NumWeeks,
		InterestRate:              l.InterestRate,
		TotalRepayment:            l.TotalRepayment,
		WeeklyPayment:             l.WeeklyPayment,
		AmountPaid:                l.AmountPaid,
		Remaining:                 decimal.Max(decimal.Zero, l.Remaining()),
		PaymentsMade:              l.PaymentsMade,
		PaymentsRemaining:         l.PaymentsRemaining,
		RequestedAt:               l.RequestedAt,
		DisbursedAt:               l.DisbursedAt,
		NextPaymentDue:            l.NextPaymentDue,
		DueDate:                   l.DueDate,
		LastPaymentDate:           l.LastPaymentDate,
		DaysOverdue:               l.DaysOverdue(now),
		OverdueDaysApplied:        l.OverdueDaysApplied,
		CollectionsPenaltyApplied: l.CollectionsPenaltyApplied,
		InterestWaivedAt:          l.InterestWaivedAt,
		RefinancedAt:              l.RefinancedAt,
		HandledBy:                 l.HandledBy,
	}
}

func requireStatus(l *loan.Loan, want loan.Status, action string) error {
	if l.Status != want {
		return bankerr.StateConflict("cannot %s loan %s: status is %s, want %s", action, l.LoanID, l.Status, want)
	}
	return nil
}

func termError(maxWeeks int) error {
	return bankerr.Validation("term_weeks", fmt.Sprintf("must be between 1 and %d weeks (or a matching multiple of 7 days)", maxWeeks))
}

// Request validates and stores a pending loan. The treasury is checked but
// not debited.
func (u *Usecase) Request(ctx context.Context, in RequestInput) (*LoanDTO, error) {
	if err := bankerr.Required("guild_id", in.GuildID); err != nil {
		return nil, err
	}
	if err := bankerr.Required("user_id", in.UserID); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, bankerr.Validation("amount", "must be positive")
	}
	if in.TaxRevenue < 0 {
		return nil, bankerr.Validation("tax_revenue", "must be positive")
	}
	now := u.now()
	amount := decimal.NewFromInt(in.Amount)

	var dto LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := settings.Resolve(ctx, r.Settings, in.GuildID)
		if err != nil {
			return err
		}
		weeks, ok := loan.NormalizeTermWeeks(in.TermWeeks, s.MaxLoanWeeks)
		if !ok {
			return termError(s.MaxLoanWeeks)
		}
		taxRevenue := s.DefaultTaxRevenue
		if in.TaxRevenue > 0 {
			taxRevenue = decimal.NewFromInt(in.TaxRevenue)
		}

		open, err := r.Loans.GetOpenByBorrower(ctx, in.GuildID, in.UserID)
		switch {
		case err == nil:
			return bankerr.StateConflict("member already has a %s loan %s", open.Status, open.LoanID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		if s.MaxLoans > 0 {
			n, err := r.Loans.CountOpen(ctx, in.GuildID)
			if err != nil {
				return err
			}
			if n >= int64(s.MaxLoans) {
				return bankerr.StateConflict("guild already has %d outstanding loans (limit %d)", n, s.MaxLoans)
			}
		}

		t, err := treasury.GetOrInit(ctx, r.Treasuries, in.GuildID)
		if err != nil {
			return err
		}
		p, err := credit.GetOrInit(ctx, r.Credits, in.GuildID, in.UserID, in.Username, s.DefaultCreditScore)
		if err != nil {
			return err
		}
		if maxLoan, unlimited := credit.MaxLoan(*p, taxRevenue, s); !unlimited && amount.GreaterThan(maxLoan) {
			return bankerr.Validation("amount", "exceeds the maximum loan of "+maxLoan.StringFixed(0))
		}
		if !t.CanFund(amount) {
			return bankerr.InsufficientFunds(t.Balance, amount)
		}

		loanID, err := id.UniqueTicket(loanIDPrefix, func(candidate string) (bool, error) {
			return r.Loans.Exists(ctx, candidate)
		})
		if err != nil {
			return err
		}

		termDays := weeks * loan.DaysPerWeek
		rate := credit.InterestRate(termDays, p.CreditScore, s)
		total, weekly := loan.Terms(amount, rate, weeks)
		l := &loan.Loan{
			LoanID:         loanID,
			GuildID:        in.GuildID,
			UserID:         in.UserID,
			Username:       in.Username,
			Amount:         amount,
			PrincipalBase:  amount,
			TermDays:       termDays,
			NumWeeks:       weeks,
			InterestRate:   rate,
			TotalRepayment: total,
			WeeklyPayment:  weekly,
			Status:         loan.StatusPending,
			RequestedAt:    now,
			AmountPaid:     decimal.Zero,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if in.Username != "" {
			if err := r.Credits.Save(ctx, p); err != nil {
				return err
			}
		}
		dto = toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Confirm disburses a pending loan: terms are recomputed with the current
// score, the treasury is debited and the borrower's loan count bumped once.
func (u *Usecase) Confirm(ctx context.Context, guildID, loanID, handledBy string) (*LoanDTO, error) {
	now := u.now()
	var dto LoanDTO
	err := u.uow.WithinLoanTx(ctx, guildID, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.DisbursedAt != nil {
			return bankerr.StateConflict("loan %s was already disbursed", l.LoanID)
		}
		if err := requireStatus(l, loan.StatusPending, "confirm"); err != nil {
			return err
		}
		s, err := settings.Resolve(ctx, r.Settings, guildID)
		if err != nil {
			return err
		}
		t, err := treasury.GetOrInit(ctx, r.Treasuries, guildID)
		if err != nil {
			return err
		}
		if err := t.Debit(l.Amount); err != nil {
			return err
		}
		p, err := credit.GetOrInit(ctx, r.Credits, guildID, l.UserID, "", s.DefaultCreditScore)
		if err != nil {
			return err
		}

		l.InterestRate = credit.InterestRate(l.TermDays, p.CreditScore, s)
		l.TotalRepayment, l.WeeklyPayment = loan.Terms(l.PrincipalBase, l.InterestRate, l.NumWeeks)
		l.Activate(now)
		l.HandledBy = handledBy
		if !l.TotalLoansCounted {
			p.TotalLoans++
			l.TotalLoansCounted = true
		}

		if err := r.Treasuries.Update(ctx, t); err != nil {
			return err
		}
		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}
		if err := r.Credits.Save(ctx, p); err != nil {
			return err
		}
		dto = toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// closeRepaid deletes a fully settled loan and credits the borrower.
func closeRepaid(ctx context.Context, r uow.Repos, l *loan.Loan, now time.Time, payment bool) error {
	s, err := settings.Resolve(ctx, r.Settings, l.GuildID)
	if err != nil {
		return err
	}
	p, err := credit.GetOrInit(ctx, r.Credits, l.GuildID, l.UserID, "", s.DefaultCreditScore)
	if err != nil {
		return err
	}
	p.LoansRepaid++
	if payment {
		p.LastPaymentDate = &now
	}
	if err := r.Credits.Save(ctx, p); err != nil {
		return err
	}
	return r.Loans.Delete(ctx, l)
}

// RecordPayment credits the treasury and applies the payment to the loan.
// A payment that covers the remaining balance closes the loan.
func (u *Usecase) RecordPayment(ctx context.Context, guildID, loanID string, amount int64, handledBy string) (*ResultDTO, error) {
	if amount <= 0 {
		return nil, bankerr.Validation("amount", "must be positive")
	}
	paid := decimal.NewFromInt(amount)
	now := u.now()
	var res ResultDTO
	err := u.uow.WithinLoanTx(ctx, guildID, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := requireStatus(l, loan.StatusActive, "record a payment on"); err != nil {
			return err
		}
		t, err := treasury.GetOrInit(ctx, r.Treasuries, guildID)
		if err != nil {
			return err
		}
		if err := t.Credit(paid); err != nil {
			return err
		}
		if err := r.Treasuries.Update(ctx, t); err != nil {
			return err
		}

		l.AmountPaid = l.AmountPaid.Add(paid)
		l.LastPaymentDate = &now
		l.HandledBy = handledBy
		res.Paid = paid

		if !l.Remaining().IsPositive() {
			l.PaymentsMade++
			l.PaymentsRemaining = 0
			res.Loan, res.Closed, res.Repaid = toDTO(l, now), true, true
			return closeRepaid(ctx, r, l, now, true)
		}

		l.PaymentsMade++
		l.PaymentsRemaining = l.PaymentsLeft()
		l.AdvanceDue(paid)
		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}

		s, err := settings.Resolve(ctx, r.Settings, guildID)
		if err != nil {
			return err
		}
		p, err := credit.GetOrInit(ctx, r.Credits, guildID, l.UserID, "", s.DefaultCreditScore)
		if err != nil {
			return err
		}
		p.LastPaymentDate = &now
		if err := r.Credits.Save(ctx, p); err != nil {
			return err
		}
		res.Loan = toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Cancel removes a pending loan.
func (u *Usecase) Cancel(ctx context.Context, guildID, loanID string) (*ResultDTO, error) {
	now := u.now()
	var res ResultDTO
	err := u.uow.WithinLoanTx(ctx, guildID, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := requireStatus(l, loan.StatusPending, "cancel"); err != nil {
			return err
		}
		res.Loan, res.Closed = toDTO(l, now), true
		return r.Loans.Delete(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// WaiveInterest reprices an active loan at newRate percent on its
// principal base. Zero waives interest entirely.
func (u *Usecase) WaiveInterest(ctx context.Context, guildID, loanID string, newRate decimal.Decimal, handledBy string) (*ResultDTO, error) {
	if newRate.IsNegative() {
		return nil, bankerr.Validation("new_rate", "must not be negative")
	}
	now := u.now()
	var res ResultDTO
	err := u.uow.WithinLoanTx(ctx, guildID, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := requireStatus(l, loan.StatusActive, "waive interest on"); err != nil {
			return err
		}
		l.InterestRate = newRate
		l.TotalRepayment, l.WeeklyPayment = loan.Terms(l.PrincipalBase, newRate, l.NumWeeks)
		l.InterestWaivedAt = &now
		l.HandledBy = handledBy

		if !l.Remaining().IsPositive() {
			l.PaymentsRemaining = 0
			res.Loan, res.Closed, res.Repaid = toDTO(l, now), true, true
			return closeRepaid(ctx, r, l, now, false)
		}
		l.PaymentsRemaining = l.PaymentsLeft()
		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}
		res.Loan = toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Forgive writes off part or all of the remaining balance.
func (u *Usecase) Forgive(ctx context.Context, guildID, loanID string, in ForgiveInput) (*ResultDTO, error) {
	if in.Amount != nil && *in.Amount <= 0 {
		return nil, bankerr.Validation("amount", "must be positive")
	}
	now := u.now()
	var res ResultDTO
	err := u.uow.WithinLoanTx(ctx, guildID, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := requireStatus(l, loan.StatusActive, "forgive"); err != nil {
			return err
		}
		remaining := l.Remaining()
		cut := remaining
		if in.Amount != nil {
			cut = decimal.Min(decimal.NewFromInt(*in.Amount), remaining)
		}
		l.TotalRepayment = l.TotalRepayment.Sub(cut)
		l.HandledBy = in.HandledBy

		if !l.Remaining().IsPositive() {
			l.PaymentsRemaining = 0
			res.Loan, res.Closed, res.Repaid = toDTO(l, now), true, true
			return closeRepaid(ctx, r, l, now, false)
		}
		l.PaymentsRemaining = l.PaymentsLeft()
		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}
		res.Loan = toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Refinance rolls the outstanding balance into fresh terms priced on the
// new term and the borrower's current score.
func (u *Usecase) Refinance(ctx context.Context, guildID, loanID string, newTermWeeks int, handledBy string) (*LoanDTO, error) {
	now := u.now()
	var dto LoanDTO
	err := u.uow.WithinLoanTx(ctx, guildID, loanID, func(r uow.Repos, l *loan.Loan) error {
		if err := requireStatus(l, loan.StatusActive, "refinance"); err != nil {
			return err
		}
		s, err := settings.Resolve(ctx, r.Settings, guildID)
		if err != nil {
			return err
		}
		weeks, ok := loan.NormalizeTermWeeks(newTermWeeks, s.MaxLoanWeeks)
		if !ok {
			return termError(s.MaxLoanWeeks)
		}
		remaining := l.Remaining()
		if !remaining.IsPositive() {
			return bankerr.StateConflict("loan %s has no outstanding balance", l.LoanID)
		}
		p, err := credit.GetOrInit(ctx, r.Credits, guildID, l.UserID, "", s.DefaultCreditScore)
		if err != nil {
			return err
		}

		l.NumWeeks = weeks
		l.TermDays = weeks * loan.DaysPerWeek
		l.PrincipalBase = remaining
		l.InterestRate = credit.InterestRate(l.TermDays, p.CreditScore, s)
		l.TotalRepayment, l.WeeklyPayment = loan.Terms(remaining, l.InterestRate, weeks)
		l.AmountPaid = decimal.Zero
		l.PaymentsMade = 0
		l.PaymentsRemaining = weeks
		l.OverdueDaysApplied = 0
		next := now
		l.NextPaymentDue = &next
		l.Reschedule(now)
		l.RefinancedAt = &now
		l.HandledBy = handledBy

		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// MarkDefaulted parks an active loan as defaulted. The row is kept.
func (u *Usecase) MarkDefaulted(ctx context.Context, guildID, loanID, handledBy string) (*LoanDTO, error) {
	now := u.now()
	var dto LoanDTO
	err := u.uow.WithinLoanTx(ctx, guildID, loanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.Status.CanTransition(loan.StatusDefaulted) {
			return bankerr.StateConflict("cannot default loan %s: status is %s", l.LoanID, l.Status)
		}
		l.Status = loan.StatusDefaulted
		l.HandledBy = handledBy
		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, guildID, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && l.GuildID != guildID) {
		return nil, bankerr.NotFound("loan", loanID)
	}
	if err != nil {
		return nil, err
	}
	dto := toDTO(l, u.now())
	return &dto, nil
}

func (u *Usecase) listDTO(rows []loan.Loan, keep func(*loan.Loan) bool) []LoanDTO {
	now := u.now()
	out := make([]LoanDTO, 0, len(rows))
	for i := range rows {
		if keep != nil && !keep(&rows[i]) {
			continue
		}
		out = append(out, toDTO(&rows[i], now))
	}
	return out
}

func (u *Usecase) ListActive(ctx context.Context, guildID string) ([]LoanDTO, error) {
	rows, err := u.loans.ListByStatus(ctx, guildID, loan.StatusActive)
	if err != nil {
		return nil, err
	}
	return u.listDTO(rows, nil), nil
}

func (u *Usecase) ListPending(ctx context.Context, guildID string) ([]LoanDTO, error) {
	rows, err := u.loans.ListByStatus(ctx, guildID, loan.StatusPending)
	if err != nil {
		return nil, err
	}
	return u.listDTO(rows, nil), nil
}

// ListOverdue returns active loans at least one whole day past due.
func (u *Usecase) ListOverdue(ctx context.Context, guildID string) ([]LoanDTO, error) {
	rows, err := u.loans.ListByStatus(ctx, guildID, loan.StatusActive)
	if err != nil {
		return nil, err
	}
	now := u.now()
	return u.listDTO(rows, func(l *loan.Loan) bool { return l.DaysOverdue(now) >= 1 }), nil
}

func (u *Usecase) ListDefaulted(ctx context.Context, guildID string) ([]LoanDTO, error) {
	rows, err := u.loans.ListByStatus(ctx, guildID, loan.StatusDefaulted)
	if err != nil {
		return nil, err
	}
	return u.listDTO(rows, nil), nil
}

func (u *Usecase) ListBorrower(ctx context.Context, guildID, userID string) ([]LoanDTO, error) {
	rows, err := u.loans.ListByBorrower(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	return u.listDTO(rows, nil), nil
}
