package credit

import (
	"context"
	"errors"
	"fmt"

	"guild-bank-ledger/internal/domain/bankerr"
	"guild-bank-ledger/internal/domain/credit"
	"guild-bank-ledger/internal/domain/loan"
	"guild-bank-ledger/internal/domain/settings"
	"guild-bank-ledger/internal/domain/uow"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	repo credit.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(repo credit.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, uow: tx}
}

func toDTO(p *credit.Profile) *ProfileDTO {
	return &ProfileDTO{
		UserID:                p.UserID,
		GuildID:               p.GuildID,
		Username:              p.Username,
		CreditScore:           p.CreditScore,
		InterestAdjustment:    credit.Adjustment(p.CreditScore),
		TotalLoans:            p.TotalLoans,
		LoansRepaid:           p.LoansRepaid,
		PendingOverduePenalty: p.PendingOverduePenalty,
		LastPaymentDate:       p.LastPaymentDate,
		LastPenaltyDate:       p.LastPenaltyDate,
	}
}

func requireMember(guildID, userID string) error {
	if err := bankerr.Required("guild_id", guildID); err != nil {
		return err
	}
	return bankerr.Required("user_id", userID)
}

// Profile returns the member's guild profile, creating it on first contact.
func (u *Usecase) Profile(ctx context.Context, guildID, userID, username string) (*ProfileDTO, error) {
	if err := requireMember(guildID, userID); err != nil {
		return nil, err
	}
	var dto *ProfileDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := settings.Resolve(ctx, r.Settings, guildID)
		if err != nil {
			return err
		}
		p, err := credit.GetOrInit(ctx, r.Credits, guildID, userID, username, s.DefaultCreditScore)
		if err != nil {
			return err
		}
		if username != "" {
			if err := r.Credits.Save(ctx, p); err != nil {
				return err
			}
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Adjust applies a manual score change, clamped to the score range.
func (u *Usecase) Adjust(ctx context.Context, guildID, userID string, delta int) (*ProfileDTO, error) {
	if err := requireMember(guildID, userID); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, bankerr.Validation("delta", "must not be zero")
	}
	var dto *ProfileDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := settings.Resolve(ctx, r.Settings, guildID)
		if err != nil {
			return err
		}
		p, err := credit.GetOrInit(ctx, r.Credits, guildID, userID, "", s.DefaultCreditScore)
		if err != nil {
			return err
		}
		p.Adjust(delta)
		if err := r.Credits.Save(ctx, p); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Global sums the member's score across every guild they belong to.
func (u *Usecase) Global(ctx context.Context, userID string) (*GlobalDTO, error) {
	if err := bankerr.Required("user_id", userID); err != nil {
		return nil, err
	}
	rows, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &GlobalDTO{UserID: userID, Guilds: make([]GuildScore, 0, len(rows))}
	scores := make([]int, 0, len(rows))
	for _, p := range rows {
		scores = append(scores, p.CreditScore)
		out.Guilds = append(out.Guilds, GuildScore{GuildID: p.GuildID, CreditScore: p.CreditScore})
	}
	out.TotalScore = credit.TotalScore(scores)
	return out, nil
}

// Quote previews the terms a loan request would get right now. It never
// creates a profile.
func (u *Usecase) Quote(ctx context.Context, in QuoteInput) (*QuoteDTO, error) {
	if err := requireMember(in.GuildID, in.UserID); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, bankerr.Validation("amount", "must be positive")
	}
	var dto *QuoteDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		s, err := settings.Resolve(ctx, r.Settings, in.GuildID)
		if err != nil {
			return err
		}
		weeks, ok := loan.NormalizeTermWeeks(in.TermWeeks, s.MaxLoanWeeks)
		if !ok {
			return bankerr.Validation("term_weeks", fmt.Sprintf("must be between 1 and %d", s.MaxLoanWeeks))
		}
		p := credit.Profile{GuildID: in.GuildID, UserID: in.UserID, CreditScore: credit.Clamp(s.DefaultCreditScore)}
		stored, err := r.Credits.Get(ctx, in.GuildID, in.UserID)
		switch {
		case err == nil:
			p = *stored
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		taxRevenue := s.DefaultTaxRevenue
		if in.TaxRevenue > 0 {
			taxRevenue = decimal.NewFromInt(in.TaxRevenue)
		}
		rate := credit.InterestRate(weeks*loan.DaysPerWeek, p.CreditScore, s)
		total, weekly := loan.Terms(decimal.NewFromInt(in.Amount), rate, weeks)
		maxLoan, unlimited := credit.MaxLoan(p, taxRevenue, s)
		dto = &QuoteDTO{
			CreditScore:    p.CreditScore,
			InterestRate:   rate,
			TotalRepayment: total,
			WeeklyPayment:  weekly,
			NumWeeks:       weeks,
			MaxLoan:        maxLoan,
			Unlimited:      unlimited,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
