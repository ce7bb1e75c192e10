// Package sweep holds the scheduled passes over every guild: overdue credit
// penalties and weekly dividend reminders. Each record is processed in its
// own transaction, so one failure never rolls back the rest of the batch.
package sweep

import (
	"context"
	"time"

	"guild-bank-ledger/internal/domain/credit"
	"guild-bank-ledger/internal/domain/investment"
	"guild-bank-ledger/internal/domain/loan"
	"guild-bank-ledger/internal/domain/settings"
	"guild-bank-ledger/internal/domain/uow"
	"guild-bank-ledger/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier fans a finished report out to listeners.
type Notifier interface {
	Publish(ctx context.Context, channel string, payload any) error
}

type Sweeper struct {
	uow       uow.UnitOfWork
	loans     loan.Repository
	investors investment.Repository
	notifier  Notifier
	logger    *zap.Logger
}

// NewSweeper accepts a nil notifier and a nil logger.
func NewSweeper(tx uow.UnitOfWork, loans loan.Repository, investors investment.Repository, notifier Notifier, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{uow: tx, loans: loans, investors: investors, notifier: notifier, logger: logger}
}

func dueForReview(l *loan.Loan, now time.Time) bool {
	if l.DaysOverdue(now) > l.OverdueDaysApplied {
		return true
	}
	return !l.CollectionsPenaltyApplied && (l.PaymentsRemaining <= 0 || l.PastFinalDue(now))
}

// ProcessOverdue charges -1 per newly overdue day and the one-off collections
// penalty. Running it twice for the same now changes nothing.
func (s *Sweeper) ProcessOverdue(ctx context.Context, now time.Time) (*OverdueReport, error) {
	report := &OverdueReport{RunID: id.NewID32(), RanAt: now, Penalties: []Penalty{}, Failures: []Failure{}}
	log := s.logger.With(zap.String("run_id", report.RunID), zap.String("sweep", "overdue"))

	guilds, err := s.loans.ListGuildIDs(ctx, loan.StatusActive)
	if err != nil {
		return nil, err
	}
	report.Guilds = len(guilds)

	for _, guildID := range guilds {
		rows, err := s.loans.ListByStatus(ctx, guildID, loan.StatusActive)
		if err != nil {
			log.Warn("list active loans failed", zap.String("guild_id", guildID), zap.Error(err))
			report.Failures = append(report.Failures, Failure{GuildID: guildID, Error: err.Error()})
			continue
		}
		for i := range rows {
			report.Scanned++
			if !dueForReview(&rows[i], now) {
				continue
			}
			p, err := s.penalize(ctx, guildID, rows[i].LoanID, now)
			if err != nil {
				log.Warn("overdue penalty failed",
					zap.String("guild_id", guildID), zap.String("loan_id", rows[i].LoanID), zap.Error(err))
				report.Failures = append(report.Failures, Failure{GuildID: guildID, LoanID: rows[i].LoanID, Error: err.Error()})
				continue
			}
			if p != nil {
				report.Penalties = append(report.Penalties, *p)
			}
		}
	}

	log.Info("overdue sweep finished",
		zap.Int("guilds", report.Guilds),
		zap.Int("scanned", report.Scanned),
		zap.Int("penalized", len(report.Penalties)),
		zap.Int("failed", len(report.Failures)))
	s.publish(ctx, OverdueChannel, report)
	return report, nil
}

// penalize re-reads the loan under lock; a nil Penalty means another run or
// a payment already settled it.
func (s *Sweeper) penalize(ctx context.Context, guildID, loanID string, now time.Time) (*Penalty, error) {
	var out *Penalty
	err := s.uow.WithinLoanTx(ctx, guildID, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.Status != loan.StatusActive {
			return nil
		}
		days := l.DaysOverdue(now)
		newDays := days - l.OverdueDaysApplied
		if newDays < 0 {
			newDays = 0
		}
		collections := !l.CollectionsPenaltyApplied && (l.PaymentsRemaining <= 0 || l.PastFinalDue(now))
		if newDays == 0 && !collections {
			return nil
		}

		cfg, err := settings.Resolve(ctx, r.Settings, guildID)
		if err != nil {
			return err
		}
		p, err := credit.GetOrInit(ctx, r.Credits, guildID, l.UserID, "", cfg.DefaultCreditScore)
		if err != nil {
			return err
		}

		delta := 0
		if newDays > 0 {
			delta += newDays * credit.OverdueDayPenalty
			p.PendingOverduePenalty += newDays
			p.LastPenaltyDate = &now
			l.OverdueDaysApplied = days
		}
		if collections {
			delta += credit.CollectionsPenalty
			l.CollectionsPenaltyApplied = true
			p.LastPenaltyDate = &now
		}
		p.Adjust(delta)

		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}
		if err := r.Credits.Save(ctx, p); err != nil {
			return err
		}
		out = &Penalty{
			GuildID:     guildID,
			LoanID:      l.LoanID,
			UserID:      l.UserID,
			DaysOverdue: days,
			NewDays:     newDays,
			ScoreDelta:  delta,
			Collections: collections,
			CreditScore: p.CreditScore,
		}
		return nil
	})
	return out, err
}

// DividendReminders reports, without paying, the dividend each investor is
// due this week: ceil(investment * dividend percent).
func (s *Sweeper) DividendReminders(ctx context.Context, now time.Time) (*DividendReport, error) {
	report := &DividendReport{RunID: id.NewID32(), RanAt: now, Guilds: []GuildReminder{}, Failures: []Failure{}}
	log := s.logger.With(zap.String("run_id", report.RunID), zap.String("sweep", "dividends"))

	guilds, err := s.investors.ListGuildIDs(ctx)
	if err != nil {
		return nil, err
	}

	for _, guildID := range guilds {
		var g GuildReminder
		err := s.uow.WithinTx(ctx, func(r uow.Repos) error {
			cfg, err := settings.Resolve(ctx, r.Settings, guildID)
			if err != nil {
				return err
			}
			rows, err := r.Investors.ListByGuild(ctx, guildID)
			if err != nil {
				return err
			}
			g = GuildReminder{GuildID: guildID, DividendPercent: cfg.DividendPercent, Total: decimal.Zero, Reminders: []Reminder{}}
			for _, inv := range rows {
				if !inv.InvestmentAmount.IsPositive() {
					continue
				}
				due := inv.InvestmentAmount.Mul(cfg.DividendPercent).Ceil()
				g.Total = g.Total.Add(due)
				g.Reminders = append(g.Reminders, Reminder{
					UserID:           inv.UserID,
					Username:         inv.Username,
					InvestmentAmount: inv.InvestmentAmount,
					Due:              due,
				})
			}
			return nil
		})
		if err != nil {
			log.Warn("dividend reminder failed", zap.String("guild_id", guildID), zap.Error(err))
			report.Failures = append(report.Failures, Failure{GuildID: guildID, Error: err.Error()})
			continue
		}
		if len(g.Reminders) > 0 {
			report.Guilds = append(report.Guilds, g)
		}
	}

	log.Info("dividend reminders finished", zap.Int("guilds", len(report.Guilds)), zap.Int("failed", len(report.Failures)))
	s.publish(ctx, DividendChannel, report)
	return report, nil
}

func (s *Sweeper) publish(ctx context.Context, channel string, payload any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, channel, payload); err != nil {
		s.logger.Warn("publish sweep report failed", zap.String("channel", channel), zap.Error(err))
	}
}
