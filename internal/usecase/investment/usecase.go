package investment

import (
	"context"
	"errors"
	"time"

	"guild-bank-ledger/internal/domain/bankerr"
	"guild-bank-ledger/internal/domain/investment"
	"guild-bank-ledger/internal/domain/settings"
	"guild-bank-ledger/internal/domain/treasury"
	"guild-bank-ledger/internal/domain/uow"
	"guild-bank-ledger/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const txnIDPrefix = "I"

type Usecase struct {
	investors  investment.Repository
	treasuries treasury.Repository
	uow        uow.UnitOfWork
	now        func() time.Time
}

func NewUsecase(investors investment.Repository, treasuries treasury.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{
		investors:  investors,
		treasuries: treasuries,
		uow:        tx,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func toInvestorDTO(inv *investment.Investor) InvestorDTO {
	return InvestorDTO{
		GuildID:             inv.GuildID,
		UserID:              inv.UserID,
		Username:            inv.Username,
		InvestmentAmount:    inv.InvestmentAmount,
		ReinvestmentEnabled: inv.ReinvestmentEnabled,
		DividendsReceived:   inv.DividendsReceived,
		LastDividendDate:    inv.LastDividendDate,
	}
}

func toPendingDTO(guildID string, p treasury.PendingInvestment) PendingDTO {
	return PendingDTO{
		TxnID:       p.TxnID,
		GuildID:     guildID,
		UserID:      p.UserID,
		Username:    p.Username,
		Amount:      p.Amount,
		RequestedAt: p.RequestedAt,
	}
}

func loadInvestor(ctx context.Context, r uow.Repos, guildID, userID string) (*investment.Investor, error) {
	inv, err := r.Investors.GetForUpdate(ctx, guildID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, bankerr.NotFound("investor", userID)
	}
	return inv, err
}

// Request records a pending investment on the treasury ledger. Money moves
// only on Confirm.
func (u *Usecase) Request(ctx context.Context, in RequestInput) (*PendingDTO, error) {
	if err := bankerr.Required("guild_id", in.GuildID); err != nil {
		return nil, err
	}
	if err := bankerr.Required("user_id", in.UserID); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, bankerr.Validation("amount", "must be positive")
	}
	amount := decimal.NewFromInt(in.Amount)
	now := u.now()

	var dto PendingDTO
	err := u.uow.WithinTreasuryTx(ctx, in.GuildID, func(r uow.Repos, t *treasury.Treasury) error {
		s, err := settings.Resolve(ctx, r.Settings, in.GuildID)
		if err != nil {
			return err
		}
		if !s.InvestmentsEnabled {
			return bankerr.StateConflict("investments are disabled in guild %s", in.GuildID)
		}
		if s.MaxInvestmentAmount.IsPositive() && amount.GreaterThan(s.MaxInvestmentAmount) {
			return bankerr.Validation("amount", "exceeds the maximum investment of "+s.MaxInvestmentAmount.StringFixed(0))
		}

		txnID, err := id.UniqueTicket(txnIDPrefix, t.HasPending)
		if err != nil {
			return err
		}
		p := treasury.PendingInvestment{
			TxnID:       txnID,
			UserID:      in.UserID,
			Username:    in.Username,
			Amount:      amount,
			RequestedAt: now,
		}
		if err := t.AddPending(p); err != nil {
			return err
		}
		if err := r.Treasuries.Update(ctx, t); err != nil {
			return err
		}
		dto = toPendingDTO(in.GuildID, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Confirm moves a pending investment into the investor's position and
// credits the treasury.
func (u *Usecase) Confirm(ctx context.Context, guildID, txnID string) (*InvestorDTO, error) {
	var dto InvestorDTO
	err := u.uow.WithinTreasuryTx(ctx, guildID, func(r uow.Repos, t *treasury.Treasury) error {
		p, err := t.ConfirmPending(txnID)
		if err != nil {
			return err
		}

		inv, err := r.Investors.GetForUpdate(ctx, guildID, p.UserID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			inv = &investment.Investor{
				GuildID:           guildID,
				UserID:            p.UserID,
				InvestmentAmount:  decimal.Zero,
				DividendsReceived: decimal.Zero,
			}
		case err != nil:
			return err
		}
		if p.Username != "" {
			inv.Username = p.Username
		}
		inv.InvestmentAmount = inv.InvestmentAmount.Add(p.Amount)

		if err := r.Treasuries.Update(ctx, t); err != nil {
			return err
		}
		if err := r.Investors.Save(ctx, inv); err != nil {
			return err
		}
		dto = toInvestorDTO(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Cancel drops a pending investment without touching any balance.
func (u *Usecase) Cancel(ctx context.Context, guildID, txnID string) (*PendingDTO, error) {
	var dto PendingDTO
	err := u.uow.WithinTreasuryTx(ctx, guildID, func(r uow.Repos, t *treasury.Treasury) error {
		p, err := t.RemovePending(txnID)
		if err != nil {
			return err
		}
		if err := r.Treasuries.Update(ctx, t); err != nil {
			return err
		}
		dto = toPendingDTO(guildID, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// Withdraw pays amount out of the investor's position, or the whole position
// when amount is nil. An emptied position is removed.
func (u *Usecase) Withdraw(ctx context.Context, guildID, userID string, amount *int64) (*WithdrawDTO, error) {
	if amount != nil && *amount <= 0 {
		return nil, bankerr.Validation("amount", "must be positive")
	}
	var dto WithdrawDTO
	err := u.uow.WithinTreasuryTx(ctx, guildID, func(r uow.Repos, t *treasury.Treasury) error {
		inv, err := loadInvestor(ctx, r, guildID, userID)
		if err != nil {
			return err
		}
		balance := inv.InvestmentAmount
		if !balance.IsPositive() {
			return bankerr.StateConflict("investor %s has no active investment", userID)
		}
		out := balance
		if amount != nil {
			out = decimal.NewFromInt(*amount)
			if out.GreaterThan(balance) {
				return bankerr.Validation("amount", "exceeds the investment balance of "+balance.StringFixed(2))
			}
		}
		if err := t.Debit(out); err != nil {
			return err
		}
		if err := r.Treasuries.Update(ctx, t); err != nil {
			return err
		}

		dto = WithdrawDTO{GuildID: guildID, UserID: userID, Withdrawn: out, Remaining: balance.Sub(out)}
		if !dto.Remaining.IsPositive() {
			dto.Removed = true
			dto.Remaining = decimal.Zero
			return r.Investors.Delete(ctx, guildID, userID)
		}
		inv.InvestmentAmount = dto.Remaining
		return r.Investors.Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// DistributeDividends splits total across investors by their share of the
// invested capital. Shares are floored; the treasury is debited the full
// total. Reinvesting investors have their share added to their position.
func (u *Usecase) DistributeDividends(ctx context.Context, guildID string, total int64) (*DividendReport, error) {
	if total <= 0 {
		return nil, bankerr.Validation("amount", "must be positive")
	}
	nominal := decimal.NewFromInt(total)
	now := u.now()

	var report DividendReport
	err := u.uow.WithinTreasuryTx(ctx, guildID, func(r uow.Repos, t *treasury.Treasury) error {
		listed, err := r.Investors.ListByGuild(ctx, guildID)
		if err != nil {
			return err
		}
		investors := make([]*investment.Investor, 0, len(listed))
		invested := decimal.Zero
		for _, row := range listed {
			inv, err := r.Investors.GetForUpdate(ctx, guildID, row.UserID)
			if err != nil {
				return err
			}
			if !inv.InvestmentAmount.IsPositive() {
				continue
			}
			investors = append(investors, inv)
			invested = invested.Add(inv.InvestmentAmount)
		}
		if len(investors) == 0 {
			return bankerr.StateConflict("guild %s has no investors", guildID)
		}
		if err := t.Debit(nominal); err != nil {
			return err
		}
		if err := r.Treasuries.Update(ctx, t); err != nil {
			return err
		}

		report = DividendReport{GuildID: guildID, Total: nominal, Distributed: decimal.Zero, PaidAt: now}
		for _, inv := range investors {
			share := nominal.Mul(inv.InvestmentAmount).Div(invested).Floor()
			report.Shares = append(report.Shares, Share{
				UserID:     inv.UserID,
				Username:   inv.Username,
				Invested:   inv.InvestmentAmount,
				Amount:     share,
				Reinvested: inv.ReinvestmentEnabled,
			})
			report.Distributed = report.Distributed.Add(share)

			inv.DividendsReceived = inv.DividendsReceived.Add(share)
			inv.LastDividendDate = &now
			if inv.ReinvestmentEnabled {
				inv.InvestmentAmount = inv.InvestmentAmount.Add(share)
			}
			if err := r.Investors.Save(ctx, inv); err != nil {
				return err
			}
		}
		report.Remainder = nominal.Sub(report.Distributed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (u *Usecase) SetReinvestment(ctx context.Context, guildID, userID string, enabled bool) (*InvestorDTO, error) {
	var dto InvestorDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inv, err := loadInvestor(ctx, r, guildID, userID)
		if err != nil {
			return err
		}
		inv.ReinvestmentEnabled = enabled
		if err := r.Investors.Save(ctx, inv); err != nil {
			return err
		}
		dto = toInvestorDTO(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// ClearAll wipes every investor position and resets the treasury to zero.
func (u *Usecase) ClearAll(ctx context.Context, guildID string) (*ClearDTO, error) {
	if err := bankerr.Required("guild_id", guildID); err != nil {
		return nil, err
	}
	dto := ClearDTO{GuildID: guildID}
	err := u.uow.WithinTreasuryTx(ctx, guildID, func(r uow.Repos, t *treasury.Treasury) error {
		if err := t.Reset(); err != nil {
			return err
		}
		if err := r.Treasuries.Update(ctx, t); err != nil {
			return err
		}
		n, err := r.Investors.DeleteByGuild(ctx, guildID)
		if err != nil {
			return err
		}
		dto.InvestorsRemoved = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (u *Usecase) ListInvestors(ctx context.Context, guildID string) ([]InvestorDTO, error) {
	rows, err := u.investors.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	out := make([]InvestorDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toInvestorDTO(&rows[i]))
	}
	return out, nil
}

// ListPending returns pending investments oldest first.
func (u *Usecase) ListPending(ctx context.Context, guildID string) ([]PendingDTO, error) {
	t, err := u.treasuries.Get(ctx, guildID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []PendingDTO{}, nil
	}
	if err != nil {
		return nil, err
	}
	pending, err := t.ListPending()
	if err != nil {
		return nil, err
	}
	out := make([]PendingDTO, 0, len(pending))
	for _, p := range pending {
		out = append(out, toPendingDTO(guildID, p))
	}
	return out, nil
}
