package investment

import (
	"context"
	"errors"
	"testing"
	"time"

	"guild-bank-ledger/internal/adapter/repository/gormstore"
	"guild-bank-ledger/internal/domain/bankerr"
	domain "guild-bank-ledger/internal/domain/investment"
	"guild-bank-ledger/internal/domain/settings"
	"guild-bank-ledger/internal/domain/treasury"
	"guild-bank-ledger/internal/testutil/dbtest"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const guild = "g1"

type fixture struct {
	db  *gorm.DB
	uc  *Usecase
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	f := &fixture{db: db, now: time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)}
	f.uc = NewUsecase(gormstore.NewInvestorRepository(db), gormstore.NewTreasuryRepository(db), gormstore.NewGormUoW(db)).
		WithClock(func() time.Time { return f.now })
	return f
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func (f *fixture) treasury(t *testing.T) *treasury.Treasury {
	t.Helper()
	tr, err := treasury.GetOrInit(context.Background(), gormstore.NewTreasuryRepository(f.db), guild)
	if err != nil {
		t.Fatalf("treasury: %v", err)
	}
	return tr
}

func (f *fixture) setBalance(t *testing.T, amount int64) {
	t.Helper()
	tr := f.treasury(t)
	tr.Balance = dec(amount)
	if err := gormstore.NewTreasuryRepository(f.db).Update(context.Background(), tr); err != nil {
		t.Fatalf("set balance: %v", err)
	}
}

func (f *fixture) invest(t *testing.T, userID string, amount int64) {
	t.Helper()
	p, err := f.uc.Request(context.Background(), RequestInput{GuildID: guild, UserID: userID, Username: userID, Amount: amount})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if _, err := f.uc.Confirm(context.Background(), guild, p.TxnID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
}

func (f *fixture) investor(t *testing.T, userID string) (*domain.Investor, bool) {
	t.Helper()
	inv, err := gormstore.NewInvestorRepository(f.db).Get(context.Background(), guild, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false
	}
	if err != nil {
		t.Fatalf("investor: %v", err)
	}
	return inv, true
}

func TestRequest_StoresPendingWithoutMovingMoney(t *testing.T) {
	f := newFixture(t)

	p, err := f.uc.Request(context.Background(), RequestInput{GuildID: guild, UserID: "u1", Username: "alice", Amount: 500})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if len(p.TxnID) != 5 || p.TxnID[0] != 'I' || !p.Amount.Equal(dec(500)) || !p.RequestedAt.Equal(f.now) {
		t.Fatalf("unexpected pending: %+v", p)
	}
	tr := f.treasury(t)
	if !tr.Balance.IsZero() {
		t.Fatalf("balance = %s, want 0", tr.Balance)
	}
	pending, err := f.uc.ListPending(context.Background(), guild)
	if err != nil || len(pending) != 1 || pending[0].TxnID != p.TxnID {
		t.Fatalf("ListPending = %+v, %v", pending, err)
	}
}

func TestRequest_Guards(t *testing.T) {
	disabled := false
	limit := decimal.NewFromInt(1000)

	tests := []struct {
		name    string
		patch   settings.Patch
		amount  int64
		wantErr error
	}{
		{"non positive", settings.Patch{}, 0, bankerr.ErrValidation},
		{"disabled", settings.Patch{InvestmentsEnabled: &disabled}, 100, bankerr.ErrStateConflict},
		{"over cap", settings.Patch{MaxInvestmentAmount: &limit}, 1001, bankerr.ErrValidation},
		{"at cap", settings.Patch{MaxInvestmentAmount: &limit}, 1000, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			s := settings.Defaults(guild).Apply(tt.patch)
			if err := gormstore.NewSettingsRepository(f.db).Upsert(context.Background(), &s); err != nil {
				t.Fatalf("settings: %v", err)
			}
			_, err := f.uc.Request(context.Background(), RequestInput{GuildID: guild, UserID: "u1", Amount: tt.amount})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfirm_CreditsTreasuryAndPosition(t *testing.T) {
	f := newFixture(t)
	f.invest(t, "u1", 500)
	f.invest(t, "u1", 250)

	inv, ok := f.investor(t, "u1")
	if !ok || !inv.InvestmentAmount.Equal(dec(750)) || inv.Username != "u1" {
		t.Fatalf("unexpected investor: %+v", inv)
	}
	tr := f.treasury(t)
	if !tr.Balance.Equal(dec(750)) {
		t.Fatalf("balance = %s, want 750", tr.Balance)
	}
	ledger, err := tr.Ledger()
	if err != nil {
		t.Fatalf("Ledger: %v", err)
	}
	if len(ledger.Pending) != 0 || ledger.ConfirmedCount != 2 || !ledger.ConfirmedTotal.Equal(dec(750)) {
		t.Fatalf("unexpected ledger: %+v", ledger)
	}
}

func TestConfirmCancel_UnknownTxn(t *testing.T) {
	f := newFixture(t)

	if _, err := f.uc.Confirm(context.Background(), guild, "I9999"); !errors.Is(err, bankerr.ErrNotFound) {
		t.Fatalf("Confirm: want ErrNotFound, got %v", err)
	}
	if _, err := f.uc.Cancel(context.Background(), guild, "I9999"); !errors.Is(err, bankerr.ErrNotFound) {
		t.Fatalf("Cancel: want ErrNotFound, got %v", err)
	}
}

func TestCancel_RemovesPending(t *testing.T) {
	f := newFixture(t)
	p, err := f.uc.Request(context.Background(), RequestInput{GuildID: guild, UserID: "u1", Amount: 100})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if _, err := f.uc.Cancel(context.Background(), guild, p.TxnID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	pending, _ := f.uc.ListPending(context.Background(), guild)
	if len(pending) != 0 {
		t.Fatalf("pending left: %+v", pending)
	}
	if _, err := f.uc.Confirm(context.Background(), guild, p.TxnID); !errors.Is(err, bankerr.ErrNotFound) {
		t.Fatalf("confirm after cancel: want ErrNotFound, got %v", err)
	}
	if _, ok := f.investor(t, "u1"); ok {
		t.Fatalf("cancel must not create an investor")
	}
}

func TestWithdraw(t *testing.T) {
	part := int64(300)
	tooMuch := int64(1001)

	tests := []struct {
		name        string
		amount      *int64
		balance     int64
		wantErr     error
		wantLeft    int64
		wantRemoved bool
	}{
		{"partial", &part, -1, nil, 700, false},
		{"full by default", nil, -1, nil, 0, true},
		{"more than position", &tooMuch, -1, bankerr.ErrValidation, 1000, false},
		{"treasury short", &part, 100, bankerr.ErrInsufficientFunds, 1000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.invest(t, "u1", 1000)
			if tt.balance >= 0 {
				f.setBalance(t, tt.balance)
			}
			before := f.treasury(t).Balance

			res, err := f.uc.Withdraw(context.Background(), guild, "u1", tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
			inv, ok := f.investor(t, "u1")
			if tt.wantRemoved {
				if ok || !res.Removed {
					t.Fatalf("full withdrawal must remove the investor")
				}
			} else if !ok || !inv.InvestmentAmount.Equal(dec(tt.wantLeft)) {
				t.Fatalf("investor = %+v, want %d left", inv, tt.wantLeft)
			}
			after := f.treasury(t).Balance
			if err == nil && !before.Sub(after).Equal(res.Withdrawn) {
				t.Fatalf("treasury moved %s, withdrawn %s", before.Sub(after), res.Withdrawn)
			}
			if err != nil && !after.Equal(before) {
				t.Fatalf("failed withdrawal moved the treasury: %s -> %s", before, after)
			}
		})
	}
}

func TestWithdraw_UnknownInvestor(t *testing.T) {
	f := newFixture(t)
	if _, err := f.uc.Withdraw(context.Background(), guild, "ghost", nil); !errors.Is(err, bankerr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	zero := int64(0)
	if _, err := f.uc.Withdraw(context.Background(), guild, "ghost", &zero); !errors.Is(err, bankerr.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestDistributeDividends_FloorsAndReinvests(t *testing.T) {
	f := newFixture(t)
	f.invest(t, "u1", 1000)
	f.invest(t, "u2", 2000)
	f.invest(t, "u3", 3000)
	if _, err := f.uc.SetReinvestment(context.Background(), guild, "u2", true); err != nil {
		t.Fatalf("SetReinvestment: %v", err)
	}

	rep, err := f.uc.DistributeDividends(context.Background(), guild, 100)
	if err != nil {
		t.Fatalf("DistributeDividends: %v", err)
	}
	// 100 * 1/6 = 16.67, 2/6 = 33.33, 3/6 = 50
	want := map[string]int64{"u1": 16, "u2": 33, "u3": 50}
	for _, s := range rep.Shares {
		if !s.Amount.Equal(dec(want[s.UserID])) {
			t.Fatalf("share for %s = %s, want %d", s.UserID, s.Amount, want[s.UserID])
		}
	}
	if !rep.Distributed.Equal(dec(99)) || !rep.Remainder.Equal(dec(1)) {
		t.Fatalf("distributed/remainder = %s/%s", rep.Distributed, rep.Remainder)
	}
	if rep.Distributed.GreaterThan(rep.Total) {
		t.Fatalf("distributed more than total")
	}

	if got := f.treasury(t).Balance; !got.Equal(dec(5900)) {
		t.Fatalf("balance = %s, want 5900 (nominal debit)", got)
	}
	u1, _ := f.investor(t, "u1")
	if !u1.InvestmentAmount.Equal(dec(1000)) || !u1.DividendsReceived.Equal(dec(16)) || u1.LastDividendDate == nil {
		t.Fatalf("payout investor: %+v", u1)
	}
	u2, _ := f.investor(t, "u2")
	if !u2.InvestmentAmount.Equal(dec(2033)) || !u2.DividendsReceived.Equal(dec(33)) {
		t.Fatalf("reinvesting investor: %+v", u2)
	}
}

func TestDistributeDividends_Guards(t *testing.T) {
	f := newFixture(t)
	if _, err := f.uc.DistributeDividends(context.Background(), guild, 100); !errors.Is(err, bankerr.ErrStateConflict) {
		t.Fatalf("no investors: want ErrStateConflict, got %v", err)
	}
	f.invest(t, "u1", 50)
	if _, err := f.uc.DistributeDividends(context.Background(), guild, 51); !errors.Is(err, bankerr.ErrInsufficientFunds) {
		t.Fatalf("short treasury: want ErrInsufficientFunds, got %v", err)
	}
	u1, _ := f.investor(t, "u1")
	if !u1.DividendsReceived.IsZero() {
		t.Fatalf("failed distribution credited dividends: %+v", u1)
	}
	if _, err := f.uc.DistributeDividends(context.Background(), guild, 0); !errors.Is(err, bankerr.ErrValidation) {
		t.Fatalf("zero total: want ErrValidation, got %v", err)
	}
}

func TestSetReinvestment_UnknownInvestor(t *testing.T) {
	f := newFixture(t)
	if _, err := f.uc.SetReinvestment(context.Background(), guild, "ghost", true); !errors.Is(err, bankerr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestClearAll(t *testing.T) {
	f := newFixture(t)
	f.invest(t, "u1", 100)
	f.invest(t, "u2", 200)
	if _, err := f.uc.Request(context.Background(), RequestInput{GuildID: guild, UserID: "u3", Amount: 50}); err != nil {
		t.Fatalf("Request: %v", err)
	}

	res, err := f.uc.ClearAll(context.Background(), guild)
	if err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if res.InvestorsRemoved != 2 {
		t.Fatalf("removed = %d, want 2", res.InvestorsRemoved)
	}
	list, err := f.uc.ListInvestors(context.Background(), guild)
	if err != nil || len(list) != 0 {
		t.Fatalf("ListInvestors = %+v, %v", list, err)
	}
	pending, _ := f.uc.ListPending(context.Background(), guild)
	tr := f.treasury(t)
	if !tr.Balance.IsZero() || len(pending) != 0 {
		t.Fatalf("treasury not reset: balance=%s pending=%d", tr.Balance, len(pending))
	}
}

func TestListPending_OldestFirst(t *testing.T) {
	f := newFixture(t)
	for i, user := range []string{"u1", "u2", "u3"} {
		f.now = f.now.Add(time.Duration(i) * time.Minute)
		if _, err := f.uc.Request(context.Background(), RequestInput{GuildID: guild, UserID: user, Amount: 10}); err != nil {
			t.Fatalf("Request: %v", err)
		}
	}

	got, err := f.uc.ListPending(context.Background(), guild)
	if err != nil || len(got) != 3 {
		t.Fatalf("ListPending = %+v, %v", got, err)
	}
	for i, user := range []string{"u1", "u2", "u3"} {
		if got[i].UserID != user {
			t.Fatalf("order[%d] = %s, want %s", i, got[i].UserID, user)
		}
	}

	empty, err := f.uc.ListPending(context.Background(), "g-none")
	if err != nil || len(empty) != 0 {
		t.Fatalf("unknown guild: %+v, %v", empty, err)
	}
}
