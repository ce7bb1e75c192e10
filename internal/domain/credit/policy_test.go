package credit

import (
	"testing"

	"guild-bank-ledger/internal/domain/settings"

	"github.com/shopspring/decimal"
)

func TestAdjustment_Bands(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{100, -4}, {90, -4}, {89, -3}, {75, -3}, {74, -2}, {60, -2},
		{59, -1}, {50, -1}, {49, 0}, {0, 0}, {-1, 1}, {-25, 1},
		{-26, 2}, {-50, 2}, {-51, 3}, {-100, 3},
	}
	for _, tt := range tests {
		if got := Adjustment(tt.score); got != tt.want {
			t.Fatalf("Adjustment(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestInterestRate(t *testing.T) {
	s := settings.Defaults("g1")

	tests := []struct {
		name     string
		termDays int
		score    int
		mutate   func(*settings.GuildSettings)
		want     int64
	}{
		{"two weeks good score", 14, 75, nil, 30},
		{"one week default score", 7, 50, nil, 18},
		{"four weeks bad score", 28, -80, nil, 64},
		{"floored at one percent", 7, 100, func(s *settings.GuildSettings) {
			s.BaseInterest = decimal.Zero
			s.InterestPerDay = decimal.Zero
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := s
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			got := InterestRate(tt.termDays, tt.score, cfg)
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Fatalf("rate = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxLoan(t *testing.T) {
	s := settings.Defaults("g1")

	amount, unlimited := MaxLoan(Profile{CreditScore: 50}, decimal.NewFromInt(1000), s)
	if unlimited || !amount.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("MaxLoan = %s/%v, want 50000", amount, unlimited)
	}

	if _, unlimited := MaxLoan(Profile{CreditScore: LegacyUnlimitedScore + 1}, decimal.NewFromInt(1000), s); !unlimited {
		t.Fatalf("legacy score must lift the ceiling")
	}
	if _, unlimited := MaxLoan(Profile{CreditScore: LegacyUnlimitedScore}, decimal.NewFromInt(1000), s); unlimited {
		t.Fatalf("the threshold itself is not unlimited")
	}
}

func TestProfileAdjust_Clamps(t *testing.T) {
	p := Profile{CreditScore: 95}
	p.Adjust(20)
	if p.CreditScore != MaxScore {
		t.Fatalf("score = %d, want %d", p.CreditScore, MaxScore)
	}
	p.Adjust(-500)
	if p.CreditScore != MinScore {
		t.Fatalf("score = %d, want %d", p.CreditScore, MinScore)
	}
}

func TestTotalScore(t *testing.T) {
	if got := TotalScore([]int{50, -20, 75}); got != 105 {
		t.Fatalf("TotalScore = %d, want 105", got)
	}
	if got := TotalScore(nil); got != 0 {
		t.Fatalf("TotalScore(nil) = %d", got)
	}
}
