package settings

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults applied when a guild has never saved settings.
const (
	DefaultMaxLoans           = 0
	DefaultMaxLoanMultiplier  = 50
	DefaultMaxLoanWeeks       = 4
	DefaultCreditScore        = 50
	MaxLoanWeeksCeiling       = 4
	defaultDividendPercentStr = "0.01"
)

var (
	DefaultDividendPercent = decimal.RequireFromString(defaultDividendPercentStr)
	DefaultBaseInterest    = decimal.NewFromInt(5)
	DefaultInterestPerDay  = decimal.NewFromInt(2)
	DefaultTaxRevenue      = decimal.NewFromInt(100000)
)

// GuildSettings is the per-guild bank configuration. MaxLoans caps the
// number of outstanding loans across the guild; zero disables the cap.
// MaxInvestmentAmount caps a single investment request; zero disables it.
type GuildSettings struct {
	GuildID             string          `gorm:"primaryKey;size:32" json:"guild_id"`
	MaxLoans            int             `gorm:"not null" json:"max_loans"`
	MaxLoanMultiplier   int             `gorm:"not null" json:"max_loan_multiplier"`
	DividendPercent     decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"dividend_percent"`
	BaseInterest        decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"base_interest"`
	InterestPerDay      decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"interest_per_day"`
	MaxLoanWeeks        int             `gorm:"not null" json:"max_loan_weeks"`
	MaxInvestmentAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"max_investment_amount"`
	InvestmentsEnabled  bool            `gorm:"not null" json:"investments_enabled"`
	DefaultCreditScore  int             `gorm:"not null" json:"default_credit_score"`
	DefaultTaxRevenue   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"default_tax_revenue"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (GuildSettings) TableName() string { return "guild_settings" }

func Defaults(guildID string) GuildSettings {
	return GuildSettings{
		GuildID:             guildID,
		MaxLoans:            DefaultMaxLoans,
		MaxLoanMultiplier:   DefaultMaxLoanMultiplier,
		DividendPercent:     DefaultDividendPercent,
		BaseInterest:        DefaultBaseInterest,
		InterestPerDay:      DefaultInterestPerDay,
		MaxLoanWeeks:        DefaultMaxLoanWeeks,
		MaxInvestmentAmount: decimal.Zero,
		InvestmentsEnabled:  true,
		DefaultCreditScore:  DefaultCreditScore,
		DefaultTaxRevenue:   DefaultTaxRevenue,
	}
}

// Patch carries a partial update; nil fields keep their current value.
type Patch struct {
	MaxLoans            *int             `json:"max_loans"`
	MaxLoanMultiplier   *int             `json:"max_loan_multiplier"`
	DividendPercent     *decimal.Decimal `json:"dividend_percent"`
	BaseInterest        *decimal.Decimal `json:"base_interest"`
	InterestPerDay      *decimal.Decimal `json:"interest_per_day"`
	MaxLoanWeeks        *int             `json:"max_loan_weeks"`
	MaxInvestmentAmount *decimal.Decimal `json:"max_investment_amount"`
	InvestmentsEnabled  *bool            `json:"investments_enabled"`
	DefaultCreditScore  *int             `json:"default_credit_score"`
	DefaultTaxRevenue   *decimal.Decimal `json:"default_tax_revenue"`
}

func (s GuildSettings) Apply(p Patch) GuildSettings {
	if p.MaxLoans != nil {
		s.MaxLoans = *p.MaxLoans
	}
	if p.MaxLoanMultiplier != nil {
		s.MaxLoanMultiplier = *p.MaxLoanMultiplier
	}
	if p.DividendPercent != nil {
		s.DividendPercent = *p.DividendPercent
	}
	if p.BaseInterest != nil {
		s.BaseInterest = *p.BaseInterest
	}
	if p.InterestPerDay != nil {
		s.InterestPerDay = *p.InterestPerDay
	}
	if p.MaxLoanWeeks != nil {
		s.MaxLoanWeeks = *p.MaxLoanWeeks
	}
	if p.MaxInvestmentAmount != nil {
		s.MaxInvestmentAmount = *p.MaxInvestmentAmount
	}
	if p.InvestmentsEnabled != nil {
		s.InvestmentsEnabled = *p.InvestmentsEnabled
	}
	if p.DefaultCreditScore != nil {
		s.DefaultCreditScore = *p.DefaultCreditScore
	}
	if p.DefaultTaxRevenue != nil {
		s.DefaultTaxRevenue = *p.DefaultTaxRevenue
	}
	return s
}
