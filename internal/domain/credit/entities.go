package credit

import (
	"time"
)

// Profile is a member's credit standing inside one guild.
type Profile struct {
	UserID                string     `gorm:"primaryKey;size:32" json:"user_id"`
	GuildID               string     `gorm:"primaryKey;size:32;index" json:"guild_id"`
	Username              string     `gorm:"size:100" json:"username"`
	CreditScore           int        `gorm:"not null" json:"credit_score"`
	TotalLoans            int        `gorm:"not null" json:"total_loans"`
	LoansRepaid           int        `gorm:"not null" json:"loans_repaid"`
	PendingOverduePenalty int        `gorm:"not null" json:"pending_overdue_penalty"`
	LastPaymentDate       *time.Time `json:"last_payment_date,omitempty"`
	LastPenaltyDate       *time.Time `json:"last_penalty_date,omitempty"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "credit_profiles" }

// Adjust moves the score by delta and clamps it into range.
func (p *Profile) Adjust(delta int) {
	p.CreditScore = Clamp(p.CreditScore + delta)
}
