package treasury

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Treasury is the guild's pooled balance. Balance is the only number that
// decides whether something can be funded.
type Treasury struct {
	GuildID     string          `gorm:"primaryKey;size:32" json:"guild_id"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance"`
	Investments datatypes.JSON  `json:"-"`
	Version     int64           `gorm:"not null" json:"-"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Treasury) TableName() string { return "treasuries" }

type PendingInvestment struct {
	TxnID       string          `json:"txn_id"`
	UserID      string          `json:"user_id"`
	Username    string          `json:"username"`
	Amount      decimal.Decimal `json:"amount"`
	RequestedAt time.Time       `json:"requested_at"`
}

// Ledger is the document stored in the investments column.
type Ledger struct {
	Pending        map[string]PendingInvestment `json:"pending"`
	ConfirmedTotal decimal.Decimal              `json:"confirmed_total"`
	ConfirmedCount int                          `json:"confirmed_count"`
}

func (t *Treasury) Ledger() (Ledger, error) {
	l := Ledger{Pending: map[string]PendingInvestment{}}
	if len(t.Investments) == 0 {
		return l, nil
	}
	if err := json.Unmarshal(t.Investments, &l); err != nil {
		return Ledger{}, err
	}
	if l.Pending == nil {
		l.Pending = map[string]PendingInvestment{}
	}
	return l, nil
}

func (t *Treasury) SetLedger(l Ledger) error {
	if l.Pending == nil {
		l.Pending = map[string]PendingInvestment{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return err
	}
	t.Investments = datatypes.JSON(b)
	return nil
}
