package gormstore

import (
	"testing"
	"time"

	loanDomain "guild-bank-ledger/internal/domain/loan"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the full ledger schema.
// One connection only, so the memory database survives between queries.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoan(loanID, guildID, userID string, status loanDomain.Status) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:         loanID,
		GuildID:        guildID,
		UserID:         userID,
		Username:       "borrower",
		Amount:         decimal.NewFromInt(10000),
		TermDays:       14,
		NumWeeks:       2,
		InterestRate:   decimal.NewFromInt(30),
		TotalRepayment: decimal.NewFromInt(13000),
		WeeklyPayment:  decimal.NewFromInt(6500),
		Status:         status,
		RequestedAt:    time.Now().UTC(),
	}
}
