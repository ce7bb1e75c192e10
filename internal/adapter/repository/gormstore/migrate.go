package gormstore

import (
	"guild-bank-ledger/internal/domain/credit"
	"guild-bank-ledger/internal/domain/investment"
	"guild-bank-ledger/internal/domain/loan"
	"guild-bank-ledger/internal/domain/settings"
	"guild-bank-ledger/internal/domain/treasury"

	"gorm.io/gorm"
)

// Models lists every persisted ledger table.
func Models() []any {
	return []any{
		&settings.GuildSettings{},
		&credit.Profile{},
		&loan.Loan{},
		&treasury.Treasury{},
		&investment.Investor{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
