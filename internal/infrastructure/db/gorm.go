package db

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"guild-bank-ledger/internal/config"
)

// Option tweaks how a dialector is opened.
type Option func(*options)

type options struct {
	log       *zap.Logger
	level     logger.LogLevel
	singleCon bool
}

func WithLogger(l *zap.Logger, level string) Option {
	return func(o *options) {
		o.log = l
		o.level = parseLevel(level)
	}
}

// SingleConnection caps the pool at one connection. SQLite needs it so
// writers serialise instead of failing with "database is locked".
func SingleConnection() Option {
	return func(o *options) { o.singleCon = true }
}

func parseLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// OpenGorm picks the dialector from cfg.DBDriver.
func OpenGorm(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	opts := []Option{WithLogger(l, cfg.GormLogLevel)}
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return OpenGormWithDialector(mysql.Open(cfg.MySQLDSN()), opts...)
	case config.DriverSQLite:
		// WAL plus a busy timeout keeps the sweeps and HTTP writers from colliding.
		dsn := cfg.SQLitePath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
		return OpenGormWithDialector(sqlite.Open(dsn), append(opts, SingleConnection())...)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}

func OpenGormWithDialector(dial gorm.Dialector, opts ...Option) (*gorm.DB, error) {
	o := options{level: logger.Warn}
	for _, opt := range opts {
		opt(&o)
	}

	gl := logger.Default.LogMode(o.level)
	if o.log != nil {
		gl = logger.New(zap.NewStdLog(o.log.Named("gorm")), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  o.level,
			IgnoreRecordNotFoundError: true,
		})
	}

	// the pool is sized before the one ping below
	db, err := gorm.Open(dial, &gorm.Config{Logger: gl, DisableAutomaticPing: true})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dial.Name(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if o.singleCon {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(30)
		sqlDB.SetMaxIdleConns(10)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s: %w", dial.Name(), err)
	}
	if o.log != nil {
		o.log.Info("gorm: connected", zap.String("dialect", dial.Name()))
	}
	return db, nil
}
