package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type LogConfig struct {
	Level             string `env:"LOG_LEVEL" envDefault:"info"`
	Encoding          string `env:"LOG_ENCODING" envDefault:"json"`
	Development       bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
	DisableCaller     bool   `env:"LOG_DISABLE_CALLER" envDefault:"false"`
	DisableStacktrace bool   `env:"LOG_DISABLE_STACKTRACE" envDefault:"true"`
	Sampling          bool   `env:"LOG_SAMPLING" envDefault:"false"`
}

type SweepConfig struct {
	Enabled      bool   `env:"SWEEPS_ENABLED" envDefault:"true"`
	OverdueSpec  string `env:"SWEEP_OVERDUE_CRON" envDefault:"0 0 3 * * *"`
	DividendSpec string `env:"SWEEP_DIVIDENDS_CRON" envDefault:"0 0 9 * * 1"`
}

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	DBDriver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"guild-bank.db"`
	GormLogLevel string `env:"GORM_LOG_LEVEL" envDefault:"warn"`

	MySQLHost string `env:"MYSQL_HOST" envDefault:"mysql"`
	MySQLPort string `env:"MYSQL_PORT" envDefault:"3306"`
	MySQLDB   string `env:"MYSQL_DB" envDefault:"guild_bank"`
	MySQLUser string `env:"MYSQL_USER" envDefault:"guild_bank"`
	MySQLPass string `env:"MYSQL_PASS" envDefault:"guild_bank"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"redis:6379"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	IdempTTLSecs int `env:"IDEMPOTENCY_TTL_SECONDS" envDefault:"300"`

	Log   LogConfig
	Sweep SweepConfig
}

// Load reads an optional .env file (ENV_FILE overrides the path) and then
// the process environment. Variables already set win over the file.
func Load() (*Config, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	return c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or mysql)", c.DBDriver)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if c.Sweep.Enabled && (c.Sweep.OverdueSpec == "" || c.Sweep.DividendSpec == "") {
		return errors.New("missing sweep cron spec")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
