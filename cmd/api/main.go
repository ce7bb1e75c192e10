package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "guild-bank-ledger/internal/adapter/http"
	"guild-bank-ledger/internal/adapter/middleware"
	"guild-bank-ledger/internal/adapter/notify"
	"guild-bank-ledger/internal/adapter/repository/gormstore"
	"guild-bank-ledger/internal/config"
	"guild-bank-ledger/internal/infrastructure/cache"
	cronrunner "guild-bank-ledger/internal/infrastructure/cron"
	"guild-bank-ledger/internal/infrastructure/db"
	"guild-bank-ledger/internal/infrastructure/logger"
	"guild-bank-ledger/internal/usecase/credit"
	"guild-bank-ledger/internal/usecase/investment"
	"guild-bank-ledger/internal/usecase/loan"
	"guild-bank-ledger/internal/usecase/settings"
	"guild-bank-ledger/internal/usecase/sweep"
	"guild-bank-ledger/internal/usecase/treasury"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fatal(err)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("guild bank stopped", zap.Error(err))
	}
}

func fatal(err error) {
	_, _ = os.Stderr.WriteString("guild-bank-ledger: " + err.Error() + "\n")
	os.Exit(1)
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := gormstore.Migrate(gdb); err != nil {
		return err
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var (
		tx          = gormstore.NewGormUoW(gdb)
		loans       = gormstore.NewLoanRepository(gdb)
		investors   = gormstore.NewInvestorRepository(gdb)
		treasuries  = gormstore.NewTreasuryRepository(gdb)
		investments = investment.NewUsecase(investors, treasuries, tx)
		sweeper     = sweep.NewSweeper(tx, loans, investors, notify.NewRedisPublisher(rdb), log.Named("sweep"))
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), requestLogger(log))

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health: httpadp.NewHandler(
			httpadp.Check{Name: "db", Fn: sqlDB.PingContext},
			httpadp.Check{Name: "redis", Fn: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
		Settings:    httpadp.NewSettingsHandler(settings.NewUsecase(gormstore.NewSettingsRepository(gdb), tx), log),
		Credit:      httpadp.NewCreditHandler(credit.NewUsecase(gormstore.NewCreditRepository(gdb), tx), log),
		Loans:       httpadp.NewLoanHandler(loan.NewUsecase(loans, tx), log),
		Treasury:    httpadp.NewTreasuryHandler(treasury.NewUsecase(treasuries, tx), log),
		Investments: httpadp.NewInvestmentHandler(investments, log),
		Sweeps:      httpadp.NewSweepHandler(sweeper, log),
	}, middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log))

	if cfg.Sweep.Enabled {
		runner := cronrunner.New(log, ctx)
		if err := scheduleSweeps(runner, cfg.Sweep, sweeper, log); err != nil {
			return err
		}
		runner.Start()
		defer runner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr), zap.String("db", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func scheduleSweeps(r *cronrunner.Runner, cfg config.SweepConfig, s *sweep.Sweeper, log *zap.Logger) error {
	if _, err := r.Add("overdue", cfg.OverdueSpec, func(ctx context.Context) {
		if _, err := s.ProcessOverdue(ctx, time.Now().UTC()); err != nil {
			log.Error("overdue sweep failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	_, err := r.Add("dividends", cfg.DividendSpec, func(ctx context.Context) {
		if _, err := s.DividendReminders(ctx, time.Now().UTC()); err != nil {
			log.Error("dividend reminders failed", zap.Error(err))
		}
	})
	return err
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:     true,
		LogURI:        true,
		LogStatus:     true,
		LogLatency:    true,
		LogRemoteIP:   true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if actor := middleware.ActorID(c); actor != "" {
				fields = append(fields, zap.String("actor_id", actor))
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
