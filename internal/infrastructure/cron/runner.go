// Package cronrunner schedules the periodic sweeps on robfig/cron with
// second-resolution specs.
package cronrunner

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

// zapCron satisfies cron.Logger.
type zapCron struct{ s *zap.SugaredLogger }

func (z zapCron) Info(msg string, kv ...any) { z.s.Debugw(msg, kv...) }
func (z zapCron) Error(err error, msg string, kv ...any) {
	z.s.Errorw(msg, append(kv, "error", err)...)
}

// New returns a runner whose jobs receive baseCtx. A job that panics is
// recovered, and a job still running when its next tick fires is skipped.
func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := zapCron{s: logger.Named("cron").Sugar()}
	return &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Add registers job under name; the name is attached to its log lines.
func (r *Runner) Add(name, spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		if r.baseCtx.Err() != nil {
			return
		}
		r.logger.Debug("cron job started", zap.String("job", name))
		job(r.baseCtx)
	})
}

func (r *Runner) Entries() int { return len(r.cron.Entries()) }

func (r *Runner) Start() {
	r.logger.Info("cron started", zap.Int("jobs", r.Entries()))
	r.cron.Start()
}

// Stop waits for running jobs to return.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("cron stopped")
}
