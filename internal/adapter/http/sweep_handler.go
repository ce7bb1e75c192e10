package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"guild-bank-ledger/internal/usecase/sweep"
)

// Sweeper is the part of sweep.Sweeper the manual triggers need.
type Sweeper interface {
	ProcessOverdue(ctx context.Context, now time.Time) (*sweep.OverdueReport, error)
	DividendReminders(ctx context.Context, now time.Time) (*sweep.DividendReport, error)
}

// SweepHandler lets an operator run a sweep outside its schedule.
type SweepHandler struct {
	base
	s   Sweeper
	now func() time.Time
}

func NewSweepHandler(s Sweeper, l *zap.Logger) *SweepHandler {
	return &SweepHandler{base: newBase(l), s: s, now: func() time.Time { return time.Now().UTC() }}
}

func (h *SweepHandler) Overdue(c echo.Context) error {
	report, err := h.s.ProcessOverdue(c.Request().Context(), h.now())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *SweepHandler) Dividends(c echo.Context) error {
	report, err := h.s.DividendReminders(c.Request().Context(), h.now())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
