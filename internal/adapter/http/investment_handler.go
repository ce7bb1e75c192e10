package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"guild-bank-ledger/internal/adapter/middleware"
	"guild-bank-ledger/internal/usecase/investment"
)

type InvestmentHandler struct {
	base
	uc *investment.Usecase
}

func NewInvestmentHandler(uc *investment.Usecase, l *zap.Logger) *InvestmentHandler {
	return &InvestmentHandler{base: newBase(l), uc: uc}
}

type investReq struct {
	GuildID  string `param:"guild_id" validate:"required,snowflake"`
	UserID   string `json:"user_id"   validate:"omitempty,snowflake"`
	Username string `json:"username"  validate:"max=100"`
	Amount   int64  `json:"amount"    validate:"gt=0"`
}

type txnReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	TxnID   string `param:"txn_id"   validate:"required,txnid"`
}

type withdrawReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	UserID  string `param:"user_id"  validate:"required,snowflake"`
	// omitted withdraws the whole position
	Amount *int64 `json:"amount" validate:"omitempty,gt=0"`
}

type reinvestReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	UserID  string `param:"user_id"  validate:"required,snowflake"`
	Enabled *bool  `json:"enabled"   validate:"required"`
}

type dividendReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	Total   int64  `json:"total"     validate:"gt=0"`
}

func (h *InvestmentHandler) Request(c echo.Context) error {
	var req investReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	userID := req.UserID
	if userID == "" {
		userID = middleware.ActorID(c)
	}
	dto, err := h.uc.Request(c.Request().Context(), investment.RequestInput{
		GuildID:  req.GuildID,
		UserID:   userID,
		Username: req.Username,
		Amount:   req.Amount,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *InvestmentHandler) ListPending(c echo.Context) error {
	var req guildReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.ListPending(c.Request().Context(), req.GuildID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InvestmentHandler) Confirm(c echo.Context) error {
	var req txnReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Confirm(c.Request().Context(), req.GuildID, req.TxnID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *InvestmentHandler) Cancel(c echo.Context) error {
	var req txnReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Cancel(c.Request().Context(), req.GuildID, req.TxnID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *InvestmentHandler) ListInvestors(c echo.Context) error {
	var req guildReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.ListInvestors(c.Request().Context(), req.GuildID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InvestmentHandler) Withdraw(c echo.Context) error {
	var req withdrawReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), req.GuildID, req.UserID, req.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *InvestmentHandler) SetReinvestment(c echo.Context) error {
	var req reinvestReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.SetReinvestment(c.Request().Context(), req.GuildID, req.UserID, *req.Enabled)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *InvestmentHandler) Distribute(c echo.Context) error {
	var req dividendReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	report, err := h.uc.DistributeDividends(c.Request().Context(), req.GuildID, req.Total)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// ClearAll removes every investor and zeroes the treasury.
func (h *InvestmentHandler) ClearAll(c echo.Context) error {
	var req guildReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.ClearAll(c.Request().Context(), req.GuildID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
