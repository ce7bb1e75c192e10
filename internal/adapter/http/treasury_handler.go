package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"guild-bank-ledger/internal/usecase/treasury"
)

type TreasuryHandler struct {
	base
	uc *treasury.Usecase
}

func NewTreasuryHandler(uc *treasury.Usecase, l *zap.Logger) *TreasuryHandler {
	return &TreasuryHandler{base: newBase(l), uc: uc}
}

type moveFundsReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	Amount  int64  `json:"amount"    validate:"gt=0"`
}

func (h *TreasuryHandler) Get(c echo.Context) error {
	var req guildReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), req.GuildID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TreasuryHandler) Deposit(c echo.Context) error {
	var req moveFundsReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Deposit(c.Request().Context(), req.GuildID, req.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TreasuryHandler) Withdraw(c echo.Context) error {
	var req moveFundsReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), req.GuildID, req.Amount)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
