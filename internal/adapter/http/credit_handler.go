package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"guild-bank-ledger/internal/usecase/credit"
)

type CreditHandler struct {
	base
	uc *credit.Usecase
}

func NewCreditHandler(uc *credit.Usecase, l *zap.Logger) *CreditHandler {
	return &CreditHandler{base: newBase(l), uc: uc}
}


type profileReq struct {
	GuildID  string `param:"guild_id" validate:"required,snowflake"`
	UserID   string `param:"user_id"  validate:"required,snowflake"`
	Username string `query:"username" validate:"max=100"`
}

type adjustReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	UserID  string `param:"user_id"  validate:"required,snowflake"`
	Delta   int    `json:"delta"     validate:"required"`
}

type quoteReq struct {
	GuildID    string `param:"guild_id"    validate:"required,snowflake"`
	UserID     string `param:"user_id"     validate:"required,snowflake"`
	Amount     int64  `query:"amount"      validate:"gt=0"`
	TermWeeks  int    `query:"weeks"       validate:"gte=1"`
	TaxRevenue int64  `query:"tax_revenue" validate:"gte=0"`
}

type globalReq struct {
	UserID string `param:"user_id" validate:"required,snowflake"`
}

// Profile returns the member's score, creating the profile on first sight.
func (h *CreditHandler) Profile(c echo.Context) error {
	var req profileReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Profile(c.Request().Context(), req.GuildID, req.UserID, req.Username)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CreditHandler) Adjust(c echo.Context) error {
	var req adjustReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Adjust(c.Request().Context(), req.GuildID, req.UserID, req.Delta)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CreditHandler) Quote(c echo.Context) error {
	var req quoteReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Quote(c.Request().Context(), credit.QuoteInput{
		GuildID:    req.GuildID,
		UserID:     req.UserID,
		Amount:     req.Amount,
		TermWeeks:  req.TermWeeks,
		TaxRevenue: req.TaxRevenue,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CreditHandler) Global(c echo.Context) error {
	var req globalReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Global(c.Request().Context(), req.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
