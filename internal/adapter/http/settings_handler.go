package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domain "guild-bank-ledger/internal/domain/settings"
	"guild-bank-ledger/internal/usecase/settings"
)

type SettingsHandler struct {
	base
	uc *settings.Usecase
}

func NewSettingsHandler(uc *settings.Usecase, l *zap.Logger) *SettingsHandler {
	return &SettingsHandler{base: newBase(l), uc: uc}
}

type guildReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
}

type updateSettingsReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	domain.Patch
}

func (h *SettingsHandler) Get(c echo.Context) error {
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

func (h *SettingsHandler) Update(c echo.Context) error {
	var req updateSettingsReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Update(c.Request().Context(), req.GuildID, req.Patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SettingsHandler) Reset(c echo.Context) error {
	var req guildReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Reset(c.Request().Context(), req.GuildID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
