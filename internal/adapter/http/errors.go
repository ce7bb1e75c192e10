package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"guild-bank-ledger/internal/domain/bankerr"
)

// statusOf maps the ledger error taxonomy onto HTTP codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, bankerr.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bankerr.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, bankerr.ErrStateConflict):
		return http.StatusConflict
	case errors.Is(err, bankerr.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// base carries what every handler shares.
type base struct{ log *zap.Logger }

func newBase(l *zap.Logger) base {
	if l == nil {
		l = zap.NewNop()
	}
	return base{log: l}
}

// fail writes err as an ErrorResponse. Infrastructure errors are logged and
// hidden behind a generic message.
func (b base) fail(c echo.Context, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		b.log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}

	resp := ErrorResponse{Error: err.Error()}
	var ve *bankerr.ValidationError
	if errors.As(err, &ve) {
		resp = ErrorResponse{Error: "validation failed", Details: []FieldError{{Field: ve.Field, Message: ve.Reason}}}
	}
	return c.JSON(code, resp)
}

// decode binds path, query and body into req and validates it. When ok is
// false the 400/422 response has already been written.
func decode(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
