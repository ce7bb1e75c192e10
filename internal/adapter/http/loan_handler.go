package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"guild-bank-ledger/internal/adapter/middleware"
	"guild-bank-ledger/internal/usecase/loan"
)

type LoanHandler struct {
	base
	uc *loan.Usecase
}

func NewLoanHandler(uc *loan.Usecase, l *zap.Logger) *LoanHandler {
	return &LoanHandler{base: newBase(l), uc: uc}
}

type requestLoanReq struct {
	GuildID    string `param:"guild_id"    validate:"required,snowflake"`
	UserID     string `json:"user_id"      validate:"omitempty,snowflake"`
	Username   string `json:"username"     validate:"max=100"`
	Amount     int64  `json:"amount"       validate:"gt=0"`
	TermWeeks  int    `json:"term_weeks"   validate:"gte=1"`
	TaxRevenue int64  `json:"tax_revenue"  validate:"gte=0"`
}

type listLoansReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	Status  string `query:"status"   validate:"omitempty,oneof=active pending overdue defaulted"`
	UserID  string `query:"user_id"  validate:"omitempty,snowflake"`
}

type loanReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	LoanID  string `param:"loan_id"  validate:"required,loanid"`
}

type paymentReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	LoanID  string `param:"loan_id"  validate:"required,loanid"`
	Amount  int64  `json:"amount"    validate:"gt=0"`
}

type waiveReq struct {
	GuildID string          `param:"guild_id" validate:"required,snowflake"`
	LoanID  string          `param:"loan_id"  validate:"required,loanid"`
	NewRate decimal.Decimal `json:"new_rate"  validate:"gte=0,dec2"`
}

type forgiveReq struct {
	GuildID string `param:"guild_id" validate:"required,snowflake"`
	LoanID  string `param:"loan_id"  validate:"required,loanid"`
	// omitted forgives the whole remaining balance
	Amount *int64 `json:"amount" validate:"omitempty,gt=0"`
}

type refinanceReq struct {
	GuildID   string `param:"guild_id"  validate:"required,snowflake"`
	LoanID    string `param:"loan_id"   validate:"required,loanid"`
	TermWeeks int    `json:"term_weeks" validate:"gte=1"`
}

// Request files a pending loan for user_id, or for the acting member when
// user_id is omitted.
func (h *LoanHandler) Request(c echo.Context) error {
	var req requestLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	userID := req.UserID
	if userID == "" {
		userID = middleware.ActorID(c)
	}
	dto, err := h.uc.Request(c.Request().Context(), loan.RequestInput{
		GuildID:    req.GuildID,
		UserID:     userID,
		Username:   req.Username,
		Amount:     req.Amount,
		TermWeeks:  req.TermWeeks,
		TaxRevenue: req.TaxRevenue,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	var req listLoansReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()

	var (
		out []loan.LoanDTO
		err error
	)
	switch {
	case req.UserID != "":
		out, err = h.uc.ListBorrower(ctx, req.GuildID, req.UserID)
	case req.Status == "pending":
		out, err = h.uc.ListPending(ctx, req.GuildID)
	case req.Status == "overdue":
		out, err = h.uc.ListOverdue(ctx, req.GuildID)
	case req.Status == "defaulted":
		out, err = h.uc.ListDefaulted(ctx, req.GuildID)
	default:
		out, err = h.uc.ListActive(ctx, req.GuildID)
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Get(c echo.Context) error {
	var req loanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), req.GuildID, req.LoanID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Confirm disburses a pending loan on behalf of the acting admin.
func (h *LoanHandler) Confirm(c echo.Context) error {
	var req loanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Confirm(c.Request().Context(), req.GuildID, req.LoanID, middleware.ActorID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Pay(c echo.Context) error {
	var req paymentReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	res, err := h.uc.RecordPayment(c.Request().Context(), req.GuildID, req.LoanID, req.Amount, middleware.ActorID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) Cancel(c echo.Context) error {
	var req loanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	res, err := h.uc.Cancel(c.Request().Context(), req.GuildID, req.LoanID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) Waive(c echo.Context) error {
	var req waiveReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	res, err := h.uc.WaiveInterest(c.Request().Context(), req.GuildID, req.LoanID, req.NewRate, middleware.ActorID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) Forgive(c echo.Context) error {
	var req forgiveReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	res, err := h.uc.Forgive(c.Request().Context(), req.GuildID, req.LoanID, loan.ForgiveInput{
		Amount:    req.Amount,
		HandledBy: middleware.ActorID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) Refinance(c echo.Context) error {
	var req refinanceReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Refinance(c.Request().Context(), req.GuildID, req.LoanID, req.TermWeeks, middleware.ActorID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Default(c echo.Context) error {
	var req loanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.MarkDefaulted(c.Request().Context(), req.GuildID, req.LoanID, middleware.ActorID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
