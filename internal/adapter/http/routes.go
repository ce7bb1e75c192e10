package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health      *Handler
	Settings    *SettingsHandler
	Credit      *CreditHandler
	Loans       *LoanHandler
	Treasury    *TreasuryHandler
	Investments *InvestmentHandler
	Sweeps      *SweepHandler
}

// RegisterRoutes mounts /health at the root and the ledger API under /v1.
// mw wraps only the /v1 group.
func RegisterRoutes(e *echo.Echo, h Handlers, mw ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	v1 := e.Group("/v1", mw...)
	v1.GET("/health", h.Health.Health)

	g := v1.Group("/guilds/:guild_id")

	g.GET("/settings", h.Settings.Get)
	g.PUT("/settings", h.Settings.Update)
	g.DELETE("/settings", h.Settings.Reset)

	g.GET("/credit/:user_id", h.Credit.Profile)
	g.GET("/credit/:user_id/quote", h.Credit.Quote)
	g.POST("/credit/:user_id/adjust", h.Credit.Adjust)
	v1.GET("/users/:user_id/credit", h.Credit.Global)

	g.POST("/loans", h.Loans.Request)
	g.GET("/loans", h.Loans.List)
	g.GET("/loans/:loan_id", h.Loans.Get)
	g.POST("/loans/:loan_id/confirm", h.Loans.Confirm)
	g.POST("/loans/:loan_id/payments", h.Loans.Pay)
	g.POST("/loans/:loan_id/cancel", h.Loans.Cancel)
	g.POST("/loans/:loan_id/waive", h.Loans.Waive)
	g.POST("/loans/:loan_id/forgive", h.Loans.Forgive)
	g.POST("/loans/:loan_id/refinance", h.Loans.Refinance)
	g.POST("/loans/:loan_id/default", h.Loans.Default)

	g.GET("/treasury", h.Treasury.Get)
	g.POST("/treasury/deposit", h.Treasury.Deposit)
	g.POST("/treasury/withdraw", h.Treasury.Withdraw)

	g.POST("/investments", h.Investments.Request)
	g.GET("/investments/pending", h.Investments.ListPending)
	g.POST("/investments/:txn_id/confirm", h.Investments.Confirm)
	g.POST("/investments/:txn_id/cancel", h.Investments.Cancel)
	g.GET("/investors", h.Investments.ListInvestors)
	g.DELETE("/investors", h.Investments.ClearAll)
	g.POST("/investors/:user_id/withdraw", h.Investments.Withdraw)
	g.PUT("/investors/:user_id/reinvestment", h.Investments.SetReinvestment)
	g.POST("/dividends", h.Investments.Distribute)

	v1.POST("/sweeps/overdue", h.Sweeps.Overdue)
	v1.POST("/sweeps/dividends", h.Sweeps.Dividends)
}
