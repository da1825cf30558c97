// internal/handler/router.go
package handler

import (
	"github.com/gin-gonic/gin"

	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/middleware"
)

func NewRouter(h *Handler, authMW *middleware.AuthMiddleware) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	v1.GET("/posters", h.Posters)
	v1.POST("/auth/login", h.Login)

	account := v1.Group("/auth")
	account.Use(authMW.RequireSessionAllowReset())
	{
		account.POST("/logout", h.Logout)
		account.GET("/session", h.Session)
		account.POST("/reset-password", h.ResetPassword)
	}

	promoter := v1.Group("/promoter")
	promoter.Use(authMW.RequireSession(domain.RolePromoter))
	{
		promoter.GET("/dashboard", h.Dashboard)
		promoter.GET("/profile", h.PromoterProfile)
		promoter.GET("/customers", h.ListCustomers)
		promoter.POST("/customers", h.CreateCustomer)
		promoter.GET("/customers/:id", h.GetCustomer)
		promoter.PUT("/customers/:id", h.UpdateCustomer)
		promoter.DELETE("/customers/:id", h.DeleteCustomer)
		promoter.GET("/customers/:id/installments", h.CustomerInstallments)
		promoter.GET("/repayments", h.ListRepayments)
		promoter.POST("/repayments", h.CreateRepayment)
		promoter.GET("/wallet", h.Wallet)
		promoter.GET("/withdrawals", h.ListWithdrawals)
		promoter.POST("/withdrawals", h.RequestWithdrawal)
		promoter.GET("/seasons", h.ListSeasons)
		promoter.GET("/seasons/:id", h.GetSeason)
	}

	customer := v1.Group("/customer")
	customer.Use(authMW.RequireSession(domain.RoleCustomer))
	{
		customer.GET("/profile", h.CustomerProfile)
		customer.GET("/installments", h.MyInstallments)
		customer.GET("/promoter", h.MyPromoter)
	}

	return router
}
