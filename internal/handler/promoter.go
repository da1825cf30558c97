// internal/handler/promoter.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luckydraw-crm/internal/backend"
	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/schedule"
)

func (h *Handler) PromoterProfile(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	p, err := h.backend.PromoterProfile(c.Request.Context(), sess.BackendToken)
	if err != nil {
		respondError(c, "promoter profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListCustomers godoc
// @Param seasonId query string false "Season filter"
// @Param q query string false "Name or phone search"
// @Router /api/v1/promoter/customers [get]
func (h *Handler) ListCustomers(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	customers, err := h.backend.ListCustomers(c.Request.Context(), sess.BackendToken, backend.CustomerFilter{
		SeasonID: c.Query("seasonId"),
		Query:    c.Query("q"),
	})
	if err != nil {
		respondError(c, "list customers", err)
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	c.JSON(http.StatusOK, gin.H{"items": customers, "count": len(customers)})
}

func (h *Handler) GetCustomer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	cust, err := h.backend.GetCustomer(c.Request.Context(), sess.BackendToken, c.Param("id"))
	if err != nil {
		respondError(c, "get customer", err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req domain.CustomerInput
	if !h.bind(c, &req) {
		return
	}
	cust, err := h.backend.CreateCustomer(c.Request.Context(), sess.BackendToken, req)
	if err != nil {
		respondError(c, "create customer", err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req domain.CustomerInput
	if !h.bind(c, &req) {
		return
	}
	cust, err := h.backend.UpdateCustomer(c.Request.Context(), sess.BackendToken, c.Param("id"), req)
	if err != nil {
		respondError(c, "update customer", err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.backend.DeleteCustomer(c.Request.Context(), sess.BackendToken, c.Param("id")); err != nil {
		respondError(c, "delete customer", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CustomerInstallments builds the installment table of one customer from
// their season and repayments.
func (h *Handler) CustomerInstallments(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	cust, err := h.backend.GetCustomer(ctx, sess.BackendToken, c.Param("id"))
	if err != nil {
		respondError(c, "get customer", err)
		return
	}
	if cust.SeasonID == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "customer is not enrolled in a season"})
		return
	}
	season, err := h.backend.GetSeason(ctx, sess.BackendToken, cust.SeasonID)
	if err != nil {
		respondError(c, "get season", err)
		return
	}
	repayments, err := h.backend.ListRepayments(ctx, sess.BackendToken, cust.ID)
	if err != nil {
		respondError(c, "list repayments", err)
		return
	}

	sched, err := schedule.Build(*season, repayments, h.now())
	if err != nil {
		respondError(c, "build schedule", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customer": cust,
		"season":   season,
		"schedule": h.scheduleView(sched),
	})
}

func (h *Handler) ListRepayments(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	items, err := h.backend.ListRepayments(c.Request.Context(), sess.BackendToken, c.Query("customerId"))
	if err != nil {
		respondError(c, "list repayments", err)
		return
	}
	if items == nil {
		items = []domain.Repayment{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateRepayment(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req domain.RepaymentInput
	if !h.bind(c, &req) {
		return
	}
	r, err := h.backend.CreateRepayment(c.Request.Context(), sess.BackendToken, req)
	if err != nil {
		respondError(c, "create repayment", err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) Wallet(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	w, err := h.backend.Wallet(c.Request.Context(), sess.BackendToken)
	if err != nil {
		respondError(c, "wallet", err)
		return
	}
	c.JSON(http.StatusOK, h.walletView(w))
}

func (h *Handler) ListWithdrawals(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	items, err := h.backend.ListWithdrawals(c.Request.Context(), sess.BackendToken)
	if err != nil {
		respondError(c, "list withdrawals", err)
		return
	}
	if items == nil {
		items = []domain.Withdrawal{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// RequestWithdrawal forwards a cash-out request; the backend decides
// whether the balance covers it.
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req domain.WithdrawalInput
	if !h.bind(c, &req) {
		return
	}
	w, err := h.backend.RequestWithdrawal(c.Request.Context(), sess.BackendToken, req)
	if err != nil {
		respondError(c, "request withdrawal", err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *Handler) ListSeasons(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	seasons, err := h.backend.ListSeasons(c.Request.Context(), sess.BackendToken)
	if err != nil {
		respondError(c, "list seasons", err)
		return
	}
	if seasons == nil {
		seasons = []domain.Season{}
	}
	c.JSON(http.StatusOK, gin.H{"items": seasons})
}

// GetSeason returns the season with its empty installment skeleton, the
// month columns of the season table.
func (h *Handler) GetSeason(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	season, err := h.backend.GetSeason(c.Request.Context(), sess.BackendToken, c.Param("id"))
	if err != nil {
		respondError(c, "get season", err)
		return
	}
	sched, err := schedule.Build(*season, nil, h.now())
	if err != nil {
		respondError(c, "build schedule", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"season": season, "schedule": h.scheduleView(sched)})
}
