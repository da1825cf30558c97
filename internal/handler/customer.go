// internal/handler/customer.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luckydraw-crm/internal/schedule"
)

func (h *Handler) CustomerProfile(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	cust, err := h.backend.CustomerProfile(c.Request.Context(), sess.BackendToken)
	if err != nil {
		respondError(c, "customer profile", err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

// MyInstallments godoc
// @Summary Installment table of the logged-in customer
// @Router /api/v1/customer/installments [get]
func (h *Handler) MyInstallments(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	ledger, err := h.backend.CustomerLedger(c.Request.Context(), sess.BackendToken)
	if err != nil {
		respondError(c, "customer installments", err)
		return
	}
	sched, err := schedule.Build(ledger.Season, ledger.Repayments, h.now())
	if err != nil {
		respondError(c, "build schedule", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customer": ledger.Customer,
		"season":   ledger.Season,
		"schedule": h.scheduleView(sched),
	})
}

// MyPromoter returns the contact card shown on the customer portal.
func (h *Handler) MyPromoter(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	p, err := h.backend.CustomerPromoter(c.Request.Context(), sess.BackendToken)
	if err != nil {
		respondError(c, "customer promoter", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":    p.Name,
		"phone":   p.Phone,
		"email":   p.Email,
		"address": p.Address,
	})
}
