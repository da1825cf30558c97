// internal/handler/views.go
package handler

import (
	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/schedule"
)

type installmentRow struct {
	domain.Installment
	MonthDisplay  string `json:"monthDisplay"`
	DueDisplay    string `json:"dueDisplay"`
	AmountDisplay string `json:"amountDisplay"`
	PaidDisplay   string `json:"paidDisplay"`
}

type scheduleResponse struct {
	SeasonID     string            `json:"seasonId"`
	Currency     string            `json:"currency"`
	Installments []installmentRow  `json:"installments"`
	Summary      schedule.Summary  `json:"summary"`
	Display      map[string]string `json:"display"`
}

// scheduleView adds the display strings the installment table renders.
func (h *Handler) scheduleView(s *schedule.Schedule) scheduleResponse {
	rows := make([]installmentRow, 0, len(s.Installments))
	for _, inst := range s.Installments {
		rows = append(rows, installmentRow{
			Installment:   inst,
			MonthDisplay:  h.fmt.Month(inst.Month),
			DueDisplay:    h.fmt.Date(inst.DueDate),
			AmountDisplay: h.fmt.Money(inst.Amount),
			PaidDisplay:   h.fmt.Money(inst.Paid),
		})
	}
	return scheduleResponse{
		SeasonID:     s.SeasonID,
		Currency:     h.fmt.Currency(),
		Installments: rows,
		Summary:      s.Summary,
		Display: map[string]string{
			"total":       h.fmt.Money(s.Summary.Total),
			"paid":        h.fmt.Money(s.Summary.Paid),
			"outstanding": h.fmt.Money(s.Summary.Outstanding),
		},
	}
}

type walletResponse struct {
	*domain.Wallet
	Currency string            `json:"currency"`
	Display  map[string]string `json:"display"`
}

func (h *Handler) walletView(w *domain.Wallet) walletResponse {
	return walletResponse{
		Wallet:   w,
		Currency: h.fmt.Currency(),
		Display: map[string]string{
			"balance":           h.fmt.Money(w.Balance),
			"totalEarned":       h.fmt.Money(w.TotalEarned),
			"totalWithdrawn":    h.fmt.Money(w.TotalWithdrawn),
			"pendingWithdrawal": h.fmt.Money(w.PendingWithdrawal),
		},
	}
}
