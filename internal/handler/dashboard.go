// internal/handler/dashboard.go
package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"luckydraw-crm/internal/backend"
	"luckydraw-crm/internal/domain"
)

const (
	recentCustomers = 5
	// dashboardFanOut caps concurrent backend calls per dashboard request.
	dashboardFanOut = 3
)

// section is one independently loaded block of a page.
type section struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func loaded(data any, err error) section {
	if err != nil {
		return section{Status: "failed", Error: backend.Message(err)}
	}
	return section{Status: "succeeded", Data: data}
}

type customersSummary struct {
	Count  int               `json:"count"`
	Recent []domain.Customer `json:"recent"`
}

// Dashboard loads every block of the promoter home page concurrently. A
// failing block is reported in place and does not fail the page, so the
// loaders never return an error to the group.
func (h *Handler) Dashboard(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	token := sess.BackendToken

	var profile, wallet, customers, season, posters section
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(dashboardFanOut)

	g.Go(func() error {
		p, err := h.backend.PromoterProfile(ctx, token)
		profile = loaded(p, err)
		return nil
	})
	g.Go(func() error {
		w, err := h.backend.Wallet(ctx, token)
		if err != nil {
			wallet = loaded(nil, err)
			return nil
		}
		wallet = loaded(h.walletView(w), nil)
		return nil
	})
	g.Go(func() error {
		list, err := h.backend.ListCustomers(ctx, token, backend.CustomerFilter{})
		if err != nil {
			customers = loaded(nil, err)
			return nil
		}
		customers = loaded(summarizeCustomers(list), nil)
		return nil
	})
	g.Go(func() error {
		list, err := h.backend.ListSeasons(ctx, token)
		if err != nil {
			season = loaded(nil, err)
			return nil
		}
		season = loaded(activeSeason(list), nil)
		return nil
	})
	g.Go(func() error {
		p, err := h.backend.Posters(ctx)
		posters = loaded(p, err)
		return nil
	})
	_ = g.Wait()

	c.JSON(http.StatusOK, gin.H{
		"profile":   profile,
		"wallet":    wallet,
		"customers": customers,
		"season":    season,
		"posters":   posters,
	})
}

func summarizeCustomers(list []domain.Customer) customersSummary {
	sorted := make([]domain.Customer, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].JoinedAt.After(sorted[j].JoinedAt.Time)
	})
	if len(sorted) > recentCustomers {
		sorted = sorted[:recentCustomers]
	}
	return customersSummary{Count: len(list), Recent: sorted}
}

// activeSeason prefers the season flagged active, then the latest start.
func activeSeason(list []domain.Season) *domain.Season {
	var latest *domain.Season
	for i := range list {
		s := &list[i]
		if s.Active {
			return s
		}
		if latest == nil || s.StartDate.After(latest.StartDate.Time) {
			latest = s
		}
	}
	return latest
}
