// internal/handler/public.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"luckydraw-crm/internal/domain"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Posters feeds the landing site.
func (h *Handler) Posters(c *gin.Context) {
	posters, err := h.backend.Posters(c.Request.Context())
	if err != nil {
		respondError(c, "posters", err)
		return
	}
	if posters == nil {
		posters = []domain.Poster{}
	}
	c.JSON(http.StatusOK, gin.H{"items": posters})
}
