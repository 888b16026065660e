package handler

import (
	"net/http"

	"maldamingle/internal/middleware"
	"maldamingle/internal/session"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	sessions *session.Manager
}

func NewMeHandler(sessions *session.Manager) *MeHandler {
	return &MeHandler{sessions: sessions}
}

// GetProfile returns the active profile. Editing after onboarding is not
// offered yet; the client renders this read-only.
func (h *MeHandler) GetProfile(c *gin.Context) {
	p := h.sessions.Get(middleware.GetSessionID(c)).Profile()
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile yet"})
		return
	}
	c.JSON(http.StatusOK, p)
}
