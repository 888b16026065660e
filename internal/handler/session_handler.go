package handler

import (
	"net/http"

	"maldamingle/config"
	"maldamingle/internal/auth"
	"maldamingle/internal/domain"
	"maldamingle/internal/middleware"
	"maldamingle/internal/session"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	cfg      *config.Config
	sessions *session.Manager
}

func NewSessionHandler(cfg *config.Config, sessions *session.Manager) *SessionHandler {
	return &SessionHandler{cfg: cfg, sessions: sessions}
}

// Create starts an anonymous session on the landing view and returns its
// bearer token. No login is required to start.
func (h *SessionHandler) Create(c *gin.Context) {
	s := h.sessions.Create()
	token, err := auth.GenerateSessionToken(&h.cfg.JWT, s.ID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token":   token,
		"session": s.Snapshot(),
	})
}

func (h *SessionHandler) current(c *gin.Context) *session.Session {
	return h.sessions.Get(middleware.GetSessionID(c))
}

// Get returns the view-state snapshot the client renders from.
func (h *SessionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.current(c).Snapshot())
}

// Enter moves landing -> onboarding.
func (h *SessionHandler) Enter(c *gin.Context) {
	s := h.current(c)
	if err := s.Enter(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// Logout tears the session down and forgets the stored profile.
func (h *SessionHandler) Logout(c *gin.Context) {
	s := h.current(c)
	if err := s.Logout(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// SetTab switches the active dashboard tab.
func (h *SessionHandler) SetTab(c *gin.Context) {
	var req struct {
		Tab domain.DashboardTab `json:"tab" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := h.current(c)
	if err := s.SetTab(req.Tab); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// SetMessageViewMode switches the discover/chats/requests sub-view.
func (h *SessionHandler) SetMessageViewMode(c *gin.Context) {
	var req struct {
		Mode domain.MessageViewMode `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := h.current(c)
	if err := s.SetMessageViewMode(req.Mode); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}
