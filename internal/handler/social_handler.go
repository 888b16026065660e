package handler

import (
	"net/http"

	"maldamingle/internal/middleware"
	"maldamingle/internal/session"

	"github.com/gin-gonic/gin"
)

type SocialHandler struct {
	sessions *session.Manager
}

func NewSocialHandler(sessions *session.Manager) *SocialHandler {
	return &SocialHandler{sessions: sessions}
}

func (h *SocialHandler) current(c *gin.Context) *session.Session {
	return h.sessions.Get(middleware.GetSessionID(c))
}

// Get returns friends, pending requests in both directions and the discover
// pool.
func (h *SocialHandler) Get(c *gin.Context) {
	v, err := h.current(c).Social()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// SendRequest records an outgoing friend request.
func (h *SocialHandler) SendRequest(c *gin.Context) {
	var req struct {
		TargetID string `json:"target_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.current(c).SendRequest(req.TargetID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": req.TargetID})
}

// Accept moves the requester into friends.
func (h *SocialHandler) Accept(c *gin.Context) {
	if err := h.current(c).AcceptRequest(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": c.Param("id")})
}

// Decline drops the pending request.
func (h *SocialHandler) Decline(c *gin.Context) {
	if err := h.current(c).DeclineRequest(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"declined": c.Param("id")})
}
