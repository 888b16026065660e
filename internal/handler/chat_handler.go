package handler

import (
	"net/http"

	"maldamingle/internal/middleware"
	"maldamingle/internal/session"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	sessions *session.Manager
}

func NewChatHandler(sessions *session.Manager) *ChatHandler {
	return &ChatHandler{sessions: sessions}
}

func (h *ChatHandler) current(c *gin.Context) *session.Session {
	return h.sessions.Get(middleware.GetSessionID(c))
}

// Lounge returns the public message log.
func (h *ChatHandler) Lounge(c *gin.Context) {
	msgs, err := h.current(c).Lounge()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// PostLounge appends one public message from the current user.
func (h *ChatHandler) PostLounge(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.current(c).PostLounge(req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// OpenDirect starts a chat with a known user, replacing any open chat.
func (h *ChatHandler) OpenDirect(c *gin.Context) {
	var req struct {
		ParticipantID string `json:"participant_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chat, err := h.current(c).OpenChat(req.ParticipantID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

// OpenRandom starts the simulated match search. The match lands via the
// websocket push (or a later poll of the active chat) once the search delay
// elapses.
func (h *ChatHandler) OpenRandom(c *gin.Context) {
	if err := h.current(c).OpenRandomChat(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"searching": true})
}

// Active returns the open chat, or 404 when none is open.
func (h *ChatHandler) Active(c *gin.Context) {
	chat := h.current(c).ActiveChat()
	if chat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active chat"})
		return
	}
	c.JSON(http.StatusOK, chat)
}

// Send appends a private message; the scripted reply follows after its delay
// if the chat is still open.
func (h *ChatHandler) Send(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.current(c).SendPrivate(req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Close discards the active chat and its pending reply.
func (h *ChatHandler) Close(c *gin.Context) {
	h.current(c).CloseChat()
	c.JSON(http.StatusOK, gin.H{"closed": true})
}
