package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"maldamingle/internal/domain"
	"maldamingle/internal/middleware"
	"maldamingle/internal/session"
	"maldamingle/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type OnboardingHandler struct {
	sessions *session.Manager
	cloud    cloudinary.Client
}

func NewOnboardingHandler(sessions *session.Manager, cloud cloudinary.Client) *OnboardingHandler {
	return &OnboardingHandler{sessions: sessions, cloud: cloud}
}

func (h *OnboardingHandler) current(c *gin.Context) *session.Session {
	return h.sessions.Get(middleware.GetSessionID(c))
}

// GetDraft returns the in-progress onboarding form.
func (h *OnboardingHandler) GetDraft(c *gin.Context) {
	d, err := h.current(c).Draft()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// PatchDraft applies a partial form update, including step navigation.
func (h *OnboardingHandler) PatchDraft(c *gin.Context) {
	var patch session.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.current(c).UpdateDraft(patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GenerateBio asks the text service for a bio and writes it into the draft.
// Failures inside the service degrade to canned text, so this only errors on
// missing inputs or a stale draft.
func (h *OnboardingHandler) GenerateBio(c *gin.Context) {
	bio, err := h.current(c).GenerateDraftBio(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bio": bio})
}

// UploadPhoto stores one image and appends its URL to the draft, up to 4.
// The limit is checked before the upload so a full draft never leaves an
// orphaned remote image behind.
func (h *OnboardingHandler) UploadPhoto(c *gin.Context) {
	s := h.current(c)
	d, err := s.Draft()
	if err != nil {
		fail(c, err)
		return
	}
	if len(d.Photos) >= domain.MaxPhotos {
		fail(c, session.ErrPhotoLimit)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	folder := "MaldaMingle/profiles/" + s.ID()
	publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, _, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	if err := s.AddPhoto(url); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// RemovePhoto drops the draft photo at index.
func (h *OnboardingHandler) RemovePhoto(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	if err := h.current(c).RemovePhoto(index); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": index})
}

// Complete validates the draft, persists the profile and moves the session
// to the dashboard.
func (h *OnboardingHandler) Complete(c *gin.Context) {
	s := h.current(c)
	p, err := s.CompleteOnboarding()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile": p,
		"session": s.Snapshot(),
	})
}
