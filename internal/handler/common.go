package handler

import (
	"errors"
	"net/http"

	"maldamingle/internal/domain"
	"maldamingle/internal/session"

	"github.com/gin-gonic/gin"
)

// fail writes the error with the status its class deserves: state-machine
// violations conflict, validation errors are bad requests, everything else
// is a 500 with a generic message.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrBadTransition),
		errors.Is(err, session.ErrNotDashboard),
		errors.Is(err, session.ErrNotOnboarding),
		errors.Is(err, session.ErrSearchInProgress),
		errors.Is(err, session.ErrBioInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrInvalidValue),
		errors.Is(err, session.ErrEmptyMessage),
		errors.Is(err, session.ErrNoActiveChat),
		errors.Is(err, session.ErrUnknownUser),
		errors.Is(err, session.ErrNotRequested),
		errors.Is(err, session.ErrNotEligible),
		errors.Is(err, session.ErrStepIncomplete),
		errors.Is(err, session.ErrBioInputs),
		errors.Is(err, session.ErrPhotoLimit),
		errors.Is(err, session.ErrPhotoIndex),
		errors.Is(err, session.ErrPhotosRequired),
		errors.Is(err, session.ErrProfileIncomplete),
		errors.Is(err, domain.ErrUnderage),
		errors.Is(err, domain.ErrNoPhotos),
		errors.Is(err, domain.ErrTooManyPhoto):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed"})
	}
}
