package http

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"car-market/internal/service"
	"car-market/internal/validate"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorStatusMap gives every known service error exactly one response.
var errorStatusMap = []errorMapping{
	{service.ErrListingNotFound, http.StatusNotFound, "Car not found"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrNotOwner, http.StatusForbidden, "Not authorized"},
	{service.ErrUsernameTaken, http.StatusBadRequest, "Username already taken"},
	{service.ErrUserAlreadyExists, http.StatusConflict, "User already exists"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{service.ErrInvalidRegistrationPassword, http.StatusForbidden, "Invalid registration password"},
	{service.ErrPhotoStorageDisabled, http.StatusServiceUnavailable, "Photo storage is not configured"},
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Message})
		return
	}

	for _, m := range errorStatusMap {
		if errors.Is(err, m.target) {
			c.JSON(m.status, gin.H{"message": m.message})
			return
		}
	}

	h.logger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Errorf("unexpected error: %v", err)
	reportError(c, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Server error",
		"error":   rootCause(err).Error(),
	})
}

// rootCause drops the wrapping context added on the way up.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// reportError forwards err to Sentry when a client was initialised at startup.
func reportError(c *gin.Context, err error) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub = hub.Clone()
	hub.Scope().SetTag("route", c.FullPath())
	hub.Scope().SetTag("method", c.Request.Method)
	if id := c.GetString(callerIDKey); id != "" {
		hub.Scope().SetUser(sentry.User{ID: id})
	}
	hub.CaptureException(err)
}
