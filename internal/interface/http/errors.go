package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/photo-gallery/internal/application"
	"github.com/oksasatya/photo-gallery/pkg/response"
	"github.com/oksasatya/photo-gallery/pkg/validation"
	"github.com/oksasatya/photo-gallery/pkg/watermark"
)

// writeError maps application errors to HTTP statuses. input is echoed back on 422 and 500
// so a client can refill its form.
func writeError(c *gin.Context, logger *logrus.Logger, err error, input any) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusUnprocessableEntity, application.ErrValidation.Error(),
			gin.H{"fields": verr.Fields, "input": input})
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrPolicyDenied), errors.Is(err, application.ErrSelfDelete):
		response.Error[any](c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, application.ErrNotFound), errors.Is(err, watermark.ErrDecode):
		response.Error[any](c, http.StatusNotFound, application.ErrNotFound.Error(), nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, err.Error(), gin.H{"fields": gin.H{"email": "has already been taken"}})
	case errors.Is(err, application.ErrSessionUnavailable):
		if logger != nil {
			logger.WithError(err).Warn("session store down")
		}
		response.Error[any](c, http.StatusServiceUnavailable, application.ErrSessionUnavailable.Error(), nil)
	case errors.Is(err, application.ErrUploadFailed):
		response.Error[any](c, http.StatusInternalServerError, err.Error(), gin.H{"input": input})
	default:
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"path":       c.FullPath(),
				"request_id": c.GetString("request_id"),
			}).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// badPayload answers a body that could not be bound at all.
func badPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func pageParam(c *gin.Context) int {
	p, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}
