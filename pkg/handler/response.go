package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"betwallet_client/pkg/apierror"
	"betwallet_client/pkg/flow"
	"betwallet_client/pkg/repository"
	"betwallet_client/pkg/service"
)

type Error struct {
	Message string        `json:"message"`
	Kind    apierror.Kind `json:"kind,omitempty"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	logrus.Error(message)
	c.AbortWithStatusJSON(statusCode, Error{Message: message})
}

// errorResponse maps err onto a status code and the normalized message.
func errorResponse(c *gin.Context, err error) {
	kind := apierror.KindOf(err)
	var status int
	switch {
	case errors.Is(err, flow.ErrNotEditing), errors.Is(err, flow.ErrNotConfirming), errors.Is(err, flow.ErrSubmitting):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNoSession):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrSettlementUnsupported):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	default:
		status = statusForKind(err, kind)
	}

	msg := apierror.Message(err)
	if kind == "" {
		msg = errors.Cause(err).Error()
	}
	entry := logrus.WithFields(logrus.Fields{"path": c.FullPath(), "status": status, "kind": kind})
	if status >= http.StatusInternalServerError {
		entry.Error(err)
	} else {
		entry.Info(err)
	}
	c.AbortWithStatusJSON(status, Error{Message: msg, Kind: kind})
}

func statusForKind(err error, kind apierror.Kind) int {
	switch kind {
	case apierror.KindValidation:
		return http.StatusBadRequest
	case apierror.KindAuth, apierror.KindAuthExpired:
		return http.StatusUnauthorized
	case apierror.KindTimeout:
		return http.StatusGatewayTimeout
	case apierror.KindCanceled:
		return http.StatusRequestTimeout
	case apierror.KindNetwork, apierror.KindDecode:
		return http.StatusBadGateway
	case apierror.KindHTTP:
		var apiErr *apierror.Error
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func wrapOkJSON(c *gin.Context, response map[string]interface{}) {
	c.JSON(http.StatusOK, response)
}
