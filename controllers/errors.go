package controllers

import (
	"errors"
	"net/http"

	"document-review-api/config"
	"document-review-api/services"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[services.ErrorKind]int{
	services.KindNotFound:          http.StatusNotFound,
	services.KindInvalidRequest:    http.StatusBadRequest,
	services.KindInvalidState:      http.StatusConflict,
	services.KindExpired:           http.StatusGone,
	services.KindDependencyFailure: http.StatusBadGateway,
}

// respondError maps workflow errors to a status code and a stable code field.
func respondError(c *gin.Context, err error) {
	var we *services.Error
	if errors.As(err, &we) {
		if status, ok := statusByKind[we.Kind]; ok {
			msg := we.Message
			if we.Kind == services.KindDependencyFailure {
				config.Logger.Error("dependency failure", "path", c.Request.URL.Path, "error", err)
			}
			c.JSON(status, gin.H{"success": false, "code": string(we.Kind), "error": msg})
			return
		}
	}

	_ = c.Error(err)
	config.Logger.Error("unhandled error", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "code": "internal_error", "error": "Internal server error"})
}
