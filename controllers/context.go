package controllers

import (
	"net/http"

	"document-review-api/middleware"
	"document-review-api/services"
	"document-review-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var reviewWorkflow *services.ReviewWorkflow

// UseReviewWorkflow installs the workflow the review handlers delegate to.
func UseReviewWorkflow(w *services.ReviewWorkflow) {
	reviewWorkflow = w
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.ContextUserID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not authenticated"})
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not authenticated"})
		return uuid.Nil, false
	}
	return id, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(name, c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": err.Error()})
		return uuid.Nil, false
	}
	return id, true
}

func pageFromQuery(c *gin.Context) (services.PageRequest, bool) {
	page, size, err := utils.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": err.Error()})
		return services.PageRequest{}, false
	}
	return services.PageRequest{Page: page, Size: size}, true
}

func respondRequestPage(c *gin.Context, page *services.RequestPage) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    page.Items,
		"total":   page.Total,
		"page":    page.Page,
		"size":    page.Size,
	})
}

func respondResultPage(c *gin.Context, page *services.ResultPage) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    page.Items,
		"total":   page.Total,
		"page":    page.Page,
		"size":    page.Size,
	})
}
