package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"document-review-api/services"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/notifications?unreadOnly=&page=&size=
func GetNotifications(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	unreadOnly := strings.TrimSpace(c.Query("unreadOnly"))

	result, err := reviewWorkflow.ListNotifications(c.Request.Context(), uid,
		unreadOnly == "1" || strings.EqualFold(unreadOnly, "true"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Items,
		"total":   result.Total,
		"unread":  result.Unread,
		"page":    result.Page,
		"size":    result.Size,
	})
}

// GET /api/v1/notifications/counter
func GetNotificationCounter(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	n, err := reviewWorkflow.UnreadNotifications(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "unread": n})
}

// PATCH /api/v1/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": "invalid id"})
		return
	}
	if err := reviewWorkflow.MarkNotificationRead(c.Request.Context(), uid, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PATCH /api/v1/notifications/read-all
func MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	n, err := reviewWorkflow.MarkAllNotificationsRead(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": n})
}
