package routes

import (
	"net/http"

	"document-review-api/controllers"
	"document-review-api/middleware"
	"document-review-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"success": true,
					"status":  "ok",
					"message": "Document Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Inbox, any authenticated user
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PATCH("/read-all", controllers.MarkAllNotificationsRead)
				notifications.PATCH("/:id/read", controllers.MarkNotificationRead)
			}

			// Reviewer side of the review chain
			reviewer := protected.Group("/review-requests")
			reviewer.Use(middleware.RequireRole(models.RoleReviewer))
			{
				reviewer.GET("", controllers.GetMyReviewRequests)
				reviewer.GET("/pending", controllers.GetPendingReviewRequests)
				reviewer.GET("/todo", controllers.GetToDoReviewRequests)
				reviewer.GET("/history", controllers.GetReviewHistory)
				reviewer.GET("/:request_id", controllers.GetMyReviewRequest)
				reviewer.PUT("/:request_id/respond", controllers.RespondToReviewRequest)
				reviewer.PUT("/:request_id/submit", controllers.SubmitReview)
			}

			// Business admin: assignment and approval
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleBusinessAdmin))
			{
				admin.POST("/documents/:document_id/review-requests", controllers.AssignReviewer)
				admin.GET("/documents/:document_id/review-requests", controllers.GetDocumentReviewRequests)

				admin.GET("/review-requests", controllers.GetAllReviewRequests)
				admin.POST("/review-requests/expire", controllers.RunReviewExpiry)
				admin.GET("/review-requests/:request_id", controllers.GetReviewRequest)
				admin.GET("/review-requests/:request_id/result", controllers.GetReviewResultByRequest)

				admin.GET("/review-results", controllers.GetReviewResults)
				admin.GET("/review-results/pending", controllers.GetPendingReviewResults)
				admin.PUT("/review-results/:result_id/approve", controllers.ResolveReviewResult)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route not found"})
	})
}
