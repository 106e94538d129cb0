package controllers

import (
	"net/http"
	"strings"

	"document-review-api/models"
	"document-review-api/services"
	"document-review-api/utils"

	"github.com/gin-gonic/gin"
)

type assignReviewerReq struct {
	ReviewerID      string `json:"reviewer_id" binding:"required"`
	Note            string `json:"note"`
	ReviewRequestID string `json:"review_request_id"` // set to reassign an existing PENDING request
}

// POST /api/v1/admin/documents/:document_id/review-requests
func AssignReviewer(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	documentID, ok := uuidParam(c, "document_id")
	if !ok {
		return
	}

	var req assignReviewerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": "Invalid request body"})
		return
	}
	reviewerID, err := utils.ParseUUID("reviewer_id", req.ReviewerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": err.Error()})
		return
	}

	in := services.AssignInput{
		AssignerID: adminID,
		DocumentID: documentID,
		ReviewerID: reviewerID,
		Note:       utils.SanitizeInput(req.Note),
	}
	if strings.TrimSpace(req.ReviewRequestID) != "" {
		existing, err := utils.ParseUUID("review_request_id", req.ReviewRequestID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": err.Error()})
			return
		}
		in.ExistingRequestID = &existing
	}

	out, err := reviewWorkflow.Assign(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	status, message := http.StatusCreated, "Reviewer assigned"
	if in.ExistingRequestID != nil {
		status, message = http.StatusOK, "Reviewer reassigned"
	}
	c.JSON(status, gin.H{"success": true, "message": message, "data": out})
}

// GET /api/v1/admin/documents/:document_id/review-requests
func GetDocumentReviewRequests(c *gin.Context) {
	documentID, ok := uuidParam(c, "document_id")
	if !ok {
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	result, err := reviewWorkflow.ListDocumentRequests(c.Request.Context(), documentID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRequestPage(c, result)
}

// GET /api/v1/admin/review-requests
func GetAllReviewRequests(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	result, err := reviewWorkflow.ListAllRequests(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRequestPage(c, result)
}

// GET /api/v1/admin/review-results/pending
func GetPendingReviewResults(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	result, err := reviewWorkflow.ListPendingResults(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResultPage(c, result)
}

// GET /api/v1/admin/review-results?status=
func GetReviewResults(c *gin.Context) {
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	status := models.ReviewResultStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	result, err := reviewWorkflow.ListResults(c.Request.Context(), status, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResultPage(c, result)
}

type resolveResultReq struct {
	Approved        *bool  `json:"approved" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

// PUT /api/v1/admin/review-results/:result_id/approve
func ResolveReviewResult(c *gin.Context) {
	approverID, ok := currentUserID(c)
	if !ok {
		return
	}
	resultID, ok := uuidParam(c, "result_id")
	if !ok {
		return
	}

	var req resolveResultReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": "Invalid request body"})
		return
	}

	out, err := reviewWorkflow.Resolve(c.Request.Context(), services.ResolveInput{
		ApproverID:      approverID,
		ResultID:        resultID,
		Approved:        *req.Approved,
		RejectionReason: utils.SanitizeInput(req.RejectionReason),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Review result approved"
	if out.Status == models.ReviewResultRejected {
		message = "Review result returned to reviewer"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": out})
}

// GET /api/v1/admin/review-requests/:request_id/result
func GetReviewResultByRequest(c *gin.Context) {
	requestID, ok := uuidParam(c, "request_id")
	if !ok {
		return
	}
	res, err := reviewWorkflow.ResultForRequest(c.Request.Context(), requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": res})
}

// POST /api/v1/admin/review-requests/expire
func RunReviewExpiry(c *gin.Context) {
	n, err := reviewWorkflow.ExpireOverdue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "expired": n})
}

// GET /api/v1/admin/review-requests/:request_id
func GetReviewRequest(c *gin.Context) {
	requestID, ok := uuidParam(c, "request_id")
	if !ok {
		return
	}
	req, err := reviewWorkflow.RequestDetail(c.Request.Context(), requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": req})
}
