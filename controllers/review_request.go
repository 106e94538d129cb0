package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"document-review-api/models"
	"document-review-api/services"
	"document-review-api/utils"

	"github.com/gin-gonic/gin"
)

// MaxReportBytes caps uploaded review reports.
const MaxReportBytes = 20 << 20

// GET /api/v1/review-requests/pending
func GetPendingReviewRequests(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	result, err := reviewWorkflow.ListPendingForReviewer(c.Request.Context(), reviewerID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRequestPage(c, result)
}

// GET /api/v1/review-requests
func GetMyReviewRequests(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	result, err := reviewWorkflow.ListAllForReviewer(c.Request.Context(), reviewerID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRequestPage(c, result)
}

// GET /api/v1/review-requests/todo
func GetToDoReviewRequests(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}
	result, err := reviewWorkflow.ListToDoForReviewer(c.Request.Context(), reviewerID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondRequestPage(c, result)
}

type respondReq struct {
	Accept          *bool  `json:"accept" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

// PUT /api/v1/review-requests/:request_id/respond
func RespondToReviewRequest(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "request_id")
	if !ok {
		return
	}

	var req respondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": "Invalid request body"})
		return
	}

	out, err := reviewWorkflow.Respond(c.Request.Context(), services.RespondInput{
		ReviewerID:      reviewerID,
		RequestID:       requestID,
		Accept:          *req.Accept,
		RejectionReason: utils.SanitizeInput(req.RejectionReason),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Review request declined"
	if out.Status == models.ReviewRequestAccepted {
		message = "Review request accepted"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": out})
}

// PUT /api/v1/review-requests/:request_id/submit (multipart: decision, comment, report)
func SubmitReview(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "request_id")
	if !ok {
		return
	}

	report, err := readReportFile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": err.Error()})
		return
	}

	res, err := reviewWorkflow.Submit(c.Request.Context(), services.SubmitInput{
		ReviewerID: reviewerID,
		RequestID:  requestID,
		Decision:   models.ReviewDecision(c.PostForm("decision")),
		Comment:    utils.SanitizeInput(c.PostForm("comment")),
		Report:     report,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Review submitted", "data": res})
}

// readReportFile returns nil when no file was sent; the workflow reports that as missing.
func readReportFile(c *gin.Context) (*services.ReportFile, error) {
	header, err := c.FormFile("report")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	if header.Size > MaxReportBytes {
		return nil, fmt.Errorf("report exceeds %d MB", MaxReportBytes>>20)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("cannot read report: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxReportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("cannot read report: %w", err)
	}
	if len(data) > MaxReportBytes {
		return nil, fmt.Errorf("report exceeds %d MB", MaxReportBytes>>20)
	}
	return &services.ReportFile{Filename: header.Filename, Data: data}, nil
}

// GET /api/v1/review-requests/history?decision=&dateFrom=&dateTo=&search=
func GetReviewHistory(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, ok := pageFromQuery(c)
	if !ok {
		return
	}

	from, err := utils.ParseDate("dateFrom", c.Query("dateFrom"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": err.Error()})
		return
	}
	to, err := utils.ParseDate("dateTo", c.Query("dateTo"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "code": string(services.KindInvalidRequest), "error": err.Error()})
		return
	}

	result, err := reviewWorkflow.ListHistoryForReviewer(c.Request.Context(), reviewerID, services.HistoryFilter{
		Decision: models.ReviewDecision(strings.ToUpper(strings.TrimSpace(c.Query("decision")))),
		DateFrom: from,
		DateTo:   to,
		Search:   utils.SanitizeInput(c.Query("search")),
	}, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResultPage(c, result)
}

// GET /api/v1/review-requests/:request_id
func GetMyReviewRequest(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "request_id")
	if !ok {
		return
	}
	req, err := reviewWorkflow.ReviewerRequestDetail(c.Request.Context(), reviewerID, requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": req})
}
