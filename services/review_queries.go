package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"document-review-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestPage is one page of review requests.
type RequestPage struct {
	Items []models.ReviewRequest `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Size  int                    `json:"size"`
}

// ResultPage is one page of review results.
type ResultPage struct {
	Items []models.ReviewResult `json:"items"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Size  int                   `json:"size"`
}

// HistoryFilter narrows a reviewer's submission history.
type HistoryFilter struct {
	Decision models.ReviewDecision
	DateFrom *time.Time
	DateTo   *time.Time // inclusive calendar day
	Search   string
}

func (w *ReviewWorkflow) listRequests(ctx context.Context, f RequestFilter, page PageRequest) (*RequestPage, error) {
	page = page.normalized()
	rows, total, err := w.repo.ListRequests(ctx, f, page)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.ReviewRequest{}
	}
	return &RequestPage{Items: rows, Total: total, Page: page.Page, Size: page.Size}, nil
}

func (w *ReviewWorkflow) listResults(ctx context.Context, f ResultFilter, page PageRequest) (*ResultPage, error) {
	page = page.normalized()
	rows, total, err := w.repo.ListResults(ctx, f, page)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.ReviewResult{}
	}
	for i := range rows {
		w.attachReportURL(ctx, &rows[i])
	}
	return &ResultPage{Items: rows, Total: total, Page: page.Page, Size: page.Size}, nil
}

// attachReportURL fills ReportFileURL. A signing failure leaves it empty.
func (w *ReviewWorkflow) attachReportURL(ctx context.Context, res *models.ReviewResult) {
	if res.ReportFilePath == "" || w.storage == nil {
		return
	}
	url, err := w.storage.PresignedURL(ctx, ReportFolder, res.ReportFilePath, ReportURLTTL)
	if err != nil {
		w.log.Warn("could not sign review report url", "review_result_id", res.ReviewResultID, "path", res.ReportFilePath, "error", err)
		return
	}
	res.ReportFileURL = url
}

// ListPendingForReviewer lists requests waiting for the reviewer's answer.
func (w *ReviewWorkflow) ListPendingForReviewer(ctx context.Context, reviewerID uuid.UUID, page PageRequest) (*RequestPage, error) {
	return w.listRequests(ctx, RequestFilter{
		ReviewerID: &reviewerID,
		Statuses:   []models.ReviewRequestStatus{models.ReviewRequestPending},
	}, page)
}

func (w *ReviewWorkflow) ListAllForReviewer(ctx context.Context, reviewerID uuid.UUID, page PageRequest) (*RequestPage, error) {
	return w.listRequests(ctx, RequestFilter{ReviewerID: &reviewerID}, page)
}

// ListToDoForReviewer lists accepted requests, the documents the reviewer is working on.
func (w *ReviewWorkflow) ListToDoForReviewer(ctx context.Context, reviewerID uuid.UUID, page PageRequest) (*RequestPage, error) {
	return w.listRequests(ctx, RequestFilter{
		ReviewerID: &reviewerID,
		Statuses:   []models.ReviewRequestStatus{models.ReviewRequestAccepted},
	}, page)
}

func (w *ReviewWorkflow) ListDocumentRequests(ctx context.Context, documentID uuid.UUID, page PageRequest) (*RequestPage, error) {
	if _, err := w.repo.FindDocument(ctx, documentID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("document %s not found", documentID)
		}
		return nil, fmt.Errorf("load document: %w", err)
	}
	return w.listRequests(ctx, RequestFilter{DocumentID: &documentID}, page)
}

func (w *ReviewWorkflow) ListAllRequests(ctx context.Context, page PageRequest) (*RequestPage, error) {
	return w.listRequests(ctx, RequestFilter{}, page)
}

// ListHistoryForReviewer lists the reviewer's submitted results, newest first.
func (w *ReviewWorkflow) ListHistoryForReviewer(ctx context.Context, reviewerID uuid.UUID, f HistoryFilter, page PageRequest) (*ResultPage, error) {
	if f.Decision != "" && !f.Decision.Valid() {
		return nil, invalidRequest("unknown decision %q", f.Decision)
	}
	filter := ResultFilter{
		ReviewerID:    &reviewerID,
		Decision:      f.Decision,
		SubmittedFrom: f.DateFrom,
		TitleSearch:   f.Search,
	}
	if f.DateTo != nil {
		end := Deadline(*f.DateTo, 0)
		filter.SubmittedTo = &end
	}
	return w.listResults(ctx, filter, page)
}

func (w *ReviewWorkflow) ListPendingResults(ctx context.Context, page PageRequest) (*ResultPage, error) {
	return w.listResults(ctx, ResultFilter{
		Statuses: []models.ReviewResultStatus{models.ReviewResultPending},
	}, page)
}

// ListResults lists every result, optionally narrowed to one status.
func (w *ReviewWorkflow) ListResults(ctx context.Context, status models.ReviewResultStatus, page PageRequest) (*ResultPage, error) {
	var filter ResultFilter
	if status != "" {
		if !status.Valid() {
			return nil, invalidRequest("unknown result status %q", status)
		}
		filter.Statuses = []models.ReviewResultStatus{status}
	}
	return w.listResults(ctx, filter, page)
}

// ResultForRequest returns the current result of a request.
func (w *ReviewWorkflow) ResultForRequest(ctx context.Context, requestID uuid.UUID) (*models.ReviewResult, error) {
	if _, err := w.loadRequest(ctx, w.repo, requestID, false); err != nil {
		return nil, err
	}
	res, err := w.repo.LatestResultDetail(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("review request %s has no submitted result", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("load review result: %w", err)
	}
	w.attachReportURL(ctx, res)
	return res, nil
}

// RequestDetail loads a request with its document and people.
func (w *ReviewWorkflow) RequestDetail(ctx context.Context, requestID uuid.UUID) (*models.ReviewRequest, error) {
	req, err := w.repo.FindRequestDetail(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("review request %s not found", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("load review request: %w", err)
	}
	return req, nil
}

// ReviewerRequestDetail is RequestDetail limited to the reviewer's own requests.
func (w *ReviewWorkflow) ReviewerRequestDetail(ctx context.Context, reviewerID, requestID uuid.UUID) (*models.ReviewRequest, error) {
	req, err := w.RequestDetail(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ReviewerID != reviewerID {
		return nil, notFound("review request %s not found", requestID)
	}
	return req, nil
}
