package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"document-review-api/models"
	"document-review-api/monitor"

	"github.com/google/uuid"
)

// SubmitInput is a reviewer's verdict and report for an ACCEPTED request.
type SubmitInput struct {
	ReviewerID uuid.UUID
	RequestID  uuid.UUID
	Decision   models.ReviewDecision
	Comment    string
	Report     *ReportFile
}

// Submit records a review result. The report is converted and uploaded before the
// transaction; the result row and the document move to PENDING_APPROVAL commit together.
func (w *ReviewWorkflow) Submit(ctx context.Context, in SubmitInput) (*models.ReviewResult, error) {
	res, err := w.submit(ctx, in)
	w.record("submit", err)
	return res, err
}

func (w *ReviewWorkflow) submit(ctx context.Context, in SubmitInput) (*models.ReviewResult, error) {
	in.Decision = models.ReviewDecision(strings.ToUpper(strings.TrimSpace(string(in.Decision))))
	if !in.Decision.Valid() {
		return nil, invalidRequest("decision must be %s or %s", models.ReviewDecisionApproved, models.ReviewDecisionRejected)
	}

	if _, err := ValidateReport(in.Report); err != nil {
		return nil, err
	}
	req, err := w.checkSubmittable(ctx, w.repo, in, false)
	if err != nil {
		return nil, err
	}

	pdf := in.Report.Data
	if !w.converter.IsCanonicalFormat(in.Report.Filename) {
		started := time.Now()
		pdf, err = w.converter.ConvertToCanonical(ctx, in.Report.Filename, in.Report.Data)
		monitor.ObserveConversion(started)
		if err != nil {
			w.log.Error("report conversion failed", "review_request_id", req.ReviewRequestID, "filename", in.Report.Filename, "error", err)
			return nil, dependencyFailure(err, "could not convert report %q to PDF", in.Report.Filename)
		}
	}

	// Each submission gets its own object so earlier results keep their reports.
	resultID := uuid.New()
	objectPath, err := w.storage.Upload(ctx, pdf, ReportFolder, ReportObjectName(req.ReviewRequestID, resultID, in.Report.Filename))
	if err != nil {
		w.log.Error("report upload failed", "review_request_id", req.ReviewRequestID, "error", err)
		return nil, dependencyFailure(err, "could not store review report")
	}

	now := w.now()
	var result *models.ReviewResult
	err = w.repo.Transaction(ctx, func(tx *ReviewRepository) error {
		req, err := w.checkSubmittable(ctx, tx, in, true)
		if err != nil {
			return err
		}

		result = &models.ReviewResult{
			ReviewResultID:  resultID,
			ReviewRequestID: req.ReviewRequestID,
			DocumentID:      req.DocumentID,
			ReviewerID:      in.ReviewerID,
			Comment:         strings.TrimSpace(in.Comment),
			ReportFilePath:  objectPath,
			Decision:        in.Decision,
			Status:          models.ReviewResultPending,
			SubmittedAt:     now,
			Late:            req.ReviewDeadline != nil && now.After(*req.ReviewDeadline),
		}
		if err := tx.CreateResult(ctx, result); err != nil {
			return fmt.Errorf("create review result: %w", err)
		}
		if _, err := w.sync.Apply(ctx, tx, req.DocumentID, EventReviewSubmitted, in.ReviewerID, nil); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		w.discardReport(ctx, objectPath)
		return nil, err
	}

	if result.Late {
		monitor.LateSubmissions.Inc()
		w.log.Warn("review submitted after deadline",
			"review_result_id", result.ReviewResultID,
			"review_request_id", req.ReviewRequestID,
			"review_deadline", req.ReviewDeadline,
			"submitted_at", result.SubmittedAt,
		)
	}
	w.log.Info("review submitted",
		"review_result_id", result.ReviewResultID,
		"review_request_id", result.ReviewRequestID,
		"document_id", result.DocumentID,
		"decision", result.Decision,
	)

	detail, derr := w.repo.FindRequestDetail(ctx, req.ReviewRequestID)
	if derr == nil {
		title := ""
		if detail.Document != nil {
			title = detail.Document.Title
		}
		w.notify(ctx, Notice{
			Recipient:  detail.AssignedBy,
			Title:      "Review result awaiting approval",
			Message:    fmt.Sprintf("A review of \"%s\" was submitted with decision %s.", title, result.Decision),
			Type:       "info",
			DocumentID: &result.DocumentID,
		})
	}
	return result, nil
}

// checkSubmittable verifies that the reviewer owns an ACCEPTED request whose latest result,
// if any, was rejected by an approver.
func (w *ReviewWorkflow) checkSubmittable(ctx context.Context, repo *ReviewRepository, in SubmitInput, lock bool) (*models.ReviewRequest, error) {
	req, err := w.loadRequest(ctx, repo, in.RequestID, lock)
	if err != nil {
		return nil, err
	}
	if req.ReviewerID != in.ReviewerID {
		return nil, invalidState("review request %s is not assigned to you", req.ReviewRequestID)
	}
	if req.Status != models.ReviewRequestAccepted {
		return nil, invalidState("review request %s is %s, results can only be submitted for %s requests",
			req.ReviewRequestID, req.Status, models.ReviewRequestAccepted)
	}

	latest, err := repo.LatestResult(ctx, req.ReviewRequestID)
	if err != nil {
		return nil, fmt.Errorf("load latest review result: %w", err)
	}
	if latest != nil && latest.Status.BlocksResubmission() {
		return nil, invalidState("review request %s already has a %s result", req.ReviewRequestID, latest.Status)
	}
	return req, nil
}

func (w *ReviewWorkflow) discardReport(ctx context.Context, objectPath string) {
	dctx, cancel := detachedTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := w.storage.Delete(dctx, ReportFolder, objectPath); err != nil {
		w.log.Warn("failed to remove orphaned review report", "path", objectPath, "error", err)
	}
}
