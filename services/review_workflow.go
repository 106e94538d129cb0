package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"document-review-api/config"
	"document-review-api/logger"
	"document-review-api/models"
	"document-review-api/monitor"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowDeps wires a ReviewWorkflow. Nil fields fall back to package defaults.
type WorkflowDeps struct {
	DB        *gorm.DB
	Storage   Storage
	Converter Converter
	Notifier  Notifier
	Logger    *logger.Logger
	Clock     func() time.Time
}

// ReviewWorkflow drives the review chain: assignment, response, submission and approval.
type ReviewWorkflow struct {
	repo      *ReviewRepository
	storage   Storage
	converter Converter
	notifier  Notifier
	sync      StatusSynchronizer
	log       *logger.Logger
	now       func() time.Time
}

func NewReviewWorkflow(deps WorkflowDeps) *ReviewWorkflow {
	log := deps.Logger
	if log == nil {
		log = config.Logger
	}
	repo := NewReviewRepository(deps.DB)

	notifier := deps.Notifier
	if notifier == nil {
		notifier = NewInboxNotifier(repo, config.LoadMailSettings(), log)
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &ReviewWorkflow{
		repo:      repo,
		storage:   deps.Storage,
		converter: deps.Converter,
		notifier:  notifier,
		log:       log.With("service", "ReviewWorkflow"),
		now:       clock,
	}
}

// Repository exposes the store backing the workflow, for read endpoints.
func (w *ReviewWorkflow) Repository() *ReviewRepository {
	return w.repo
}

// requireUser loads a user and checks the role. A missing user is not_found; a user without
// the role is invalid_state.
func (w *ReviewWorkflow) requireUser(ctx context.Context, repo *ReviewRepository, id uuid.UUID, role models.UserRole, label string) (*models.User, error) {
	user, err := repo.FindUser(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("%s %s not found", label, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", label, err)
	}
	if !user.HasRole(role) {
		return nil, invalidState("user %s is not an active %s", id, role)
	}
	return user, nil
}

func (w *ReviewWorkflow) loadRequest(ctx context.Context, repo *ReviewRepository, id uuid.UUID, lock bool) (*models.ReviewRequest, error) {
	req, err := repo.FindRequest(ctx, id, lock)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("review request %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load review request: %w", err)
	}
	return req, nil
}

// notify sends a notice without letting a failure reach the caller.
func (w *ReviewWorkflow) notify(ctx context.Context, n Notice) {
	if n.Recipient == nil {
		return
	}
	nctx, cancel := detachedTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := w.notifier.Notify(nctx, n); err != nil {
		w.log.Warn("notification failed", "recipient", n.Recipient.UserID, "title", n.Title, "error", err)
	}
}

// lookupUser is a best-effort read for notification recipients.
func (w *ReviewWorkflow) lookupUser(ctx context.Context, id *uuid.UUID) *models.User {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	user, err := w.repo.FindUser(ctx, *id)
	if err != nil {
		w.log.Debug("notification recipient lookup failed", "user_id", *id, "error", err)
		return nil
	}
	return user
}

func (w *ReviewWorkflow) record(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	monitor.WorkflowOperations.WithLabelValues(operation, outcome).Inc()
}

func trimmedPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func formatDeadline(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
