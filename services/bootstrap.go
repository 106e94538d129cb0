package services

import (
	"context"
	"fmt"

	"document-review-api/config"
	"document-review-api/logger"

	"gorm.io/gorm"
)

// BuildReviewWorkflow wires the workflow with the collaborators configured in the
// environment. The returned close func releases the redis client, if any.
func BuildReviewWorkflow(ctx context.Context, db *gorm.DB, log *logger.Logger) (*ReviewWorkflow, func(), error) {
	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		log.Warn("redis unavailable, presigned URLs will not be cached", "error", err)
		rdb = nil
	}
	closeFn := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}

	store, err := NewStorage(ctx, LoadStorageSettings(), rdb, log)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	repo := NewReviewRepository(db)
	wf := NewReviewWorkflow(WorkflowDeps{
		DB:        db,
		Storage:   store,
		Converter: NewLibreOfficeConverterFromEnv(log),
		Notifier:  NewInboxNotifier(repo, config.LoadMailSettings(), log),
		Logger:    log,
	})
	return wf, closeFn, nil
}
