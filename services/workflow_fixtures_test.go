package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"document-review-api/config"
	"document-review-api/logger"
	"document-review-api/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func sampleDOCX(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":   `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"></w:document>`,
	} {
		f, err := zw.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "review.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(at time.Time) *testClock { return &testClock{now: at} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(at time.Time) {
	c.mu.Lock()
	c.now = at
	c.mu.Unlock()
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deleted    []string
	uploadErr  error
	presignErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, data []byte, folder, filename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	key := objectKey(folder, filename)
	s.objects[key] = append([]byte(nil), data...)
	return key, nil
}

func (s *fakeStorage) PresignedURL(_ context.Context, folder, objectPath string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://storage.test/" + objectKey(folder, objectPath) + "?ttl=" + ttl.String(), nil
}

func (s *fakeStorage) Delete(_ context.Context, folder, objectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := objectKey(folder, objectPath)
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

func (s *fakeStorage) deletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type fakeConverter struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *fakeConverter) IsCanonicalFormat(filename string) bool {
	return reportExt(filename) == canonicalExt
}

func (c *fakeConverter) ConvertToCanonical(_ context.Context, _ string, _ []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return samplePDF, nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, notice Notice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.notices))
	for _, notice := range n.notices {
		out = append(out, notice.Title)
	}
	return out
}

type workflowFixture struct {
	t         *testing.T
	db        *gorm.DB
	clock     *testClock
	storage   *fakeStorage
	converter *fakeConverter
	notifier  *recordingNotifier
	wf        *ReviewWorkflow

	admin    *models.User
	approver *models.User
	reviewer *models.User
	other    *models.User
	reader   *models.User
	uploader *models.User
	doc      *models.Document
}

// assignedAt is a mid-afternoon instant so day boundaries are easy to read in assertions.
var assignedAt = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	f := &workflowFixture{
		t:         t,
		db:        newTestDB(t),
		clock:     newTestClock(assignedAt),
		storage:   newFakeStorage(),
		converter: &fakeConverter{},
		notifier:  &recordingNotifier{},
	}
	f.wf = NewReviewWorkflow(WorkflowDeps{
		DB:        f.db,
		Storage:   f.storage,
		Converter: f.converter,
		Notifier:  f.notifier,
		Logger:    logger.NewNop(),
		Clock:     f.clock.Now,
	})

	f.admin = f.addUser("Ada Admin", models.RoleBusinessAdmin)
	f.approver = f.addUser("Abe Approver", models.RoleBusinessAdmin)
	f.reviewer = f.addUser("Rae Reviewer", models.RoleReviewer)
	f.other = f.addUser("Ollie Reviewer", models.RoleReviewer)
	f.reader = f.addUser("Rita Reader", models.RoleReader)
	f.uploader = f.addUser("Uma Uploader", models.RoleReader)
	f.doc = f.addDocument("Quarterly market outlook", true, models.DocStatusPendingReview)
	return f
}

func (f *workflowFixture) addUser(name string, role models.UserRole) *models.User {
	f.t.Helper()
	u := &models.User{
		UserID:   uuid.New(),
		FullName: name,
		Email:    uuid.NewString() + "@example.org",
		Role:     role,
		IsActive: true,
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *workflowFixture) addDocument(title string, premium bool, status models.DocumentReviewStatus) *models.Document {
	f.t.Helper()
	uploader := f.uploader
	var uploaderID *uuid.UUID
	if uploader != nil {
		uploaderID = &uploader.UserID
	}
	d := &models.Document{
		DocumentID: uuid.New(),
		Title:      title,
		UploaderID: uploaderID,
		IsPremium:  premium,
		Status:     status,
	}
	require.NoError(f.t, f.db.Create(d).Error)
	return d
}

func (f *workflowFixture) ctx() context.Context { return context.Background() }

func (f *workflowFixture) assign(reviewer *models.User) *models.ReviewRequest {
	f.t.Helper()
	req, err := f.wf.Assign(f.ctx(), AssignInput{
		AssignerID: f.admin.UserID,
		DocumentID: f.doc.DocumentID,
		ReviewerID: reviewer.UserID,
		Note:       "please focus on the methodology",
	})
	require.NoError(f.t, err)
	return req
}

func (f *workflowFixture) accept(req *models.ReviewRequest) *models.ReviewRequest {
	f.t.Helper()
	out, err := f.wf.Respond(f.ctx(), RespondInput{ReviewerID: req.ReviewerID, RequestID: req.ReviewRequestID, Accept: true})
	require.NoError(f.t, err)
	return out
}

func (f *workflowFixture) submit(req *models.ReviewRequest, decision models.ReviewDecision) *models.ReviewResult {
	f.t.Helper()
	res, err := f.wf.Submit(f.ctx(), SubmitInput{
		ReviewerID: req.ReviewerID,
		RequestID:  req.ReviewRequestID,
		Decision:   decision,
		Comment:    "well sourced",
		Report:     &ReportFile{Filename: "findings.pdf", Data: samplePDF},
	})
	require.NoError(f.t, err)
	return res
}

func (f *workflowFixture) resolve(res *models.ReviewResult, approved bool, reason string) (*models.ReviewResult, error) {
	return f.wf.Resolve(f.ctx(), ResolveInput{
		ApproverID:      f.approver.UserID,
		ResultID:        res.ReviewResultID,
		Approved:        approved,
		RejectionReason: reason,
	})
}

func (f *workflowFixture) reloadDocument() *models.Document {
	f.t.Helper()
	var d models.Document
	require.NoError(f.t, f.db.Where("document_id = ?", f.doc.DocumentID).Take(&d).Error)
	return &d
}

func (f *workflowFixture) reloadRequest(id uuid.UUID) *models.ReviewRequest {
	f.t.Helper()
	var r models.ReviewRequest
	require.NoError(f.t, f.db.Where("review_request_id = ?", id).Take(&r).Error)
	return &r
}

func (f *workflowFixture) results(requestID uuid.UUID) []models.ReviewResult {
	f.t.Helper()
	var rows []models.ReviewResult
	require.NoError(f.t, f.db.Where("review_request_id = ?", requestID).Order("submitted_at ASC").Find(&rows).Error)
	return rows
}

func (f *workflowFixture) count(model interface{}) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Model(model).Count(&n).Error)
	return n
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	var we *Error
	require.Truef(t, errors.As(err, &we), "expected *services.Error, got %T: %v", err, err)
	require.Equalf(t, kind, we.Kind, "unexpected error: %v", err)
}
