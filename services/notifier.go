package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"document-review-api/config"
	"document-review-api/logger"
	"document-review-api/models"

	"github.com/google/uuid"
)

// Notice is one message to one user.
type Notice struct {
	Recipient  *models.User
	Title      string
	Message    string
	Type       string // info|success|warning|error
	DocumentID *uuid.UUID
}

// Notifier delivers workflow notices. Callers treat failures as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

// InboxNotifier stores an in-app notification row and mails the recipient when SMTP is set up.
type InboxNotifier struct {
	repo *ReviewRepository
	mail config.MailSettings
	send func(s config.MailSettings, to []string, subject, html string) error
	log  *logger.Logger
	now  func() time.Time
}

func NewInboxNotifier(repo *ReviewRepository, mail config.MailSettings, log *logger.Logger) *InboxNotifier {
	return &InboxNotifier{
		repo: repo,
		mail: mail,
		send: config.SendMail,
		log:  log.With("service", "InboxNotifier"),
		now:  time.Now,
	}
}

func (n *InboxNotifier) Notify(ctx context.Context, notice Notice) error {
	if notice.Recipient == nil {
		return fmt.Errorf("notice %q has no recipient", notice.Title)
	}
	kind := notice.Type
	if kind == "" {
		kind = "info"
	}

	row := &models.Notification{
		UserID:            notice.Recipient.UserID,
		Title:             notice.Title,
		Message:           notice.Message,
		Type:              kind,
		RelatedDocumentID: notice.DocumentID,
		CreateAt:          n.now(),
	}
	if err := n.repo.CreateNotification(ctx, row); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	email := strings.TrimSpace(notice.Recipient.Email)
	if email == "" || !n.mail.Configured() {
		return nil
	}
	body := buildNoticeEmailHTML(notice.Title, notice.Recipient.FullName, notice.Message)
	go n.sendMailSafe([]string{email}, notice.Title, body)
	return nil
}

func (n *InboxNotifier) sendMailSafe(to []string, subject, body string) {
	if err := n.send(n.mail, to, subject, body); err != nil {
		n.log.Warn("notification email send failed", "subject", subject, "to", to, "error", err)
	}
}

func buildNoticeEmailHTML(title, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "there"
	}
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,Helvetica,sans-serif;font-size:14px;line-height:1.6">`)
	fmt.Fprintf(&b, "<h3>%s</h3>", html.EscapeString(title))
	fmt.Fprintf(&b, "<p>Hello %s,</p>", html.EscapeString(name))
	for _, line := range strings.Split(message, "\n") {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(line))
	}
	b.WriteString(`<p style="color:#888">This message was sent automatically by the document review desk.</p></div>`)
	return b.String()
}
