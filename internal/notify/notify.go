package notify

import "context"

// EmailSender delivers transactional email. Implementations are best-effort:
// an error means the attempt failed, nothing more is knowable.
//
//go:generate mockgen -source=notify.go -destination=mock/notify_mock.go -package=mock
type EmailSender interface {
	Send(ctx context.Context, to, subject, text, html string) error
	SendBulk(ctx context.Context, recipients []string, subject, text, html string) (sent int, failed int, err error)
}

// SMSSender delivers short messages, same best-effort contract.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
	SendBulk(ctx context.Context, recipients []BulkSMS) (sent int, failed int, err error)
}

type BulkSMS struct {
	Phone string
	Body  string
}
