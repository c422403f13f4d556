package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

type sendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *zap.Logger
}

func NewSendGridSender(cfg SendGridConfig, logger ...*zap.Logger) EmailSender {
	l := zap.L().Named("notify.sendgrid")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.sendgrid")
	}
	return &sendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: l,
	}
}

func (s *sendGridSender) Send(ctx context.Context, to, subject, text, html string) error {
	if html == "" {
		html = text
	}
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), text, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}

	s.logger.Debug("email sent", zap.String("to", to), zap.Int("status", resp.StatusCode))
	return nil
}

func (s *sendGridSender) SendBulk(ctx context.Context, recipients []string, subject, text, html string) (int, int, error) {
	var sent, failed int
	for _, to := range recipients {
		if err := s.Send(ctx, to, subject, text, html); err != nil {
			failed++
			s.logger.Warn("bulk email failed", zap.String("to", to), zap.Error(err))
			continue
		}
		sent++
	}
	if failed > 0 {
		return sent, failed, fmt.Errorf("bulk email: %d of %d failed", failed, len(recipients))
	}
	return sent, failed, nil
}
