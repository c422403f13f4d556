package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type twilioSender struct {
	client *twilio.RestClient
	from   string
	logger *zap.Logger
}

func NewTwilioSender(cfg TwilioConfig, logger ...*zap.Logger) SMSSender {
	l := zap.L().Named("notify.twilio")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.twilio")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &twilioSender{client: client, from: cfg.FromNumber, logger: l}
}

func (s *twilioSender) Send(ctx context.Context, to, body string) error {
	// The Twilio REST client carries no per-request context, so cancellation
	// is honored here, before dialing out.
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}

	if msg.Sid != nil {
		s.logger.Debug("sms sent", zap.String("to", to), zap.String("sid", *msg.Sid))
	}
	return nil
}

func (s *twilioSender) SendBulk(ctx context.Context, recipients []BulkSMS) (int, int, error) {
	var sent, failed int
	for _, r := range recipients {
		if err := s.Send(ctx, r.Phone, r.Body); err != nil {
			failed++
			s.logger.Warn("bulk sms failed", zap.String("to", r.Phone), zap.Error(err))
			continue
		}
		sent++
	}
	if failed > 0 {
		return sent, failed, fmt.Errorf("bulk sms: %d of %d failed", failed, len(recipients))
	}
	return sent, failed, nil
}
