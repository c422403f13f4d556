package consumer

import (
	"context"
	"encoding/json"

	"github.com/aanyashri/hrmsbackend-users/internal/employee"
	"github.com/aanyashri/hrmsbackend-users/internal/events"
	"github.com/aanyashri/hrmsbackend-users/internal/notification"
	"github.com/aanyashri/hrmsbackend-users/internal/notify"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeNotificationCreated delivers email and SMS for persisted
// notifications. Delivery is best-effort and at-most-once: the message is
// committed whether or not the providers accept it, so a flaky provider can
// never wedge the partition behind one notification.
func ConsumeNotificationCreated(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationRepo notification.Repository,
	employeeRepo employee.Repository,
	email notify.EmailSender,
	sms notify.SMSSender,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notification_delivery")
	log.Info("notification delivery consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification delivery consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		var event events.NotificationCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode notification_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		deliverNotification(ctx, notificationRepo, employeeRepo, email, sms, event, log)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
			continue
		}
	}
}

func deliverNotification(
	ctx context.Context,
	notificationRepo notification.Repository,
	employeeRepo employee.Repository,
	email notify.EmailSender,
	sms notify.SMSSender,
	event events.NotificationCreatedEvent,
	log *zap.Logger,
) {
	n, err := notificationRepo.FindByID(ctx, event.NotificationID)
	if err != nil {
		log.Error("load notification for delivery failed",
			zap.String("notification_id", event.NotificationID),
			zap.Error(err),
		)
		return
	}

	contact, err := employeeRepo.Contact(ctx, event.RecipientID)
	if err != nil {
		log.Error("resolve recipient contact failed",
			zap.String("recipient_id", event.RecipientID),
			zap.Error(err),
		)
		return
	}

	if event.SendEmail && contact.Email != "" {
		html := event.EmailHTML
		if html == "" {
			html = "<p>" + n.Message + "</p>"
		}
		if err := email.Send(ctx, contact.Email, n.Title, n.Message, html); err != nil {
			log.Error("email delivery failed",
				zap.String("notification_number", n.NotificationNumber),
				zap.String("to", contact.Email),
				zap.Error(err),
			)
		} else {
			log.Info("email delivered",
				zap.String("notification_number", n.NotificationNumber),
				zap.String("to", contact.Email),
			)
		}
	}

	if event.SendSMS && contact.Phone != nil && *contact.Phone != "" {
		if err := sms.Send(ctx, *contact.Phone, n.Title+": "+n.Message); err != nil {
			log.Error("sms delivery failed",
				zap.String("notification_number", n.NotificationNumber),
				zap.Error(err),
			)
		} else {
			log.Info("sms delivered", zap.String("notification_number", n.NotificationNumber))
		}
	}
}
