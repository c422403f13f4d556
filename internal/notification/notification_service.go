package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aanyashri/hrmsbackend-users/internal/employee"
	"github.com/aanyashri/hrmsbackend-users/internal/events"
	"github.com/aanyashri/hrmsbackend-users/internal/messaging/kafka"
	notificationerrors "github.com/aanyashri/hrmsbackend-users/internal/notification/errors"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/contextutil"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/counter"
	"github.com/aanyashri/hrmsbackend-users/internal/shared/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecencyWindow separates the inbox "recent" bucket from "earlier".
const RecencyWindow = 24 * time.Hour

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, input CreateInput) (*Notification, error)
	CreateWithTx(ctx context.Context, tx *sql.Tx, input CreateInput) (*Notification, error)
	GetMy(ctx context.Context, employeeNumber string, filter ListFilter, page, limit int) (GroupedNotifications, error)
	MarkRead(ctx context.Context, id, employeeNumber string) (NotificationResponse, error)
	MarkAllRead(ctx context.Context, employeeNumber string) (MarkAllReadResult, error)
	Delete(ctx context.Context, id, employeeNumber string) error
	Broadcast(ctx context.Context, senderNumber string, req BroadcastRequest) (BroadcastResult, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	counter      counter.Repository
	outbox       kafka.OutboxRepository
	now          func() time.Time
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	counterRepo counter.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		employeeRepo: employeeRepo,
		counter:      counterRepo,
		outbox:       outbox,
		now:          time.Now,
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Notification, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create notification begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	n, err := s.CreateWithTx(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create notification commit failed", zap.Error(err))
		return nil, err
	}
	return n, nil
}

// CreateWithTx persists the notification row and, when a channel is requested,
// its outbox event on the caller's transaction. Leave approval and rejection
// run this inside their own tx so the fan-out commits or rolls back with them.
func (s *service) CreateWithTx(ctx context.Context, tx *sql.Tx, input CreateInput) (*Notification, error) {
	if input.Type == "" {
		input.Type = TypeGeneral
	}
	if !IsValidType(input.Type) {
		return nil, notificationerrors.ErrInvalidType
	}
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}
	if !IsValidPriority(input.Priority) {
		return nil, notificationerrors.ErrInvalidPriority
	}

	nextVal, err := s.counter.GetNextValue(ctx, "notification_number")
	if err != nil {
		s.logger.Error("generate notification number failed", zap.Error(err))
		return nil, err
	}

	recipientID, err := uuid.Parse(input.RecipientID)
	if err != nil {
		return nil, notificationerrors.ErrEmployeeNotFound
	}

	n := &Notification{
		ID:                 uuid.New(),
		NotificationNumber: fmt.Sprintf("NOTIF-%06d", nextVal),
		RecipientID:        recipientID,
		Type:               input.Type,
		Title:              input.Title,
		Message:            input.Message,
		Priority:           input.Priority,
		ActionURL:          input.ActionURL,
		ActionText:         input.ActionText,
		EntityType:         input.EntityType,
		EntityID:           input.EntityID,
		ExpiresAt:          input.ExpiresAt,
		CreatedAt:          s.now(),
	}
	if input.SenderID != "" {
		if senderID, err := uuid.Parse(input.SenderID); err == nil {
			n.SenderID = &senderID
		}
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, n); err != nil {
		s.logger.Error("persist notification failed", zap.Error(err))
		return nil, err
	}

	if input.SendEmail || input.SendSMS {
		if err := s.enqueueDelivery(ctx, tx, n, input); err != nil {
			return nil, err
		}
	}

	s.logger.Info("notification created",
		zap.String("notification_number", n.NotificationNumber),
		zap.String("type", n.Type),
		zap.String("recipient_id", n.RecipientID.String()),
		zap.Bool("email", input.SendEmail),
		zap.Bool("sms", input.SendSMS),
	)
	return n, nil
}

func (s *service) enqueueDelivery(ctx context.Context, tx *sql.Tx, n *Notification, input CreateInput) error {
	event := events.NotificationCreatedEvent{
		EventType:      "notification.created",
		RequestID:      contextutil.GetRequestID(ctx),
		NotificationID: n.ID.String(),
		RecipientID:    n.RecipientID.String(),
		SendEmail:      input.SendEmail,
		SendSMS:        input.SendSMS,
		EmailHTML:      input.EmailHTML,
		OccurredAt:     s.now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "notification",
		AggregateID:   n.ID.String(),
		EventType:     event.EventType,
		Topic:         events.NotificationCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("persist outbox event failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) GetMy(ctx context.Context, employeeNumber string, filter ListFilter, page, limit int) (GroupedNotifications, error) {
	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return GroupedNotifications{}, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	rows, err := s.repo.FindByRecipient(ctx, empl.ID.String(), filter, limit, offset)
	if err != nil {
		s.logger.Error("list notifications failed", zap.Error(err))
		return GroupedNotifications{}, err
	}
	total, err := s.repo.CountByRecipient(ctx, empl.ID.String(), filter)
	if err != nil {
		return GroupedNotifications{}, err
	}
	unread, err := s.repo.CountUnread(ctx, empl.ID.String())
	if err != nil {
		return GroupedNotifications{}, err
	}

	cutoff := s.now().Add(-RecencyWindow)
	grouped := GroupedNotifications{
		Recent:      []NotificationResponse{},
		Earlier:     []NotificationResponse{},
		UnreadCount: unread,
		Pagination:  response.NewPagination(total, page, limit),
	}
	for _, n := range rows {
		resp := mapToResponse(n)
		if n.CreatedAt.After(cutoff) {
			grouped.Recent = append(grouped.Recent, resp)
		} else {
			grouped.Earlier = append(grouped.Earlier, resp)
		}
	}
	return grouped, nil
}

func (s *service) MarkRead(ctx context.Context, id, employeeNumber string) (NotificationResponse, error) {
	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return NotificationResponse{}, err
	}

	n, err := s.repo.FindForRecipient(ctx, id, empl.ID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
		}
		return NotificationResponse{}, err
	}

	// Marking an already-read notification is a no-op, not an error.
	if !n.IsRead {
		readAt := s.now()
		if err := s.repo.MarkRead(ctx, id, readAt); err != nil {
			s.logger.Error("mark notification read failed", zap.Error(err))
			return NotificationResponse{}, err
		}
		n.IsRead = true
		n.ReadAt = &readAt
	}

	return mapToResponse(*n), nil
}

func (s *service) MarkAllRead(ctx context.Context, employeeNumber string) (MarkAllReadResult, error) {
	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return MarkAllReadResult{}, err
	}

	updated, err := s.repo.MarkAllRead(ctx, empl.ID.String(), s.now())
	if err != nil {
		s.logger.Error("mark all notifications read failed", zap.Error(err))
		return MarkAllReadResult{}, err
	}
	return MarkAllReadResult{Updated: updated}, nil
}

func (s *service) Delete(ctx context.Context, id, employeeNumber string) error {
	empl, err := s.resolveEmployee(ctx, employeeNumber)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id, empl.ID.String())
	if err != nil {
		s.logger.Error("delete notification failed", zap.Error(err))
		return err
	}
	if deleted == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func (s *service) Broadcast(ctx context.Context, senderNumber string, req BroadcastRequest) (BroadcastResult, error) {
	sender, err := s.resolveEmployee(ctx, senderNumber)
	if err != nil {
		return BroadcastResult{}, err
	}

	recipients, err := s.employeeRepo.FindAllActive(ctx)
	if err != nil {
		s.logger.Error("broadcast list recipients failed", zap.Error(err))
		return BroadcastResult{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("broadcast begin tx failed", zap.Error(err))
		return BroadcastResult{}, err
	}
	defer tx.Rollback()

	for _, recipient := range recipients {
		input := CreateInput{
			RecipientID: recipient.ID.String(),
			SenderID:    sender.ID.String(),
			Type:        req.Type,
			Title:       req.Title,
			Message:     req.Message,
			Priority:    req.Priority,
			SendEmail:   req.SendEmail,
			SendSMS:     req.SendSMS,
		}
		if input.Type == "" {
			input.Type = TypeSystemUpdate
		}
		if _, err := s.CreateWithTx(ctx, tx, input); err != nil {
			return BroadcastResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("broadcast commit failed", zap.Error(err))
		return BroadcastResult{}, err
	}

	s.logger.Info("broadcast sent",
		zap.String("sender", senderNumber),
		zap.Int("recipients", len(recipients)),
	)
	return BroadcastResult{Recipients: len(recipients)}, nil
}

func (s *service) resolveEmployee(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
	empl, err := s.employeeRepo.FindActiveByNumber(ctx, employeeNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notificationerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return empl, nil
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:                 n.ID.String(),
		NotificationNumber: n.NotificationNumber,
		Type:               n.Type,
		Title:              n.Title,
		Message:            n.Message,
		Priority:           n.Priority,
		IsRead:             n.IsRead,
		ActionURL:          n.ActionURL,
		ActionText:         n.ActionText,
		EntityType:         n.EntityType,
		EntityID:           n.EntityID,
		CreatedAt:          n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		readAt := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &readAt
	}
	return resp
}
