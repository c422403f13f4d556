package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/aanyashri/hrmsbackend-users/internal/employee"
	"github.com/aanyashri/hrmsbackend-users/internal/events"
	"github.com/aanyashri/hrmsbackend-users/internal/messaging/kafka"
	notificationerrors "github.com/aanyashri/hrmsbackend-users/internal/notification/errors"
)

type fakeRepo struct {
	withTxFn           func(tx *sql.Tx) Repository
	createFn           func(ctx context.Context, n *Notification) error
	findByRecipientFn  func(ctx context.Context, recipientID string, filter ListFilter, limit, offset int) ([]Notification, error)
	countByRecipientFn func(ctx context.Context, recipientID string, filter ListFilter) (int64, error)
	countUnreadFn      func(ctx context.Context, recipientID string) (int64, error)
	findByIDFn         func(ctx context.Context, id string) (*Notification, error)
	findForRecipientFn func(ctx context.Context, id, recipientID string) (*Notification, error)
	markReadFn         func(ctx context.Context, id string, readAt time.Time) error
	markAllReadFn      func(ctx context.Context, recipientID string, readAt time.Time) (int64, error)
	deleteFn           func(ctx context.Context, id, recipientID string) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, n *Notification) error {
	return f.createFn(ctx, n)
}
func (f *fakeRepo) FindByRecipient(ctx context.Context, recipientID string, filter ListFilter, limit, offset int) ([]Notification, error) {
	return f.findByRecipientFn(ctx, recipientID, filter, limit, offset)
}
func (f *fakeRepo) CountByRecipient(ctx context.Context, recipientID string, filter ListFilter) (int64, error) {
	return f.countByRecipientFn(ctx, recipientID, filter)
}
func (f *fakeRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return f.countUnreadFn(ctx, recipientID)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Notification, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindForRecipient(ctx context.Context, id, recipientID string) (*Notification, error) {
	return f.findForRecipientFn(ctx, id, recipientID)
}
func (f *fakeRepo) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	return f.markReadFn(ctx, id, readAt)
}
func (f *fakeRepo) MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int64, error) {
	return f.markAllReadFn(ctx, recipientID, readAt)
}
func (f *fakeRepo) Delete(ctx context.Context, id, recipientID string) (int64, error) {
	return f.deleteFn(ctx, id, recipientID)
}

type fakeOutboxRepo struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f.withTxFn(tx) }
func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	return f.createFn(ctx, event)
}
func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeEmployeeRepo struct {
	findActiveByNumberFn func(ctx context.Context, employeeNumber string) (*employee.Employee, error)
	findAllActiveFn      func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepo) WithTx(tx *sql.Tx) employee.Repository                  { return f }
func (f *fakeEmployeeRepo) CreateUser(ctx context.Context, u *employee.User) error { return nil }
func (f *fakeEmployeeRepo) Create(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepo) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepo) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	return f.findAllActiveFn(ctx)
}
func (f *fakeEmployeeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepo) FindByNumber(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
	return f.findActiveByNumberFn(ctx, employeeNumber)
}
func (f *fakeEmployeeRepo) FindActiveByNumber(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
	return f.findActiveByNumberFn(ctx, employeeNumber)
}
func (f *fakeEmployeeRepo) Contact(ctx context.Context, employeeID string) (*employee.Contact, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepo) UpdateUser(ctx context.Context, u *employee.User) error { return nil }
func (f *fakeEmployeeRepo) Deactivate(ctx context.Context, id string) error        { return nil }

func recipientDirectory(id uuid.UUID) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		findActiveByNumberFn: func(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
			return &employee.Employee{ID: id, EmployeeNumber: employeeNumber, IsActive: true}, nil
		},
	}
}

func TestService_Create_PersistsOutboxInSameTx(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	recipientID := uuid.New()
	ctx := context.Background()

	var saved Notification
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, n *Notification) error { saved = *n; return nil }

	var outboxEvents []kafka.OutboxEvent
	outbox := &fakeOutboxRepo{}
	outbox.withTxFn = func(tx *sql.Tx) kafka.OutboxRepository { return outbox }
	outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
		outboxEvents = append(outboxEvents, event)
		return nil
	}

	svc := NewService(db, repo, recipientDirectory(recipientID), &fakeCounterRepo{}, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	n, err := svc.Create(ctx, CreateInput{
		RecipientID: recipientID.String(),
		Type:        TypeLeaveApproval,
		Title:       "Leave Request Approved",
		Message:     "Your sick leave has been approved.",
		SendEmail:   true,
		SendSMS:     true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "NOTIF-000001", n.NotificationNumber)
	assert.Equal(t, "NOTIF-000001", saved.NotificationNumber)

	assert.Len(t, outboxEvents, 1)
	assert.Equal(t, events.NotificationCreatedTopic, outboxEvents[0].Topic)
	assert.Equal(t, kafka.OutboxStatusPending, outboxEvents[0].Status)

	var event events.NotificationCreatedEvent
	assert.NoError(t, json.Unmarshal(outboxEvents[0].Payload, &event))
	assert.Equal(t, n.ID.String(), event.NotificationID)
	assert.True(t, event.SendEmail)
	assert.True(t, event.SendSMS)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_NoChannelsNoOutbox(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	recipientID := uuid.New()

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, n *Notification) error { return nil }

	outboxCalled := false
	outbox := &fakeOutboxRepo{}
	outbox.withTxFn = func(tx *sql.Tx) kafka.OutboxRepository { return outbox }
	outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
		outboxCalled = true
		return nil
	}

	svc := NewService(db, repo, recipientDirectory(recipientID), &fakeCounterRepo{}, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Create(context.Background(), CreateInput{
		RecipientID: recipientID.String(),
		Type:        TypeGeneral,
		Title:       "heads up",
		Message:     "in-app only",
	})
	assert.NoError(t, err)
	assert.False(t, outboxCalled)
}

func TestService_Create_InvalidInputs(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	recipientID := uuid.New()
	svc := NewService(db, &fakeRepo{withTxFn: func(tx *sql.Tx) Repository { return &fakeRepo{} }},
		recipientDirectory(recipientID), &fakeCounterRepo{}, &fakeOutboxRepo{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), CreateInput{
		RecipientID: recipientID.String(),
		Type:        "carrier_pigeon",
		Title:       "x",
		Message:     "y",
	})
	assert.ErrorIs(t, err, notificationerrors.ErrInvalidType)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Create(context.Background(), CreateInput{
		RecipientID: recipientID.String(),
		Type:        TypeGeneral,
		Priority:    "extreme",
		Title:       "x",
		Message:     "y",
	})
	assert.ErrorIs(t, err, notificationerrors.ErrInvalidPriority)
}

func TestService_GetMy_RecencyGrouping(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	recipientID := uuid.New()
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	repo := &fakeRepo{}
	repo.findByRecipientFn = func(ctx context.Context, id string, filter ListFilter, limit, offset int) ([]Notification, error) {
		return []Notification{
			{ID: uuid.New(), Title: "fresh", CreatedAt: now.Add(-time.Hour)},
			{ID: uuid.New(), Title: "almost", CreatedAt: now.Add(-23 * time.Hour)},
			{ID: uuid.New(), Title: "stale", CreatedAt: now.Add(-25 * time.Hour)},
		}, nil
	}
	repo.countByRecipientFn = func(ctx context.Context, id string, filter ListFilter) (int64, error) {
		return 3, nil
	}
	repo.countUnreadFn = func(ctx context.Context, id string) (int64, error) { return 2, nil }

	svc := NewService(db, repo, recipientDirectory(recipientID), &fakeCounterRepo{}, &fakeOutboxRepo{}).(*service)
	svc.now = func() time.Time { return now }

	grouped, err := svc.GetMy(context.Background(), "EMP001", ListFilter{}, 1, 20)
	assert.NoError(t, err)
	assert.Len(t, grouped.Recent, 2)
	assert.Len(t, grouped.Earlier, 1)
	assert.Equal(t, "stale", grouped.Earlier[0].Title)
	assert.Equal(t, int64(2), grouped.UnreadCount)
}

func TestService_MarkRead_Idempotent(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	recipientID := uuid.New()
	readAt := time.Now().Add(-time.Hour)

	markCalled := false
	repo := &fakeRepo{}
	repo.findForRecipientFn = func(ctx context.Context, id, rid string) (*Notification, error) {
		return &Notification{ID: uuid.New(), RecipientID: recipientID, IsRead: true, ReadAt: &readAt}, nil
	}
	repo.markReadFn = func(ctx context.Context, id string, at time.Time) error {
		markCalled = true
		return nil
	}

	svc := NewService(db, repo, recipientDirectory(recipientID), &fakeCounterRepo{}, &fakeOutboxRepo{})

	resp, err := svc.MarkRead(context.Background(), uuid.NewString(), "EMP001")
	assert.NoError(t, err)
	assert.True(t, resp.IsRead)
	assert.False(t, markCalled)
}

func TestService_MarkRead_NotOwned(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.findForRecipientFn = func(ctx context.Context, id, rid string) (*Notification, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(db, repo, recipientDirectory(uuid.New()), &fakeCounterRepo{}, &fakeOutboxRepo{})

	_, err := svc.MarkRead(context.Background(), uuid.NewString(), "EMP001")
	assert.ErrorIs(t, err, notificationerrors.ErrNotificationNotFound)
}

func TestService_MarkAllRead_ReturnsCount(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	calls := 0
	repo := &fakeRepo{}
	repo.markAllReadFn = func(ctx context.Context, rid string, readAt time.Time) (int64, error) {
		calls++
		if calls == 1 {
			return 5, nil
		}
		return 0, nil
	}

	svc := NewService(db, repo, recipientDirectory(uuid.New()), &fakeCounterRepo{}, &fakeOutboxRepo{})

	first, err := svc.MarkAllRead(context.Background(), "EMP001")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), first.Updated)

	// Second sweep has nothing left to flip.
	second, err := svc.MarkAllRead(context.Background(), "EMP001")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), second.Updated)
}

func TestService_Broadcast_OnePerActiveEmployee(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	senderID := uuid.New()
	recipients := []employee.Employee{
		{ID: uuid.New(), EmployeeNumber: "EMP-000001"},
		{ID: uuid.New(), EmployeeNumber: "EMP-000002"},
		{ID: uuid.New(), EmployeeNumber: "EMP-000003"},
	}

	directory := &fakeEmployeeRepo{
		findActiveByNumberFn: func(ctx context.Context, employeeNumber string) (*employee.Employee, error) {
			return &employee.Employee{ID: senderID, EmployeeNumber: employeeNumber, IsActive: true}, nil
		},
		findAllActiveFn: func(ctx context.Context) ([]employee.Employee, error) {
			return recipients, nil
		},
	}

	var created []Notification
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, n *Notification) error {
		created = append(created, *n)
		return nil
	}

	var outboxCount int
	outbox := &fakeOutboxRepo{}
	outbox.withTxFn = func(tx *sql.Tx) kafka.OutboxRepository { return outbox }
	outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
		outboxCount++
		return nil
	}

	svc := NewService(db, repo, directory, &fakeCounterRepo{}, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	result, err := svc.Broadcast(context.Background(), "EMP-ADMIN", BroadcastRequest{
		Title:     "Office closed Friday",
		Message:   "Building maintenance.",
		SendEmail: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Recipients)
	assert.Len(t, created, 3)
	assert.Equal(t, 3, outboxCount)

	for i, n := range created {
		assert.Equal(t, recipients[i].ID, n.RecipientID)
		assert.Equal(t, TypeSystemUpdate, n.Type)
		assert.Equal(t, senderID, *n.SenderID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
