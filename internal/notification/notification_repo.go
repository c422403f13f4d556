package notification

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows inbox reads. IsRead nil means both read and unread.
type ListFilter struct {
	IsRead *bool
	Type   string
}

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	FindByRecipient(ctx context.Context, recipientID string, filter ListFilter, limit, offset int) ([]Notification, error)
	CountByRecipient(ctx context.Context, recipientID string, filter ListFilter) (int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	FindByID(ctx context.Context, id string) (*Notification, error)
	FindForRecipient(ctx context.Context, id, recipientID string) (*Notification, error)
	MarkRead(ctx context.Context, id string, readAt time.Time) error
	MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int64, error)
	Delete(ctx context.Context, id, recipientID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the gorm handle onto the caller's transaction connection,
// so the notification row lands in the same transaction as its outbox event.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByRecipient(ctx context.Context, recipientID string, filter ListFilter, limit, offset int) ([]Notification, error) {
	var rows []Notification
	err := r.scoped(ctx, recipientID, filter).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByRecipient(ctx context.Context, recipientID string, filter ListFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, recipientID, filter).Count(&count).Error
	return count, err
}

func (r *repository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ?", recipientID).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error
	return &n, err
}

func (r *repository) FindForRecipient(ctx context.Context, id, recipientID string) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("recipient_id = ?", recipientID).
		First(&n).Error
	return &n, err
}

func (r *repository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Where("is_read = ?", false).
		Updates(map[string]any{"is_read": true, "read_at": readAt}).Error
}

func (r *repository) MarkAllRead(ctx context.Context, recipientID string, readAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ?", recipientID).
		Where("is_read = ?", false).
		Updates(map[string]any{"is_read": true, "read_at": readAt})
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, id, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("recipient_id = ?", recipientID).
		Delete(&Notification{})
	return res.RowsAffected, res.Error
}

func (r *repository) scoped(ctx context.Context, recipientID string, filter ListFilter) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ?", recipientID)

	if filter.IsRead != nil {
		db = db.Where("is_read = ?", *filter.IsRead)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	return db
}
