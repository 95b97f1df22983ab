package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/collabhub/notifications-service/internal/model"
)

// ErrNotificationNotFound is returned when a notification id does not
// resolve to a stored record.
var ErrNotificationNotFound = errors.New("notification not found")

// Repository provides access to the notifications table.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// CreateNotification inserts a new notification into the database.
func (r *Repository) CreateNotification(ctx context.Context, n model.Notification) error {
	query := `
		INSERT INTO notifications (
		    notificationid, userid, type, title, description, was_read, date,
		    related_project_id, related_user_id, related_task_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `

	_, err := r.db.ExecContext(
		ctx, query,
		n.ID, n.UserID, string(n.Type), n.Title, n.Description, n.WasRead, n.Date,
		n.RelatedProjectID, n.RelatedUserID, n.RelatedTaskID,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetNotificationByID retrieves a single notification by its ID. It does not
// filter by user; ownership checks happen in the service layer.
func (r *Repository) GetNotificationByID(ctx context.Context, id uuid.UUID) (model.Notification, error) {
	query := `
		SELECT notificationid, userid, type, title, description, was_read, date,
		       related_project_id, related_user_id, related_task_id
		FROM notifications
		WHERE notificationid = $1;
    `

	var n model.Notification
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Description, &n.WasRead, &n.Date,
		&n.RelatedProjectID, &n.RelatedUserID, &n.RelatedTaskID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Notification{}, ErrNotificationNotFound
		}

		return model.Notification{}, fmt.Errorf("failed to get notification: %w", err)
	}

	return n, nil
}

// GetUserNotifications retrieves all notifications for a user, newest first.
// An empty result is valid and returns an empty slice, not an error.
func (r *Repository) GetUserNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	query := `
		SELECT notificationid, userid, type, title, description, was_read, date,
		       related_project_id, related_user_id, related_task_id
		FROM notifications
		WHERE userid = $1
		ORDER BY date DESC;
    `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.Title, &n.Description, &n.WasRead, &n.Date,
			&n.RelatedProjectID, &n.RelatedUserID, &n.RelatedTaskID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead sets the read flag of a notification. Marking an
// already read notification is a no-op success.
func (r *Repository) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE notifications
		SET was_read = TRUE
		WHERE notificationid = $1;
    `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// DeleteNotification permanently removes a notification.
func (r *Repository) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM notifications
		WHERE notificationid = $1;
    `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	rows, _ := res.RowsAffected()

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *Repository) CountUnread(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE userid = $1 AND was_read = FALSE;
    `

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}
