package notification

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wb-go/wbf/dbpg"

	"github.com/collabhub/notifications-service/internal/model"
)

func setupMockDB(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}

	wrappedDB := &dbpg.DB{Master: db}
	repo := NewRepository(wrappedDB)

	return repo, mock
}

const insertQuery = `
		INSERT INTO notifications (
		    notificationid, userid, type, title, description, was_read, date,
		    related_project_id, related_user_id, related_task_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `

var notificationColumns = []string{
	"notificationid", "userid", "type", "title", "description", "was_read", "date",
	"related_project_id", "related_user_id", "related_task_id",
}

func TestCreateNotification(t *testing.T) {
	repo, mock := setupMockDB(t)

	projectID := "project-1"
	n := model.Notification{
		ID:               uuid.New(),
		UserID:           "user-1",
		Type:             model.TypeSuccess,
		Title:            "Build passed",
		Description:      "ci green",
		WasRead:          false,
		Date:             time.Now().UTC(),
		RelatedProjectID: &projectID,
	}

	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
		WithArgs(
			n.ID, n.UserID, string(n.Type), n.Title, n.Description, n.WasRead, n.Date,
			n.RelatedProjectID, nil, nil,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateNotification(context.Background(), n)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotificationByID(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()
	date := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT notificationid, userid, type, title, description, was_read, date,
		       related_project_id, related_user_id, related_task_id
		FROM notifications
		WHERE notificationid = $1;
    `)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(notificationColumns).
			AddRow(id.String(), "user-1", "warning", "Deadline near", "project due tomorrow", false, date, nil, nil, nil))

	n, err := repo.GetNotificationByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, id, n.ID)
	assert.Equal(t, "user-1", n.UserID)
	assert.Equal(t, model.TypeWarning, n.Type)
	assert.Nil(t, n.RelatedProjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotificationByID_NotFound(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT notificationid")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(notificationColumns))

	_, err := repo.GetNotificationByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotifications(t *testing.T) {
	repo, mock := setupMockDB(t)

	newer := time.Now().UTC()
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT notificationid, userid, type, title, description, was_read, date,
		       related_project_id, related_user_id, related_task_id
		FROM notifications
		WHERE userid = $1
		ORDER BY date DESC;
    `)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(notificationColumns).
			AddRow(uuid.New().String(), "user-1", "success", "Task done", "review finished", true, newer, nil, nil, nil).
			AddRow(uuid.New().String(), "user-1", "informative", "Welcome", "you joined a project", false, older, nil, nil, nil))

	notifications, err := repo.GetUserNotifications(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, notifications, 2)
	assert.True(t, notifications[0].Date.After(notifications[1].Date))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotifications_Empty(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT notificationid")).
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows(notificationColumns))

	notifications, err := repo.GetUserNotifications(context.Background(), "user-2")
	assert.NoError(t, err)
	assert.NotNil(t, notifications)
	assert.Empty(t, notifications)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkNotificationRead(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE notifications
		SET was_read = TRUE
		WHERE notificationid = $1;
    `)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkNotificationRead(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkNotificationRead(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotification(t *testing.T) {
	repo, mock := setupMockDB(t)

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM notifications
		WHERE notificationid = $1;
    `)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteNotification(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteNotification(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountUnread(t *testing.T) {
	repo, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT COUNT(*)
		FROM notifications
		WHERE userid = $1 AND was_read = FALSE;
    `)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountUnread(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
