package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/notification"
)

type notificationRow struct {
	ID        string      `db:"id"`
	Type      string      `db:"type"`
	RelatedID null.String `db:"related_id"`
	Message   string      `db:"message"`
	CreatedAt time.Time   `db:"created_at"`
}

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo notificationRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.db
}

func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	n.ID = uuid.New().String()
	query := repo.db.Rebind(`INSERT INTO notifications (id, type, related_id, message, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	_, err := repo.getExec(exec).ExecContext(ctx, query,
		n.ID, string(n.Type), null.NewString(n.RelatedID, n.RelatedID != ""), n.Message, n.CreatedAt.UTC())
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo notificationRepository) QueryNotifications(ctx context.Context, exec ...core.DBExecutor) ([]notification.Notification, error) {
	var rows []notificationRow
	query := `SELECT id, type, related_id, message, created_at FROM notifications ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}

	notifs := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		notifs = append(notifs, notification.Notification{
			ID:        row.ID,
			Type:      notification.Type(row.Type),
			RelatedID: row.RelatedID.String,
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		})
	}
	return notifs, nil
}
