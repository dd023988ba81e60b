package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/event"
)

type eventRow struct {
	ID           string    `db:"id"`
	AuthorID     string    `db:"author_id"`
	Content      string    `db:"content"`
	LocationName string    `db:"location_name"`
	Latitude     float64   `db:"latitude"`
	Longitude    float64   `db:"longitude"`
	Images       []byte    `db:"images"`
	CreatedAt    time.Time `db:"created_at"`
}

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (repo eventRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.db
}

func (repo eventRepository) fromRow(row eventRow) event.Event {
	images := []string{}
	_ = json.Unmarshal(row.Images, &images)
	return event.Event{
		ID:           row.ID,
		AuthorID:     row.AuthorID,
		Content:      row.Content,
		LocationName: row.LocationName,
		Latitude:     row.Latitude,
		Longitude:    row.Longitude,
		Images:       images,
		CreatedAt:    row.CreatedAt,
	}
}

func (repo eventRepository) CreateEvent(ctx context.Context, ev event.Event, exec ...core.DBExecutor) (event.Event, error) {
	ev.ID = uuid.New().String()
	if ev.Images == nil {
		ev.Images = []string{}
	}
	images, err := json.Marshal(ev.Images)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "encoding event images")
	}

	query := repo.db.Rebind(`INSERT INTO events (id, author_id, content, location_name, latitude, longitude, images, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = repo.getExec(exec).ExecContext(ctx, query,
		ev.ID, ev.AuthorID, ev.Content, ev.LocationName, ev.Latitude, ev.Longitude, images, ev.CreatedAt.UTC())
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return ev, nil
}

func (repo eventRepository) QueryEvents(ctx context.Context, exec ...core.DBExecutor) ([]event.Event, error) {
	var rows []eventRow
	query := `SELECT id, author_id, content, location_name, latitude, longitude, images, created_at
		FROM events ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}

	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, repo.fromRow(row))
	}
	return events, nil
}

func (repo eventRepository) GetEvent(ctx context.Context, id string, exec ...core.DBExecutor) (event.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return event.Event{}, event.ErrNotFound
	}

	var row eventRow
	query := repo.db.Rebind(`SELECT id, author_id, content, location_name, latitude, longitude, images, created_at
		FROM events WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, errors.Wrap(err, "finding event")
	}
	return repo.fromRow(row), nil
}

func (repo eventRepository) DeleteEvent(ctx context.Context, id string, exec ...core.DBExecutor) error {
	query := repo.db.Rebind(`DELETE FROM events WHERE id = ?`)
	if _, err := repo.getExec(exec).ExecContext(ctx, query, id); err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return nil
}
