package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

var ErrNotFound = errors.New("notification not found")

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification, exec ...core.DBExecutor) (Notification, error)
		// QueryNotifications returns notifications newest first.
		QueryNotifications(ctx context.Context, exec ...core.DBExecutor) ([]Notification, error)
	}

	ServiceInterface interface {
		Query(ctx context.Context) ([]Notification, error)
		NotifyPost(ctx context.Context, postID string) error
		NotifyEvent(ctx context.Context, eventID string) error
		NotifyYearbook(ctx context.Context, yearbookID string) error
	}

	service struct {
		db   core.DB
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(db core.DB, repo Repository) *service {
	return &service{
		db:   db,
		repo: repo,
	}
}

func (svc *service) Query(ctx context.Context) ([]Notification, error) {
	return svc.repo.QueryNotifications(ctx)
}

func (svc *service) NotifyPost(ctx context.Context, postID string) error {
	return svc.notify(ctx, TypePost, postID, "A new post was published")
}

func (svc *service) NotifyEvent(ctx context.Context, eventID string) error {
	return svc.notify(ctx, TypeEvent, eventID, "A new event was announced")
}

func (svc *service) NotifyYearbook(ctx context.Context, yearbookID string) error {
	return svc.notify(ctx, TypeYearbook, yearbookID, "A new yearbook entry was added")
}

func (svc *service) notify(ctx context.Context, typ Type, relatedID, message string) error {
	n := Notification{
		Type:      typ,
		RelatedID: relatedID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := svc.repo.CreateNotification(ctx, n); err != nil {
		return errors.Wrap(err, "creating notification")
	}
	return nil
}
