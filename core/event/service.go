package event

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

var (
	ErrNotFound  = errors.New("event not found")
	ErrForbidden = errors.New("not allowed to modify this event")
)

type (
	Repository interface {
		CreateEvent(ctx context.Context, ev Event, exec ...core.DBExecutor) (Event, error)
		// QueryEvents returns events newest first.
		QueryEvents(ctx context.Context, exec ...core.DBExecutor) ([]Event, error)
		GetEvent(ctx context.Context, id string, exec ...core.DBExecutor) (Event, error)
		DeleteEvent(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	// Geocoder resolves free-text place queries against an external
	// provider. Failures are surfaced as non-fatal notices to the caller.
	Geocoder interface {
		Search(ctx context.Context, query string) ([]Place, error)
	}

	// FileStorage stores uploaded event images and returns a stable
	// reference for each.
	FileStorage interface {
		Save(ctx context.Context, name string, r io.Reader) (string, error)
		Remove(ctx context.Context, ref string) error
	}

	// Notifier fans a new event out to the notification feed.
	Notifier interface {
		NotifyEvent(ctx context.Context, eventID string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, authorID string, ne NewEvent) (Event, error)
		Query(ctx context.Context) ([]Event, error)
		GetByID(ctx context.Context, id string) (Event, error)
		Delete(ctx context.Context, id, actorID string, actorIsAdmin bool) error
		SearchLocations(ctx context.Context, query string) ([]Place, error)
		StoreImage(ctx context.Context, name string, r io.Reader) (string, error)
	}

	service struct {
		db       core.DB
		repo     Repository
		geocoder Geocoder
		files    FileStorage
		notifier Notifier
		logger   core.Logger
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(db core.DB, repo Repository, geocoder Geocoder, files FileStorage, notifier Notifier, logger core.Logger) *service {
	return &service{
		db:       db,
		repo:     repo,
		geocoder: geocoder,
		files:    files,
		notifier: notifier,
		logger:   logger,
	}
}

func (svc *service) Create(ctx context.Context, authorID string, ne NewEvent) (Event, error) {
	ev := Event{
		AuthorID:     authorID,
		Content:      ne.Content,
		LocationName: ne.LocationName,
		Latitude:     ne.Latitude,
		Longitude:    ne.Longitude,
		Images:       ne.Images,
		CreatedAt:    time.Now().UTC(),
	}
	if ev.Images == nil {
		ev.Images = []string{}
	}
	ev, err := svc.repo.CreateEvent(ctx, ev)
	if err != nil {
		return Event{}, err
	}
	if err = svc.notifier.NotifyEvent(ctx, ev.ID); err != nil {
		svc.logger.Error(fmt.Sprintf("notifying event %s: %v", ev.ID, err), err)
	}
	return ev, nil
}

func (svc *service) Query(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryEvents(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEvent(ctx, id)
}

// Delete removes an event and its stored images. The author or an admin may
// delete.
func (svc *service) Delete(ctx context.Context, id, actorID string, actorIsAdmin bool) error {
	ev, err := svc.repo.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if ev.AuthorID != actorID && !actorIsAdmin {
		return ErrForbidden
	}
	if err = svc.repo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	for _, ref := range ev.Images {
		if err = svc.files.Remove(ctx, ref); err != nil {
			svc.logger.Error(fmt.Sprintf("removing event image %s: %v", ref, err), err)
		}
	}
	return nil
}

// SearchLocations passes a place query through to the geocoding provider.
func (svc *service) SearchLocations(ctx context.Context, query string) ([]Place, error) {
	places, err := svc.geocoder.Search(ctx, core.CleanString(query))
	if err != nil {
		return nil, errors.Wrap(err, "geocoding")
	}
	return places, nil
}

func (svc *service) StoreImage(ctx context.Context, name string, r io.Reader) (string, error) {
	ref, err := svc.files.Save(ctx, name, r)
	if err != nil {
		return "", errors.Wrap(err, "storing image")
	}
	return ref, nil
}
