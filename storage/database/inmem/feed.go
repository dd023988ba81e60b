package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/event"
	"github.com/jaymarkubaran15-svg/memotrace/core/notification"
	"github.com/jaymarkubaran15-svg/memotrace/core/post"
)

type postRepository struct {
	db *DB
}

var _ post.Repository = (*postRepository)(nil)

func NewPostRepository(db *DB) *postRepository {
	return &postRepository{db: db}
}

func (repo *postRepository) CreatePost(_ context.Context, p post.Post, _ ...core.DBExecutor) (post.Post, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = uuid.New().String()
	repo.db.posts[p.ID] = &p
	return p, nil
}

func (repo *postRepository) QueryPosts(_ context.Context, _ ...core.DBExecutor) ([]post.Post, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	posts := make([]post.Post, 0, len(repo.db.posts))
	for _, p := range repo.db.posts {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (repo *postRepository) GetPost(_ context.Context, id string, _ ...core.DBExecutor) (post.Post, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.posts[id]; ok {
		return *p, nil
	}
	return post.Post{}, post.ErrNotFound
}

func (repo *postRepository) UpdatePost(_ context.Context, p post.Post, _ ...core.DBExecutor) (post.Post, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.posts[p.ID]; !ok {
		return post.Post{}, post.ErrNotFound
	}
	repo.db.posts[p.ID] = &p
	return p, nil
}

func (repo *postRepository) DeletePost(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.posts, id)
	return nil
}

type eventRepository struct {
	db *DB
}

var _ event.Repository = (*eventRepository)(nil)

func NewEventRepository(db *DB) *eventRepository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(_ context.Context, ev event.Event, _ ...core.DBExecutor) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ev.ID = uuid.New().String()
	repo.db.events[ev.ID] = &ev
	return ev, nil
}

func (repo *eventRepository) QueryEvents(_ context.Context, _ ...core.DBExecutor) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := make([]event.Event, 0, len(repo.db.events))
	for _, ev := range repo.db.events {
		events = append(events, *ev)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	return events, nil
}

func (repo *eventRepository) GetEvent(_ context.Context, id string, _ ...core.DBExecutor) (event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ev, ok := repo.db.events[id]; ok {
		return *ev, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) DeleteEvent(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.events, id)
	return nil
}

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(_ context.Context, n notification.Notification, _ ...core.DBExecutor) (notification.Notification, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	n.ID = uuid.New().String()
	repo.db.notifications = append(repo.db.notifications, n)
	return n, nil
}

func (repo *notificationRepository) QueryNotifications(_ context.Context, _ ...core.DBExecutor) ([]notification.Notification, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	// newest first
	out := make([]notification.Notification, 0, len(repo.db.notifications))
	for i := len(repo.db.notifications) - 1; i >= 0; i-- {
		out = append(out, repo.db.notifications[i])
	}
	return out, nil
}
