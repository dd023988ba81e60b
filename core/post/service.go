package post

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrForbidden = errors.New("not allowed to modify this post")
)

type (
	Repository interface {
		CreatePost(ctx context.Context, p Post, exec ...core.DBExecutor) (Post, error)
		// QueryPosts returns posts newest first.
		QueryPosts(ctx context.Context, exec ...core.DBExecutor) ([]Post, error)
		GetPost(ctx context.Context, id string, exec ...core.DBExecutor) (Post, error)
		UpdatePost(ctx context.Context, p Post, exec ...core.DBExecutor) (Post, error)
		DeletePost(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	// Notifier fans a new post out to the notification feed. Satisfied by the
	// notification service.
	Notifier interface {
		NotifyPost(ctx context.Context, postID string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, authorID string, np NewPost) (Post, error)
		Query(ctx context.Context) ([]Post, error)
		GetByID(ctx context.Context, id string) (Post, error)
		Update(ctx context.Context, id, actorID string, up UpdatePost) (Post, error)
		Delete(ctx context.Context, id, actorID string, actorIsAdmin bool) error
	}

	service struct {
		db       core.DB
		repo     Repository
		notifier Notifier
		logger   core.Logger
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(db core.DB, repo Repository, notifier Notifier, logger core.Logger) *service {
	return &service{
		db:       db,
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

func (svc *service) Create(ctx context.Context, authorID string, np NewPost) (Post, error) {
	now := time.Now().UTC()
	p := Post{
		AuthorID:  authorID,
		Content:   np.Content,
		Image:     np.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p, err := svc.repo.CreatePost(ctx, p)
	if err != nil {
		return Post{}, err
	}
	if err = svc.notifier.NotifyPost(ctx, p.ID); err != nil {
		// the post is live; a missing notification is not worth failing for
		svc.logger.Error(fmt.Sprintf("notifying post %s: %v", p.ID, err), err)
	}
	return p, nil
}

func (svc *service) Query(ctx context.Context) ([]Post, error) {
	return svc.repo.QueryPosts(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Post, error) {
	return svc.repo.GetPost(ctx, id)
}

// Update modifies a post's content. Only the author may update.
func (svc *service) Update(ctx context.Context, id, actorID string, up UpdatePost) (Post, error) {
	p, err := svc.repo.GetPost(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if p.AuthorID != actorID {
		return Post{}, ErrForbidden
	}
	p.Content = up.Content
	if up.Image != "" {
		p.Image = up.Image
	}
	p.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdatePost(ctx, p)
}

// Delete removes a post. The author or an admin may delete.
func (svc *service) Delete(ctx context.Context, id, actorID string, actorIsAdmin bool) error {
	p, err := svc.repo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != actorID && !actorIsAdmin {
		return ErrForbidden
	}
	return svc.repo.DeletePost(ctx, id)
}
