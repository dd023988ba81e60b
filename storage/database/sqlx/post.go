package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/post"
)

type postRow struct {
	ID        string    `db:"id"`
	AuthorID  string    `db:"author_id"`
	Content   string    `db:"content"`
	Image     string    `db:"image"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type postRepository struct {
	db *sqlx.DB
}

var _ post.Repository = (*postRepository)(nil) // interface compliance check

func NewPostRepository(db *sqlx.DB) *postRepository {
	return &postRepository{db: db}
}

func (repo postRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.db
}

func (repo postRepository) fromRow(row postRow) post.Post {
	return post.Post{
		ID:        row.ID,
		AuthorID:  row.AuthorID,
		Content:   row.Content,
		Image:     row.Image,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (repo postRepository) CreatePost(ctx context.Context, p post.Post, exec ...core.DBExecutor) (post.Post, error) {
	p.ID = uuid.New().String()
	query := repo.db.Rebind(`INSERT INTO posts (id, author_id, content, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := repo.getExec(exec).ExecContext(ctx, query,
		p.ID, p.AuthorID, p.Content, p.Image, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return post.Post{}, errors.Wrap(err, "inserting post")
	}
	return p, nil
}

func (repo postRepository) QueryPosts(ctx context.Context, exec ...core.DBExecutor) ([]post.Post, error) {
	var rows []postRow
	query := `SELECT id, author_id, content, image, created_at, updated_at FROM posts ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}

	posts := make([]post.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, repo.fromRow(row))
	}
	return posts, nil
}

func (repo postRepository) GetPost(ctx context.Context, id string, exec ...core.DBExecutor) (post.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return post.Post{}, post.ErrNotFound
	}

	var row postRow
	query := repo.db.Rebind(`SELECT id, author_id, content, image, created_at, updated_at FROM posts WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, errors.Wrap(err, "finding post")
	}
	return repo.fromRow(row), nil
}

func (repo postRepository) UpdatePost(ctx context.Context, p post.Post, exec ...core.DBExecutor) (post.Post, error) {
	query := repo.db.Rebind(`UPDATE posts SET content = ?, image = ?, updated_at = ? WHERE id = ?`)
	res, err := repo.getExec(exec).ExecContext(ctx, query, p.Content, p.Image, p.UpdatedAt.UTC(), p.ID)
	if err != nil {
		return post.Post{}, errors.Wrap(err, "updating post")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return post.Post{}, post.ErrNotFound
	}
	return p, nil
}

func (repo postRepository) DeletePost(ctx context.Context, id string, exec ...core.DBExecutor) error {
	query := repo.db.Rebind(`DELETE FROM posts WHERE id = ?`)
	if _, err := repo.getExec(exec).ExecContext(ctx, query, id); err != nil {
		return errors.Wrap(err, "deleting post")
	}
	return nil
}
