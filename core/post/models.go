package post

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

// Post is a job or announcement feed entry authored by a user.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewPost defines the information needed to publish a feed post.
type NewPost struct {
	Content string `json:"content" validate:"required"`
	Image   string `json:"image"`
}

func (np *NewPost) Validate(validate *validator.Validate) error {
	np.Content = core.CleanString(np.Content)
	return validate.Struct(np)
}

// UpdatePost defines what information may be provided to modify an existing Post.
type UpdatePost struct {
	Content string `json:"content" validate:"required"`
	Image   string `json:"image"`
}

func (up *UpdatePost) Validate(validate *validator.Validate) error {
	up.Content = core.CleanString(up.Content)
	return validate.Struct(up)
}
