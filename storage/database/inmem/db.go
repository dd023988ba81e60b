package inmemdb

import (
	"sync"

	"github.com/jaymarkubaran15-svg/memotrace/core/event"
	"github.com/jaymarkubaran15-svg/memotrace/core/notification"
	"github.com/jaymarkubaran15-svg/memotrace/core/post"
	"github.com/jaymarkubaran15-svg/memotrace/core/schema"
	"github.com/jaymarkubaran15-svg/memotrace/core/submission"
	"github.com/jaymarkubaran15-svg/memotrace/core/user"
)

// DB is the shared in-memory backing store for tests and local development
// without PostgreSQL.
type DB struct {
	mutex sync.RWMutex

	users         map[string]*user.User
	schemas       map[schema.Kind][]byte
	schemaIDs     map[schema.Kind]string
	submissions   []submission.Submission
	posts         map[string]*post.Post
	events        map[string]*event.Event
	notifications []notification.Notification
}

func NewDB() *DB {
	return &DB{
		users:     make(map[string]*user.User),
		schemas:   make(map[schema.Kind][]byte),
		schemaIDs: make(map[schema.Kind]string),
		posts:     make(map[string]*post.Post),
		events:    make(map[string]*event.Event),
	}
}
