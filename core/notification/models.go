package notification

import "time"

// Type categorizes what a notification points at.
type Type string

const (
	TypePost     Type = "post"
	TypeEvent    Type = "event"
	TypeYearbook Type = "yearbook"
)

// Notification is a feed entry pointing at a newly created resource.
// Unread tracking is a client concern; the backend only serves the feed.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	RelatedID string    `json:"related_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
