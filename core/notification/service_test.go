package notification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

type repoStub struct {
	created []Notification
}

func (r *repoStub) CreateNotification(_ context.Context, n Notification, _ ...core.DBExecutor) (Notification, error) {
	n.ID = "n-1"
	r.created = append(r.created, n)
	return n, nil
}

func (r *repoStub) QueryNotifications(_ context.Context, _ ...core.DBExecutor) ([]Notification, error) {
	// newest first
	out := make([]Notification, 0, len(r.created))
	for i := len(r.created) - 1; i >= 0; i-- {
		out = append(out, r.created[i])
	}
	return out, nil
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	repo := &repoStub{}
	svc := NewService(nil, repo)

	require.NoError(t, svc.NotifyPost(ctx, "p1"))
	require.NoError(t, svc.NotifyEvent(ctx, "e1"))
	require.NoError(t, svc.NotifyYearbook(ctx, "y1"))

	got, err := svc.Query(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, TypeYearbook, got[0].Type)
	assert.Equal(t, "y1", got[0].RelatedID)
	assert.Equal(t, TypePost, got[2].Type)
	for _, n := range got {
		assert.NotEmpty(t, n.Message)
		assert.False(t, n.CreatedAt.IsZero())
	}
}
