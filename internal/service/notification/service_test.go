package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
	"github.com/redconnect/redconnect-api/pkg/logger"
)

type fakeNotificationRepo struct {
	rows      []*model.Notification
	createErr error
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	n.ID = uuid.New()
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID, limit int) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range f.rows {
		if n.RecipientID == recipientID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.rows {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID uuid.UUID) error {
	for _, n := range f.rows {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.rows {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func newTestService(repo repository.NotificationRepository) *Service {
	return NewService(repo, logger.NewLogger(nil))
}

func TestNotifyAndList(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo)
	recipient := uuid.New()

	svc.Notify(context.Background(), recipient, model.NotifyBloodRequest, "New request", "2 units of O+")
	svc.Notify(context.Background(), uuid.New(), model.NotifyCampApproval, "Approved", "other user")

	feed, err := svc.List(context.Background(), recipient)
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, 1)
	assert.Equal(t, 1, feed.UnreadCount)
	assert.Equal(t, "New request", feed.Notifications[0].Title)
	assert.Equal(t, model.NotifyBloodRequest, feed.Notifications[0].Type)
}

func TestNotifySwallowsRepositoryErrors(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: errors.New("insert failed")}
	svc := newTestService(repo)

	// Must not panic or surface the error
	svc.Notify(context.Background(), uuid.New(), model.NotifyBloodRequest, "t", "m")
	assert.Empty(t, repo.rows)
}

func TestListEmptyFeed(t *testing.T) {
	svc := newTestService(&fakeNotificationRepo{})

	feed, err := svc.List(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, feed.Notifications)
	assert.Empty(t, feed.Notifications)
	assert.Zero(t, feed.UnreadCount)
}

func TestMarkRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo)
	recipient := uuid.New()

	svc.Notify(context.Background(), recipient, model.NotifyCampApproval, "Approved", "m")
	id := repo.rows[0].ID

	require.NoError(t, svc.MarkRead(context.Background(), recipient, id))

	feed, err := svc.List(context.Background(), recipient)
	require.NoError(t, err)
	assert.Zero(t, feed.UnreadCount)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo)
	recipient := uuid.New()

	svc.Notify(context.Background(), recipient, model.NotifyCampApproval, "Approved", "m")
	id := repo.rows[0].ID

	err := svc.MarkRead(context.Background(), uuid.New(), id)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestMarkAllRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := newTestService(repo)
	recipient := uuid.New()

	svc.Notify(context.Background(), recipient, model.NotifyCampApproval, "a", "m")
	svc.Notify(context.Background(), recipient, model.NotifyBloodRequest, "b", "m")

	n, err := svc.MarkAllRead(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.MarkAllRead(context.Background(), recipient)
	require.NoError(t, err)
	assert.Zero(t, n)
}
