package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/internal/repository"
	apperrors "github.com/redconnect/redconnect-api/pkg/errors"
	"github.com/redconnect/redconnect-api/pkg/logger"
)

// listLimit caps the notification feed like the mobile clients expect
const listLimit = 20

type Service struct {
	repo   repository.NotificationRepository
	logger *logger.Logger
}

func NewService(repo repository.NotificationRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Notify writes an in-app notification. Failures are logged and swallowed so
// a notification hiccup never rolls back the operation that triggered it.
func (s *Service) Notify(ctx context.Context, recipientID uuid.UUID, notifType model.NotificationType, title, message string) {
	n := &model.Notification{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        notifType,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error(err, "failed to create notification",
			"recipient_id", recipientID.String(), "type", string(notifType))
	}
}

// Feed is the notification list plus its unread counter
type Feed struct {
	Notifications []*model.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

func (s *Service) List(ctx context.Context, recipientID uuid.UUID) (*Feed, error) {
	notifications, err := s.repo.ListByRecipient(ctx, recipientID, listLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list notifications", err)
	}
	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, apperrors.Internal("failed to count notifications", err)
	}
	if notifications == nil {
		notifications = []*model.Notification{}
	}
	return &Feed{Notifications: notifications, UnreadCount: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	err := s.repo.MarkRead(ctx, notificationID, recipientID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("notification", err)
	}
	if err != nil {
		return apperrors.Internal("failed to mark notification read", err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	n, err := s.repo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, apperrors.Internal("failed to mark notifications read", err)
	}
	return n, nil
}
