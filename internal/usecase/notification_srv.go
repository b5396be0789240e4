package usecase

import (
	"context"
	"fmt"

	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const latestNotifications = 20

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID) (*response.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	ClearAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	log              *zap.Logger
}

func NewNotificationService(notificationRepo repository.NotificationRepository, log *zap.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		log:              log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID) (*response.NotificationListResponse, error) {
	items, err := s.notificationRepo.FindLatestByUser(ctx, userID, latestNotifications)
	if err != nil {
		s.log.Error("Failed to list notifications", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get notifications")
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count unread notifications", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get notifications")
	}

	return response.NotificationsToResponse(items, unread), nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	ok, err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		s.log.Error("Failed to mark notification read", zap.Error(err), zap.String("notification_id", notificationID.String()))
		return fmt.Errorf("failed to update notification")
	}
	if !ok {
		return fmt.Errorf("notification %w", ErrNotFound)
	}
	return nil
}

func (s *notificationService) ClearAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.notificationRepo.DeleteAllByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to clear notifications", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("failed to clear notifications")
	}

	s.log.Info("Notifications cleared", zap.String("user_id", userID.String()), zap.Int64("count", n))
	return n, nil
}
