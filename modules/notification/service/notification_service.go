package service

import (
	"context"
	"time"

	coreEntity "campus-events/core/entity"
	"campus-events/core/logger"
	"campus-events/core/params"
	"campus-events/modules/notification/dto"
	"campus-events/modules/notification/entity"
	"campus-events/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationService struct {
	repo *repository.NotificationRepository
}

func NewNotificationService(repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	notif := &entity.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    entity.JSONB(req.Data),
		IsRead:  false,
		BaseEntity: coreEntity.BaseEntity{
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
	}
	return s.repo.Create(ctx, notif)
}

// Notify is the fire-and-forget variant used by other services; a failed
// notification never fails the triggering operation.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, notifType, title, message string, data map[string]any) {
	err := s.Create(ctx, &dto.CreateNotificationRequest{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Data:    data,
	})
	if err != nil {
		logger.Warn("NotificationService:Notify", "error", err, "type", notifType, "user_id", userID)
	}
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	return s.repo.GetByUserID(ctx, userID, queryParams)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []string) error {
	return s.repo.MarkAsRead(ctx, userID, ids)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
