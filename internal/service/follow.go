package service

import (
	"context"
	"log/slog"

	"github.com/sumire/market/internal/domain"
)

// FollowStore defines the follow data access consumed by FollowService.
type FollowStore interface {
	JoinToggler
	ListFollowees(ctx context.Context, userID int64) ([]domain.Followee, error)
}

// FollowService toggles and lists follows between users.
type FollowService struct {
	engine  *ToggleEngine
	follows FollowStore
	logger  *slog.Logger
}

// NewFollowService creates a new FollowService.
func NewFollowService(users Exister, follows FollowStore, logger *slog.Logger) *FollowService {
	return &FollowService{
		engine:  NewToggleEngine("user", users, "user", users, follows),
		follows: follows,
		logger:  logger,
	}
}

// Toggle follows the followee, or unfollows when already following.
// Following oneself is allowed.
func (s *FollowService) Toggle(ctx context.Context, followerID, followeeID int64) (domain.ToggleResult, error) {
	result, err := s.engine.Toggle(ctx, followerID, followeeID)
	if err != nil {
		return "", err
	}
	s.logger.Info("follow toggled", "follower_id", followerID, "followee_id", followeeID, "result", result)
	return result, nil
}

// ListFollowees returns the users followed by userID in follow order.
func (s *FollowService) ListFollowees(ctx context.Context, userID int64) ([]domain.Followee, error) {
	return s.follows.ListFollowees(ctx, userID)
}
