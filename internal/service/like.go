package service

import (
	"context"
	"log/slog"

	"github.com/sumire/market/internal/domain"
)

// LikeStore defines the like data access consumed by LikeService.
type LikeStore interface {
	JoinToggler
	ListLikedProducts(ctx context.Context, userID int64) ([]domain.LikedProduct, error)
}

// LikeService toggles and lists product likes.
type LikeService struct {
	engine *ToggleEngine
	likes  LikeStore
	logger *slog.Logger
}

// NewLikeService creates a new LikeService.
func NewLikeService(users, products Exister, likes LikeStore, logger *slog.Logger) *LikeService {
	return &LikeService{
		engine: NewToggleEngine("user", users, "product", products, likes),
		likes:  likes,
		logger: logger,
	}
}

// Toggle likes the product for the user, or removes an existing like.
func (s *LikeService) Toggle(ctx context.Context, userID, productID int64) (domain.ToggleResult, error) {
	result, err := s.engine.Toggle(ctx, userID, productID)
	if err != nil {
		return "", err
	}
	s.logger.Info("like toggled", "user_id", userID, "product_id", productID, "result", result)
	return result, nil
}

// ListLiked returns the products a user likes, most recent first.
func (s *LikeService) ListLiked(ctx context.Context, userID int64) ([]domain.LikedProduct, error) {
	return s.likes.ListLikedProducts(ctx, userID)
}
