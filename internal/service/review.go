package service

import (
	"context"
	"log/slog"

	"github.com/sumire/market/internal/domain"
)

// ReviewStore defines the review data access consumed by ReviewService.
type ReviewStore interface {
	Create(ctx context.Context, review domain.Review) (*domain.Review, error)
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.SellerReview, error)
}

// ReviewService handles product reviews.
type ReviewService struct {
	reviews  ReviewStore
	products Exister
	users    Exister
	logger   *slog.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews ReviewStore, products, users Exister, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, users: users, logger: logger}
}

// Create records a review. A user reviews a product at most once.
func (s *ReviewService) Create(ctx context.Context, userID, productID int64, contents string, rating int) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, &domain.ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	}
	if err := mustExist(ctx, s.products, "product", productID); err != nil {
		return nil, err
	}

	review, err := s.reviews.Create(ctx, domain.Review{
		UserID:    userID,
		ProductID: productID,
		Contents:  contents,
		Rating:    rating,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("review created", "review_id", review.ID, "user_id", userID, "product_id", productID)
	return review, nil
}

// ListBySeller returns the reviews received by a seller.
func (s *ReviewService) ListBySeller(ctx context.Context, sellerID int64) ([]domain.SellerReview, error) {
	if err := mustExist(ctx, s.users, "user", sellerID); err != nil {
		return nil, err
	}
	return s.reviews.ListBySeller(ctx, sellerID)
}

// Delete removes a review written by userID.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID int64) error {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		s.logger.Warn("review delete by non-author", "review_id", reviewID, "user_id", userID)
		return domain.Errorf(domain.ErrForbidden, "review %d is not yours", reviewID)
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	s.logger.Info("review deleted", "review_id", reviewID)
	return nil
}
