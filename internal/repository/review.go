package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/market/internal/domain"
)

// ReviewRepository handles product reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review. A second review of the same product by the same
// user is rejected with domain.ErrConflict.
func (r *ReviewRepository) Create(ctx context.Context, review domain.Review) (*domain.Review, error) {
	var created domain.Review
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO reviews (user_id, product_id, contents, rating)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, product_id, contents, rating, created_at`,
		review.UserID, review.ProductID, review.Contents, review.Rating,
	).StructScan(&created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Errorf(domain.ErrConflict, "product %d has already been reviewed", review.ProductID)
		}
		if isForeignKeyViolation(err) {
			return nil, domain.Errorf(domain.ErrNotFound, "product %d not found", review.ProductID)
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return &created, nil
}

// FindByID retrieves a review.
func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	var review domain.Review
	err := r.db.GetContext(ctx, &review,
		`SELECT id, user_id, product_id, contents, rating, created_at FROM reviews WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errorf(domain.ErrNotFound, "review %d not found", id)
		}
		return nil, fmt.Errorf("find review %d: %w", id, err)
	}
	return &review, nil
}

// Delete removes a review.
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	if n == 0 {
		return domain.Errorf(domain.ErrNotFound, "review %d not found", id)
	}
	return nil
}

// ListBySeller returns the reviews written on a seller's products.
func (r *ReviewRepository) ListBySeller(ctx context.Context, sellerID int64) ([]domain.SellerReview, error) {
	reviews := []domain.SellerReview{}
	err := r.db.SelectContext(ctx, &reviews,
		`SELECT p.id AS product_id, u.id AS buyer_id, rv.contents AS review_content,
		        rv.rating AS rate, u.nickname AS writer_name, u.user_image AS writer_img
		 FROM reviews rv
		 JOIN products p ON p.id = rv.product_id
		 JOIN users u ON u.id = rv.user_id
		 WHERE p.user_id = $1
		 ORDER BY rv.created_at DESC, rv.id DESC`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list reviews of seller %d: %w", sellerID, err)
	}
	return reviews, nil
}

// ListByProduct returns the reviews of a product.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.ProductReview, error) {
	reviews := []domain.ProductReview{}
	err := r.db.SelectContext(ctx, &reviews,
		`SELECT user_id, contents, rating FROM reviews WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews of product %d: %w", productID, err)
	}
	return reviews, nil
}
