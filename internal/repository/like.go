package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/market/internal/domain"
)

var likeTable = newJoinTable("likes", "user_id", "product_id")

// LikeRepository handles user-to-product likes.
type LikeRepository struct {
	db *sqlx.DB
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(db *sqlx.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle likes the product when the user does not like it yet, and unlikes it otherwise.
func (r *LikeRepository) Toggle(ctx context.Context, userID, productID int64) (domain.ToggleResult, error) {
	return likeTable.toggleInTx(ctx, r.db, userID, productID)
}

// IsLiked reports whether the user likes the product.
func (r *LikeRepository) IsLiked(ctx context.Context, userID, productID int64) (bool, error) {
	return likeTable.exists(ctx, r.db, userID, productID)
}

// ListLikedProducts returns the products a user likes, most recently liked first.
func (r *LikeRepository) ListLikedProducts(ctx context.Context, userID int64) ([]domain.LikedProduct, error) {
	products := []domain.LikedProduct{}
	err := r.db.SelectContext(ctx, &products,
		`SELECT p.id AS product_id, p.name AS product_name, p.price AS product_price,
		        p.location, p.created_at, l.created_at AS liked_at
		 FROM likes l
		 JOIN products p ON p.id = l.product_id
		 WHERE l.user_id = $1
		 ORDER BY l.created_at DESC, l.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list likes of user %d: %w", userID, err)
	}

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ProductID
	}
	images, err := imagesByProduct(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Images = imagesOrEmpty(images, products[i].ProductID)
	}
	return products, nil
}
