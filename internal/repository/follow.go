package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/market/internal/domain"
)

var followTable = newJoinTable("follows", "follower_id", "followee_id")

// FollowRepository handles user-to-user follows.
type FollowRepository struct {
	db *sqlx.DB
}

// NewFollowRepository creates a new FollowRepository.
func NewFollowRepository(db *sqlx.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Toggle follows the followee when not followed yet, and unfollows otherwise.
func (r *FollowRepository) Toggle(ctx context.Context, followerID, followeeID int64) (domain.ToggleResult, error) {
	return followTable.toggleInTx(ctx, r.db, followerID, followeeID)
}

// ListFollowees returns the users followed by userID in the order they were followed.
func (r *FollowRepository) ListFollowees(ctx context.Context, userID int64) ([]domain.Followee, error) {
	followees := []domain.Followee{}
	err := r.db.SelectContext(ctx, &followees,
		`SELECT u.id, u.nickname, u.user_image
		 FROM follows f
		 JOIN users u ON u.id = f.followee_id
		 WHERE f.follower_id = $1
		 ORDER BY f.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list followees of user %d: %w", userID, err)
	}
	return followees, nil
}

// CountFollowers counts the users following userID.
func (r *FollowRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM follows WHERE followee_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("count followers of user %d: %w", userID, err)
	}
	return n, nil
}
