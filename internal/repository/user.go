package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/market/internal/domain"
)

const userColumns = `id, name, nickname, address, latitude, longitude, user_image, description,
	social_id, social_platform, created_at, updated_at`

// UserRepository handles user data access operations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by their ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errorf(domain.ErrNotFound, "user %d not found", id)
		}
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}
	return &user, nil
}

// FindBySocialID retrieves a user by their OAuth provider and provider ID.
func (r *UserRepository) FindBySocialID(ctx context.Context, platform domain.SocialPlatform, socialID string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE social_platform = $1 AND social_id = $2`,
		platform, socialID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by social id %s/%s: %w", platform, socialID, err)
	}
	return &user, nil
}

// CreateSocialUser inserts an unregistered user for a provider identity.
// When the identity already exists the stored row is returned instead.
func (r *UserRepository) CreateSocialUser(ctx context.Context, platform domain.SocialPlatform, socialID, name string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (social_platform, social_id, name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (social_platform, social_id) DO NOTHING
		 RETURNING `+userColumns,
		platform, socialID, name,
	).StructScan(&user)
	if errors.Is(err, sql.ErrNoRows) {
		return r.FindBySocialID(ctx, platform, socialID)
	}
	if err != nil {
		return nil, fmt.Errorf("create social user: %w", err)
	}
	return &user, nil
}

// Exists reports whether a user row exists.
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.db.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("check user %d: %w", id, err)
	}
	return ok, nil
}

// CompleteSignup sets the profile of a user whose nickname is still empty.
// It returns domain.ErrConflict when signup already happened or the
// nickname is taken.
func (r *UserRepository) CompleteSignup(ctx context.Context, id int64, f domain.Signup) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET nickname = $2, address = $3, latitude = $4, longitude = $5, updated_at = NOW()
		 WHERE id = $1 AND nickname = ''`,
		id, f.Nickname, f.Address, f.Latitude, f.Longitude)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrConflict, "nickname %q is already in use", f.Nickname)
		}
		if isDataException(err) {
			return invalidValue("profile field")
		}
		return fmt.Errorf("complete signup for user %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete signup for user %d: %w", id, err)
	}
	if n == 0 {
		return domain.Errorf(domain.ErrConflict, "Duplicated user.")
	}
	return nil
}

// UpdateProfile applies the non-nil fields and returns the updated user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, f domain.ProfileUpdate) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowxContext(ctx,
		`UPDATE users SET
		   nickname    = COALESCE($2, nickname),
		   address     = COALESCE($3, address),
		   latitude    = COALESCE($4, latitude),
		   longitude   = COALESCE($5, longitude),
		   description = COALESCE($6, description),
		   user_image  = COALESCE($7, user_image),
		   updated_at  = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, f.Nickname, f.Address, f.Latitude, f.Longitude, f.Description, f.UserImage,
	).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errorf(domain.ErrNotFound, "user %d not found", id)
		}
		if isUniqueViolation(err) {
			return nil, domain.Errorf(domain.ErrConflict, "nickname is already in use")
		}
		if isDataException(err) {
			return nil, invalidValue("profile field")
		}
		return nil, fmt.Errorf("update profile for user %d: %w", id, err)
	}
	return &user, nil
}

type userDetailRow struct {
	domain.UserDetail
	ProductIDs []byte `db:"product_ids"`
}

// Detail computes the seller statistics of a user in a single statement, so
// every aggregate reads the same snapshot.
func (r *UserRepository) Detail(ctx context.Context, id int64) (*domain.UserDetail, error) {
	var row userDetailRow
	err := r.db.GetContext(ctx, &row,
		`SELECT
		   u.id          AS seller_id,
		   u.nickname    AS seller_name,
		   u.user_image  AS seller_img,
		   u.description AS seller_intro,
		   u.created_at  AS seller_open_day,
		   u.address, u.latitude, u.longitude,
		   COALESCE(NULLIF(u.name, ''), u.nickname) AS name,
		   (SELECT COALESCE(json_agg(p.id ORDER BY p.id), '[]'::json)
		      FROM products p WHERE p.user_id = u.id) AS product_ids,
		   (SELECT COALESCE(AVG(rv.rating), 0)::float8
		      FROM reviews rv JOIN products p ON p.id = rv.product_id
		     WHERE p.user_id = u.id) AS star_avg,
		   (SELECT COUNT(*)
		      FROM reviews rv JOIN products p ON p.id = rv.product_id
		     WHERE p.user_id = u.id) AS review_num,
		   (SELECT COUNT(*) FROM products p
		     WHERE p.user_id = u.id AND p.status = $2) AS on_sale_num,
		   (SELECT COUNT(*)
		      FROM orders o JOIN products p ON p.id = o.product_id
		     WHERE p.user_id = u.id AND o.status = $3) AS sold_out_num,
		   (SELECT COUNT(*)
		      FROM likes l JOIN products p ON p.id = l.product_id
		     WHERE p.user_id = u.id) AS like_num,
		   (SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_num,
		   (SELECT COUNT(*) FROM follows f WHERE f.followee_id = u.id) AS follow_num,
		   (SELECT COUNT(*) FROM orders o WHERE o.user_id = u.id) AS order_num
		 FROM users u
		 WHERE u.id = $1`,
		id, domain.ProductStatusOnSale, domain.OrderStatusSold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errorf(domain.ErrNotFound, "Not found user. userId [%d]", id)
		}
		return nil, fmt.Errorf("user detail %d: %w", id, err)
	}

	detail := row.UserDetail
	detail.ProductIDs = []int64{}
	if err := json.Unmarshal(row.ProductIDs, &detail.ProductIDs); err != nil {
		return nil, fmt.Errorf("decode product ids of user %d: %w", id, err)
	}
	return &detail, nil
}

// NicknameTaken reports whether another user already uses nickname.
func (r *UserRepository) NicknameTaken(ctx context.Context, nickname string, exceptUserID int64) (bool, error) {
	var taken bool
	if err := r.db.GetContext(ctx, &taken,
		`SELECT EXISTS (SELECT 1 FROM users WHERE nickname = $1 AND id <> $2)`,
		nickname, exceptUserID); err != nil {
		return false, fmt.Errorf("check nickname: %w", err)
	}
	return taken, nil
}

// IsFollowing reports whether follower follows followee.
func (r *UserRepository) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return followTable.exists(ctx, r.db, followerID, followeeID)
}
