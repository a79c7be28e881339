package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sumire/market/internal/domain"
)

// UserProfileStore defines the user data access consumed by UserService.
type UserProfileStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	CompleteSignup(ctx context.Context, id int64, signup domain.Signup) error
	UpdateProfile(ctx context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error)
	NicknameTaken(ctx context.Context, nickname string, exceptUserID int64) (bool, error)
	Detail(ctx context.Context, id int64) (*domain.UserDetail, error)
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
}

// UserService handles signup, profile updates and the aggregate user views.
type UserService struct {
	users  UserProfileStore
	events EventPublisher
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users UserProfileStore, events EventPublisher, logger *slog.Logger) *UserService {
	return &UserService{users: users, events: events, logger: logger}
}

// UserSignedUp is published once a user completes signup.
type UserSignedUp struct {
	UserID   int64     `json:"userId"`
	Nickname string    `json:"nickname"`
	At       time.Time `json:"at"`
}

// Signup completes the profile of a user created by OAuth login. It
// succeeds at most once per user.
func (s *UserService) Signup(ctx context.Context, userID int64, signup domain.Signup) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Registered() {
		s.logger.Warn("duplicated signup", "user_id", userID)
		return domain.Errorf(domain.ErrConflict, "Duplicated user.")
	}

	if err := s.users.CompleteSignup(ctx, userID, signup); err != nil {
		return err
	}

	s.logger.Info("user signed up", "user_id", userID)
	publish(ctx, s.events, s.logger, EventUserSignedUp, strconv.FormatInt(userID, 10), UserSignedUp{
		UserID:   userID,
		Nickname: signup.Nickname,
		At:       time.Now().UTC(),
	})
	return nil
}

// Detail returns the seller statistics of a user.
func (s *UserService) Detail(ctx context.Context, userID int64) (*domain.UserDetail, error) {
	return s.users.Detail(ctx, userID)
}

// FindOne builds the shop view of targetID as seen by callerID.
func (s *UserService) FindOne(ctx context.Context, callerID, targetID int64) (*domain.UserProfile, error) {
	shop, err := s.users.Detail(ctx, targetID)
	if err != nil {
		return nil, err
	}

	mine := shop
	if callerID != targetID {
		if mine, err = s.users.Detail(ctx, callerID); err != nil {
			return nil, fmt.Errorf("load caller %d: %w", callerID, err)
		}
	}

	following, err := s.users.IsFollowing(ctx, callerID, targetID)
	if err != nil {
		return nil, err
	}

	return &domain.UserProfile{
		IsMyShop: callerID == targetID,
		IsFollow: following,
		MyData:   domain.NewMyInfo(*mine),
		ShopData: *shop,
	}, nil
}

// EnsureNicknameAvailable fails with domain.ErrConflict when another user
// holds nickname. The unique index still decides races at update time.
func (s *UserService) EnsureNicknameAvailable(ctx context.Context, userID int64, nickname string) error {
	taken, err := s.users.NicknameTaken(ctx, nickname, userID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Errorf(domain.ErrConflict, "nickname %q is already in use", nickname)
	}
	return nil
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", "user_id", userID)
	return user, nil
}
