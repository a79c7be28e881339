package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sumire/market/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
	follow map[[2]int64]bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[int64]*domain.User{}, follow: map[[2]int64]bool{}}
}

func (f *fakeUsers) add(u domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.users[u.ID] = &u
	return &u
}

func (f *fakeUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "user %d not found", id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindBySocialID(_ context.Context, platform domain.SocialPlatform, socialID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.SocialPlatform == platform && u.SocialID == socialID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) CreateSocialUser(ctx context.Context, platform domain.SocialPlatform, socialID, name string) (*domain.User, error) {
	if u, err := f.FindBySocialID(ctx, platform, socialID); err == nil {
		return u, nil
	}
	return f.add(domain.User{SocialPlatform: platform, SocialID: socialID, Name: name}), nil
}

func (f *fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUsers) CompleteSignup(_ context.Context, id int64, s domain.Signup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.Nickname != "" {
		return domain.Errorf(domain.ErrConflict, "Duplicated user.")
	}
	u.Nickname, u.Address, u.Latitude, u.Longitude = s.Nickname, s.Address, s.Latitude, s.Longitude
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id int64, p domain.ProfileUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "user %d not found", id)
	}
	if p.Nickname != nil {
		u.Nickname = *p.Nickname
	}
	if p.Description != nil {
		u.Description = *p.Description
	}
	if p.UserImage != nil {
		u.UserImage = *p.UserImage
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) NicknameTaken(_ context.Context, nickname string, exceptUserID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.users {
		if id != exceptUserID && u.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Detail(_ context.Context, id int64) (*domain.UserDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "Not found user. userId [%d]", id)
	}
	var followers, following int64
	for pair := range f.follow {
		if pair[0] == id {
			following++
		}
		if pair[1] == id {
			followers++
		}
	}
	return &domain.UserDetail{
		SellerID:     u.ID,
		SellerName:   u.Nickname,
		SellerImg:    u.UserImage,
		Address:      u.Address,
		Name:         u.Name,
		ProductIDs:   []int64{},
		FollowingNum: following,
		FollowNum:    followers,
	}, nil
}

func (f *fakeUsers) IsFollowing(_ context.Context, followerID, followeeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.follow[[2]int64{followerID, followeeID}], nil
}

// fakeJoin is an in-memory join table keyed by (actor, target).
type fakeJoin struct {
	mu    sync.Mutex
	seq   int
	rows  map[[2]int64]int
	calls int
}

func newFakeJoin() *fakeJoin {
	return &fakeJoin{rows: map[[2]int64]int{}}
}

func (f *fakeJoin) Toggle(_ context.Context, actorID, targetID int64) (domain.ToggleResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	key := [2]int64{actorID, targetID}
	if _, ok := f.rows[key]; ok {
		delete(f.rows, key)
		return domain.ToggledOff, nil
	}
	f.seq++
	f.rows[key] = f.seq
	return domain.ToggledOn, nil
}

func (f *fakeJoin) has(actorID, targetID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[[2]int64{actorID, targetID}]
	return ok
}

// targets returns the targets of actorID ordered by insertion.
func (f *fakeJoin) targets(actorID int64) []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	type row struct {
		target int64
		seq    int
	}
	var rows []row
	for k, seq := range f.rows {
		if k[0] == actorID {
			rows = append(rows, row{k[1], seq})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.target
	}
	return out
}

func (f *fakeJoin) ListLikedProducts(_ context.Context, userID int64) ([]domain.LikedProduct, error) {
	ids := f.targets(userID)
	out := []domain.LikedProduct{}
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, domain.LikedProduct{ProductID: ids[i], Images: []string{}})
	}
	return out, nil
}

func (f *fakeJoin) ListFollowees(_ context.Context, userID int64) ([]domain.Followee, error) {
	out := []domain.Followee{}
	for _, id := range f.targets(userID) {
		out = append(out, domain.Followee{ID: id})
	}
	return out, nil
}

type fakeIDs map[int64]bool

func (f fakeIDs) Exists(_ context.Context, id int64) (bool, error) {
	return f[id], nil
}

type fakeEvents struct {
	mu     sync.Mutex
	types  []string
	failed bool
}

func (f *fakeEvents) Publish(_ context.Context, eventType, _ string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, eventType)
	if f.failed {
		return context.DeadlineExceeded
	}
	return nil
}
