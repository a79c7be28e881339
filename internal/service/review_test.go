package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/market/internal/domain"
)

type fakeReviews struct {
	nextID  int64
	reviews map[int64]*domain.Review
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: map[int64]*domain.Review{}}
}

func (f *fakeReviews) Create(_ context.Context, r domain.Review) (*domain.Review, error) {
	for _, existing := range f.reviews {
		if existing.UserID == r.UserID && existing.ProductID == r.ProductID {
			return nil, domain.Errorf(domain.ErrConflict, "product %d has already been reviewed", r.ProductID)
		}
	}
	f.nextID++
	r.ID = f.nextID
	f.reviews[r.ID] = &r
	return &r, nil
}

func (f *fakeReviews) FindByID(_ context.Context, id int64) (*domain.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "review %d not found", id)
	}
	return r, nil
}

func (f *fakeReviews) Delete(_ context.Context, id int64) error {
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviews) ListBySeller(context.Context, int64) ([]domain.SellerReview, error) {
	return []domain.SellerReview{}, nil
}

func TestReviewCreateOncePerProduct(t *testing.T) {
	ctx := context.Background()
	reviews := newFakeReviews()
	svc := NewReviewService(reviews, fakeIDs{10: true}, fakeIDs{1: true}, testLogger())

	first, err := svc.Create(ctx, 1, 10, "great", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Rating)

	_, err = svc.Create(ctx, 1, 10, "again", 4)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, reviews.reviews, 1)
}

func TestReviewCreateValidation(t *testing.T) {
	ctx := context.Background()
	reviews := newFakeReviews()
	svc := NewReviewService(reviews, fakeIDs{10: true}, fakeIDs{1: true}, testLogger())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(ctx, 1, 10, "x", rating)
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr, "rating %d", rating)
	}

	_, err := svc.Create(ctx, 1, 99, "x", 3)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, reviews.reviews)
}

func TestReviewDelete(t *testing.T) {
	ctx := context.Background()
	reviews := newFakeReviews()
	svc := NewReviewService(reviews, fakeIDs{10: true}, fakeIDs{1: true, 2: true}, testLogger())
	review, err := svc.Create(ctx, 1, 10, "great", 5)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, 2, review.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, 1, review.ID))
	require.ErrorIs(t, svc.Delete(ctx, 1, review.ID), domain.ErrNotFound)
}

func TestReviewListBySellerUnknownSeller(t *testing.T) {
	svc := NewReviewService(newFakeReviews(), fakeIDs{}, fakeIDs{1: true}, testLogger())

	_, err := svc.ListBySeller(context.Background(), 5)
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.ListBySeller(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}
