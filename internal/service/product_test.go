package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/market/internal/domain"
)

type fakeProducts struct {
	nextID   int64
	products map[int64]*domain.Product
	images   map[int64][]string
	lastList domain.ProductListFilter
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{products: map[int64]*domain.Product{}, images: map[int64][]string{}}
}

func (f *fakeProducts) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.products[id]
	return ok, nil
}

func (f *fakeProducts) Create(_ context.Context, sellerID int64, d domain.ProductDraft) (int64, error) {
	f.nextID++
	f.products[f.nextID] = &domain.Product{
		ID: f.nextID, SellerID: sellerID, CategoryID: d.CategoryID, Name: d.Name,
		Price: d.Price, Status: d.Status,
	}
	f.images[f.nextID] = d.ImageURLs
	return f.nextID, nil
}

func (f *fakeProducts) Update(_ context.Context, id int64, p domain.ProductPatch) error {
	product, ok := f.products[id]
	if !ok {
		return domain.Errorf(domain.ErrNotFound, "product %d not found", id)
	}
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.ImageURLs != nil {
		f.images[id] = p.ImageURLs
	}
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "product %d not found", id)
	}
	cp := *product
	return &cp, nil
}

func (f *fakeProducts) FindView(ctx context.Context, id int64) (*domain.ProductView, error) {
	product, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.ProductView{Product: *product, SellerName: "seller", Images: f.images[id]}, nil
}

func (f *fakeProducts) List(_ context.Context, filter domain.ProductListFilter) ([]domain.ProductSummary, error) {
	f.lastList = filter
	return []domain.ProductSummary{}, nil
}

func (f *fakeProducts) ListBySeller(_ context.Context, sellerID int64) ([]domain.ProductSummary, error) {
	out := []domain.ProductSummary{}
	for _, p := range f.products {
		if p.SellerID == sellerID {
			out = append(out, domain.ProductSummary{ID: p.ID, SellerID: p.SellerID})
		}
	}
	return out, nil
}

func (f *fakeProducts) CountBySeller(ctx context.Context, sellerID int64) (int64, error) {
	products, _ := f.ListBySeller(ctx, sellerID)
	return int64(len(products)), nil
}

type fakeProductExtras struct {
	followers int64
	reviews   []domain.ProductReview
	liked     map[[2]int64]bool
}

func (f fakeProductExtras) CountFollowers(context.Context, int64) (int64, error) {
	return f.followers, nil
}

func (f fakeProductExtras) ListByProduct(context.Context, int64) ([]domain.ProductReview, error) {
	return f.reviews, nil
}

func (f fakeProductExtras) IsLiked(_ context.Context, userID, productID int64) (bool, error) {
	return f.liked[[2]int64{userID, productID}], nil
}

func newTestProductService(products *fakeProducts, extras fakeProductExtras) *ProductService {
	return NewProductService(ProductDeps{
		Products:   products,
		Categories: fakeIDs{1: true, 2: true},
		Users:      fakeIDs{1: true, 2: true},
		Followers:  extras,
		Reviews:    extras,
		Likes:      extras,
	}, testLogger())
}

func validDraft() domain.ProductDraft {
	return domain.ProductDraft{
		CategoryID: 1,
		Name:       "laptop",
		Price:      decimal.RequireFromString("150000.00"),
		Location:   "Seoul",
		Status:     domain.ProductStatusOnSale,
		ImageURLs:  []string{"https://img/1.png"},
	}
}

func TestProductCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		products := newFakeProducts()
		svc := newTestProductService(products, fakeProductExtras{})

		id, err := svc.Create(ctx, 1, validDraft())
		require.NoError(t, err)
		assert.Equal(t, int64(1), products.products[id].SellerID)
		assert.Equal(t, []string{"https://img/1.png"}, products.images[id])
	})

	tests := []struct {
		name    string
		mutate  func(d *domain.ProductDraft)
		wantErr error
	}{
		{name: "negative price", mutate: func(d *domain.ProductDraft) { d.Price = decimal.NewFromInt(-1) }},
		{name: "price above column range", mutate: func(d *domain.ProductDraft) { d.Price = decimal.RequireFromString("123456789012") }},
		{name: "unknown status", mutate: func(d *domain.ProductDraft) { d.Status = 9 }},
		{name: "too many images", mutate: func(d *domain.ProductDraft) { d.ImageURLs = make([]string, 6) }},
		{name: "unknown category", mutate: func(d *domain.ProductDraft) { d.CategoryID = 77 }, wantErr: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := newFakeProducts()
			svc := newTestProductService(products, fakeProductExtras{})
			draft := validDraft()
			tt.mutate(&draft)

			_, err := svc.Create(ctx, 1, draft)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				var validationErr *domain.ValidationError
				assert.ErrorAs(t, err, &validationErr)
			}
			assert.Empty(t, products.products)
		})
	}
}

func TestProductList(t *testing.T) {
	products := newFakeProducts()
	svc := newTestProductService(products, fakeProductExtras{})

	_, err := svc.List(context.Background(), domain.ProductListFilter{CategoryID: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.ProductSortNew, products.lastList.Sort)
	assert.Equal(t, int64(2), products.lastList.CategoryID)

	_, err = svc.List(context.Background(), domain.ProductListFilter{Sort: domain.ProductSortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, domain.ProductSortPriceLow, products.lastList.Sort)

	_, err = svc.List(context.Background(), domain.ProductListFilter{Sort: "cheap"})
	require.NoError(t, err)
	assert.Equal(t, domain.ProductSortNew, products.lastList.Sort)
}

func TestProductDetail(t *testing.T) {
	ctx := context.Background()
	products := newFakeProducts()
	extras := fakeProductExtras{
		followers: 3,
		reviews:   []domain.ProductReview{{UserID: 2, Contents: "good", Rating: 5}},
		liked:     map[[2]int64]bool{{2, 1}: true},
	}
	svc := newTestProductService(products, extras)
	id, err := svc.Create(ctx, 1, validDraft())
	require.NoError(t, err)

	got, err := svc.Detail(ctx, id, 2)
	require.NoError(t, err)
	assert.True(t, got.IsLiked)
	assert.Equal(t, int64(1), got.Store.ID)
	assert.Equal(t, int64(1), got.Store.ProductCount)
	assert.Equal(t, int64(3), got.Store.FollowerCount)
	assert.Len(t, got.Reviews, 1)

	_, err = svc.Detail(ctx, 404, 2)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductOwnerOnlyChanges(t *testing.T) {
	ctx := context.Background()
	products := newFakeProducts()
	svc := newTestProductService(products, fakeProductExtras{})
	id, err := svc.Create(ctx, 1, validDraft())
	require.NoError(t, err)

	name := "renamed"
	err = svc.Update(ctx, id, 2, domain.ProductPatch{Name: &name})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "laptop", products.products[id].Name)

	err = svc.Delete(ctx, id, 2)
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Contains(t, products.products, id)

	err = svc.Update(ctx, id, 1, domain.ProductPatch{Name: &name, ImageURLs: []string{"https://img/2.png", "https://img/3.png"}})
	require.NoError(t, err)
	assert.Equal(t, "renamed", products.products[id].Name)
	assert.Equal(t, []string{"https://img/2.png", "https://img/3.png"}, products.images[id])

	require.NoError(t, svc.Delete(ctx, id, 1))
	assert.NotContains(t, products.products, id)

	err = svc.Delete(ctx, id, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreProductsUnknownStore(t *testing.T) {
	svc := newTestProductService(newFakeProducts(), fakeProductExtras{})

	_, err := svc.StoreProducts(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
