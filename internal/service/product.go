package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/sumire/market/internal/domain"
)

// ProductStore defines the product data access consumed by ProductService.
type ProductStore interface {
	Exister
	Create(ctx context.Context, sellerID int64, draft domain.ProductDraft) (int64, error)
	Update(ctx context.Context, id int64, patch domain.ProductPatch) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindView(ctx context.Context, id int64) (*domain.ProductView, error)
	List(ctx context.Context, filter domain.ProductListFilter) ([]domain.ProductSummary, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.ProductSummary, error)
	CountBySeller(ctx context.Context, sellerID int64) (int64, error)
}

// FollowerCounter counts the followers of a user.
type FollowerCounter interface {
	CountFollowers(ctx context.Context, userID int64) (int64, error)
}

// ProductReviewLister lists the reviews of a product.
type ProductReviewLister interface {
	ListByProduct(ctx context.Context, productID int64) ([]domain.ProductReview, error)
}

// LikeChecker reports whether a user likes a product.
type LikeChecker interface {
	IsLiked(ctx context.Context, userID, productID int64) (bool, error)
}

// ProductDeps groups the collaborators of ProductService.
type ProductDeps struct {
	Products   ProductStore
	Categories Exister
	Users      Exister
	Followers  FollowerCounter
	Reviews    ProductReviewLister
	Likes      LikeChecker
}

// ProductService handles product listing and seller-owned product changes.
type ProductService struct {
	deps   ProductDeps
	logger *slog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(deps ProductDeps, logger *slog.Logger) *ProductService {
	return &ProductService{deps: deps, logger: logger}
}

// Create lists a new product for the seller and returns its id.
func (s *ProductService) Create(ctx context.Context, sellerID int64, draft domain.ProductDraft) (int64, error) {
	if err := validateDraft(draft); err != nil {
		return 0, err
	}
	if err := mustExist(ctx, s.deps.Categories, "category", draft.CategoryID); err != nil {
		return 0, err
	}

	id, err := s.deps.Products.Create(ctx, sellerID, draft)
	if err != nil {
		return 0, err
	}
	s.logger.Info("product created", "product_id", id, "seller_id", sellerID, "images", len(draft.ImageURLs))
	return id, nil
}

// List returns the product listing for the filter. Any sort other than
// pHigh or pLow lists newest first.
func (s *ProductService) List(ctx context.Context, filter domain.ProductListFilter) ([]domain.ProductSummary, error) {
	switch filter.Sort {
	case domain.ProductSortPriceHigh, domain.ProductSortPriceLow:
	default:
		filter.Sort = domain.ProductSortNew
	}
	return s.deps.Products.List(ctx, filter)
}

// Detail returns a product page as seen by callerID.
func (s *ProductService) Detail(ctx context.Context, productID, callerID int64) (*domain.ProductDetail, error) {
	view, err := s.deps.Products.FindView(ctx, productID)
	if err != nil {
		return nil, err
	}

	productCount, err := s.deps.Products.CountBySeller(ctx, view.SellerID)
	if err != nil {
		return nil, err
	}
	followerCount, err := s.deps.Followers.CountFollowers(ctx, view.SellerID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.deps.Reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	liked, err := s.deps.Likes.IsLiked(ctx, callerID, productID)
	if err != nil {
		return nil, err
	}

	return &domain.ProductDetail{
		Product: *view,
		Store: domain.StoreSummary{
			ID:            view.SellerID,
			Nickname:      view.SellerName,
			UserImage:     view.SellerImage,
			ProductCount:  productCount,
			FollowerCount: followerCount,
		},
		Reviews: reviews,
		IsLiked: liked,
	}, nil
}

// StoreProducts returns the products listed by a seller.
func (s *ProductService) StoreProducts(ctx context.Context, storeID int64) ([]domain.ProductSummary, error) {
	if err := mustExist(ctx, s.deps.Users, "user", storeID); err != nil {
		return nil, err
	}
	return s.deps.Products.ListBySeller(ctx, storeID)
}

// Update changes a product owned by callerID.
func (s *ProductService) Update(ctx context.Context, productID, callerID int64, patch domain.ProductPatch) error {
	if err := s.requireOwner(ctx, productID, callerID); err != nil {
		return err
	}
	if err := validatePatch(patch); err != nil {
		return err
	}
	if patch.CategoryID != nil {
		if err := mustExist(ctx, s.deps.Categories, "category", *patch.CategoryID); err != nil {
			return err
		}
	}

	if err := s.deps.Products.Update(ctx, productID, patch); err != nil {
		return err
	}
	s.logger.Info("product updated", "product_id", productID, "images_replaced", patch.ImageURLs != nil)
	return nil
}

// Delete removes a product owned by callerID.
func (s *ProductService) Delete(ctx context.Context, productID, callerID int64) error {
	if err := s.requireOwner(ctx, productID, callerID); err != nil {
		return err
	}
	if err := s.deps.Products.Delete(ctx, productID); err != nil {
		return err
	}
	s.logger.Info("product deleted", "product_id", productID)
	return nil
}

func (s *ProductService) requireOwner(ctx context.Context, productID, callerID int64) error {
	product, err := s.deps.Products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.SellerID != callerID {
		s.logger.Warn("product change by non-owner", "product_id", productID, "user_id", callerID)
		return domain.Errorf(domain.ErrForbidden, "product %d is not yours", productID)
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return &domain.ValidationError{Field: "price", Message: "must not be negative"}
	}
	if price.GreaterThan(domain.MaxProductPrice) {
		return &domain.ValidationError{Field: "price", Message: "must not exceed " + domain.MaxProductPrice.StringFixed(2)}
	}
	return nil
}

func validateDraft(d domain.ProductDraft) error {
	if err := validatePrice(d.Price); err != nil {
		return err
	}
	if !d.Status.Valid() {
		return &domain.ValidationError{Field: "status", Message: "unknown product status"}
	}
	if len(d.ImageURLs) > domain.MaxProductImages {
		return &domain.ValidationError{Field: "images", Message: "too many images"}
	}
	return nil
}

func validatePatch(p domain.ProductPatch) error {
	if p.Price != nil {
		if err := validatePrice(*p.Price); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return &domain.ValidationError{Field: "status", Message: "unknown product status"}
	}
	if len(p.ImageURLs) > domain.MaxProductImages {
		return &domain.ValidationError{Field: "images", Message: "too many images"}
	}
	return nil
}
