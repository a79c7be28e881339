package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the sale state of a listed product.
type ProductStatus int

const (
	ProductStatusOnSale   ProductStatus = 1
	ProductStatusReserved ProductStatus = 2
	ProductStatusSoldOut  ProductStatus = 3
)

// Valid reports whether s is a known status.
func (s ProductStatus) Valid() bool {
	return s >= ProductStatusOnSale && s <= ProductStatusSoldOut
}

// ProductSort selects the ordering of product listings.
type ProductSort string

const (
	ProductSortNew       ProductSort = "new"
	ProductSortPriceHigh ProductSort = "pHigh"
	ProductSortPriceLow  ProductSort = "pLow"
)

// Product is an item listed by a seller.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	SellerID    int64           `json:"sellerId" db:"user_id"`
	CategoryID  int64           `json:"categoryId" db:"category_id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Location    string          `json:"location" db:"location"`
	Latitude    float64         `json:"latitude" db:"latitude"`
	Longitude   float64         `json:"longitude" db:"longitude"`
	Status      ProductStatus   `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// ProductImage is an image attached to a product.
type ProductImage struct {
	ID        int64  `json:"id" db:"id"`
	ProductID int64  `json:"productId" db:"product_id"`
	ImageURL  string `json:"imageUrl" db:"image_url"`
}

// ProductListFilter narrows and orders a product listing.
type ProductListFilter struct {
	CategoryID int64
	Sort       ProductSort
}

// ProductSummary is a product row in listings.
type ProductSummary struct {
	ID           int64           `json:"id" db:"id"`
	SellerID     int64           `json:"sellerId" db:"user_id"`
	Name         string          `json:"name" db:"name"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Location     string          `json:"location" db:"location"`
	Latitude     float64         `json:"latitude" db:"latitude"`
	Longitude    float64         `json:"longitude" db:"longitude"`
	Status       ProductStatus   `json:"status" db:"status"`
	CategoryID   int64           `json:"categoryId" db:"category_id"`
	CategoryName string          `json:"categoryName" db:"category_name"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	Images       []string        `json:"images" db:"-"`
}

// ProductView is a single product with its category, seller and images.
type ProductView struct {
	Product
	CategoryName string   `json:"categoryName" db:"category_name"`
	SellerName   string   `json:"sellerName" db:"seller_nickname"`
	SellerImage  string   `json:"sellerImage" db:"seller_image"`
	Images       []string `json:"images" db:"-"`
}

// StoreSummary describes the seller of a product.
type StoreSummary struct {
	ID            int64  `json:"id"`
	Nickname      string `json:"nickname"`
	UserImage     string `json:"userImage"`
	ProductCount  int64  `json:"productCount"`
	FollowerCount int64  `json:"followerCount"`
}

// ProductDetail is the product page: the product, its store, reviews and
// whether the caller likes it.
type ProductDetail struct {
	Product ProductView     `json:"product"`
	Store   StoreSummary    `json:"store"`
	Reviews []ProductReview `json:"reviews"`
	IsLiked bool            `json:"isLiked"`
}

// MaxProductImages is the number of images a product may carry.
const MaxProductImages = 5

// MaxProductPrice is the largest price a NUMERIC(10,2) column holds.
var MaxProductPrice = decimal.RequireFromString("99999999.99")

// ProductDraft holds the fields of a new product.
type ProductDraft struct {
	CategoryID  int64
	Name        string
	Description string
	Price       decimal.Decimal
	Location    string
	Latitude    float64
	Longitude   float64
	Status      ProductStatus
	ImageURLs   []string
}

// ProductPatch holds optional product changes. A non-nil ImageURLs replaces
// every image of the product.
type ProductPatch struct {
	CategoryID  *int64
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Location    *string
	Latitude    *float64
	Longitude   *float64
	Status      *ProductStatus
	ImageURLs   []string
}
