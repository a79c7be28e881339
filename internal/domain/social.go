package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ToggleResult is the outcome of flipping a join row between two entities.
type ToggleResult string

const (
	ToggledOn  ToggleResult = "TOGGLED_ON"
	ToggledOff ToggleResult = "TOGGLED_OFF"
)

// Category groups products.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// LikedProduct is a product in a user's like list.
type LikedProduct struct {
	ProductID    int64           `json:"productId" db:"product_id"`
	ProductName  string          `json:"productName" db:"product_name"`
	ProductPrice decimal.Decimal `json:"productPrice" db:"product_price"`
	Location     string          `json:"location" db:"location"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	LikedAt      time.Time       `json:"likedAt" db:"liked_at"`
	Images       []string        `json:"images" db:"-"`
}

// Followee is a user followed by someone.
type Followee struct {
	ID        int64  `json:"id" db:"id"`
	Nickname  string `json:"nickname" db:"nickname"`
	UserImage string `json:"userImage" db:"user_image"`
}

// Review is a buyer's rating of a product.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Contents  string    `json:"contents" db:"contents"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// SellerReview is a review received by a seller, with its writer.
type SellerReview struct {
	ProductID     int64  `json:"productId" db:"product_id"`
	BuyerID       int64  `json:"buyerId" db:"buyer_id"`
	ReviewContent string `json:"reviewContent" db:"review_content"`
	Rate          int    `json:"rate" db:"rate"`
	WriterName    string `json:"writerName" db:"writer_name"`
	WriterImg     string `json:"writerImg" db:"writer_img"`
}

// ProductReview is a review shown on a product page.
type ProductReview struct {
	UserID   int64  `json:"userId" db:"user_id"`
	Contents string `json:"contents" db:"contents"`
	Rating   int    `json:"rating" db:"rating"`
}
