package domain

import "time"

// SocialPlatform identifies the OAuth provider a user signed in with.
type SocialPlatform string

const (
	SocialPlatformKakao SocialPlatform = "kakao"
)

// User is a marketplace member. Nickname stays empty until signup completes;
// Name holds the nickname reported by the OAuth provider.
type User struct {
	ID             int64          `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	Nickname       string         `json:"nickname" db:"nickname"`
	Address        string         `json:"address" db:"address"`
	Latitude       float64        `json:"latitude" db:"latitude"`
	Longitude      float64        `json:"longitude" db:"longitude"`
	UserImage      string         `json:"userImage" db:"user_image"`
	Description    string         `json:"description" db:"description"`
	SocialID       string         `json:"socialId" db:"social_id"`
	SocialPlatform SocialPlatform `json:"socialPlatform" db:"social_platform"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

// Registered reports whether the user has completed signup.
func (u User) Registered() bool {
	return u.Nickname != ""
}

// UserDetail is the aggregate statistics view of a user acting as a seller.
type UserDetail struct {
	SellerID      int64     `json:"sellerId" db:"seller_id"`
	SellerName    string    `json:"sellerName" db:"seller_name"`
	SellerImg     string    `json:"sellerImg" db:"seller_img"`
	SellerIntro   string    `json:"sellerIntro" db:"seller_intro"`
	SellerOpenDay time.Time `json:"sellerOpenDay" db:"seller_open_day"`
	Address       string    `json:"address" db:"address"`
	Latitude      float64   `json:"latitude" db:"latitude"`
	Longitude     float64   `json:"longitude" db:"longitude"`
	Name          string    `json:"name" db:"name"`

	ProductIDs   []int64 `json:"productId" db:"-"`
	StarAvg      float64 `json:"starAVG" db:"star_avg"`
	ReviewNum    int64   `json:"reviewNum" db:"review_num"`
	OnSaleNum    int64   `json:"onSaleNum" db:"on_sale_num"`
	SoldOutNum   int64   `json:"soldOutNum" db:"sold_out_num"`
	LikeNum      int64   `json:"likeNum" db:"like_num"`
	FollowingNum int64   `json:"followingNum" db:"following_num"`
	FollowNum    int64   `json:"followNum" db:"follow_num"`
	OrderNum     int64   `json:"orderNum" db:"order_num"`
}

// MyInfo is the caller's own panel shown next to another user's shop.
type MyInfo struct {
	WriterID   int64   `json:"writerId"`
	WriterName string  `json:"writerName"`
	WriterImg  string  `json:"writerImg"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	RealName   string  `json:"realName"`
}

// NewMyInfo projects a detail view onto the caller panel.
func NewMyInfo(d UserDetail) MyInfo {
	return MyInfo{
		WriterID:   d.SellerID,
		WriterName: d.SellerName,
		WriterImg:  d.SellerImg,
		Address:    d.Address,
		Latitude:   d.Latitude,
		Longitude:  d.Longitude,
		RealName:   d.Name,
	}
}

// UserProfile is the combined result of viewing a user's shop.
type UserProfile struct {
	IsMyShop bool       `json:"isMyShop"`
	IsFollow bool       `json:"isFollow"`
	MyData   MyInfo     `json:"myData"`
	ShopData UserDetail `json:"shopData"`
}

// Signup holds the profile fields set once when signup completes.
type Signup struct {
	Nickname  string
	Address   string
	Latitude  float64
	Longitude float64
}

// ProfileUpdate holds optional profile changes; nil fields are left untouched.
type ProfileUpdate struct {
	Nickname    *string
	Address     *string
	Latitude    *float64
	Longitude   *float64
	Description *string
	UserImage   *string
}
