package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every resource handler mounted under /api.
type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Products   *ProductHandler
	Categories *CategoryHandler
	Likes      *LikeHandler
	Follows    *FollowHandler
	Reviews    *ReviewHandler
	Orders     *OrderHandler
}

// Register mounts the API routes. Routes that need a caller run behind auth.
func Register(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc) {
	api := e.Group("/api")

	api.GET("/health", Health)
	api.POST("/auth/kakao-login", h.Auth.KakaoLogin)

	users := api.Group("/users", auth)
	users.POST("/signup", h.Users.Signup)
	users.PUT("/me", h.Users.UpdateMe)
	users.GET("/:userId", h.Users.FindOne)

	api.GET("/categories", h.Categories.List)

	api.GET("/products", h.Products.List)
	api.POST("/products", h.Products.Create, auth)
	api.POST("/products/image", h.Products.UploadImages, auth)
	api.GET("/products/store/:storeId", h.Products.StoreProducts, auth)
	api.GET("/products/:productId", h.Products.Detail, auth)
	api.PUT("/products/:productId", h.Products.Update, auth)
	api.DELETE("/products/:productId", h.Products.Delete, auth)

	api.POST("/likes/:productId", h.Likes.Toggle, auth)
	api.GET("/likes/:userId", h.Likes.List)

	api.POST("/follow/:followeeId", h.Follows.Toggle, auth)
	api.GET("/follow/:userId", h.Follows.List)

	api.POST("/review", h.Reviews.Create, auth)
	api.GET("/review/:userId", h.Reviews.ListBySeller)
	api.DELETE("/review/:reviewId", h.Reviews.Delete, auth)

	api.GET("/orders", h.Orders.ListMine, auth)
	api.POST("/tosspayment/confirm", h.Orders.ConfirmPayment)
}
