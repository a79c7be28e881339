package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sumire/market/internal/domain"
	"github.com/sumire/market/internal/service"
)

type toggleResponse struct {
	Result domain.ToggleResult `json:"result"`
}

// LikeHandler handles like endpoints.
type LikeHandler struct {
	likes *service.LikeService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(likes *service.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// Toggle likes or unlikes a product for the caller.
func (h *LikeHandler) Toggle(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}

	result, err := h.likes.Toggle(c.Request().Context(), userID, productID)
	if err != nil {
		return err
	}

	message := "Success create like"
	if result == domain.ToggledOff {
		message = "Success delete like"
	}
	return OKMessage(c, message, toggleResponse{Result: result})
}

// List returns the products liked by a user.
func (h *LikeHandler) List(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	products, err := h.likes.ListLiked(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return OK(c, products)
}

// FollowHandler handles follow endpoints.
type FollowHandler struct {
	follows *service.FollowService
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(follows *service.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// Toggle follows or unfollows a user for the caller.
func (h *FollowHandler) Toggle(c echo.Context) error {
	followerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	followeeID, err := pathID(c, "followeeId")
	if err != nil {
		return err
	}

	result, err := h.follows.Toggle(c.Request().Context(), followerID, followeeID)
	if err != nil {
		return err
	}

	message := "Success follow"
	if result == domain.ToggledOff {
		message = "Success unfollow"
	}
	return OKMessage(c, message, toggleResponse{Result: result})
}

// List returns the users followed by a user.
func (h *FollowHandler) List(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	followees, err := h.follows.ListFollowees(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return OK(c, followees)
}
