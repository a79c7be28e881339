package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sumire/market/internal/service"
)

// ReviewHandler handles review endpoints.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type createReviewRequest struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	Contents  string `json:"contents" validate:"required,max=1000"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
}

// Create records a review of a product by the caller.
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviews.Create(c.Request().Context(), userID, req.ProductID, req.Contents, req.Rating)
	if err != nil {
		return err
	}
	return OK(c, review)
}

// ListBySeller returns the reviews received by a seller.
func (h *ReviewHandler) ListBySeller(c echo.Context) error {
	sellerID, err := pathID(c, "userId")
	if err != nil {
		return err
	}

	reviews, err := h.reviews.ListBySeller(c.Request().Context(), sellerID)
	if err != nil {
		return err
	}
	return OK(c, reviews)
}

// Delete removes a review written by the caller.
func (h *ReviewHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	reviewID, err := pathID(c, "reviewId")
	if err != nil {
		return err
	}

	if err := h.reviews.Delete(c.Request().Context(), userID, reviewID); err != nil {
		return err
	}
	return OK(c, nil)
}
