package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/sumire/market/internal/domain"
	"github.com/sumire/market/internal/service"
)

const productImageFolder = "products"

// ProductHandler handles product endpoints.
type ProductHandler struct {
	products *service.ProductService
	uploads  *service.UploadService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products *service.ProductService, uploads *service.UploadService) *ProductHandler {
	return &ProductHandler{products: products, uploads: uploads}
}

type createProductRequest struct {
	Name        string               `json:"name" validate:"required,max=100"`
	Description string               `json:"description" validate:"max=2000"`
	Price       decimal.Decimal      `json:"price"`
	Location    string               `json:"location" validate:"required,max=50"`
	Latitude    float64              `json:"latitude" validate:"latitude"`
	Longitude   float64              `json:"longitude" validate:"longitude"`
	Status      domain.ProductStatus `json:"status" validate:"required,min=1,max=3"`
	CategoryID  int64                `json:"categoryId" validate:"required,gt=0"`
	ImageURLs   []string             `json:"imageUrl" validate:"max=5,dive,url,max=512"`
}

type updateProductRequest struct {
	Name        *string               `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string               `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal      `json:"price"`
	Location    *string               `json:"location" validate:"omitempty,min=1,max=50"`
	Latitude    *float64              `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64              `json:"longitude" validate:"omitempty,longitude"`
	Status      *domain.ProductStatus `json:"status" validate:"omitempty,min=1,max=3"`
	CategoryID  *int64                `json:"categoryId" validate:"omitempty,gt=0"`
	ImageURLs   []string              `json:"imageUrl" validate:"omitempty,max=5,dive,url,max=512"`
}

type productCreatedResponse struct {
	ProductID int64 `json:"productId"`
}

type uploadResponse struct {
	ImageURL []string `json:"image_url"`
}

// Create lists a product for the caller.
func (h *ProductHandler) Create(c echo.Context) error {
	sellerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.products.Create(c.Request().Context(), sellerID, domain.ProductDraft{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      req.Status,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return err
	}
	return OK(c, productCreatedResponse{ProductID: id})
}

// UploadImages stores up to five product images and returns their URLs.
func (h *ProductHandler) UploadImages(c echo.Context) error {
	files, err := readImages(c)
	if err != nil {
		return err
	}

	urls, err := h.uploads.UploadImages(c.Request().Context(), productImageFolder, files, domain.MaxProductImages)
	if err != nil {
		return err
	}
	return OK(c, uploadResponse{ImageURL: urls})
}

// List returns products filtered by category and sorted.
func (h *ProductHandler) List(c echo.Context) error {
	filter := domain.ProductListFilter{Sort: domain.ProductSort(c.QueryParam("sort"))}
	if raw := c.QueryParam("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return &domain.ValidationError{Field: "category", Message: "must be a positive integer"}
		}
		filter.CategoryID = id
	}

	products, err := h.products.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return OK(c, products)
}

// Detail returns a product page for the caller.
func (h *ProductHandler) Detail(c echo.Context) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}

	detail, err := h.products.Detail(c.Request().Context(), productID, callerID)
	if err != nil {
		return err
	}
	return OK(c, detail)
}

// StoreProducts returns the products of a seller.
func (h *ProductHandler) StoreProducts(c echo.Context) error {
	storeID, err := pathID(c, "storeId")
	if err != nil {
		return err
	}

	products, err := h.products.StoreProducts(c.Request().Context(), storeID)
	if err != nil {
		return err
	}
	return OK(c, products)
}

// Update changes a product owned by the caller.
func (h *ProductHandler) Update(c echo.Context) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.products.Update(c.Request().Context(), productID, callerID, domain.ProductPatch{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      req.Status,
		ImageURLs:   req.ImageURLs,
	}); err != nil {
		return err
	}
	return OK(c, nil)
}

// Delete removes a product owned by the caller.
func (h *ProductHandler) Delete(c echo.Context) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}

	if err := h.products.Delete(c.Request().Context(), productID, callerID); err != nil {
		return err
	}
	return OK(c, nil)
}
