package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/market/internal/domain"
)

// ProductRepository handles product and product image data access.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product and its images in one transaction.
func (r *ProductRepository) Create(ctx context.Context, sellerID int64, f domain.ProductDraft) (int64, error) {
	var id int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &id,
			`INSERT INTO products (user_id, category_id, name, description, price, location, latitude, longitude, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id`,
			sellerID, f.CategoryID, f.Name, f.Description, f.Price, f.Location, f.Latitude, f.Longitude, f.Status)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.Errorf(domain.ErrNotFound, "category %d or seller %d not found", f.CategoryID, sellerID)
			}
			if isDataException(err) {
				return invalidValue("product field")
			}
			return fmt.Errorf("insert product: %w", err)
		}
		return insertImages(ctx, tx, id, f.ImageURLs)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update applies a patch and replaces images in one transaction.
func (r *ProductRepository) Update(ctx context.Context, id int64, p domain.ProductPatch) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET
			   category_id = COALESCE($2, category_id),
			   name        = COALESCE($3, name),
			   description = COALESCE($4, description),
			   price       = COALESCE($5, price),
			   location    = COALESCE($6, location),
			   latitude    = COALESCE($7, latitude),
			   longitude   = COALESCE($8, longitude),
			   status      = COALESCE($9, status),
			   updated_at  = NOW()
			 WHERE id = $1`,
			id, p.CategoryID, p.Name, p.Description, p.Price, p.Location, p.Latitude, p.Longitude, p.Status)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.Errorf(domain.ErrNotFound, "category %d not found", derefInt64(p.CategoryID))
			}
			if isDataException(err) {
				return invalidValue("product field")
			}
			return fmt.Errorf("update product %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update product %d: %w", id, err)
		}
		if n == 0 {
			return domain.Errorf(domain.ErrNotFound, "product %d not found", id)
		}

		if p.ImageURLs == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, id); err != nil {
			return fmt.Errorf("delete images of product %d: %w", id, err)
		}
		return insertImages(ctx, tx, id, p.ImageURLs)
	})
}

func insertImages(ctx context.Context, tx *sqlx.Tx, productID int64, urls []string) error {
	for _, url := range urls {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (product_id, image_url) VALUES ($1, $2)`,
			productID, url); err != nil {
			if isDataException(err) {
				return invalidValue("image url")
			}
			return fmt.Errorf("insert image of product %d: %w", productID, err)
		}
	}
	return nil
}

// Delete removes a product. Products with orders cannot be deleted.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Errorf(domain.ErrConflict, "product %d has orders and cannot be deleted", id)
		}
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if n == 0 {
		return domain.Errorf(domain.ErrNotFound, "product %d not found", id)
	}
	return nil
}

// FindByID retrieves a product row.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p,
		`SELECT id, user_id, category_id, name, description, price, location, latitude, longitude,
		        status, created_at, updated_at
		 FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errorf(domain.ErrNotFound, "product %d not found", id)
		}
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &p, nil
}

// Exists reports whether a product row exists.
func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.db.GetContext(ctx, &ok, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("check product %d: %w", id, err)
	}
	return ok, nil
}

// FindView retrieves a product with its category, seller and images.
func (r *ProductRepository) FindView(ctx context.Context, id int64) (*domain.ProductView, error) {
	var v domain.ProductView
	err := r.db.GetContext(ctx, &v,
		`SELECT p.id, p.user_id, p.category_id, p.name, p.description, p.price, p.location,
		        p.latitude, p.longitude, p.status, p.created_at, p.updated_at,
		        c.name AS category_name, u.nickname AS seller_nickname, u.user_image AS seller_image
		 FROM products p
		 JOIN categories c ON c.id = p.category_id
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.Errorf(domain.ErrNotFound, "product %d not found", id)
		}
		return nil, fmt.Errorf("find product view %d: %w", id, err)
	}

	images, err := imagesByProduct(ctx, r.db, []int64{id})
	if err != nil {
		return nil, err
	}
	v.Images = imagesOrEmpty(images, id)
	return &v, nil
}

const productSummarySelect = `SELECT p.id, p.user_id, p.name, p.price, p.location, p.latitude, p.longitude,
	       p.status, p.category_id, c.name AS category_name, p.created_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

// List returns products, optionally filtered by category, in the requested order.
func (r *ProductRepository) List(ctx context.Context, filter domain.ProductListFilter) ([]domain.ProductSummary, error) {
	query := productSummarySelect
	var args []any
	if filter.CategoryID > 0 {
		query += ` WHERE p.category_id = $1`
		args = append(args, filter.CategoryID)
	}

	switch filter.Sort {
	case domain.ProductSortPriceHigh:
		query += ` ORDER BY p.price DESC, p.id DESC`
	case domain.ProductSortPriceLow:
		query += ` ORDER BY p.price ASC, p.id DESC`
	default:
		query += ` ORDER BY p.created_at DESC, p.id DESC`
	}

	return r.selectSummaries(ctx, query, args...)
}

// ListBySeller returns a seller's products, newest first.
func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID int64) ([]domain.ProductSummary, error) {
	return r.selectSummaries(ctx,
		productSummarySelect+` WHERE p.user_id = $1 ORDER BY p.created_at DESC, p.id DESC`, sellerID)
}

func (r *ProductRepository) selectSummaries(ctx context.Context, query string, args ...any) ([]domain.ProductSummary, error) {
	products := []domain.ProductSummary{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	images, err := imagesByProduct(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Images = imagesOrEmpty(images, products[i].ID)
	}
	return products, nil
}

// CountBySeller counts the products listed by a seller.
func (r *ProductRepository) CountBySeller(ctx context.Context, sellerID int64) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products WHERE user_id = $1`, sellerID); err != nil {
		return 0, fmt.Errorf("count products of seller %d: %w", sellerID, err)
	}
	return n, nil
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
