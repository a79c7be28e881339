package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/market/internal/domain"
)

// joinTable is a relation between an actor and a target whose rows are
// switched on and off. The table must carry a unique constraint on
// (actor, target).
type joinTable struct {
	deleteSQL string
	insertSQL string
	existsSQL string
}

func newJoinTable(table, actorColumn, targetColumn string) joinTable {
	return joinTable{
		deleteSQL: fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
			table, actorColumn, targetColumn),
		insertSQL: fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)
			ON CONFLICT (%s, %s) DO NOTHING`,
			table, actorColumn, targetColumn, actorColumn, targetColumn),
		existsSQL: fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
			table, actorColumn, targetColumn),
	}
}

// toggle deletes the (actor, target) row when present and inserts it
// otherwise. A concurrent insert of the same pair is absorbed by the
// unique constraint and still reports ToggledOn, since the row exists.
func (j joinTable) toggle(ctx context.Context, tx *sqlx.Tx, actorID, targetID int64) (domain.ToggleResult, error) {
	res, err := tx.ExecContext(ctx, j.deleteSQL, actorID, targetID)
	if err != nil {
		return "", fmt.Errorf("delete join row: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("delete join row: %w", err)
	}
	if deleted > 0 {
		return domain.ToggledOff, nil
	}

	if _, err := tx.ExecContext(ctx, j.insertSQL, actorID, targetID); err != nil {
		if isForeignKeyViolation(err) {
			return "", domain.Errorf(domain.ErrNotFound, "referenced row %d or %d does not exist", actorID, targetID)
		}
		return "", fmt.Errorf("insert join row: %w", err)
	}
	return domain.ToggledOn, nil
}

func (j joinTable) exists(ctx context.Context, q sqlx.QueryerContext, actorID, targetID int64) (bool, error) {
	var ok bool
	if err := sqlx.GetContext(ctx, q, &ok, j.existsSQL, actorID, targetID); err != nil {
		return false, fmt.Errorf("check join row: %w", err)
	}
	return ok, nil
}

// toggleInTx runs a toggle in its own transaction.
func (j joinTable) toggleInTx(ctx context.Context, db *sqlx.DB, actorID, targetID int64) (domain.ToggleResult, error) {
	var result domain.ToggleResult
	err := withTx(ctx, db, func(tx *sqlx.Tx) error {
		var err error
		result, err = j.toggle(ctx, tx, actorID, targetID)
		return err
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// imagesByProduct loads image URLs for the given products, keyed by product id.
func imagesByProduct(ctx context.Context, q sqlx.ExtContext, productIDs []int64) (map[int64][]string, error) {
	images := make(map[int64][]string, len(productIDs))
	if len(productIDs) == 0 {
		return images, nil
	}

	query, args, err := sqlx.In(
		`SELECT product_id, image_url FROM product_images WHERE product_id IN (?) ORDER BY id`,
		productIDs)
	if err != nil {
		return nil, fmt.Errorf("build image query: %w", err)
	}

	var rows []domain.ProductImage
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select product images: %w", err)
	}
	for _, row := range rows {
		images[row.ProductID] = append(images[row.ProductID], row.ImageURL)
	}
	return images, nil
}

func imagesOrEmpty(images map[int64][]string, productID int64) []string {
	if urls, ok := images[productID]; ok {
		return urls
	}
	return []string{}
}
