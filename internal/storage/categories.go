package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Leobor91/Finanzas-Personales/internal/core"
)

// AddCategory inserts a category and returns its id. Names are unique;
// inserting an existing name returns the existing id instead of failing.
func (r *SQLiteRepository) AddCategory(ctx context.Context, typ core.MovementType, name, icon string) (int64, error) {
	var iconVal sql.NullString
	if icon != "" {
		iconVal = sql.NullString{String: icon, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (type, name, icon) VALUES (?, ?, ?)`,
		string(typ), name, iconVal)
	if err != nil {
		var id int64
		lookupErr := r.db.QueryRowContext(ctx,
			`SELECT id FROM categories WHERE name = ? AND type = ?`, name, string(typ)).Scan(&id)
		if lookupErr != nil {
			return 0, fmt.Errorf("insert category: %w", err)
		}
		slog.InfoContext(ctx, "Category already exists", "name", name, "id", id)
		return id, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category id: %w", err)
	}
	return id, nil
}

// CategoriesByType lists the categories of one movement type, by name.
func (r *SQLiteRepository) CategoriesByType(ctx context.Context, typ core.MovementType) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, name, icon FROM categories WHERE type = ? ORDER BY name`, string(typ))
	if err != nil {
		return nil, fmt.Errorf("categories by type: %w", err)
	}
	defer rows.Close()
	return collectCategories(rows)
}

// ListAllCategories lists every category ordered by type then name.
func (r *SQLiteRepository) ListAllCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, name, icon FROM categories ORDER BY type, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	return collectCategories(rows)
}

// UpdateCategory renames a category (and replaces its icon when non-empty).
// Returns false when no row matched the id.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, id int64, name, icon string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return false, fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update category rows: %w", err)
	}
	if n > 0 && icon != "" {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE categories SET icon = ? WHERE id = ?`, icon, id); err != nil {
			return false, fmt.Errorf("update category icon: %w", err)
		}
	}
	return n > 0, nil
}

// DeleteCategory removes a category by id. Returns false when absent.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category rows: %w", err)
	}
	return n > 0, nil
}

func collectCategories(rows *sql.Rows) ([]core.Category, error) {
	var result []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		var icon sql.NullString
		if err := rows.Scan(&c.ID, &typ, &c.Name, &icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.MovementType(typ)
		c.Icon = icon.String
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return result, nil
}
