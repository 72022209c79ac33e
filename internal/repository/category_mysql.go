package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/savpro/sav-tracker/internal/model"
)

// CategoryRepo is the MySQL-backed CategoryStore over the read-only
// 'categories' table.  Rows are seeded at startup and never mutated
// through the API.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// List returns the full catalog ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
    rows, err := r.DB.QueryContext(ctx, "SELECT id,name FROM categories ORDER BY name")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Category{}
    for rows.Next() {
        var c model.Category
        if err := rows.Scan(&c.ID, &c.Name); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

// GetByID fetches a category by id.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (model.Category, error) {
    var c model.Category
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,name FROM categories WHERE id=? LIMIT 1", id).Scan(&c.ID, &c.Name)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Category{}, ErrNotFound
    }
    return c, err
}
