package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/google/uuid"

    "github.com/savpro/sav-tracker/internal/model"
)

// ClientRepo is the MySQL-backed ClientStore over the 'clients' table.
type ClientRepo struct{ DB *sql.DB }

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{DB: db} }

const clientColumns = "id,name,email,phone,address,commercial_id"

// Create inserts the client, assigning a UUID.
func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
    c.ID = uuid.NewString()
    _, err := r.DB.ExecContext(ctx,
        "INSERT INTO clients (id, name, email, phone, address, commercial_id) VALUES (?,?,?,?,?,?)",
        c.ID, c.Name, c.Email, c.Phone, c.Address, c.CommercialID)
    return err
}

// GetByID fetches a client by id.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (model.Client, error) {
    var c model.Client
    err := r.DB.QueryRowContext(ctx,
        "SELECT "+clientColumns+" FROM clients WHERE id=? LIMIT 1", id).
        Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CommercialID)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Client{}, ErrNotFound
    }
    return c, err
}

// ListByCommercial returns the clients owned by one commercial,
// ordered by name.
func (r *ClientRepo) ListByCommercial(ctx context.Context, commercialID string) ([]model.Client, error) {
    return r.query(ctx,
        "SELECT "+clientColumns+" FROM clients WHERE commercial_id=? ORDER BY name", commercialID)
}

// ListAll returns every client, ordered by name.  Admin-only path.
func (r *ClientRepo) ListAll(ctx context.Context) ([]model.Client, error) {
    return r.query(ctx, "SELECT "+clientColumns+" FROM clients ORDER BY name")
}

// Update overwrites the client's contact fields.  Ownership never
// changes through this path.
func (r *ClientRepo) Update(ctx context.Context, c *model.Client) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE clients SET name=?, email=?, phone=?, address=? WHERE id=?",
        c.Name, c.Email, c.Phone, c.Address, c.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    return nil
}

// Delete removes a client unless declarations still reference it.  The
// reference check and the delete run in one transaction so a
// concurrent declaration insert cannot slip between them.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()

    var n int
    if err := tx.QueryRowContext(ctx,
        "SELECT COUNT(*) FROM declarations WHERE client_id=?", id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrClientInUse
    }
    res, err := tx.ExecContext(ctx, "DELETE FROM clients WHERE id=?", id)
    if err != nil {
        return err
    }
    if affected, _ := res.RowsAffected(); affected == 0 {
        return ErrNotFound
    }
    return tx.Commit()
}

func (r *ClientRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.Client, error) {
    rows, err := r.DB.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Client{}
    for rows.Next() {
        var c model.Client
        if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CommercialID); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}
