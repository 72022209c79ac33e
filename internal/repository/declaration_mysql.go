package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "time"

    "github.com/google/uuid"

    "github.com/savpro/sav-tracker/internal/lifecycle"
    "github.com/savpro/sav-tracker/internal/model"
)

// DeclarationRepo is the MySQL-backed DeclarationStore.  Status
// transitions are expressed as conditional UPDATEs keyed on the
// expected current status, so a claim or resolve that lost a race
// affects zero rows instead of overwriting the winner.  The accessory
// checklist is stored as a JSON document on the row and written
// atomically with the parent.
type DeclarationRepo struct{ DB *sql.DB }

func NewDeclarationRepo(db *sql.DB) *DeclarationRepo { return &DeclarationRepo{DB: db} }

const declarationSelect = `SELECT d.id, d.commercial_id, d.client_id, d.category_id,
       d.product_name, d.reference, d.serial_number, d.description, d.photo_url,
       d.status, d.technician_id, d.technician_remarks, d.accessories,
       d.created_at, d.taken_at, d.resolved_at,
       c.name, cat.name, u.name, t.name
FROM declarations d
JOIN clients c ON c.id = d.client_id
JOIN categories cat ON cat.id = d.category_id
JOIN users u ON u.id = d.commercial_id
LEFT JOIN users t ON t.id = d.technician_id`

// Create inserts the declaration with status new, assigning a UUID and
// creation timestamp.  The caller's input status is ignored.
func (r *DeclarationRepo) Create(ctx context.Context, d *model.Declaration) error {
    d.ID = uuid.NewString()
    d.Status = model.StatusNew
    d.TechnicianID = nil
    d.TechnicianRemarks = nil
    d.TakenAt = nil
    d.ResolvedAt = nil
    d.CreatedAt = time.Now().UTC()
    acc, err := marshalAccessories(d.Accessories)
    if err != nil {
        return err
    }
    _, err = r.DB.ExecContext(ctx,
        `INSERT INTO declarations (id, commercial_id, client_id, category_id, product_name,
            reference, serial_number, description, photo_url, status, accessories, created_at)
         VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
        d.ID, d.CommercialID, d.ClientID, d.CategoryID, d.ProductName,
        d.Reference, d.SerialNumber, d.Description, d.PhotoURL, d.Status, acc, d.CreatedAt)
    if err != nil {
        return err
    }
    // Read back for the joined display names.
    got, err := r.GetByID(ctx, d.ID)
    if err != nil {
        return err
    }
    *d = got
    return nil
}

// GetByID fetches one declaration with joined display names.
func (r *DeclarationRepo) GetByID(ctx context.Context, id string) (model.Declaration, error) {
    row := r.DB.QueryRowContext(ctx, declarationSelect+" WHERE d.id=? LIMIT 1", id)
    d, err := scanDeclaration(row)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Declaration{}, ErrNotFound
    }
    return d, err
}

// ListByCommercial returns the declarations created by one commercial,
// newest first.
func (r *DeclarationRepo) ListByCommercial(ctx context.Context, commercialID string) ([]model.Declaration, error) {
    return r.query(ctx,
        declarationSelect+" WHERE d.commercial_id=? ORDER BY d.created_at DESC", commercialID)
}

// ListAll returns every declaration, newest first.  Technician and
// admin visibility.
func (r *DeclarationRepo) ListAll(ctx context.Context) ([]model.Declaration, error) {
    return r.query(ctx, declarationSelect+" ORDER BY d.created_at DESC")
}

// UpdateCore overwrites the commercial-editable fields, guarded on
// status=new so an edit cannot race a technician's take.
func (r *DeclarationRepo) UpdateCore(ctx context.Context, d *model.Declaration) error {
    acc, err := marshalAccessories(d.Accessories)
    if err != nil {
        return err
    }
    res, err := r.DB.ExecContext(ctx,
        `UPDATE declarations SET category_id=?, client_id=?, product_name=?, reference=?,
            serial_number=?, description=?, photo_url=?, accessories=?
         WHERE id=? AND status=?`,
        d.CategoryID, d.ClientID, d.ProductName, d.Reference,
        d.SerialNumber, d.Description, d.PhotoURL, acc,
        d.ID, model.StatusNew)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return r.classify(ctx, d.ID, func(cur *model.Declaration) error {
            return lifecycle.EditCore(cur, *d)
        })
    }
    got, err := r.GetByID(ctx, d.ID)
    if err != nil {
        return err
    }
    *d = got
    return nil
}

// Take claims a new declaration for the technician.  The compare-and-
// set on status=new guarantees exactly one concurrent caller wins.
func (r *DeclarationRepo) Take(ctx context.Context, id, technicianID string, now time.Time) (model.Declaration, error) {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE declarations SET status=?, technician_id=?, taken_at=? WHERE id=? AND status=?",
        model.StatusInProgress, technicianID, now.UTC(), id, model.StatusNew)
    if err != nil {
        return model.Declaration{}, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return model.Declaration{}, r.classify(ctx, id, func(cur *model.Declaration) error {
            return lifecycle.Take(cur, technicianID, now)
        })
    }
    return r.GetByID(ctx, id)
}

// Resolve closes an in_progress declaration, symmetric with Take: the
// compare-and-set on status plus assignee prevents a double resolve.
// Non-nil remarks overwrite the stored technician remarks.
func (r *DeclarationRepo) Resolve(ctx context.Context, id, technicianID string, remarks *string, now time.Time) (model.Declaration, error) {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE declarations SET status=?, resolved_at=?, technician_remarks=COALESCE(?, technician_remarks)
         WHERE id=? AND status=? AND technician_id=?`,
        model.StatusResolved, now.UTC(), remarks, id, model.StatusInProgress, technicianID)
    if err != nil {
        return model.Declaration{}, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return model.Declaration{}, r.classify(ctx, id, func(cur *model.Declaration) error {
            return lifecycle.Resolve(cur, technicianID, remarks, now)
        })
    }
    return r.GetByID(ctx, id)
}

// SetRemarks overwrites the technician remarks while the declaration
// is in_progress and assigned to the caller.
func (r *DeclarationRepo) SetRemarks(ctx context.Context, id, technicianID, remarks string) (model.Declaration, error) {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE declarations SET technician_remarks=? WHERE id=? AND status=? AND technician_id=?",
        remarks, id, model.StatusInProgress, technicianID)
    if err != nil {
        return model.Declaration{}, err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return model.Declaration{}, r.classify(ctx, id, func(cur *model.Declaration) error {
            return lifecycle.SetRemarks(cur, technicianID, remarks)
        })
    }
    return r.GetByID(ctx, id)
}

// Delete removes the declaration.
func (r *DeclarationRepo) Delete(ctx context.Context, id string) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM declarations WHERE id=?", id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrNotFound
    }
    return nil
}

// classify re-reads a row after a zero-row conditional update and runs
// the in-memory transition on the copy to recover the precise
// lifecycle error.  A missing row maps to ErrNotFound.
func (r *DeclarationRepo) classify(ctx context.Context, id string, try func(*model.Declaration) error) error {
    cur, err := r.GetByID(ctx, id)
    if err != nil {
        return err
    }
    if err := try(&cur); err != nil {
        return err
    }
    // The transition would succeed now; the state changed back under
    // us between the UPDATE and the re-read.  Treat as a conflict.
    return ErrConflict
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanDeclaration(row rowScanner) (model.Declaration, error) {
    var (
        d          model.Declaration
        photoURL   sql.NullString
        techID     sql.NullString
        remarks    sql.NullString
        acc        []byte
        takenAt    sql.NullTime
        resolvedAt sql.NullTime
        techName   sql.NullString
    )
    err := row.Scan(&d.ID, &d.CommercialID, &d.ClientID, &d.CategoryID,
        &d.ProductName, &d.Reference, &d.SerialNumber, &d.Description, &photoURL,
        &d.Status, &techID, &remarks, &acc,
        &d.CreatedAt, &takenAt, &resolvedAt,
        &d.ClientName, &d.CategoryName, &d.CommercialName, &techName)
    if err != nil {
        return model.Declaration{}, err
    }
    if photoURL.Valid {
        d.PhotoURL = &photoURL.String
    }
    if techID.Valid {
        d.TechnicianID = &techID.String
    }
    if remarks.Valid {
        d.TechnicianRemarks = &remarks.String
    }
    if takenAt.Valid {
        t := takenAt.Time
        d.TakenAt = &t
    }
    if resolvedAt.Valid {
        t := resolvedAt.Time
        d.ResolvedAt = &t
    }
    if techName.Valid {
        d.TechnicianName = &techName.String
    }
    d.Accessories = []model.Accessory{}
    if len(acc) > 0 {
        if err := json.Unmarshal(acc, &d.Accessories); err != nil {
            return model.Declaration{}, err
        }
    }
    return d, nil
}

func (r *DeclarationRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.Declaration, error) {
    rows, err := r.DB.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Declaration{}
    for rows.Next() {
        d, err := scanDeclaration(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

func marshalAccessories(items []model.Accessory) ([]byte, error) {
    if items == nil {
        items = []model.Accessory{}
    }
    return json.Marshal(items)
}
