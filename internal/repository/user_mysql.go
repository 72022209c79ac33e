package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/savpro/sav-tracker/internal/model"
)

// UserRepo is the MySQL-backed UserStore over the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,name,role,status,created_at"

// Create inserts the user, assigning a UUID and creation timestamp.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
    u.ID = uuid.NewString()
    u.Email = strings.ToLower(strings.TrimSpace(u.Email))
    u.CreatedAt = time.Now().UTC()
    _, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (id, email, password_hash, name, role, status, created_at) VALUES (?,?,?,?,?,?,?)",
        u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Status, u.CreatedAt)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrEmailExists
        }
        return err
    }
    return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    return r.scanOne(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
    return r.scanOne(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns all users, newest first.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
    return r.query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
}

// ListByStatus returns users filtered by approval status, newest first.
func (r *UserRepo) ListByStatus(ctx context.Context, status string) ([]model.User, error) {
    return r.query(ctx,
        "SELECT "+userColumns+" FROM users WHERE status=? ORDER BY created_at DESC", status)
}

// UpdateStatus sets the approval status and returns the updated user.
func (r *UserRepo) UpdateStatus(ctx context.Context, id, status string) (model.User, error) {
    if _, err := r.DB.ExecContext(ctx,
        "UPDATE users SET status=? WHERE id=?", status, id); err != nil {
        return model.User{}, err
    }
    return r.GetByID(ctx, id)
}

// UpdateRole sets the role and returns the updated user.
func (r *UserRepo) UpdateRole(ctx context.Context, id, role string) (model.User, error) {
    if _, err := r.DB.ExecContext(ctx,
        "UPDATE users SET role=? WHERE id=?", role, id); err != nil {
        return model.User{}, err
    }
    return r.GetByID(ctx, id)
}

func (r *UserRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.User, error) {
    rows, err := r.DB.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.User{}
    for rows.Next() {
        var u model.User
        if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status, &u.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, u)
    }
    return out, rows.Err()
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
    var u model.User
    err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status, &u.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.User{}, ErrNotFound
    }
    return u, err
}
