package database

import (
    "context"
    "database/sql"

    "github.com/savpro/sav-tracker/internal/model"
    "github.com/savpro/sav-tracker/internal/repository"
)

// schema holds the DDL executed at startup.  CREATE TABLE IF NOT
// EXISTS keeps the bootstrap idempotent across restarts.
var schema = []string{
    `CREATE TABLE IF NOT EXISTS users (
        id            CHAR(36) PRIMARY KEY,
        email         VARCHAR(255) NOT NULL UNIQUE,
        password_hash VARCHAR(255) NOT NULL,
        name          VARCHAR(255) NOT NULL,
        role          VARCHAR(16)  NOT NULL,
        status        VARCHAR(16)  NOT NULL DEFAULT 'pending',
        created_at    DATETIME     NOT NULL
    )`,
    `CREATE TABLE IF NOT EXISTS clients (
        id            CHAR(36) PRIMARY KEY,
        name          VARCHAR(255) NOT NULL,
        email         VARCHAR(255) NOT NULL DEFAULT '',
        phone         VARCHAR(64)  NOT NULL DEFAULT '',
        address       VARCHAR(512) NOT NULL DEFAULT '',
        commercial_id CHAR(36) NOT NULL,
        CONSTRAINT fk_clients_commercial FOREIGN KEY (commercial_id) REFERENCES users(id)
    )`,
    `CREATE TABLE IF NOT EXISTS categories (
        id   CHAR(36) PRIMARY KEY,
        name VARCHAR(255) NOT NULL
    )`,
    `CREATE TABLE IF NOT EXISTS declarations (
        id                 CHAR(36) PRIMARY KEY,
        commercial_id      CHAR(36) NOT NULL,
        client_id          CHAR(36) NOT NULL,
        category_id        CHAR(36) NOT NULL,
        product_name       VARCHAR(255) NOT NULL,
        reference          VARCHAR(255) NOT NULL DEFAULT '',
        serial_number      VARCHAR(255) NOT NULL DEFAULT '',
        description        TEXT,
        photo_url          TEXT,
        status             VARCHAR(16) NOT NULL DEFAULT 'new',
        technician_id      CHAR(36) NULL,
        technician_remarks TEXT NULL,
        accessories        JSON NOT NULL,
        created_at         DATETIME NOT NULL,
        taken_at           DATETIME NULL,
        resolved_at        DATETIME NULL,
        CONSTRAINT fk_decl_commercial FOREIGN KEY (commercial_id) REFERENCES users(id),
        CONSTRAINT fk_decl_client     FOREIGN KEY (client_id)     REFERENCES clients(id),
        CONSTRAINT fk_decl_category   FOREIGN KEY (category_id)   REFERENCES categories(id),
        CONSTRAINT fk_decl_technician FOREIGN KEY (technician_id) REFERENCES users(id),
        INDEX idx_decl_commercial (commercial_id),
        INDEX idx_decl_client (client_id),
        INDEX idx_decl_status (status)
    )`,
}

// EnsureSchema creates the tables when missing and seeds the category
// catalog on an empty install.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
    for _, stmt := range schema {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return err
        }
    }
    return seedCategories(ctx, db)
}

func seedCategories(ctx context.Context, db *sql.DB) error {
    var n int
    if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return nil
    }
    for _, c := range repository.DefaultCategories {
        if _, err := db.ExecContext(ctx,
            "INSERT INTO categories (id, name) VALUES (?,?)", c.ID, c.Name); err != nil {
            return err
        }
    }
    return nil
}

// EnsureAdmin creates the seeded administrator account when no user
// with the given email exists.  Seeded accounts start active so the
// approval workflow always has an approver.
func EnsureAdmin(ctx context.Context, users repository.UserStore, email, passwordHash, name string) error {
    if email == "" || passwordHash == "" {
        return nil
    }
    if _, err := users.GetByEmail(ctx, email); err == nil {
        return nil
    } else if err != repository.ErrNotFound {
        return err
    }
    admin := model.User{
        Email:        email,
        PasswordHash: passwordHash,
        Name:         name,
        Role:         model.RoleAdmin,
        Status:       model.UserActive,
    }
    return users.Create(ctx, &admin)
}
