package repository

import (
    "context"
    "time"

    "github.com/savpro/sav-tracker/internal/model"
)

// UserStore provides access to user accounts.  Create assigns the id
// and created timestamp and returns ErrEmailExists on a duplicate
// address; lookups return ErrNotFound when no row matches.
type UserStore interface {
    Create(ctx context.Context, u *model.User) error
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByID(ctx context.Context, id string) (model.User, error)
    List(ctx context.Context) ([]model.User, error)
    ListByStatus(ctx context.Context, status string) ([]model.User, error)
    UpdateStatus(ctx context.Context, id, status string) (model.User, error)
    UpdateRole(ctx context.Context, id, role string) (model.User, error)
}

// ClientStore provides access to the client registry.  Delete returns
// ErrClientInUse while declarations still reference the client.
type ClientStore interface {
    Create(ctx context.Context, c *model.Client) error
    GetByID(ctx context.Context, id string) (model.Client, error)
    ListByCommercial(ctx context.Context, commercialID string) ([]model.Client, error)
    ListAll(ctx context.Context) ([]model.Client, error)
    Update(ctx context.Context, c *model.Client) error
    Delete(ctx context.Context, id string) error
}

// CategoryStore exposes the read-only category catalog.
type CategoryStore interface {
    List(ctx context.Context) ([]model.Category, error)
    GetByID(ctx context.Context, id string) (model.Category, error)
}

// DeclarationStore provides access to the declaration ledger.  Reads
// return declarations enriched with joined display names.  Take and
// Resolve are compare-and-set transitions: the status precondition is
// applied atomically at the storage layer so that exactly one of any
// number of concurrent callers succeeds; losers receive the lifecycle
// error describing why the state no longer matched.  UpdateCore is
// likewise guarded on status=new.
type DeclarationStore interface {
    Create(ctx context.Context, d *model.Declaration) error
    GetByID(ctx context.Context, id string) (model.Declaration, error)
    ListByCommercial(ctx context.Context, commercialID string) ([]model.Declaration, error)
    ListAll(ctx context.Context) ([]model.Declaration, error)
    UpdateCore(ctx context.Context, d *model.Declaration) error
    Take(ctx context.Context, id, technicianID string, now time.Time) (model.Declaration, error)
    Resolve(ctx context.Context, id, technicianID string, remarks *string, now time.Time) (model.Declaration, error)
    SetRemarks(ctx context.Context, id, technicianID, remarks string) (model.Declaration, error)
    Delete(ctx context.Context, id string) error
}

// Store bundles the four entity stores behind one value so wiring code
// and handlers depend on a single type.  The two implementations
// (MySQL and in-memory) are selected at process start and never mixed.
type Store struct {
    Users        UserStore
    Clients      ClientStore
    Categories   CategoryStore
    Declarations DeclarationStore
}
