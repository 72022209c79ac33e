package repository

import (
    "context"
    "sort"
    "strings"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/savpro/sav-tracker/internal/lifecycle"
    "github.com/savpro/sav-tracker/internal/model"
)

// Memory is the in-process store used when no database is configured.
// All state lives in maps guarded by one RWMutex and is lost on
// restart; acceptable only for demo single-instance deployment.  The
// take/resolve compare-and-set is provided by running the lifecycle
// transition under the write lock.
type Memory struct {
    mu           sync.RWMutex
    users        map[string]model.User
    clients      map[string]model.Client
    categories   []model.Category
    declarations map[string]model.Declaration
}

// DefaultCategories is the seeded product catalog.
var DefaultCategories = []model.Category{
    {ID: "1", Name: "Appliances"},
    {ID: "2", Name: "Computing"},
    {ID: "3", Name: "Phones"},
    {ID: "4", Name: "Audio/Video"},
    {ID: "5", Name: "Air conditioning"},
    {ID: "6", Name: "Plumbing"},
    {ID: "7", Name: "Other"},
}

// NewMemory returns an empty in-memory store with the default category
// catalog seeded.
func NewMemory() *Memory {
    return &Memory{
        users:        make(map[string]model.User),
        clients:      make(map[string]model.Client),
        categories:   append([]model.Category(nil), DefaultCategories...),
        declarations: make(map[string]model.Declaration),
    }
}

// Stores exposes the memory store behind the shared Store interfaces.
func (m *Memory) Stores() Store {
    return Store{
        Users:        &memUsers{m},
        Clients:      &memClients{m},
        Categories:   &memCategories{m},
        Declarations: &memDeclarations{m},
    }
}

// ----- users -----

type memUsers struct{ m *Memory }

func (s *memUsers) Create(_ context.Context, u *model.User) error {
    s.m.mu.Lock()
    defer s.m.mu.Unlock()
    u.Email = strings.ToLower(strings.TrimSpace(u.Email))
    for _, existing := range s.m.users {
        if existing.Email == u.Email {
            return ErrEmailExists
        }
    }
    u.ID = uuid.NewString()
    u.CreatedAt = time.Now().UTC()
    s.m.users[u.ID] = *u
    return nil
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    for _, u := range s.m.users {
        if u.Email == email {
            return u, nil
        }
    }
    return model.User{}, ErrNotFound
}

func (s *memUsers) GetByID(_ context.Context, id string) (model.User, error) {
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    u, ok := s.m.users[id]
    if !ok {
        return model.User{}, ErrNotFound
    }
    return u, nil
}

func (s *memUsers) List(_ context.Context) ([]model.User, error) {
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    out := make([]model.User, 0, len(s.m.users))
    for _, u := range s.m.users {
        out = append(out, u)
    }
    sortUsers(out)
    return out, nil
}

func (s *memUsers) ListByStatus(_ context.Context, status string) ([]model.User, error) {
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    out := []model.User{}
    for _, u := range s.m.users {
        if u.Status == status {
            out = append(out, u)
        }
    }
    sortUsers(out)
    return out, nil
}

func (s *memUsers) UpdateStatus(_ context.Context, id, status string) (model.User, error) {
    s.m.mu.Lock()
    defer s.m.mu.Unlock()
    u, ok := s.m.users[id]
    if !ok {
        return model.User{}, ErrNotFound
    }
    u.Status = status
    s.m.users[id] = u
    return u, nil
}

func (s *memUsers) UpdateRole(_ context.Context, id, role string) (model.User, error) {
    s.m.mu.Lock()
    defer s.m.mu.Unlock()
    u, ok := s.m.users[id]
    if !ok {
        return model.User{}, ErrNotFound
    }
    u.Role = role
    s.m.users[id] = u
    return u, nil
}

func sortUsers(users []model.User) {
    sort.Slice(users, func(i, j int) bool {
        return users[i].CreatedAt.After(users[j].CreatedAt)
    })
}

// ----- clients -----

type memClients struct{ m *Memory }

func (s *memClients) Create(_ context.Context, c *model.Client) error {
    s.m.mu.Lock()
    defer s.m.mu.Unlock()
    c.ID = uuid.NewString()
    s.m.clients[c.ID] = *c
    return nil
}

func (s *memClients) GetByID(_ context.Context, id string) (model.Client, error) {
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    c, ok := s.m.clients[id]
    if !ok {
        return model.Client{}, ErrNotFound
    }
    return c, nil
}

func (s *memClients) ListByCommercial(_ context.Context, commercialID string) ([]model.Client, error) {
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    out := []model.Client{}
    for _, c := range s.m.clients {
        if c.CommercialID == commercialID {
            out = append(out, c)
        }
    }
    sortClients(out)
    return out, nil
}

func (s *memClients) ListAll(_ context.Context) ([]model.Client, error) {
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    out := make([]model.Client, 0, len(s.m.clients))
    for _, c := range s.m.clients {
        out = append(out, c)
    }
    sortClients(out)
    return out, nil
}

func (s *memClients) Update(_ context.Context, c *model.Client) error {
    s.m.mu.Lock()
    defer s.m.mu.Unlock()
    cur, ok := s.m.clients[c.ID]
    if !ok {
        return ErrNotFound
    }
    cur.Name = c.Name
    cur.Email = c.Email
    cur.Phone = c.Phone
    cur.Address = c.Address
    s.m.clients[c.ID] = cur
    *c = cur
    return nil
}

func (s *memClients) Delete(_ context.Context, id string) error {
    s.m.mu.Lock()
    defer s.m.mu.Unlock()
    if _, ok := s.m.clients[id]; !ok {
        return ErrNotFound
    }
    for _, d := range s.m.declarations {
        if d.ClientID == id {
            return ErrClientInUse
        }
    }
    delete(s.m.clients, id)
    return nil
}

func sortClients(clients []model.Client) {
    sort.Slice(clients, func(i, j int) bool {
        return clients[i].Name < clients[j].Name
    })
}

// ----- categories -----

type memCategories struct{ m *Memory }

func (s *memCategories) List(_ context.Context) ([]model.Category, error) {
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    out := append([]model.Category(nil), s.m.categories...)
    sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
    return out, nil
}

func (s *memCategories) GetByID(_ context.Context, id string) (model.Category, error) {
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    for _, c := range s.m.categories {
        if c.ID == id {
            return c, nil
        }
    }
    return model.Category{}, ErrNotFound
}

// ----- declarations -----

type memDeclarations struct{ m *Memory }

func (s *memDeclarations) Create(_ context.Context, d *model.Declaration) error {
    s.m.mu.Lock()
    defer s.m.mu.Unlock()
    d.ID = uuid.NewString()
    d.Status = model.StatusNew
    d.TechnicianID = nil
    d.TechnicianRemarks = nil
    d.TakenAt = nil
    d.ResolvedAt = nil
    d.CreatedAt = time.Now().UTC()
    if d.Accessories == nil {
        d.Accessories = []model.Accessory{}
    }
    s.m.declarations[d.ID] = stripNames(*d)
    *d = s.m.enrich(s.m.declarations[d.ID])
    return nil
}

func (s *memDeclarations) GetByID(_ context.Context, id string) (model.Declaration, error) {
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    d, ok := s.m.declarations[id]
    if !ok {
        return model.Declaration{}, ErrNotFound
    }
    return s.m.enrich(d), nil
}

func (s *memDeclarations) ListByCommercial(_ context.Context, commercialID string) ([]model.Declaration, error) {
    return s.list(func(d model.Declaration) bool { return d.CommercialID == commercialID })
}

func (s *memDeclarations) ListAll(_ context.Context) ([]model.Declaration, error) {
    return s.list(func(model.Declaration) bool { return true })
}

func (s *memDeclarations) UpdateCore(_ context.Context, d *model.Declaration) error {
    s.m.mu.Lock()
    defer s.m.mu.Unlock()
    cur, ok := s.m.declarations[d.ID]
    if !ok {
        return ErrNotFound
    }
    if err := lifecycle.EditCore(&cur, *d); err != nil {
        return err
    }
    s.m.declarations[d.ID] = cur
    *d = s.m.enrich(cur)
    return nil
}

func (s *memDeclarations) Take(_ context.Context, id, technicianID string, now time.Time) (model.Declaration, error) {
    return s.transition(id, func(cur *model.Declaration) error {
        return lifecycle.Take(cur, technicianID, now)
    })
}

func (s *memDeclarations) Resolve(_ context.Context, id, technicianID string, remarks *string, now time.Time) (model.Declaration, error) {
    return s.transition(id, func(cur *model.Declaration) error {
        return lifecycle.Resolve(cur, technicianID, remarks, now)
    })
}

func (s *memDeclarations) SetRemarks(_ context.Context, id, technicianID, remarks string) (model.Declaration, error) {
    return s.transition(id, func(cur *model.Declaration) error {
        return lifecycle.SetRemarks(cur, technicianID, remarks)
    })
}

func (s *memDeclarations) Delete(_ context.Context, id string) error {
    s.m.mu.Lock()
    defer s.m.mu.Unlock()
    if _, ok := s.m.declarations[id]; !ok {
        return ErrNotFound
    }
    delete(s.m.declarations, id)
    return nil
}

// transition applies a lifecycle step under the write lock, giving the
// same exactly-once guarantee the SQL store gets from its conditional
// UPDATE.
func (s *memDeclarations) transition(id string, step func(*model.Declaration) error) (model.Declaration, error) {
    s.m.mu.Lock()
    defer s.m.mu.Unlock()
    cur, ok := s.m.declarations[id]
    if !ok {
        return model.Declaration{}, ErrNotFound
    }
    if err := step(&cur); err != nil {
        return model.Declaration{}, err
    }
    s.m.declarations[id] = cur
    return s.m.enrich(cur), nil
}

func (s *memDeclarations) list(keep func(model.Declaration) bool) ([]model.Declaration, error) {
    s.m.mu.RLock()
    defer s.m.mu.RUnlock()
    out := []model.Declaration{}
    for _, d := range s.m.declarations {
        if keep(d) {
            out = append(out, s.m.enrich(d))
        }
    }
    sort.Slice(out, func(i, j int) bool {
        return out[i].CreatedAt.After(out[j].CreatedAt)
    })
    return out, nil
}

// enrich fills the joined display names on a copy.  Callers must hold
// at least the read lock.
func (m *Memory) enrich(d model.Declaration) model.Declaration {
    if c, ok := m.clients[d.ClientID]; ok {
        d.ClientName = c.Name
    }
    if u, ok := m.users[d.CommercialID]; ok {
        d.CommercialName = u.Name
    }
    if d.TechnicianID != nil {
        if t, ok := m.users[*d.TechnicianID]; ok {
            name := t.Name
            d.TechnicianName = &name
        }
    }
    for _, c := range m.categories {
        if c.ID == d.CategoryID {
            d.CategoryName = c.Name
            break
        }
    }
    return d
}

// stripNames clears display fields before storing so stale names are
// never persisted.
func stripNames(d model.Declaration) model.Declaration {
    d.ClientName = ""
    d.CategoryName = ""
    d.CommercialName = ""
    d.TechnicianName = nil
    return d
}
