// Package policy is the single authorization gate for the API.  Every
// handler consults these functions instead of re-implementing
// role/ownership checks inline, so the visibility and mutation rules
// live in one place and can be tested without HTTP plumbing.  All
// functions are pure: outcome depends only on the actor and the
// resource's ownership fields.
package policy

import "github.com/savpro/sav-tracker/internal/model"

// Actor is the decoded caller identity carried by an access token.
type Actor struct {
    ID   string
    Role string
}

// CanCreateClient reports whether the actor may create client records.
func CanCreateClient(a Actor) bool {
    return a.Role == model.RoleCommercial
}

// CanViewClient gates single-client reads: the owning commercial, or an
// admin read-only.
func CanViewClient(a Actor, c model.Client) bool {
    if a.Role == model.RoleAdmin {
        return true
    }
    return a.Role == model.RoleCommercial && c.CommercialID == a.ID
}

// CanMutateClient gates client update and delete: owning commercial
// only.  Admins have no write path to clients.
func CanMutateClient(a Actor, c model.Client) bool {
    return a.Role == model.RoleCommercial && c.CommercialID == a.ID
}

// CanListAllClients reports whether the actor sees the full client
// registry rather than only records they own.
func CanListAllClients(a Actor) bool {
    return a.Role == model.RoleAdmin
}

// CanCreateDeclaration reports whether the actor may open declarations.
func CanCreateDeclaration(a Actor) bool {
    return a.Role == model.RoleCommercial
}

// CanViewDeclaration gates single-declaration reads.  Technicians and
// admins have global visibility; a commercial sees only declarations
// they created.
func CanViewDeclaration(a Actor, d model.Declaration) bool {
    switch a.Role {
    case model.RoleTechnician, model.RoleAdmin:
        return true
    case model.RoleCommercial:
        return d.CommercialID == a.ID
    }
    return false
}

// CanListAllDeclarations reports whether the actor sees every
// declaration in list calls.
func CanListAllDeclarations(a Actor) bool {
    return a.Role == model.RoleTechnician || a.Role == model.RoleAdmin
}

// CanEditDeclaration gates the commercial correction path on core
// fields.  The status=new precondition is enforced by the lifecycle
// rules; ownership is enforced here.
func CanEditDeclaration(a Actor, d model.Declaration) bool {
    return a.Role == model.RoleCommercial && d.CommercialID == a.ID
}

// CanDeleteDeclaration gates deletion: the owning commercial, at any
// status.
func CanDeleteDeclaration(a Actor, d model.Declaration) bool {
    return a.Role == model.RoleCommercial && d.CommercialID == a.ID
}

// CanTakeDeclaration reports whether the actor may claim new
// declarations at all.  Which declaration is claimable is decided by
// the store's conditional write, not here.
func CanTakeDeclaration(a Actor) bool {
    return a.Role == model.RoleTechnician
}

// CanWorkDeclaration gates resolve and remarks updates: the assigned
// technician only.
func CanWorkDeclaration(a Actor, d model.Declaration) bool {
    if a.Role != model.RoleTechnician {
        return false
    }
    return d.TechnicianID != nil && *d.TechnicianID == a.ID
}

// CanAdministerUsers gates the admin user-management surface.
func CanAdministerUsers(a Actor) bool {
    return a.Role == model.RoleAdmin
}

// CanChangeUser reports whether the actor may alter the target user's
// role or approval status.  Admin accounts are immutable through this
// surface: no operation may demote an admin or flip its status.
func CanChangeUser(a Actor, target model.User) bool {
    return a.Role == model.RoleAdmin && target.Role != model.RoleAdmin
}
