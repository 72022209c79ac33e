// Package lifecycle implements the declaration state machine shared by
// every store implementation: new → in_progress → resolved.  The
// functions here mutate a declaration value in memory; persistent
// stores must apply the same preconditions as a conditional write so
// that concurrent take/resolve calls cannot both succeed.
package lifecycle

import (
    "errors"
    "time"

    "github.com/savpro/sav-tracker/internal/model"
)

// ErrAlreadyTaken is returned when take is attempted on a declaration
// that is no longer new: another technician got there first or the
// ticket is already resolved.
var ErrAlreadyTaken = errors.New("declaration already taken")

// ErrNotInProgress is returned when resolve or a remarks update is
// attempted on a declaration that is not in_progress.
var ErrNotInProgress = errors.New("declaration not in progress")

// ErrNotAssigned is returned when a technician other than the assignee
// attempts to resolve or annotate a declaration.
var ErrNotAssigned = errors.New("declaration assigned to another technician")

// ErrNotEditable is returned when a commercial attempts to edit core
// fields of a declaration that already left the new state.
var ErrNotEditable = errors.New("declaration no longer editable")

// Take moves a new declaration to in_progress and assigns the calling
// technician.  The caller holds whatever lock guards d.
func Take(d *model.Declaration, technicianID string, now time.Time) error {
    if d.Status != model.StatusNew {
        return ErrAlreadyTaken
    }
    d.Status = model.StatusInProgress
    d.TechnicianID = &technicianID
    t := now.UTC()
    d.TakenAt = &t
    return nil
}

// Resolve moves an in_progress declaration to resolved.  Only the
// assigned technician may resolve; remarks, when non-nil, overwrite
// the stored technician remarks.
func Resolve(d *model.Declaration, technicianID string, remarks *string, now time.Time) error {
    if err := requireAssigned(d, technicianID); err != nil {
        return err
    }
    d.Status = model.StatusResolved
    t := now.UTC()
    d.ResolvedAt = &t
    if remarks != nil {
        d.TechnicianRemarks = remarks
    }
    return nil
}

// SetRemarks overwrites the technician remarks of an in_progress
// declaration.  Full overwrite, not append.
func SetRemarks(d *model.Declaration, technicianID, remarks string) error {
    if err := requireAssigned(d, technicianID); err != nil {
        return err
    }
    d.TechnicianRemarks = &remarks
    return nil
}

// EditCore overwrites the commercial-editable fields of a declaration
// that is still new.  Status, ownership and assignment are untouched.
func EditCore(d *model.Declaration, upd model.Declaration) error {
    if d.Status != model.StatusNew {
        return ErrNotEditable
    }
    d.CategoryID = upd.CategoryID
    d.ClientID = upd.ClientID
    d.ProductName = upd.ProductName
    d.Reference = upd.Reference
    d.SerialNumber = upd.SerialNumber
    d.Description = upd.Description
    d.PhotoURL = upd.PhotoURL
    d.Accessories = upd.Accessories
    return nil
}

// requireAssigned checks assignment before status so that a foreign
// technician is told "not yours" rather than leaking state details.
func requireAssigned(d *model.Declaration, technicianID string) error {
    if d.TechnicianID != nil && *d.TechnicianID != technicianID {
        return ErrNotAssigned
    }
    if d.Status != model.StatusInProgress {
        return ErrNotInProgress
    }
    return nil
}
