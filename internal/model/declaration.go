package model

import "time"

// Declaration statuses stored in declarations.status.  A declaration
// starts as new, moves to in_progress when a technician takes it and
// ends resolved.  There is no cancel or reopen path.
const (
    StatusNew        = "new"
    StatusInProgress = "in_progress"
    StatusResolved   = "resolved"
)

// Accessory is an item on a declaration's accessory checklist.  It has
// no identity outside its parent declaration: the whole list is stored
// as a JSON document on the declarations row and replaced atomically
// with the parent.
type Accessory struct {
    ID      string `json:"id"`
    Name    string `json:"name"`
    Checked bool   `json:"checked"`
}

// Declaration is the central entity: one reported product issue tied
// to a client and a category, created by a commercial and worked on by
// at most one technician.
//
// Fields:
//  ID                – UUID primary key.
//  CommercialID      – user who created the declaration.
//  ClientID          – customer the issue was reported for.
//  CategoryID        – product category.
//  ProductName       – product label (required).
//  Reference         – free-text reference code (optional).
//  SerialNumber      – free-text serial number (optional).
//  Description       – problem description (optional).
//  PhotoURL          – opaque blob-store URL of an uploaded photo.
//  Status            – new, in_progress or resolved.
//  TechnicianID      – assigned technician; nil while status is new.
//  TechnicianRemarks – technician's working notes; nil until written.
//  Accessories       – embedded checklist owned by this declaration.
//  CreatedAt         – creation timestamp.
//  TakenAt           – when a technician took the declaration.
//  ResolvedAt        – when the assigned technician resolved it.
//
// The *Name fields carry joined display data (client, category,
// commercial, technician) and are populated on read, not stored.
type Declaration struct {
    ID                string      `json:"id"`
    CommercialID      string      `json:"commercial_id"`
    ClientID          string      `json:"client_id"`
    CategoryID        string      `json:"category_id"`
    ProductName       string      `json:"product_name"`
    Reference         string      `json:"reference"`
    SerialNumber      string      `json:"serial_number"`
    Description       string      `json:"description"`
    PhotoURL          *string     `json:"photo_url,omitempty"`
    Status            string      `json:"status"`
    TechnicianID      *string     `json:"technician_id"`
    TechnicianRemarks *string     `json:"technician_remarks"`
    Accessories       []Accessory `json:"accessories"`
    CreatedAt         time.Time   `json:"created_at"`
    TakenAt           *time.Time  `json:"taken_at"`
    ResolvedAt        *time.Time  `json:"resolved_at"`

    ClientName     string  `json:"client_name,omitempty"`
    CategoryName   string  `json:"category_name,omitempty"`
    CommercialName string  `json:"commercial_name,omitempty"`
    TechnicianName *string `json:"technician_name,omitempty"`
}
