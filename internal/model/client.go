package model

// Client represents a customer record owned by exactly one commercial
// user.  Clients are only visible to their owning commercial (admins
// may list them read-only) and cannot be deleted while a declaration
// still references them.
//
// Fields:
//  ID           – UUID primary key.
//  Name         – customer name (required).
//  Email        – contact email (optional).
//  Phone        – contact phone (optional).
//  Address      – postal address (optional).
//  CommercialID – owning commercial's user id.
type Client struct {
    ID           string `json:"id"`
    Name         string `json:"name"`
    Email        string `json:"email"`
    Phone        string `json:"phone"`
    Address      string `json:"address"`
    CommercialID string `json:"commercial_id"`
}
