package model

// Category is a static reference row in the `categories` table.
// The catalog is read-only to every role; rows are seeded at startup.
type Category struct {
    ID   string `json:"id"`
    Name string `json:"name"`
}
