package domain

import "errors"

var (
	ErrItemNotFound = errors.New("item not found")
	ErrOutOfStock   = errors.New("out of stock")
)

// Item is the authoritative inventory record. The store owns the only
// mutable copy; everything handed out is a snapshot.
type Item struct {
	ID    string
	Name  string
	Stock int
}
