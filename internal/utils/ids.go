package utils

import "github.com/google/uuid"

// NewItemID returns the id for a new verification item.
func NewItemID() string {
	return "itm-" + uuid.NewString()
}
