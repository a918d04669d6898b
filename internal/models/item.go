package models

import "time"

// ItemKind distinguishes the three verification-item variants.
type ItemKind string

const (
	ItemKindDocument    ItemKind = "document"
	ItemKindStipulation ItemKind = "stipulation"
	ItemKindChecklist   ItemKind = "checklist"
)

func (k ItemKind) Valid() bool {
	switch k {
	case ItemKindDocument, ItemKindStipulation, ItemKindChecklist:
		return true
	}
	return false
}

// ItemStatus is the verification state of a single item.
type ItemStatus string

const (
	ItemStatusUnverified ItemStatus = "unverified"
	ItemStatusVerified   ItemStatus = "verified"
	ItemStatusRejected   ItemStatus = "rejected"
	ItemStatusWaived     ItemStatus = "waived"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusUnverified, ItemStatusVerified, ItemStatusRejected, ItemStatusWaived:
		return true
	}
	return false
}

// Resolved reports whether the item has left the unverified state.
func (s ItemStatus) Resolved() bool {
	return s != ItemStatusUnverified
}

// VerificationItem is one document, stipulation, or checklist entry attached
// to a QC review. Items are seeded at review creation and never deleted;
// verify/reject/waive mutate Status, and re-applying the current status is a
// no-op that still restamps Comments and VerifiedAt.
//
// A document cannot be waived: a physical document is either verified or
// rejected, only its requirement could be waived, and that would be a
// checklist change, not an item status.
type VerificationItem struct {
	ID       string     `json:"id" gorm:"primaryKey"`
	ReviewID string     `json:"review_id" gorm:"index"`
	Kind     ItemKind   `json:"kind"`
	Status   ItemStatus `json:"status"`

	VerifiedBy string     `json:"verified_by"`
	VerifiedAt *time.Time `json:"verified_at"`
	Comments   string     `json:"comments"`

	// Document variant
	DocumentID   string `json:"document_id,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	FileName     string `json:"file_name,omitempty"`
	DownloadURL  string `json:"download_url,omitempty"`

	// Stipulation variant
	Description string `json:"description,omitempty"`

	// Checklist variant
	Category string `json:"category,omitempty"`
	Text     string `json:"text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Waivable reports whether the waive action is legal for this item's kind.
func (v *VerificationItem) Waivable() bool {
	return v.Kind != ItemKindDocument
}
