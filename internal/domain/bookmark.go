package domain

import "strings"

// Bookmark is the persisted record, one per store key.
//
// Optional fields use explicit presence: a nil pointer (or nil slice) means
// the field is absent and is omitted from the stored JSON.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned at creation and never reassigned.
	// Either a generated UUID or the URL itself, depending on the id mode.
	ID string `json:"id"`

	// URL is the bookmarked link.
	URL string `json:"url"`

	// Title is the human readable label.
	Title string `json:"title"`

	// ─────────────────────────────
	// Mutable fields
	// (fully replaced on update)
	// ─────────────────────────────

	// LastUpdatedAt is a canonical timestamp (see dates.Normalizer).
	// An empty string is a stored value: the caller supplied a date that
	// could not be recovered.
	LastUpdatedAt *string `json:"last_updated_at,omitempty"`

	// Users who saved the link upstream.
	Users []string `json:"users,omitempty"`

	// BURL is the bookmark page URL on the upstream service.
	BURL *string `json:"b_url,omitempty"`
}

// Param is the caller input for create and update.
type Param struct {
	ID            *string  `json:"id,omitempty" yaml:"id,omitempty"`
	URL           *string  `json:"url,omitempty" yaml:"url,omitempty"`
	Title         *string  `json:"title,omitempty" yaml:"title,omitempty"`
	LastUpdatedAt *string  `json:"last_updated_at,omitempty" yaml:"last_updated_at,omitempty"`
	Users         []string `json:"users,omitempty" yaml:"users,omitempty"`
	BURL          *string  `json:"b_url,omitempty" yaml:"b_url,omitempty"`
}

// HasRequired reports whether p carries every field a new bookmark needs.
func (p Param) HasRequired() bool {
	return nonEmpty(p.URL) && nonEmpty(p.Title)
}

// Ptr is a small helper for building optional fields.
func Ptr(s string) *string { return &s }

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

