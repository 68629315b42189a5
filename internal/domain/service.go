package domain

import (
	"encoding/json"
	"strings"
)

// Category is the coarse classification of a listing, derived from the
// prefix of its Type ("rental/car" -> rental).
type Category string

const (
	CategoryUnknown  Category = ""
	CategoryRental   Category = "rental"
	CategoryActivity Category = "activity"
)

// CategoryOf returns the category encoded in a composite service type.
// Anything other than a rental or activity prefix yields CategoryUnknown.
func CategoryOf(serviceType string) Category {
	prefix, _, _ := strings.Cut(strings.TrimSpace(serviceType), "/")
	switch Category(strings.ToLower(strings.TrimSpace(prefix))) {
	case CategoryRental:
		return CategoryRental
	case CategoryActivity:
		return CategoryActivity
	default:
		return CategoryUnknown
	}
}

// ServiceRecord is one vendor-owned listing as returned by the Persistence API.
//
// The upstream API is loosely typed: numbers may arrive as strings, the
// amenities and images documents are JSON encoded inside strings (or not),
// and availability / cancellation policy are opaque. Nothing here is
// validated; normalization happens in the editor package.
type ServiceRecord struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the stable identifier of the listing.
	ID int64 `json:"id"`

	// VendorID is the vendor profile that owns the listing.
	VendorID LooseNumber `json:"vendor_id"`

	// Type is the composite "<category>/<subtype>" string.
	// Example: rental/car, activity/trek
	Type string `json:"type"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	Name        string      `json:"name"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	IslandID    LooseNumber `json:"island_id"`
	Price       LooseNumber `json:"price"`

	// ─────────────────────────────
	// Encoded documents
	// ─────────────────────────────

	// Amenities holds {"general": [...], "specifics": {...}}, usually as a
	// JSON string containing the document.
	Amenities json.RawMessage `json:"amenities,omitempty"`

	// Images is a JSON-encoded list of URLs. Legacy records carry a bare URL
	// or a comma-separated list instead.
	Images json.RawMessage `json:"images,omitempty"`

	Availability       OpaqueText `json:"availability"`
	CancellationPolicy OpaqueText `json:"cancellation_policy"`

	// ─────────────────────────────
	// Listing state
	// ─────────────────────────────

	// IsActive is owned by the listing page. The edit workflow reads it for
	// display only and never sends it back.
	IsActive LooseBool `json:"is_active"`
}

// OwnedBy reports whether the listing belongs to vendor profile vendorID.
// A record without an owner belongs to no one.
func (r ServiceRecord) OwnedBy(vendorID int64) bool {
	owner, ok := r.VendorID.Int64()
	return ok && vendorID != 0 && owner == vendorID
}

// Category returns the category of the record's current type.
func (r ServiceRecord) Category() Category {
	return CategoryOf(r.Type)
}
