package domain

import "strings"

// Roles and vendor types the edit workflow cares about.
const (
	RoleVendor      = "vendor"
	VendorTypeHotel = "hotel"
)

// Identity is the current user as resolved by the auth provider.
type Identity struct {
	UserID string
	Role   string
}

// Authenticated reports whether a user was resolved at all.
func (i Identity) Authenticated() bool { return i.UserID != "" }

// IsVendor reports whether the user holds the vendor role.
func (i Identity) IsVendor() bool { return strings.EqualFold(i.Role, RoleVendor) }

// VendorProfile is the vendor account attached to a user.
type VendorProfile struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	BusinessName string    `json:"business_name"`
	Type         string    `json:"type"`
	Verified     LooseBool `json:"verified"`
}

// IsHotel reports whether the vendor manages hotels, which use a separate
// management surface.
func (p VendorProfile) IsHotel() bool {
	return strings.EqualFold(strings.TrimSpace(p.Type), VendorTypeHotel)
}

// Island is read-only reference data used to populate the island selector.
type Island struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
