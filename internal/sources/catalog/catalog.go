package catalog

import (
	"strings"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
)

// ServiceType is one selectable "<category>/<slug>" value.
type ServiceType struct {
	Value    string
	Category domain.Category
	Slug     string
	Label    string
}

// Option is one entry of the type selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Group is an optgroup of the type selector.
type Group struct {
	Label   string
	Options []Option
}

// Catalog is the immutable list of known service types.
type Catalog struct {
	types []ServiceType
}

func New(types []ServiceType) *Catalog {
	return &Catalog{types: append([]ServiceType(nil), types...)}
}

// Default is the catalog used when no file is configured.
func Default() *Catalog {
	return New([]ServiceType{
		{Value: "rental/car", Category: domain.CategoryRental, Slug: "car", Label: "Car"},
		{Value: "rental/scooter", Category: domain.CategoryRental, Slug: "scooter", Label: "Scooter"},
		{Value: "rental/bike", Category: domain.CategoryRental, Slug: "bike", Label: "Bike"},
		{Value: "rental/boat", Category: domain.CategoryRental, Slug: "boat", Label: "Boat"},
		{Value: "rental/equipment", Category: domain.CategoryRental, Slug: "equipment", Label: "Equipment"},
		{Value: "activity/trek", Category: domain.CategoryActivity, Slug: "trek", Label: "Trekking"},
		{Value: "activity/diving", Category: domain.CategoryActivity, Slug: "diving", Label: "Diving"},
		{Value: "activity/snorkeling", Category: domain.CategoryActivity, Slug: "snorkeling", Label: "Snorkeling"},
		{Value: "activity/kayaking", Category: domain.CategoryActivity, Slug: "kayaking", Label: "Kayaking"},
		{Value: "activity/tour", Category: domain.CategoryActivity, Slug: "tour", Label: "Guided tour"},
	})
}

func (c *Catalog) Types() []ServiceType {
	return append([]ServiceType(nil), c.types...)
}

func (c *Catalog) Len() int { return len(c.types) }

// Contains reports whether value is a catalog type.
func (c *Catalog) Contains(value string) bool {
	for _, t := range c.types {
		if t.Value == value {
			return true
		}
	}
	return false
}

// Options builds the grouped type selector with current selected. A current
// value missing from the catalog is still offered, in its category's group
// or in an "Other" group, so a record is never shown without its own type.
func (c *Catalog) Options(current string) []Group {
	current = strings.TrimSpace(current)

	rental := Group{Label: "Rentals"}
	activity := Group{Label: "Activities"}
	other := Group{Label: "Other"}

	for _, t := range c.types {
		opt := Option{Value: t.Value, Label: t.Label, Selected: t.Value == current}
		switch t.Category {
		case domain.CategoryRental:
			rental.Options = append(rental.Options, opt)
		case domain.CategoryActivity:
			activity.Options = append(activity.Options, opt)
		}
	}

	if current != "" && !c.Contains(current) {
		opt := Option{Value: current, Label: current, Selected: true}
		switch domain.CategoryOf(current) {
		case domain.CategoryRental:
			rental.Options = append(rental.Options, opt)
		case domain.CategoryActivity:
			activity.Options = append(activity.Options, opt)
		default:
			other.Options = append(other.Options, opt)
		}
	}

	var groups []Group
	for _, g := range []Group{rental, activity, other} {
		if len(g.Options) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}
