package editor

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
)

// Form field names. They double as HTML input names and as the JSON keys of
// a persisted session.
const (
	FieldName               = "name"
	FieldDescription        = "description"
	FieldType               = "type"
	FieldIslandID           = "island_id"
	FieldLocation           = "location"
	FieldPrice              = "price"
	FieldAvailability       = "availability"
	FieldCancellationPolicy = "cancellation_policy"
	FieldImages             = "images"
	FieldGeneralAmenities   = "general_amenities"

	FieldRentalUnit            = "rental_unit"
	FieldQuantityAvailable     = "quantity_available"
	FieldDepositRequired       = "deposit_required"
	FieldDepositAmount         = "deposit_amount"
	FieldAgeLicenseRequirement = "age_license_requirement"
	FieldAgeLicenseDetails     = "age_license_details"

	FieldDuration          = "duration"
	FieldDurationUnit      = "duration_unit"
	FieldGroupSizeMin      = "group_size_min"
	FieldGroupSizeMax      = "group_size_max"
	FieldDifficultyLevel   = "difficulty_level"
	FieldEquipmentProvided = "equipment_provided"
	FieldSafetyMeasures    = "safety_measures"
	FieldGuideIncluded     = "guide_included"
)

// FormState is the flat, display-ready projection of a ServiceRecord: one
// field per form input, strings and booleans only. Lists are held in their
// comma-separated display form.
//
// FormState is a value. Updates go through With, which returns a new value.
type FormState struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Type               string `json:"type"`
	IslandID           string `json:"island_id"`
	Location           string `json:"location"`
	Price              string `json:"price"`
	Availability       string `json:"availability"`
	CancellationPolicy string `json:"cancellation_policy"`
	Images             string `json:"images"`
	GeneralAmenities   string `json:"general_amenities"`

	// Rental only
	RentalUnit            string `json:"rental_unit"`
	QuantityAvailable     string `json:"quantity_available"`
	DepositRequired       bool   `json:"deposit_required"`
	DepositAmount         string `json:"deposit_amount"`
	AgeLicenseRequirement bool   `json:"age_license_requirement"`
	AgeLicenseDetails     string `json:"age_license_details"`

	// Activity only
	Duration          string `json:"duration"`
	DurationUnit      string `json:"duration_unit"`
	GroupSizeMin      string `json:"group_size_min"`
	GroupSizeMax      string `json:"group_size_max"`
	DifficultyLevel   string `json:"difficulty_level"`
	EquipmentProvided string `json:"equipment_provided"`
	SafetyMeasures    string `json:"safety_measures"`
	GuideIncluded     bool   `json:"guide_included"`
}

// Category returns the category selected by the current type.
func (f FormState) Category() domain.Category {
	return domain.CategoryOf(f.Type)
}

type formField struct {
	name     string
	category domain.Category // CategoryUnknown for fields shared by both
	text     func(*FormState) *string
	flag     func(*FormState) *bool
}

var formFields = []formField{
	{name: FieldName, text: func(f *FormState) *string { return &f.Name }},
	{name: FieldDescription, text: func(f *FormState) *string { return &f.Description }},
	{name: FieldType, text: func(f *FormState) *string { return &f.Type }},
	{name: FieldIslandID, text: func(f *FormState) *string { return &f.IslandID }},
	{name: FieldLocation, text: func(f *FormState) *string { return &f.Location }},
	{name: FieldPrice, text: func(f *FormState) *string { return &f.Price }},
	{name: FieldAvailability, text: func(f *FormState) *string { return &f.Availability }},
	{name: FieldCancellationPolicy, text: func(f *FormState) *string { return &f.CancellationPolicy }},
	{name: FieldImages, text: func(f *FormState) *string { return &f.Images }},
	{name: FieldGeneralAmenities, text: func(f *FormState) *string { return &f.GeneralAmenities }},

	{name: FieldRentalUnit, category: domain.CategoryRental, text: func(f *FormState) *string { return &f.RentalUnit }},
	{name: FieldQuantityAvailable, category: domain.CategoryRental, text: func(f *FormState) *string { return &f.QuantityAvailable }},
	{name: FieldDepositRequired, category: domain.CategoryRental, flag: func(f *FormState) *bool { return &f.DepositRequired }},
	{name: FieldDepositAmount, category: domain.CategoryRental, text: func(f *FormState) *string { return &f.DepositAmount }},
	{name: FieldAgeLicenseRequirement, category: domain.CategoryRental, flag: func(f *FormState) *bool { return &f.AgeLicenseRequirement }},
	{name: FieldAgeLicenseDetails, category: domain.CategoryRental, text: func(f *FormState) *string { return &f.AgeLicenseDetails }},

	{name: FieldDuration, category: domain.CategoryActivity, text: func(f *FormState) *string { return &f.Duration }},
	{name: FieldDurationUnit, category: domain.CategoryActivity, text: func(f *FormState) *string { return &f.DurationUnit }},
	{name: FieldGroupSizeMin, category: domain.CategoryActivity, text: func(f *FormState) *string { return &f.GroupSizeMin }},
	{name: FieldGroupSizeMax, category: domain.CategoryActivity, text: func(f *FormState) *string { return &f.GroupSizeMax }},
	{name: FieldDifficultyLevel, category: domain.CategoryActivity, text: func(f *FormState) *string { return &f.DifficultyLevel }},
	{name: FieldEquipmentProvided, category: domain.CategoryActivity, text: func(f *FormState) *string { return &f.EquipmentProvided }},
	{name: FieldSafetyMeasures, category: domain.CategoryActivity, text: func(f *FormState) *string { return &f.SafetyMeasures }},
	{name: FieldGuideIncluded, category: domain.CategoryActivity, flag: func(f *FormState) *bool { return &f.GuideIncluded }},
}

var fieldsByName = func() map[string]formField {
	m := make(map[string]formField, len(formFields))
	for _, f := range formFields {
		m[f.name] = f
	}
	return m
}()

// FieldNames lists every editable field in form order.
func FieldNames() []string {
	names := make([]string, 0, len(formFields))
	for _, f := range formFields {
		names = append(names, f.name)
	}
	return names
}

// IsFlag reports whether name is a checkbox field.
func IsFlag(name string) bool {
	f, ok := fieldsByName[name]
	return ok && f.flag != nil
}

// FieldCategory returns the category a field belongs to, CategoryUnknown
// for shared fields.
func FieldCategory(name string) domain.Category {
	return fieldsByName[name].category
}

// With returns a copy of f with one field replaced. Checkbox fields accept
// "true", "on", "1" and "yes" as checked; anything else clears them.
func (f FormState) With(name, value string) (FormState, error) {
	field, ok := fieldsByName[name]
	if !ok {
		return f, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	next := f
	if field.flag != nil {
		*field.flag(&next) = parseFlag(value)
		return next, nil
	}
	*field.text(&next) = value
	return next, nil
}

func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}
