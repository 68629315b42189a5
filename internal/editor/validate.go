package editor

import (
	"strings"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
)

// numericFields may be left empty, but a filled-in value must parse. Integer
// fields also refuse fractions, which would otherwise be sent as null.
var numericFields = []struct {
	name     string
	label    string
	category domain.Category
	integer  bool
	value    func(f FormState) string
}{
	{FieldIslandID, "Island", domain.CategoryUnknown, true, func(f FormState) string { return f.IslandID }},
	{FieldPrice, "Price", domain.CategoryUnknown, false, func(f FormState) string { return f.Price }},
	{FieldQuantityAvailable, "Quantity available", domain.CategoryRental, true, func(f FormState) string { return f.QuantityAvailable }},
	{FieldDepositAmount, "Deposit amount", domain.CategoryRental, false, func(f FormState) string { return f.DepositAmount }},
	{FieldDuration, "Duration", domain.CategoryActivity, false, func(f FormState) string { return f.Duration }},
	{FieldGroupSizeMin, "Minimum group size", domain.CategoryActivity, true, func(f FormState) string { return f.GroupSizeMin }},
	{FieldGroupSizeMax, "Maximum group size", domain.CategoryActivity, true, func(f FormState) string { return f.GroupSizeMax }},
}

// Validate enforces the minimum a submission needs. It is checked before
// any network call.
func Validate(f FormState) error {
	if strings.TrimSpace(f.Type) == "" {
		return &ValidationError{Field: FieldType, Message: "Please select a service type."}
	}
	if strings.TrimSpace(f.IslandID) == "" {
		return &ValidationError{Field: FieldIslandID, Message: "Please select an island."}
	}
	category := f.Category()
	if category == domain.CategoryUnknown {
		return &ValidationError{Field: FieldType, Message: "Service type must be a rental or an activity."}
	}

	for _, field := range numericFields {
		if field.category != domain.CategoryUnknown && field.category != category {
			continue
		}
		raw := strings.TrimSpace(field.value(f))
		if raw == "" {
			continue
		}
		if field.integer && parseInt(raw) == nil {
			return &ValidationError{Field: field.name, Message: field.label + " must be a whole number."}
		}
		if !field.integer && parseFloat(raw) == nil {
			return &ValidationError{Field: field.name, Message: field.label + " must be a number."}
		}
	}
	return nil
}
