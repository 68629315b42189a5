package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
)

var errAbsent = errors.New("document absent")

// Normalize turns a loosely typed record into a FormState. It never fails:
// unreadable parts are replaced by safe defaults and reported as warnings.
// Only the specifics of the record's current category are read.
func Normalize(rec domain.ServiceRecord) (FormState, []Warning) {
	form := FormState{
		Name:               rec.Name,
		Description:        rec.Description,
		Type:               strings.TrimSpace(rec.Type),
		IslandID:           rec.IslandID.String(),
		Location:           rec.Location,
		Price:              rec.Price.String(),
		Availability:       string(rec.Availability),
		CancellationPolicy: string(rec.CancellationPolicy),
		RentalUnit:         domain.UnitPerDay,
		DurationUnit:       domain.DurationHours,
		DifficultyLevel:    domain.DifficultyEasy,
	}

	var warnings []Warning

	images, ok := ParseImages(rec.Images)
	if !ok {
		warnings = append(warnings, warnImages)
	}
	form.Images = domain.JoinList(images)

	var amenities domain.Amenities
	if err := decodeDocument(rec.Amenities, &amenities); err != nil {
		amenities = domain.Amenities{}
		if !errors.Is(err, errAbsent) {
			warnings = append(warnings, warnAmenities)
		}
	}
	form.GeneralAmenities = domain.JoinList(amenities.General)

	// Specifics members decode one by one, so a partial decode still keeps
	// every readable member.
	switch rec.Category() {
	case domain.CategoryRental:
		var specifics domain.RentalSpecifics
		if err := decodeDocument(amenities.Specifics, &specifics); err != nil && !errors.Is(err, errAbsent) {
			warnings = append(warnings, warnSpecifics)
		}
		applyRental(&form, specifics)
	case domain.CategoryActivity:
		var specifics domain.ActivitySpecifics
		if err := decodeDocument(amenities.Specifics, &specifics); err != nil && !errors.Is(err, errAbsent) {
			warnings = append(warnings, warnSpecifics)
		}
		applyActivity(&form, specifics)
	}

	return form, warnings
}

func applyRental(form *FormState, s domain.RentalSpecifics) {
	if unit := strings.ToLower(strings.TrimSpace(string(s.Unit))); domain.ValidRentalUnit(unit) {
		form.RentalUnit = unit
	}
	form.QuantityAvailable = s.Quantity.String()
	form.DepositRequired = bool(s.Deposit.Required)
	form.DepositAmount = s.Deposit.Amount.String()
	form.AgeLicenseRequirement = bool(s.Requirements.Required)
	form.AgeLicenseDetails = string(s.Requirements.Details)
}

func applyActivity(form *FormState, s domain.ActivitySpecifics) {
	form.Duration = s.Duration.Value.String()
	if unit := strings.ToLower(strings.TrimSpace(string(s.Duration.Unit))); domain.ValidDurationUnit(unit) {
		form.DurationUnit = unit
	}
	form.GroupSizeMin = s.GroupSize.Min.String()
	form.GroupSizeMax = s.GroupSize.Max.String()
	if level := strings.ToLower(strings.TrimSpace(string(s.Difficulty))); domain.ValidDifficulty(level) {
		form.DifficultyLevel = level
	}
	form.EquipmentProvided = domain.JoinList(s.Equipment)
	form.SafetyMeasures = string(s.Safety)
	form.GuideIncluded = bool(s.Guide)
}

// decodeDocument decodes a JSON document that may itself be wrapped in a
// JSON string. Null, empty and blank values report errAbsent.
func decodeDocument(raw json.RawMessage, dest any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return errAbsent
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" || s == "null" {
			return errAbsent
		}
		raw = json.RawMessage(s)
	}
	return json.Unmarshal(raw, dest)
}
