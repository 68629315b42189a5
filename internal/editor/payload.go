package editor

import (
	"math"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
)

// UpdatePayload is the body of the PUT request. It is either a
// RentalPayload or an ActivityPayload; each carries only the fields of its
// own category, so the other category's keys can never reach the wire.
type UpdatePayload interface {
	Category() domain.Category
	Shared() CommonFields
}

// CommonFields are sent for every category. Numeric fields that do not
// parse are sent as null.
type CommonFields struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Type               string   `json:"type"`
	IslandID           *int64   `json:"island_id"`
	Location           string   `json:"location"`
	Price              *float64 `json:"price"`
	Availability       string   `json:"availability"`
	CancellationPolicy string   `json:"cancellation_policy"`
	Images             []string `json:"images"`
	GeneralAmenities   []string `json:"general_amenities"`
}

type RentalFields struct {
	RentalUnit            string   `json:"rental_unit"`
	QuantityAvailable     *int64   `json:"quantity_available"`
	DepositRequired       bool     `json:"deposit_required"`
	DepositAmount         *float64 `json:"deposit_amount"`
	AgeLicenseRequirement bool     `json:"age_license_requirement"`
	AgeLicenseDetails     string   `json:"age_license_details"`
}

type ActivityFields struct {
	Duration          *float64 `json:"duration"`
	DurationUnit      string   `json:"duration_unit"`
	GroupSizeMin      *int64   `json:"group_size_min"`
	GroupSizeMax      *int64   `json:"group_size_max"`
	DifficultyLevel   string   `json:"difficulty_level"`
	EquipmentProvided []string `json:"equipment_provided"`
	SafetyMeasures    string   `json:"safety_measures"`
	GuideIncluded     bool     `json:"guide_included"`
}

type RentalPayload struct {
	CommonFields
	RentalFields
}

func (RentalPayload) Category() domain.Category { return domain.CategoryRental }
func (p RentalPayload) Shared() CommonFields    { return p.CommonFields }

type ActivityPayload struct {
	CommonFields
	ActivityFields
}

func (ActivityPayload) Category() domain.Category { return domain.CategoryActivity }
func (p ActivityPayload) Shared() CommonFields    { return p.CommonFields }

// BuildPayload serializes a form for the update endpoint. The category is
// taken from the form's current type, not from the record as loaded.
func BuildPayload(f FormState) (UpdatePayload, error) {
	common := CommonFields{
		Name:               strings.TrimSpace(f.Name),
		Description:        f.Description,
		Type:               strings.TrimSpace(f.Type),
		IslandID:           parseInt(f.IslandID),
		Location:           strings.TrimSpace(f.Location),
		Price:              parseFloat(f.Price),
		Availability:       f.Availability,
		CancellationPolicy: f.CancellationPolicy,
		Images:             domain.SplitList(f.Images),
		GeneralAmenities:   domain.SplitList(f.GeneralAmenities),
	}

	switch f.Category() {
	case domain.CategoryRental:
		return RentalPayload{
			CommonFields: common,
			RentalFields: RentalFields{
				RentalUnit:            f.RentalUnit,
				QuantityAvailable:     parseInt(f.QuantityAvailable),
				DepositRequired:       f.DepositRequired,
				DepositAmount:         parseFloat(f.DepositAmount),
				AgeLicenseRequirement: f.AgeLicenseRequirement,
				AgeLicenseDetails:     f.AgeLicenseDetails,
			},
		}, nil
	case domain.CategoryActivity:
		return ActivityPayload{
			CommonFields: common,
			ActivityFields: ActivityFields{
				Duration:          parseFloat(f.Duration),
				DurationUnit:      f.DurationUnit,
				GroupSizeMin:      parseInt(f.GroupSizeMin),
				GroupSizeMax:      parseInt(f.GroupSizeMax),
				DifficultyLevel:   f.DifficultyLevel,
				EquipmentProvided: domain.SplitList(f.EquipmentProvided),
				SafetyMeasures:    f.SafetyMeasures,
				GuideIncluded:     f.GuideIncluded,
			},
		}, nil
	default:
		return nil, ErrUnknownCategory
	}
}

// parseFloat returns nil for anything that is not a finite number.
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseInt accepts integers and integral decimals ("3", "3.0"); anything
// else is nil.
func parseInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &v
	}
	f := parseFloat(s)
	if f == nil || *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt64/2 {
		return nil
	}
	v := int64(*f)
	return &v
}
