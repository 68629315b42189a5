package editor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
)

var (
	rentalKeys   = []string{"rental_unit", "quantity_available", "deposit_required", "deposit_amount", "age_license_requirement", "age_license_details"}
	activityKeys = []string{"duration", "duration_unit", "group_size_min", "group_size_max", "difficulty_level", "equipment_provided", "safety_measures", "guide_included"}
)

func payloadKeys(t *testing.T, p UpdatePayload) map[string]any {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestRoundTripRental(t *testing.T) {
	rec := decodeRecord(t, rentalRecordJSON)
	form, _ := Normalize(rec)

	payload, err := BuildPayload(form)
	require.NoError(t, err)

	rental, ok := payload.(RentalPayload)
	require.True(t, ok, "expected a rental payload, got %T", payload)

	require.NotNil(t, rental.IslandID)
	assert.Equal(t, int64(3), *rental.IslandID)
	require.NotNil(t, rental.Price)
	assert.Equal(t, 85.5, *rental.Price)
	assert.ElementsMatch(t, []string{"GPS", "Cooler"}, rental.GeneralAmenities)
	assert.ElementsMatch(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, rental.Images)

	assert.Equal(t, domain.UnitPerDay, rental.RentalUnit)
	require.NotNil(t, rental.QuantityAvailable)
	assert.Equal(t, int64(4), *rental.QuantityAvailable)
	assert.True(t, rental.DepositRequired)
	require.NotNil(t, rental.DepositAmount)
	assert.Equal(t, 200.0, *rental.DepositAmount)
	assert.True(t, rental.AgeLicenseRequirement)
	assert.Equal(t, "21+ with licence", rental.AgeLicenseDetails)

	keys := payloadKeys(t, payload)
	for _, k := range activityKeys {
		assert.NotContains(t, keys, k)
	}
	assert.NotContains(t, keys, "is_active")
}

func TestRoundTripActivity(t *testing.T) {
	rec := decodeRecord(t, activityRecordJSON)
	form, _ := Normalize(rec)

	payload, err := BuildPayload(form)
	require.NoError(t, err)

	activity, ok := payload.(ActivityPayload)
	require.True(t, ok, "expected an activity payload, got %T", payload)

	require.NotNil(t, activity.Duration)
	assert.Equal(t, 3.0, *activity.Duration)
	assert.Equal(t, domain.DurationHours, activity.DurationUnit)
	require.NotNil(t, activity.GroupSizeMin)
	assert.Equal(t, int64(2), *activity.GroupSizeMin)
	require.NotNil(t, activity.GroupSizeMax)
	assert.Equal(t, int64(8), *activity.GroupSizeMax)
	assert.Equal(t, domain.DifficultyMedium, activity.DifficultyLevel)
	assert.ElementsMatch(t, []string{"Fins", "Mask"}, activity.EquipmentProvided)
	assert.ElementsMatch(t, []string{"Towels", "Water"}, activity.GeneralAmenities)
	assert.True(t, activity.GuideIncluded)

	keys := payloadKeys(t, payload)
	for _, k := range rentalKeys {
		assert.NotContains(t, keys, k)
	}
}

func TestSwitchRentalToActivityDropsRentalKeys(t *testing.T) {
	form, _ := Normalize(decodeRecord(t, rentalRecordJSON))

	form, err := form.With(FieldType, "activity/trek")
	require.NoError(t, err)

	payload, err := BuildPayload(form)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryActivity, payload.Category())

	keys := payloadKeys(t, payload)
	for _, k := range rentalKeys {
		assert.NotContains(t, keys, k)
	}
	for _, k := range activityKeys {
		assert.Contains(t, keys, k)
	}
	assert.Equal(t, "activity/trek", keys["type"])
}

func TestBuildPayloadNumbers(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		island    string
		wantPrice any
		wantIsle  any
	}{
		{"plain", "10", "2", 10.0, 2.0},
		{"decimal island id", "10.25", "2.0", 10.25, 2.0},
		{"fractional island id", "10", "2.5", 10.0, nil},
		{"garbage", "ten", "two", nil, nil},
		{"empty", "", "", nil, nil},
		{"infinity", "Inf", "1", nil, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := FormState{Type: "rental/bike", Price: tt.price, IslandID: tt.island}
			payload, err := BuildPayload(form)
			require.NoError(t, err)

			keys := payloadKeys(t, payload)
			assert.Equal(t, tt.wantPrice, keys["price"])
			assert.Equal(t, tt.wantIsle, keys["island_id"])
		})
	}
}

func TestBuildPayloadUnknownCategory(t *testing.T) {
	_, err := BuildPayload(FormState{Type: "hotel/room"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestBuildPayloadListsAreNeverNull(t *testing.T) {
	payload, err := BuildPayload(FormState{Type: "activity/tour"})
	require.NoError(t, err)

	keys := payloadKeys(t, payload)
	assert.Equal(t, []any{}, keys["images"])
	assert.Equal(t, []any{}, keys["general_amenities"])
	assert.Equal(t, []any{}, keys["equipment_provided"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		form      FormState
		wantField string
	}{
		{"missing type", FormState{IslandID: "1"}, FieldType},
		{"blank type", FormState{Type: "  ", IslandID: "1"}, FieldType},
		{"missing island", FormState{Type: "rental/car"}, FieldIslandID},
		{"unknown category", FormState{Type: "hotel/suite", IslandID: "1"}, FieldType},
		{"ok", FormState{Type: "rental/car", IslandID: "1"}, ""},
		{"fractional group size", FormState{Type: "activity/trek", IslandID: "1", GroupSizeMin: "2.5"}, FieldGroupSizeMin},
		{"integral decimal group size", FormState{Type: "activity/trek", IslandID: "1", GroupSizeMax: "8.0"}, ""},
		{"fractional quantity", FormState{Type: "rental/car", IslandID: "1", QuantityAvailable: "1.5"}, FieldQuantityAvailable},
		{"non numeric price", FormState{Type: "rental/car", IslandID: "1", Price: "cheap"}, FieldPrice},
		{"non numeric island", FormState{Type: "rental/car", IslandID: "Mahé"}, FieldIslandID},
		{"fractional duration allowed", FormState{Type: "activity/trek", IslandID: "1", Duration: "1.5"}, ""},
		{"other category ignored", FormState{Type: "rental/car", IslandID: "1", GroupSizeMin: "2.5"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.form)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestFormWith(t *testing.T) {
	var form FormState

	next, err := form.With(FieldGuideIncluded, "on")
	require.NoError(t, err)
	assert.True(t, next.GuideIncluded)
	assert.False(t, form.GuideIncluded, "With must not mutate the receiver")

	next, err = next.With(FieldGuideIncluded, "false")
	require.NoError(t, err)
	assert.False(t, next.GuideIncluded)

	next, err = next.With(FieldName, "Sunset cruise")
	require.NoError(t, err)
	assert.Equal(t, "Sunset cruise", next.Name)

	_, err = next.With("is_active", "true")
	assert.ErrorIs(t, err, ErrUnknownField)

	assert.True(t, IsFlag(FieldDepositRequired))
	assert.False(t, IsFlag(FieldDepositAmount))
	assert.Equal(t, domain.CategoryRental, FieldCategory(FieldRentalUnit))
	assert.Equal(t, domain.CategoryActivity, FieldCategory(FieldSafetyMeasures))
	assert.Equal(t, domain.CategoryUnknown, FieldCategory(FieldName))
}
