package domain

import (
	"bytes"
	"encoding/json"
)

// Amenities is the document stored in a record's amenities field.
// Specifics is kept raw because its shape depends on the record's category.
type Amenities struct {
	General   StringList      `json:"general"`
	Specifics json.RawMessage `json:"specifics,omitempty"`
}

// Rental units.
const (
	UnitPerHour = "per hour"
	UnitPerDay  = "per day"
)

// Activity duration units and difficulty levels.
const (
	DurationHours = "hours"
	DurationDays  = "days"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// RentalSpecifics is the rental branch of the amenities specifics.
//
// Every member decodes on its own: a mistyped member falls back to its zero
// value and leaves its siblings intact.
type RentalSpecifics struct {
	Unit         LooseString        `json:"unit"`
	Quantity     LooseNumber        `json:"quantity"`
	Deposit      RentalDeposit      `json:"deposit"`
	Requirements RentalRequirements `json:"requirements"`
}

type RentalDeposit struct {
	Required LooseBool   `json:"required"`
	Amount   LooseNumber `json:"amount"`
}

func (d *RentalDeposit) UnmarshalJSON(data []byte) error {
	type plain RentalDeposit
	var v plain
	decodeObject(data, &v)
	*d = RentalDeposit(v)
	return nil
}

type RentalRequirements struct {
	Required LooseBool   `json:"required"`
	Details  LooseString `json:"details"`
}

func (r *RentalRequirements) UnmarshalJSON(data []byte) error {
	type plain RentalRequirements
	var v plain
	decodeObject(data, &v)
	*r = RentalRequirements(v)
	return nil
}

// ActivitySpecifics is the activity branch of the amenities specifics.
// Members decode independently, as for RentalSpecifics.
type ActivitySpecifics struct {
	Duration   ActivityDuration  `json:"duration"`
	GroupSize  ActivityGroupSize `json:"group_size"`
	Difficulty LooseString       `json:"difficulty"`
	Equipment  StringList        `json:"equipment"`
	Safety     LooseString       `json:"safety"`
	Guide      LooseBool         `json:"guide"`
}

type ActivityDuration struct {
	Value LooseNumber `json:"value"`
	Unit  LooseString `json:"unit"`
}

func (d *ActivityDuration) UnmarshalJSON(data []byte) error {
	type plain ActivityDuration
	var v plain
	decodeObject(data, &v)
	*d = ActivityDuration(v)
	return nil
}

type ActivityGroupSize struct {
	Min LooseNumber `json:"min"`
	Max LooseNumber `json:"max"`
}

func (g *ActivityGroupSize) UnmarshalJSON(data []byte) error {
	type plain ActivityGroupSize
	var v plain
	decodeObject(data, &v)
	*g = ActivityGroupSize(v)
	return nil
}

// decodeObject fills dest from data when data is a JSON object and leaves
// it zero otherwise.
func decodeObject(data []byte, dest any) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return
	}
	_ = json.Unmarshal(data, dest)
}

// ValidRentalUnit reports whether u is a known rental unit.
func ValidRentalUnit(u string) bool {
	return u == UnitPerHour || u == UnitPerDay
}

// ValidDurationUnit reports whether u is a known duration unit.
func ValidDurationUnit(u string) bool {
	return u == DurationHours || u == DurationDays
}

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
