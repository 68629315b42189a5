package views

import (
	"strconv"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
	"github.com/MrSnakeDoc/islandhop/internal/editor"
	"github.com/MrSnakeDoc/islandhop/internal/sources/catalog"
)

type Link struct {
	URL   string
	Label string
}

// NoticePage is a blocking message with navigation links.
type NoticePage struct {
	Title   string
	Message string
	IsError bool
	Links   []Link
}

type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

type IslandOption struct {
	ID       string
	Name     string
	Selected bool
}

// EditPage is the view model of the edit form.
type EditPage struct {
	Title        string
	Action       string
	ListingURL   string
	SessionID    string
	Form         editor.FormState
	Error        string
	Warnings     []editor.Warning
	TypeGroups   []catalog.Group
	Islands      []IslandOption
	IslandsError string
	IsActive     bool
	IsRental     bool
	IsActivity   bool
	Submitting   bool

	RentalUnits   []SelectOption
	DurationUnits []SelectOption
	Difficulties  []SelectOption
}

// NewEditPage builds the form view of a session snapshot. Only the section
// of the currently selected category is rendered.
func NewEditPage(snap editor.Snapshot, cat *catalog.Catalog, action, listingURL string) EditPage {
	f := snap.Form
	category := f.Category()

	return EditPage{
		Title:        "Edit " + displayName(f.Name),
		Action:       action,
		ListingURL:   listingURL,
		SessionID:    snap.ID,
		Form:         f,
		Error:        snap.Message,
		Warnings:     snap.Warnings,
		TypeGroups:   cat.Options(f.Type),
		Islands:      islandOptions(snap.Islands, f.IslandID),
		IslandsError: snap.IslandsError,
		IsActive:     snap.IsActive,
		IsRental:     category == domain.CategoryRental,
		IsActivity:   category == domain.CategoryActivity,
		Submitting:   snap.State == editor.StateSubmitting,

		RentalUnits: options(f.RentalUnit,
			SelectOption{Value: domain.UnitPerHour, Label: "Per hour"},
			SelectOption{Value: domain.UnitPerDay, Label: "Per day"}),
		DurationUnits: options(f.DurationUnit,
			SelectOption{Value: domain.DurationHours, Label: "Hours"},
			SelectOption{Value: domain.DurationDays, Label: "Days"}),
		Difficulties: options(f.DifficultyLevel,
			SelectOption{Value: domain.DifficultyEasy, Label: "Easy"},
			SelectOption{Value: domain.DifficultyMedium, Label: "Medium"},
			SelectOption{Value: domain.DifficultyHard, Label: "Hard"}),
	}
}

func displayName(name string) string {
	if name == "" {
		return "service"
	}
	return name
}

func options(current string, opts ...SelectOption) []SelectOption {
	for i := range opts {
		opts[i].Selected = opts[i].Value == current
	}
	return opts
}

// islandOptions keeps the current island selectable even when the loaded
// list does not contain it. An empty list stays empty.
func islandOptions(islands []domain.Island, current string) []IslandOption {
	if len(islands) == 0 {
		return nil
	}
	out := make([]IslandOption, 0, len(islands)+1)
	found := false
	for _, isl := range islands {
		id := strconv.FormatInt(isl.ID, 10)
		selected := id == current
		found = found || selected
		out = append(out, IslandOption{ID: id, Name: isl.Name, Selected: selected})
	}
	if current != "" && !found {
		out = append(out, IslandOption{ID: current, Name: "Island #" + current, Selected: true})
	}
	return out
}
