package editor

import "fmt"

// State is a node of the edit workflow.
type State int

const (
	StateNew State = iota
	StateUnauthorized
	StateLoadingProfile
	StateProfileFailed
	StateWrongVendorType
	StateUnverified
	StateLoadingService
	StateServiceNotFound
	StateServiceFailed
	StateForbidden
	StateReady
	StateSubmitting
	StateFailed
	StateSubmitted
)

var stateNames = map[State]string{
	StateNew:             "New",
	StateUnauthorized:    "Unauthorized",
	StateLoadingProfile:  "LoadingProfile",
	StateProfileFailed:   "ProfileFailed",
	StateWrongVendorType: "WrongVendorType",
	StateUnverified:      "Unverified",
	StateLoadingService:  "LoadingService",
	StateServiceNotFound: "ServiceNotFound",
	StateServiceFailed:   "ServiceFailed",
	StateForbidden:       "Forbidden",
	StateReady:           "Ready",
	StateSubmitting:      "Submitting",
	StateFailed:          "Failed",
	StateSubmitted:       "Submitted",
}

// transitions is the complete edge set. States without an entry are terminal.
var transitions = map[State][]State{
	StateNew:            {StateUnauthorized, StateLoadingProfile},
	StateLoadingProfile: {StateProfileFailed, StateWrongVendorType, StateUnverified, StateLoadingService},
	StateLoadingService: {StateServiceNotFound, StateServiceFailed, StateForbidden, StateReady},
	StateReady:          {StateSubmitting},
	StateSubmitting:     {StateSubmitted, StateFailed},
	StateFailed:         {StateSubmitting, StateReady},
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// CanTransition reports whether from -> to is an edge of the workflow.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// Editable reports whether form edits are accepted in s.
func (s State) Editable() bool {
	return s == StateReady || s == StateFailed
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown workflow state %q", text)
}
