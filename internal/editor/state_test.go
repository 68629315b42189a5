package editor

import (
	"encoding/json"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateNew, StateUnauthorized, true},
		{StateNew, StateLoadingProfile, true},
		{StateNew, StateReady, false},
		{StateLoadingProfile, StateWrongVendorType, true},
		{StateLoadingProfile, StateLoadingService, true},
		{StateLoadingProfile, StateReady, false},
		{StateLoadingService, StateServiceNotFound, true},
		{StateLoadingService, StateReady, true},
		{StateLoadingService, StateForbidden, true},
		{StateForbidden, StateSubmitting, false},
		{StateReady, StateSubmitting, true},
		{StateReady, StateSubmitted, false},
		{StateSubmitting, StateFailed, true},
		{StateSubmitting, StateSubmitted, true},
		{StateFailed, StateSubmitting, true},
		{StateFailed, StateReady, true},
		{StateSubmitted, StateReady, false},
		{StateServiceNotFound, StateSubmitting, false},
		{StateWrongVendorType, StateLoadingService, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTerminalAndEditable(t *testing.T) {
	terminal := []State{StateUnauthorized, StateProfileFailed, StateWrongVendorType, StateUnverified, StateServiceNotFound, StateServiceFailed, StateForbidden, StateSubmitted}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
		if s.Editable() {
			t.Errorf("%s should not be editable", s)
		}
	}

	for _, s := range []State{StateReady, StateFailed} {
		if s.Terminal() || !s.Editable() {
			t.Errorf("%s should be editable and non-terminal", s)
		}
	}
}

func TestStateTextRoundTrip(t *testing.T) {
	raw, err := json.Marshal(StateSubmitting)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"Submitting"` {
		t.Fatalf("got %s", raw)
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != StateSubmitting {
		t.Errorf("got %s", s)
	}

	if err := json.Unmarshal([]byte(`"Sleeping"`), &s); err == nil {
		t.Error("expected an error for an unknown state name")
	}
}
