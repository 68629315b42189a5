package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
	"github.com/MrSnakeDoc/islandhop/internal/fetch"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
	"github.com/MrSnakeDoc/islandhop/internal/vendorapi"
)

// Sign-in reason codes for the Unauthorized state.
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonVendorOnly      = "vendor_only"
)

// Session is one user's edit of one service record. It owns its FormState
// exclusively; all methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	api API
	log logger.Logger
	now func() time.Time

	id        string
	userID    string
	serviceID int64

	state   State
	reason  string
	message string

	form           FormState
	loadedCategory domain.Category
	loadWarnings   []Warning
	islands        []domain.Island
	islandsStatus  fetch.Status
	islandsError   string
	verified       bool
	isActive       bool

	touchedAt time.Time
	closed    bool
}

// Snapshot is a point-in-time copy of a session, used for rendering and
// for persisting drafts between requests.
type Snapshot struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	ServiceID      int64           `json:"service_id"`
	State          State           `json:"state"`
	Reason         string          `json:"reason,omitempty"`
	Message        string          `json:"message,omitempty"`
	Form           FormState       `json:"form"`
	LoadedCategory domain.Category `json:"loaded_category"`
	LoadWarnings   []Warning       `json:"load_warnings,omitempty"`
	Warnings       []Warning       `json:"-"`
	Islands        []domain.Island `json:"islands"`
	IslandsStatus  fetch.Status    `json:"islands_status"`
	IslandsError   string          `json:"islands_error,omitempty"`
	Verified       bool            `json:"verified"`
	IsActive       bool            `json:"is_active"`
	TouchedAt      time.Time       `json:"touched_at"`
}

func (s *Session) ID() string       { return s.id }
func (s *Session) UserID() string   { return s.userID }
func (s *Session) ServiceID() int64 { return s.serviceID }

// State returns the current workflow state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TouchedAt returns the last time the session was used.
func (s *Session) TouchedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// OwnedBy reports whether userID opened this session.
func (s *Session) OwnedBy(userID string) bool {
	return userID != "" && s.userID == userID
}

// Form returns the current form values.
func (s *Session) Form() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Snapshot copies the session. Warnings combines load warnings with the
// category-switch warning when the current type left the loaded category.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.id,
		UserID:         s.userID,
		ServiceID:      s.serviceID,
		State:          s.state,
		Reason:         s.reason,
		Message:        s.message,
		Form:           s.form,
		LoadedCategory: s.loadedCategory,
		LoadWarnings:   append([]Warning(nil), s.loadWarnings...),
		Islands:        append([]domain.Island(nil), s.islands...),
		IslandsStatus:  s.islandsStatus,
		IslandsError:   s.islandsError,
		Verified:       s.verified,
		IsActive:       s.isActive,
		TouchedAt:      s.touchedAt,
	}
	snap.Warnings = append(snap.Warnings, snap.LoadWarnings...)
	if categorySwitched(s.loadedCategory, s.form.Category()) {
		snap.Warnings = append(snap.Warnings, warnCategory)
	}
	return snap
}

// Close discards the session. Results of requests still in flight are
// dropped when they arrive.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Edit replaces one form field. It returns the category-switch warning when
// the edit moves the type to another category.
func (s *Session) Edit(name, value string) ([]Warning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	if !s.state.Editable() {
		return nil, fmt.Errorf("%w: state %s", ErrNotEditable, s.state)
	}

	next, err := s.form.With(name, value)
	if err != nil {
		return nil, err
	}
	if next == s.form {
		return nil, nil
	}

	var warnings []Warning
	if name == FieldType && categorySwitched(s.form.Category(), next.Category()) {
		warnings = append(warnings, warnCategory)
	}

	s.form = next
	if s.state == StateFailed {
		if err := s.transition(StateReady); err != nil {
			return nil, err
		}
		s.message = ""
	}
	s.touch()
	return warnings, nil
}

// Submit validates, serializes and sends the form. Only one submission can
// be in flight; a second call meanwhile returns ErrSubmitInFlight without
// touching the network. On failure the session returns to an editable state
// with the user's values intact.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if !s.state.Editable() {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot submit from %s", ErrIllegalTransition, state)
	}

	if err := Validate(s.form); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			s.message = verr.Message
		}
		s.touch()
		s.mu.Unlock()
		return err
	}

	payload, err := BuildPayload(s.form)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.transition(StateSubmitting); err != nil {
		s.mu.Unlock()
		return err
	}
	s.message = ""
	s.touch()
	api, userID, serviceID := s.api, s.userID, s.serviceID
	s.mu.Unlock()

	start := time.Now()
	err = api.UpdateService(ctx, userID, serviceID, payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.touch()

	if err != nil {
		msg := vendorapi.ServerMessage(err)
		if msg == "" {
			msg = MsgSubmitFailed
		}
		s.message = msg
		if terr := s.transition(StateFailed); terr != nil {
			return terr
		}
		s.log.Warn("service update failed",
			logger.String("session_id", s.id),
			logger.Int64("service_id", serviceID),
			logger.Duration("duration", time.Since(start)),
			logger.Error(err))
		return &SubmitError{Message: msg, Err: err}
	}

	if err := s.transition(StateSubmitted); err != nil {
		return err
	}
	s.log.Info("service updated",
		logger.String("session_id", s.id),
		logger.Int64("service_id", serviceID),
		logger.String("category", string(payload.Category())),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// transition moves to next if the edge exists. Caller holds s.mu.
func (s *Session) transition(next State) error {
	if !CanTransition(s.state, next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.state, next)
	}
	s.log.Debug("edit session transition",
		logger.String("session_id", s.id),
		logger.String("from", s.state.String()),
		logger.String("to", next.String()))
	s.state = next
	return nil
}

func (s *Session) touch() {
	s.touchedAt = s.now()
}

func categorySwitched(from, to domain.Category) bool {
	return from != to && from != domain.CategoryUnknown && to != domain.CategoryUnknown
}
