package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
	"github.com/MrSnakeDoc/islandhop/internal/fetch"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
	"github.com/MrSnakeDoc/islandhop/internal/vendorapi"
)

// API is the part of the Persistence API the workflow consumes.
type API interface {
	GetVendorProfile(ctx context.Context, userID string) (domain.VendorProfile, error)
	GetService(ctx context.Context, userID string, serviceID int64) (domain.ServiceRecord, error)
	UpdateService(ctx context.Context, userID string, serviceID int64, payload any) error
	ListIslands(ctx context.Context) ([]domain.Island, error)
}

// IslandSource serves a cached islands list. An empty list means "not
// loaded" and the workflow falls back to the API.
type IslandSource interface {
	Islands() []domain.Island
}

// Options tune a Workflow.
type Options struct {
	// RequireVerified refuses unverified vendors. Off by default: edits of
	// existing listings do not check verification.
	RequireVerified bool

	// Now defaults to time.Now.
	Now func() time.Time
}

// Workflow opens edit sessions: it runs the access gate, loads the record
// and the islands, and hands back a Session in its resulting state.
type Workflow struct {
	api             API
	islands         IslandSource
	log             logger.Logger
	requireVerified bool
	now             func() time.Time
}

func NewWorkflow(api API, islands IslandSource, log logger.Logger, opts Options) *Workflow {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Workflow{
		api:             api,
		islands:         islands,
		log:             log,
		requireVerified: opts.RequireVerified,
		now:             now,
	}
}

// Open runs the gate sequence for identity and serviceID. Each step blocks
// the next: identity, then the vendor profile, then the service record and
// islands (fetched concurrently), then record ownership. The service is
// never requested for a user who fails the gate, and a record owned by
// another vendor is never shown.
//
// A non-nil error is returned only when ctx ended before the workflow
// settled; the partial session is discarded in that case.
func (w *Workflow) Open(ctx context.Context, ident domain.Identity, serviceID int64) (*Session, error) {
	s := w.newSession(uuid.NewString(), ident.UserID, serviceID)

	if !ident.Authenticated() {
		return s, w.deny(s, ReasonUnauthenticated)
	}
	if !ident.IsVendor() {
		return s, w.deny(s, ReasonVendorOnly)
	}

	if err := s.transition(StateLoadingProfile); err != nil {
		return nil, err
	}
	profile := fetch.Do(ctx, func(ctx context.Context) (domain.VendorProfile, error) {
		return w.api.GetVendorProfile(ctx, ident.UserID)
	})
	if profile.Discarded() {
		s.Close()
		return nil, profile.Err
	}
	if !profile.OK() {
		w.log.Warn("vendor profile fetch failed",
			logger.String("user_id", ident.UserID),
			logger.Error(profile.Err))
		s.message = profile.Err.Error()
		return s, s.transition(StateProfileFailed)
	}

	if profile.Data.IsHotel() {
		w.log.Info("hotel vendor sent away from service editor",
			logger.String("user_id", ident.UserID),
			logger.Int64("service_id", serviceID))
		return s, s.transition(StateWrongVendorType)
	}

	s.verified = bool(profile.Data.Verified)
	if !s.verified {
		if w.requireVerified {
			s.message = MsgUnverifiedVendor
			return s, s.transition(StateUnverified)
		}
		w.log.Info("unverified vendor editing service",
			logger.String("user_id", ident.UserID),
			logger.Int64("service_id", serviceID))
	}

	if err := s.transition(StateLoadingService); err != nil {
		return nil, err
	}

	var (
		wg      sync.WaitGroup
		service fetch.Result[domain.ServiceRecord]
		islands fetch.Result[[]domain.Island]
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		service = fetch.Do(ctx, func(ctx context.Context) (domain.ServiceRecord, error) {
			return w.api.GetService(ctx, ident.UserID, serviceID)
		})
	}()
	go func() {
		defer wg.Done()
		islands = w.loadIslands(ctx)
	}()
	wg.Wait()

	if service.Discarded() {
		s.Close()
		return nil, service.Err
	}
	if !service.OK() {
		if errors.Is(service.Err, vendorapi.ErrNotFound) {
			return s, s.transition(StateServiceNotFound)
		}
		w.log.Warn("service fetch failed",
			logger.Int64("service_id", serviceID),
			logger.Error(service.Err))
		s.message = vendorapi.ServerMessage(service.Err)
		if s.message == "" {
			s.message = MsgServiceLoad
		}
		return s, s.transition(StateServiceFailed)
	}

	if !service.Data.OwnedBy(profile.Data.ID) {
		w.log.Warn("service belongs to another vendor",
			logger.String("user_id", ident.UserID),
			logger.Int64("vendor_id", profile.Data.ID),
			logger.Int64("service_id", serviceID),
			logger.String("owner_id", service.Data.VendorID.String()))
		return s, s.transition(StateForbidden)
	}

	form, warnings := Normalize(service.Data)
	s.form = form
	s.loadedCategory = service.Data.Category()
	s.loadWarnings = warnings
	s.isActive = bool(service.Data.IsActive)

	s.islandsStatus = islands.Status
	if islands.OK() {
		s.islands = islands.Data
	} else {
		w.log.Warn("islands fetch failed, selector will be empty", logger.Error(islands.Err))
		s.islands = []domain.Island{}
		s.islandsError = "Islands could not be loaded."
	}

	for _, warn := range warnings {
		w.log.Info("service record normalized with warning",
			logger.Int64("service_id", serviceID),
			logger.String("warning", warn.Code))
	}
	return s, s.transition(StateReady)
}

// Restore rebuilds a session from a persisted snapshot. A snapshot taken
// mid-submission comes back as Failed, since the outcome of that request is
// unknown to this process.
func (w *Workflow) Restore(snap Snapshot) *Session {
	s := w.newSession(snap.ID, snap.UserID, snap.ServiceID)
	s.state = snap.State
	s.reason = snap.Reason
	s.message = snap.Message
	s.form = snap.Form
	s.loadedCategory = snap.LoadedCategory
	s.loadWarnings = append([]Warning(nil), snap.LoadWarnings...)
	s.islands = append([]domain.Island(nil), snap.Islands...)
	s.islandsStatus = snap.IslandsStatus
	s.islandsError = snap.IslandsError
	s.verified = snap.Verified
	s.isActive = snap.IsActive
	if !snap.TouchedAt.IsZero() {
		s.touchedAt = snap.TouchedAt
	}

	if s.state == StateSubmitting {
		s.state = StateFailed
		s.message = MsgInterruptedSave
	}
	return s
}

func (w *Workflow) newSession(id, userID string, serviceID int64) *Session {
	return &Session{
		api:           w.api,
		log:           w.log,
		now:           w.now,
		id:            id,
		userID:        userID,
		serviceID:     serviceID,
		state:         StateNew,
		islandsStatus: fetch.StatusIdle,
		touchedAt:     w.now(),
	}
}

func (w *Workflow) deny(s *Session, reason string) error {
	s.reason = reason
	w.log.Info("edit access denied",
		logger.String("reason", reason),
		logger.Int64("service_id", s.serviceID))
	return s.transition(StateUnauthorized)
}

func (w *Workflow) loadIslands(ctx context.Context) fetch.Result[[]domain.Island] {
	if w.islands != nil {
		if cached := w.islands.Islands(); len(cached) > 0 {
			return fetch.Result[[]domain.Island]{Data: cached, Status: fetch.StatusSuccess}
		}
	}
	return fetch.Do(ctx, w.api.ListIslands)
}
