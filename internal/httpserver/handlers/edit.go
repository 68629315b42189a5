package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/islandhop/internal/auth"
	"github.com/MrSnakeDoc/islandhop/internal/editor"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/views"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
)

// Form actions posted by the edit page buttons.
const (
	ActionRefresh = "refresh"
	ActionSave    = "save"
)

// EditPath is the URL of the edit page of a service.
func EditPath(serviceID int64) string {
	return "/vendor/services/" + strconv.FormatInt(serviceID, 10) + "/edit"
}

// EditPage opens a fresh edit session and renders whatever state the gate
// and the loads leave it in.
func EditPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, ok := parseServiceID(r)
		if !ok {
			renderNotFound(w, d)
			return
		}

		s, err := d.Workflow.Open(r.Context(), d.Auth.Identify(r), serviceID)
		if err != nil {
			// request abandoned, nobody is waiting for the page
			d.Logger.Debug("edit session discarded", logger.Int64("service_id", serviceID), logger.Error(err))
			return
		}
		renderSession(w, r, d, s, http.StatusOK)
	}
}

// EditSubmit applies posted form values to the session named by session_id
// and either re-renders the form or saves it.
func EditSubmit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceID, ok := parseServiceID(r)
		if !ok {
			renderNotFound(w, d)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		ident := d.Auth.Identify(r)
		s := lookupSession(r.Context(), d, r.PostFormValue("session_id"))
		if s == nil || !s.OwnedBy(ident.UserID) || s.ServiceID() != serviceID {
			// unknown, expired or foreign session: start over from the server copy
			http.Redirect(w, r, EditPath(serviceID), http.StatusSeeOther)
			return
		}

		if err := applyForm(s, r.PostForm); err != nil {
			if errors.Is(err, editor.ErrSessionClosed) {
				http.Redirect(w, r, EditPath(serviceID), http.StatusSeeOther)
				return
			}
			d.Logger.Debug("form edits ignored", logger.String("session_id", s.ID()), logger.Error(err))
		}

		if r.PostFormValue("action") != ActionSave {
			renderSession(w, r, d, s, http.StatusOK)
			return
		}

		err := s.Submit(r.Context())
		var verr *editor.ValidationError
		switch {
		case err == nil:
			forgetSession(r.Context(), d, s.ID())
			renderSession(w, r, d, s, http.StatusOK)
		case errors.As(err, &verr):
			renderSession(w, r, d, s, http.StatusUnprocessableEntity)
		case errors.Is(err, editor.ErrSubmitInFlight):
			renderSession(w, r, d, s, http.StatusConflict)
		case errors.Is(err, editor.ErrSessionClosed):
			http.Redirect(w, r, EditPath(serviceID), http.StatusSeeOther)
		default:
			// failure already logged by the session; the form shows the message
			renderSession(w, r, d, s, http.StatusOK)
		}
	}
}

func parseServiceID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// applyForm feeds every known field present in the post to the session.
// Checkboxes post a hidden "false" before the box itself, so the last value
// wins.
func applyForm(s *editor.Session, form url.Values) error {
	for _, name := range editor.FieldNames() {
		vals, ok := form[name]
		if !ok || len(vals) == 0 {
			continue
		}
		if _, err := s.Edit(name, vals[len(vals)-1]); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

// lookupSession finds a live session in memory, falling back to the Redis
// mirror after a restart.
func lookupSession(ctx context.Context, d deps.Deps, id string) *editor.Session {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	if s, ok := d.MemoryIndex.GetSession(id); ok {
		return s
	}
	if d.Store == nil {
		return nil
	}

	snap, err := d.Store.GetSession(ctx, id)
	if err != nil {
		d.Logger.Debug("session not restored", logger.String("session_id", id), logger.Error(err))
		return nil
	}
	s := d.Workflow.Restore(snap)
	d.MemoryIndex.AddSession(s)
	d.Logger.Info("session restored from redis", logger.String("session_id", id))
	return s
}

func rememberSession(ctx context.Context, d deps.Deps, s *editor.Session) {
	d.MemoryIndex.AddSession(s)
	if d.Store == nil {
		return
	}
	if err := d.Store.SaveSession(ctx, s.Snapshot(), d.SessionTTL); err != nil {
		d.Logger.Warn("failed to mirror session to redis", logger.String("session_id", s.ID()), logger.Error(err))
	}
}

func forgetSession(ctx context.Context, d deps.Deps, id string) {
	d.MemoryIndex.DeleteSession(id)
	if d.Store == nil {
		return
	}
	if err := d.Store.DeleteSession(ctx, id); err != nil {
		d.Logger.Warn("failed to delete session from redis", logger.String("session_id", id), logger.Error(err))
	}
}

// renderSession maps a session state to a page, a redirect or a notice.
func renderSession(w http.ResponseWriter, r *http.Request, d deps.Deps, s *editor.Session, status int) {
	snap := s.Snapshot()
	editURL := EditPath(snap.ServiceID)

	switch snap.State {
	case editor.StateUnauthorized:
		http.Redirect(w, r, auth.SignInURL(d.SignInURL, snap.Reason, editURL), http.StatusSeeOther)

	case editor.StateSubmitted:
		http.Redirect(w, r, listingURL(d.ListingPath, snap.ServiceID), http.StatusSeeOther)

	case editor.StateReady, editor.StateFailed, editor.StateSubmitting:
		rememberSession(r.Context(), d, s)
		page := views.NewEditPage(snap, d.Catalog, editURL, d.ListingPath)
		if status == http.StatusConflict {
			page.Error = editor.ErrSubmitInFlight.Error()
		}
		render(w, d, status, views.PageEdit, page)

	case editor.StateProfileFailed:
		render(w, d, http.StatusBadGateway, views.PageNotice, views.NoticePage{
			Title:   "Could not load your vendor profile",
			Message: snap.Message,
			IsError: true,
			Links:   []views.Link{{URL: editURL, Label: "Try again"}, {URL: d.DashboardPath, Label: "Dashboard"}},
		})

	case editor.StateWrongVendorType:
		render(w, d, http.StatusForbidden, views.PageNotice, views.NoticePage{
			Title:   "Incorrect Vendor Type",
			Message: "This page is for rental and activity vendors. Hotel listings are managed from the hotel area.",
			Links:   []views.Link{{URL: d.HotelPath, Label: "Hotel management"}, {URL: d.DashboardPath, Label: "Dashboard"}},
		})

	case editor.StateUnverified:
		render(w, d, http.StatusForbidden, views.PageNotice, views.NoticePage{
			Title:   "Verification Required",
			Message: snap.Message,
			Links:   []views.Link{{URL: d.DashboardPath, Label: "Dashboard"}},
		})

	case editor.StateServiceNotFound:
		render(w, d, http.StatusNotFound, views.PageNotice, views.NoticePage{
			Title:   "Service Not Found",
			Message: "The service you are trying to edit does not exist or was removed.",
			Links:   []views.Link{{URL: d.ListingPath, Label: "Back to my services"}},
		})

	case editor.StateForbidden:
		render(w, d, http.StatusForbidden, views.PageNotice, views.NoticePage{
			Title:   "Not Your Service",
			Message: "This service belongs to another vendor account.",
			Links:   []views.Link{{URL: d.ListingPath, Label: "Back to my services"}},
		})

	case editor.StateServiceFailed:
		render(w, d, http.StatusBadGateway, views.PageNotice, views.NoticePage{
			Title:   "Could not load service",
			Message: snap.Message,
			IsError: true,
			Links:   []views.Link{{URL: editURL, Label: "Try again"}, {URL: d.ListingPath, Label: "Back to my services"}},
		})

	default:
		d.Logger.Error("session in unexpected state",
			logger.String("session_id", snap.ID),
			logger.String("state", snap.State.String()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func renderNotFound(w http.ResponseWriter, d deps.Deps) {
	render(w, d, http.StatusNotFound, views.PageNotice, views.NoticePage{
		Title:   "Service Not Found",
		Message: "The service you are trying to edit does not exist or was removed.",
		Links:   []views.Link{{URL: d.ListingPath, Label: "Back to my services"}},
	})
}

func render(w http.ResponseWriter, d deps.Deps, status int, page string, data any) {
	if err := d.Views.Render(w, status, page, data); err != nil {
		d.Logger.Error("failed to render page", logger.String("page", page), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func listingURL(listingPath string, serviceID int64) string {
	q := url.Values{"updated": {strconv.FormatInt(serviceID, 10)}}
	return listingPath + "?" + q.Encode()
}
