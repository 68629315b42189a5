package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/islandhop/internal/auth"
	"github.com/MrSnakeDoc/islandhop/internal/domain"
	"github.com/MrSnakeDoc/islandhop/internal/editor"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/deps"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/views"
	"github.com/MrSnakeDoc/islandhop/internal/index"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
	"github.com/MrSnakeDoc/islandhop/internal/sources/catalog"
	"github.com/MrSnakeDoc/islandhop/internal/vendorapi"
)

type fakeAPI struct {
	mu sync.Mutex

	profile    domain.VendorProfile
	record     domain.ServiceRecord
	serviceErr error
	updateErr  error
	pingErr    error

	calls   map[string]int
	updates []any
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeAPI) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) GetVendorProfile(ctx context.Context, userID string) (domain.VendorProfile, error) {
	f.count("profile")
	return f.profile, nil
}

func (f *fakeAPI) GetService(ctx context.Context, userID string, serviceID int64) (domain.ServiceRecord, error) {
	f.count("service")
	return f.record, f.serviceErr
}

func (f *fakeAPI) ListIslands(ctx context.Context) ([]domain.Island, error) {
	f.count("islands")
	return []domain.Island{{ID: 3, Name: "Mahé"}, {ID: 4, Name: "Praslin"}}, nil
}

func (f *fakeAPI) UpdateService(ctx context.Context, userID string, serviceID int64, payload any) error {
	f.count("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, payload)
	return f.updateErr
}

func (f *fakeAPI) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeAPI) lastUpdate() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return nil
	}
	return f.updates[len(f.updates)-1]
}

const carRecordJSON = `{
	"id": 42,
	"vendor_id": 1,
	"type": "rental/car",
	"name": "Jeep Wrangler",
	"island_id": "3",
	"price": "85.5",
	"amenities": "{\"general\":[\"GPS\"],\"specifics\":{\"unit\":\"per day\",\"quantity\":2,\"deposit\":{\"required\":true,\"amount\":150}}}",
	"images": "[\"https://cdn.example.com/a.jpg\"]",
	"is_active": 1
}`

func carRecord(t *testing.T) domain.ServiceRecord {
	t.Helper()
	var rec domain.ServiceRecord
	require.NoError(t, json.Unmarshal([]byte(carRecordJSON), &rec))
	return rec
}

func testDeps(t *testing.T, api *fakeAPI) deps.Deps {
	t.Helper()
	log := logger.Nop()
	idx := index.NewMemoryIndex()
	renderer, err := views.New()
	require.NoError(t, err)

	return deps.Deps{
		Logger:        log,
		MemoryIndex:   idx,
		API:           api,
		Workflow:      editor.NewWorkflow(api, idx, log, editor.Options{}),
		Auth:          auth.NewHeaderProvider(true, []string{"192.0.2.0/24"}),
		Catalog:       catalog.Default(),
		Views:         renderer,
		SignInURL:     "/signin",
		ListingPath:   "/vendor/services",
		DashboardPath: "/vendor/dashboard",
		HotelPath:     "/vendor/hotels",
		ReloadTrigger: make(chan struct{}, 1),
	}
}

func testRouter(d deps.Deps) http.Handler {
	r := chi.NewRouter()
	r.Get("/vendor/services/{id}/edit", EditPage(d))
	r.Post("/vendor/services/{id}/edit", EditSubmit(d))
	return r
}

func asVendor(req *http.Request) *http.Request {
	req.Header.Set(auth.HeaderUserID, "u-1")
	req.Header.Set(auth.HeaderRole, "vendor")
	return req
}

func getEdit(t *testing.T, h http.Handler, id string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asVendor(httptest.NewRequest(http.MethodGet, "/vendor/services/"+id+"/edit", nil)))
	return rec
}

func postEdit(t *testing.T, h http.Handler, id string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/vendor/services/"+id+"/edit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, asVendor(req))
	return rec
}

func onlySessionID(t *testing.T, d deps.Deps) string {
	t.Helper()
	sessions := d.MemoryIndex.GetAllSessions()
	require.Len(t, sessions, 1)
	return sessions[0].ID()
}

func TestEditPageRendersForm(t *testing.T) {
	api := &fakeAPI{profile: domain.VendorProfile{ID: 1, Type: "rental", Verified: true}, record: carRecord(t)}
	d := testDeps(t, api)

	rec := getEdit(t, testRouter(d), "42")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Jeep Wrangler"`)
	assert.Contains(t, body, `<option value="3" selected>Mahé</option>`)
	assert.Contains(t, body, `name="rental_unit"`)
	assert.Contains(t, body, `name="session_id" value="`+onlySessionID(t, d)+`"`)
}

func TestEditPageUnauthenticatedRedirectsToSignIn(t *testing.T) {
	api := &fakeAPI{}
	d := testDeps(t, api)

	rec := httptest.NewRecorder()
	testRouter(d).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vendor/services/42/edit", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/signin", loc.Path)
	assert.Equal(t, editor.ReasonUnauthenticated, loc.Query().Get("reason"))
	assert.Equal(t, "/vendor/services/42/edit", loc.Query().Get("next"))
	assert.Equal(t, 0, api.Calls("profile"))
}

func TestEditPageHotelVendorNotice(t *testing.T) {
	api := &fakeAPI{profile: domain.VendorProfile{ID: 1, Type: "hotel"}}
	d := testDeps(t, api)

	rec := getEdit(t, testRouter(d), "42")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect Vendor Type")
	assert.Contains(t, rec.Body.String(), `href="/vendor/hotels"`)
	assert.Equal(t, 0, api.Calls("service"))
	assert.Equal(t, 0, d.MemoryIndex.SessionCount())
}

func TestEditPageServiceNotFound(t *testing.T) {
	api := &fakeAPI{profile: domain.VendorProfile{ID: 1, Type: "activity"}, serviceErr: vendorapi.ErrNotFound}
	d := testDeps(t, api)

	rec := getEdit(t, testRouter(d), "42")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/vendor/services"`)
	assert.Equal(t, 0, api.Calls("update"))
}

func TestEditPageRecordOfAnotherVendor(t *testing.T) {
	rec := carRecord(t)
	rec.VendorID = domain.NumberFromInt(99)
	api := &fakeAPI{profile: domain.VendorProfile{ID: 1, Type: "rental", Verified: true}, record: rec}
	d := testDeps(t, api)
	h := testRouter(d)

	resp := getEdit(t, h, "42")

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "Not Your Service")
	assert.NotContains(t, resp.Body.String(), "Jeep Wrangler")
	assert.Equal(t, 0, d.MemoryIndex.SessionCount())

	resp = postEdit(t, h, "42", url.Values{"session_id": {"7b0c5d2e-4f7a-4c1e-9a55-0d4c1e2f3a4b"}, "action": {ActionSave}})
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, 0, api.Calls("update"))
}

func TestEditPageInvalidID(t *testing.T) {
	api := &fakeAPI{}
	d := testDeps(t, api)

	rec := getEdit(t, testRouter(d), "abc")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, api.Calls("profile"))
}

func TestEditSubmitSavesAndRedirects(t *testing.T) {
	api := &fakeAPI{profile: domain.VendorProfile{ID: 1, Type: "rental", Verified: true}, record: carRecord(t)}
	d := testDeps(t, api)
	h := testRouter(d)

	require.Equal(t, http.StatusOK, getEdit(t, h, "42").Code)
	id := onlySessionID(t, d)

	rec := postEdit(t, h, "42", url.Values{
		"session_id":       {id},
		"action":           {ActionSave},
		"name":             {"Jeep Wrangler 2024"},
		"price":            {"99"},
		"deposit_required": {"false", "true"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/vendor/services?updated=42", rec.Header().Get("Location"))
	assert.Equal(t, 1, api.Calls("update"))
	assert.Equal(t, 0, d.MemoryIndex.SessionCount())

	payload, ok := api.lastUpdate().(editor.RentalPayload)
	require.True(t, ok)
	assert.Equal(t, "Jeep Wrangler 2024", payload.Name)
	require.NotNil(t, payload.Price)
	assert.Equal(t, 99.0, *payload.Price)
	assert.True(t, payload.DepositRequired)
}

func TestEditSubmitUncheckedBoxClearsFlag(t *testing.T) {
	api := &fakeAPI{profile: domain.VendorProfile{ID: 1, Type: "rental", Verified: true}, record: carRecord(t)}
	d := testDeps(t, api)
	h := testRouter(d)

	body := getEdit(t, h, "42").Body.String()
	require.Contains(t, body, `name="deposit_required"`)

	// An unchecked box posts only its hidden "false" companion.
	rec := postEdit(t, h, "42", url.Values{
		"session_id":       {onlySessionID(t, d)},
		"action":           {ActionSave},
		"deposit_required": {"false"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	payload, ok := api.lastUpdate().(editor.RentalPayload)
	require.True(t, ok)
	assert.False(t, payload.DepositRequired)
	require.NotNil(t, payload.DepositAmount)
	assert.Equal(t, 150.0, *payload.DepositAmount)
}

func TestEditSubmitValidationFailure(t *testing.T) {
	api := &fakeAPI{profile: domain.VendorProfile{ID: 1, Type: "rental", Verified: true}, record: carRecord(t)}
	d := testDeps(t, api)
	h := testRouter(d)

	getEdit(t, h, "42")
	rec := postEdit(t, h, "42", url.Values{
		"session_id": {onlySessionID(t, d)},
		"action":     {ActionSave},
		"island_id":  {""},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please select an island.")
	assert.Equal(t, 0, api.Calls("update"))
	assert.Equal(t, 1, d.MemoryIndex.SessionCount())
}

func TestEditSubmitRefreshKeepsEdits(t *testing.T) {
	api := &fakeAPI{profile: domain.VendorProfile{ID: 1, Type: "rental", Verified: true}, record: carRecord(t)}
	d := testDeps(t, api)
	h := testRouter(d)

	getEdit(t, h, "42")
	rec := postEdit(t, h, "42", url.Values{
		"session_id": {onlySessionID(t, d)},
		"action":     {ActionRefresh},
		"type":       {"activity/trek"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "You changed the service category.")
	assert.Contains(t, body, `name="difficulty_level"`)
	assert.NotContains(t, body, `name="rental_unit"`)
	assert.Equal(t, 0, api.Calls("update"))
}

func TestEditSubmitFailureShowsMessage(t *testing.T) {
	api := &fakeAPI{profile: domain.VendorProfile{ID: 1, Type: "rental", Verified: true}, record: carRecord(t)}
	d := testDeps(t, api)
	h := testRouter(d)
	getEdit(t, h, "42")

	api.mu.Lock()
	api.updateErr = &errWithMessage{"connection reset"}
	api.mu.Unlock()

	rec := postEdit(t, h, "42", url.Values{
		"session_id": {onlySessionID(t, d)},
		"action":     {ActionSave},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), editor.MsgSubmitFailed)
	assert.Equal(t, 1, d.MemoryIndex.SessionCount())
}

func TestEditSubmitUnknownSessionStartsOver(t *testing.T) {
	tests := []struct {
		name      string
		sessionID func(d deps.Deps) string
		path      string
	}{
		{"missing", func(deps.Deps) string { return "" }, "42"},
		{"not a uuid", func(deps.Deps) string { return "nope" }, "42"},
		{"unknown", func(deps.Deps) string { return "7a1a9d1e-2a47-4d4e-8a35-6f0f5b0c9a11" }, "42"},
		{"other service", func(d deps.Deps) string { return d.MemoryIndex.GetAllSessions()[0].ID() }, "43"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{profile: domain.VendorProfile{ID: 1, Type: "rental", Verified: true}, record: carRecord(t)}
			d := testDeps(t, api)
			h := testRouter(d)
			getEdit(t, h, "42")

			rec := postEdit(t, h, tt.path, url.Values{
				"session_id": {tt.sessionID(d)},
				"action":     {ActionSave},
			})

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/vendor/services/"+tt.path+"/edit", rec.Header().Get("Location"))
			assert.Equal(t, 0, api.Calls("update"))
		})
	}
}

// errWithMessage carries no server message, so the generic text is shown.
type errWithMessage struct{ msg string }

func (e *errWithMessage) Error() string { return e.msg }
