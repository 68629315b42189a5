package editor

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
)

// fakeAPI records every call. release, when set, blocks UpdateService until
// it is closed.
type fakeAPI struct {
	mu sync.Mutex

	profile    domain.VendorProfile
	profileErr error
	record     domain.ServiceRecord
	serviceErr error
	islands    []domain.Island
	islandsErr error
	updateErr  error

	started chan struct{}
	release chan struct{}

	calls   map[string]int
	users   []string
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

func (f *fakeAPI) actAs(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
}

// Users lists the user each service call was made for.
func (f *fakeAPI) Users() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.users...)
}

func (f *fakeAPI) LastUpdate() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return nil
	}
	return f.updates[len(f.updates)-1]
}

func (f *fakeAPI) GetVendorProfile(ctx context.Context, userID string) (domain.VendorProfile, error) {
	f.count("profile")
	return f.profile, f.profileErr
}

func (f *fakeAPI) GetService(ctx context.Context, userID string, serviceID int64) (domain.ServiceRecord, error) {
	f.count("service")
	f.actAs(userID)
	return f.record, f.serviceErr
}

func (f *fakeAPI) ListIslands(ctx context.Context) ([]domain.Island, error) {
	f.count("islands")
	return f.islands, f.islandsErr
}

func (f *fakeAPI) UpdateService(ctx context.Context, userID string, serviceID int64, payload any) error {
	f.count("update")
	f.actAs(userID)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.updates = append(f.updates, payload)
	err := f.updateErr
	f.mu.Unlock()
	return err
}

type staticIslands []domain.Island

func (s staticIslands) Islands() []domain.Island { return s }

func vendorIdentity() domain.Identity {
	return domain.Identity{UserID: "u-1", Role: domain.RoleVendor}
}

func verifiedRental() domain.VendorProfile {
	return domain.VendorProfile{ID: 1, UserID: "u-1", Type: "rental", Verified: true}
}

func decodeRecord(t *testing.T, doc string) domain.ServiceRecord {
	t.Helper()
	var rec domain.ServiceRecord
	require.NoError(t, json.Unmarshal([]byte(doc), &rec))
	return rec
}

// ownRecord is a record owned by the verifiedRental vendor.
func ownRecord(id int64, serviceType string) domain.ServiceRecord {
	return domain.ServiceRecord{ID: id, VendorID: domain.NumberFromInt(1), Type: serviceType}
}

const rentalRecordJSON = `{
	"id": 42,
	"vendor_id": 1,
	"type": "rental/car",
	"name": "Jeep Wrangler",
	"description": "Open-top 4x4",
	"location": "Harbour road",
	"island_id": "3",
	"price": "85.5",
	"amenities": "{\"general\":[\"GPS\",\"Cooler\"],\"specifics\":{\"unit\":\"per day\",\"quantity\":\"4\",\"deposit\":{\"required\":true,\"amount\":200},\"requirements\":{\"required\":1,\"details\":\"21+ with licence\"}}}",
	"images": "[\"https://cdn.example.com/a.jpg\",\"https://cdn.example.com/b.jpg\"]",
	"availability": "{\"mon\":true}",
	"cancellation_policy": "Free until 24h before",
	"is_active": 1
}`

const activityRecordJSON = `{
	"id": 7,
	"vendor_id": "1",
	"type": "activity/diving",
	"name": "Reef dive",
	"island_id": 2,
	"price": 120,
	"amenities": {"general": "Towels, Water", "specifics": {"duration": {"value": "3", "unit": "hours"}, "group_size": {"min": 2, "max": "8"}, "difficulty": "Medium", "equipment": ["Mask", "Fins"], "safety": "Certified instructors", "guide": "yes"}},
	"images": "https://cdn.example.com/reef.jpg"
}`

func newTestWorkflow(api *fakeAPI, opts Options) *Workflow {
	return NewWorkflow(api, nil, logger.New("error", false), opts)
}

func openReady(t *testing.T, api *fakeAPI) *Session {
	t.Helper()
	s, err := newTestWorkflow(api, Options{}).Open(context.Background(), vendorIdentity(), api.record.ID)
	require.NoError(t, err)
	require.Equal(t, StateReady, s.State())
	return s
}
