package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/islandhop/internal/auth"
	"github.com/MrSnakeDoc/islandhop/internal/editor"
	"github.com/MrSnakeDoc/islandhop/internal/httpserver/views"
	"github.com/MrSnakeDoc/islandhop/internal/index"
	"github.com/MrSnakeDoc/islandhop/internal/logger"
	"github.com/MrSnakeDoc/islandhop/internal/sources/catalog"
	redisstore "github.com/MrSnakeDoc/islandhop/internal/store/redis"
)

// Pinger is the part of the persistence API client the ops endpoints use.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time   // for testing, defaults to time.Now
	AllowedHosts  []string           // Host headers allowed to access the vendor pages
	AllowedCIDRS  []string           // IPs allowed to access the ops endpoints
	TrustProxy    bool               // true if running behind a trusted reverse proxy
	Store         *redisstore.Store  // Session and islands mirror (nil when disabled)
	MemoryIndex   *index.MemoryIndex // Live edit sessions and cached islands
	API           Pinger             // Persistence API, probed by /readyz and /infra
	Workflow      *editor.Workflow   // Opens and restores edit sessions
	Auth          auth.Provider      // Resolves the current user
	Catalog       *catalog.Catalog   // Service types offered by the form
	Views         *views.Renderer    // HTML pages
	SessionTTL    time.Duration      // Lifetime of a mirrored session snapshot
	SignInURL     string             // Sign-in page for unauthorized users
	ListingPath   string             // Vendor services listing
	DashboardPath string             // Vendor dashboard
	HotelPath     string             // Hotel management area
	ReloadTrigger chan struct{}      // Channel to trigger a manual islands reload
	SubmitBurst   int                // Per-client submit burst
	SubmitPerMin  int                // Per-client submits refilled per minute
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
