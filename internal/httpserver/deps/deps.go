package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/hatebu/internal/domain"
	"github.com/MrSnakeDoc/hatebu/internal/logger"
	"github.com/MrSnakeDoc/hatebu/internal/scheduler"
)

// Pinger reports whether the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BookmarkLister is the read side of the bookmark repository used by /stats.
type BookmarkLister interface {
	List(ctx context.Context) ([]*domain.Bookmark, error)
	Skipped() int64
}

// ImportStatus exposes the outcome of the latest import run.
type ImportStatus interface {
	LastRun() (scheduler.ImportResult, bool)
	LastError() error
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	StoreName     string          // "redis" or "memory"
	Store         Pinger          // KV store pinged by readyz
	Bookmarks     BookmarkLister  // bookmark repository
	Importer      ImportStatus    // nil when no import file is configured
	ImportTrigger chan<- struct{} // manual import trigger (nil if import disabled)
	PingTimeout   time.Duration   // timeout for store pings, defaults to 2s
	AllowedHosts  []string        // Host headers allowed to access the server
	AllowedCIDRS  []string        // IPs allowed to access stats/import endpoints
	TrustProxy    bool            // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins   []string        // allowed CORS origins
}
