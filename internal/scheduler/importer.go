package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/hatebu/internal/bookmark"
	"github.com/MrSnakeDoc/hatebu/internal/logger"
	"github.com/MrSnakeDoc/hatebu/internal/sources/importfile"
)

// ErrAlreadyStarted is returned by a second Start, including one after Stop.
var ErrAlreadyStarted = errors.New("importer already started")

// ImportResult summarises one import run.
type ImportResult struct {
	Created  int       `json:"created"`
	Existing int       `json:"existing"`
	Rejected int       `json:"rejected"`
	Finished time.Time `json:"finished"`
}

// Importer periodically creates bookmarks listed in an import file.
// Entries whose URL is already stored are left alone.
type Importer struct {
	loader        *importfile.Loader
	repo          *bookmark.Repository
	logger        logger.Logger
	interval      time.Duration
	manualTrigger <-chan struct{}

	startOnce sync.Once
	stopCh    chan struct{}
	stopOnce  sync.Once
	done      chan struct{}

	mu      sync.RWMutex
	last    ImportResult
	lastErr error
	hasRun  bool
}

// NewImporter creates a new importer
func NewImporter(
	importFile string,
	repo *bookmark.Repository,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *Importer {
	return &Importer{
		loader:        importfile.NewLoader(importFile),
		repo:          repo,
		logger:        log,
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start runs one import immediately, then keeps importing on every tick and
// manual trigger until Stop or ctx is done. An Importer starts at most once:
// later calls, even after a failed start, return ErrAlreadyStarted.
func (im *Importer) Start(ctx context.Context) error {
	first := false
	im.startOnce.Do(func() { first = true })
	if !first {
		return ErrAlreadyStarted
	}

	if _, err := im.Import(ctx); err != nil {
		close(im.done)
		return fmt.Errorf("initial import failed: %w", err)
	}

	ticker := time.NewTicker(im.interval)
	go func() {
		defer close(im.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				im.runLogged(ctx)
			case <-im.manualTrigger:
				im.logger.Info("manual import triggered")
				im.runLogged(ctx)
			case <-im.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop ends the background loop and waits for it to exit. It is safe to call
// more than once and before Start, which it then prevents.
func (im *Importer) Stop() {
	im.stopOnce.Do(func() { close(im.stopCh) })
	im.startOnce.Do(func() { close(im.done) })
	<-im.done
}

func (im *Importer) runLogged(ctx context.Context) {
	if _, err := im.Import(ctx); err != nil {
		im.logger.Error("failed to import bookmarks", logger.Error(err))
	}
}

// Import loads the file and creates the bookmarks not yet stored.
func (im *Importer) Import(ctx context.Context) (ImportResult, error) {
	res, err := im.importOnce(ctx)
	res.Finished = time.Now()

	im.mu.Lock()
	im.last, im.lastErr, im.hasRun = res, err, true
	im.mu.Unlock()

	return res, err
}

func (im *Importer) importOnce(ctx context.Context) (ImportResult, error) {
	var res ImportResult

	im.logger.Info("importing bookmarks", logger.String("file", im.loader.Path()))

	file, err := im.loader.Load()
	if err != nil {
		return res, err
	}

	stored, err := im.repo.List(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list stored bookmarks: %w", err)
	}
	known := make(map[string]bool, len(stored))
	for _, b := range stored {
		known[b.URL] = true
	}

	for i, entry := range file {
		if known[entry.URL] {
			res.Existing++
			continue
		}

		b, ok, err := im.repo.Create(ctx, entry.Param())
		if err != nil {
			return res, fmt.Errorf("failed to import entry %d: %w", i, err)
		}
		if !ok {
			res.Rejected++
			im.logger.Warn("rejected import entry without url or title",
				logger.Int("index", i),
				logger.String("url", entry.URL))
			continue
		}

		known[b.URL] = true
		res.Created++
	}

	im.logger.Info("import finished",
		logger.Int("created", res.Created),
		logger.Int("existing", res.Existing),
		logger.Int("rejected", res.Rejected))

	return res, nil
}

// LastRun returns the most recent result. ok is false before the first run.
func (im *Importer) LastRun() (ImportResult, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.last, im.hasRun
}

// LastError returns the error of the most recent run, if any.
func (im *Importer) LastError() error {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.lastErr
}
