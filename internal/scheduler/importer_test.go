package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/MrSnakeDoc/hatebu/internal/bookmark"
	"github.com/MrSnakeDoc/hatebu/internal/dates"
	"github.com/MrSnakeDoc/hatebu/internal/domain"
	"github.com/MrSnakeDoc/hatebu/internal/kv"
	"github.com/MrSnakeDoc/hatebu/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const importYAML = `
- title: Example
  url: https://example.com
  last_updated_at: "May 31, 2022 at 08:00PM"
- title: Other
  url: https://other.test
- url: https://untitled.test
`

func writeImportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}
	return path
}

func newTestRepo() *bookmark.Repository {
	return bookmark.NewRepository(kv.NewMemory(), dates.New(time.UTC))
}

func TestImporter_Import(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	im := NewImporter(writeImportFile(t, importYAML), repo, logger.NewNop(), time.Hour, nil)

	res, err := im.Import(ctx)
	if err != nil {
		t.Fatalf("Import() = %v", err)
	}
	if res.Created != 2 || res.Existing != 0 || res.Rejected != 1 {
		t.Errorf("first Import() = %+v, want 2 created, 0 existing, 1 rejected", res)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d bookmarks, want 2", len(list))
	}
	for _, b := range list {
		if b.URL == "https://example.com" {
			if b.LastUpdatedAt == nil || *b.LastUpdatedAt != "2022/5/31 20:00:00" {
				t.Errorf("imported date not normalized: %v", b.LastUpdatedAt)
			}
		}
	}

	// Second run is idempotent by URL.
	res, err = im.Import(ctx)
	if err != nil {
		t.Fatalf("second Import() = %v", err)
	}
	if res.Created != 0 || res.Existing != 2 || res.Rejected != 1 {
		t.Errorf("second Import() = %+v, want 0 created, 2 existing, 1 rejected", res)
	}

	last, ok := im.LastRun()
	if !ok || last.Existing != 2 {
		t.Errorf("LastRun() = (%+v, %v)", last, ok)
	}
	if im.LastError() != nil {
		t.Errorf("LastError() = %v, want nil", im.LastError())
	}
}

func TestImporter_SkipsURLsAlreadyStored(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo()
	if _, _, err := repo.Create(ctx, domain.Param{URL: domain.Ptr("https://other.test"), Title: domain.Ptr("Mine")}); err != nil {
		t.Fatalf("Create() = %v", err)
	}

	im := NewImporter(writeImportFile(t, importYAML), repo, logger.NewNop(), time.Hour, nil)
	res, err := im.Import(ctx)
	if err != nil {
		t.Fatalf("Import() = %v", err)
	}
	if res.Created != 1 || res.Existing != 1 {
		t.Errorf("Import() = %+v, want 1 created, 1 existing", res)
	}
}

func TestImporter_MissingFile(t *testing.T) {
	im := NewImporter(filepath.Join(t.TempDir(), "missing.yaml"), newTestRepo(), logger.NewNop(), time.Hour, nil)

	if err := im.Start(context.Background()); err == nil {
		t.Fatal("Start() = nil, want error for missing file")
	}
	if im.LastError() == nil {
		t.Error("LastError() = nil, want the load error")
	}
	im.Stop()
}

func TestImporter_StartsOnlyOnce(t *testing.T) {
	im := NewImporter(filepath.Join(t.TempDir(), "missing.yaml"), newTestRepo(), logger.NewNop(), time.Hour, nil)

	if err := im.Start(context.Background()); err == nil {
		t.Fatal("Start() = nil, want error for missing file")
	}
	if err := im.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() = %v, want ErrAlreadyStarted", err)
	}
	im.Stop()
	im.Stop()
}

func TestImporter_StopWithoutStart(t *testing.T) {
	im := NewImporter(writeImportFile(t, importYAML), newTestRepo(), logger.NewNop(), time.Hour, nil)

	stopped := make(chan struct{})
	go func() {
		im.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked on an importer that was never started")
	}

	if err := im.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Start() after Stop() = %v, want ErrAlreadyStarted", err)
	}
	if _, ran := im.LastRun(); ran {
		t.Error("Start() after Stop() must not run an import")
	}
}

func TestImporter_ManualTriggerAndStop(t *testing.T) {
	ctx := context.Background()
	path := writeImportFile(t, "- title: A\n  url: https://a.test\n")
	repo := newTestRepo()
	trigger := make(chan struct{}, 1)

	im := NewImporter(path, repo, logger.NewNop(), time.Hour, trigger)
	if err := im.Start(ctx); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer im.Stop()

	if err := os.WriteFile(path, []byte("- title: A\n  url: https://a.test\n- title: B\n  url: https://b.test\n"), 0o600); err != nil {
		t.Fatalf("failed to rewrite import file: %v", err)
	}
	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() = %v", err)
		}
		if len(list) == 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("manual trigger did not import the new entry")
}

func TestImporter_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	im := NewImporter(writeImportFile(t, importYAML), newTestRepo(), logger.NewNop(), time.Hour, nil)
	if err := im.Start(ctx); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	cancel()
	im.Stop()
}
