package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/pager"
	"github.com/desertthunder/vidx/internal/shared"
	th "github.com/desertthunder/vidx/internal/testing"
)

// sliceQuery serves items in pages, failing the pages listed in fail.
func sliceQuery[T any](items []T, fail map[int]error) pager.Query[T] {
	return func(ctx context.Context, req models.PageRequest) (*models.Page[T], error) {
		if err := fail[req.Page]; err != nil {
			return nil, err
		}
		start := min(req.Page*req.Size, len(items))
		end := min(start+req.Size, len(items))
		return &models.Page[T]{
			Items:         items[start:end],
			Index:         req.Page,
			Size:          req.Size,
			TotalPages:    (len(items) + req.Size - 1) / req.Size,
			TotalElements: len(items),
		}, nil
	}
}

func makeVideos(n int) []models.Video {
	videos := make([]models.Video, n)
	for i := range videos {
		videos[i] = models.Video{ID: int64(i + 1), Title: fmt.Sprintf("Video %d", i+1), Duration: 60, Published: true}
	}
	return videos
}

type mockCacher struct {
	cached []int64
	failID int64
}

func (m *mockCacher) CacheVideo(source string, v models.Video) error {
	if v.ID == m.failID {
		return errors.New("cache write failed")
	}
	m.cached = append(m.cached, v.ID)
	return nil
}

func TestCollect(t *testing.T) {
	t.Run("All Pages", func(t *testing.T) {
		c := pager.New(sliceQuery(makeVideos(25), nil), pager.Options[models.Video]{PageSize: 10})
		progress := make(chan ProgressUpdate, 10)

		res, err := Collect(context.Background(), c, "", progress, CollectOpts{})
		if err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		if len(res.Items) != 25 || res.Pages != 3 || !res.Complete || res.TotalElements != 25 {
			t.Errorf("unexpected result: items=%d pages=%d complete=%v total=%d", len(res.Items), res.Pages, res.Complete, res.TotalElements)
		}

		close(progress)
		var updates []ProgressUpdate
		for u := range progress {
			updates = append(updates, u)
		}
		if len(updates) != 3 {
			t.Fatalf("expected 3 progress updates, got %d", len(updates))
		}
		if updates[2].Message != "[3/3] Loaded 25 of 25 items" || updates[2].Phase != FetchPage {
			t.Errorf("unexpected last update %+v", updates[2])
		}
	})

	t.Run("Max Pages", func(t *testing.T) {
		c := pager.New(sliceQuery(makeVideos(25), nil), pager.Options[models.Video]{PageSize: 10})

		res, err := Collect(context.Background(), c, "", nil, CollectOpts{MaxPages: 2})
		if err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		if len(res.Items) != 20 || res.Pages != 2 || res.Complete {
			t.Errorf("unexpected result: items=%d pages=%d complete=%v", len(res.Items), res.Pages, res.Complete)
		}
	})

	t.Run("Empty List", func(t *testing.T) {
		c := pager.New(sliceQuery([]models.Video{}, nil), pager.Options[models.Video]{})

		res, err := Collect(context.Background(), c, "nothing", nil, CollectOpts{})
		if err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
		if len(res.Items) != 0 || !res.Complete {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("First Page Failure", func(t *testing.T) {
		fail := map[int]error{0: fmt.Errorf("%w: dial tcp", shared.ErrNetwork)}
		c := pager.New(sliceQuery(makeVideos(5), fail), pager.Options[models.Video]{})

		res, err := Collect(context.Background(), c, "", nil, CollectOpts{})
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
		if res != nil {
			t.Error("expected no result when the first page fails")
		}
	})

	t.Run("Later Page Failure Keeps Loaded Items", func(t *testing.T) {
		fail := map[int]error{2: &shared.APIError{Status: 500}}
		c := pager.New(sliceQuery(makeVideos(25), fail), pager.Options[models.Video]{PageSize: 10})

		res, err := Collect(context.Background(), c, "", nil, CollectOpts{})
		if !errors.Is(err, shared.ErrServer) {
			t.Errorf("expected ErrServer, got %v", err)
		}
		if res == nil || len(res.Items) != 20 || res.Complete {
			t.Fatalf("expected 20 partial items, got %+v", res)
		}
		if !strings.Contains(err.Error(), "page 3") {
			t.Errorf("error should name the failing page, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		c := pager.New(sliceQuery(makeVideos(25), nil), pager.Options[models.Video]{PageSize: 10})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := Collect(ctx, c, "", nil, CollectOpts{RateLimit: 1}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Nil Controller", func(t *testing.T) {
		if _, err := Collect[models.Video](context.Background(), nil, "", nil, CollectOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Progress Never Blocks", func(t *testing.T) {
		c := pager.New(sliceQuery(makeVideos(25), nil), pager.Options[models.Video]{PageSize: 10})
		progress := make(chan ProgressUpdate)

		if _, err := Collect(context.Background(), c, "", progress, CollectOpts{}); err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
	})
}

func TestExporter(t *testing.T) {
	t.Run("Cache", func(t *testing.T) {
		cacher := &mockCacher{failID: 2}
		if n := NewExporter(cacher, nil).Cache("home", makeVideos(3)); n != 2 {
			t.Errorf("expected 2 cached videos, got %d", n)
		}
		if n := NewExporter(nil, nil).Cache("home", makeVideos(3)); n != 0 {
			t.Errorf("nil cacher should cache nothing, got %d", n)
		}
	})

	t.Run("ExportVideos Caches Items", func(t *testing.T) {
		dir := t.TempDir()
		cacher := &mockCacher{failID: 3}
		c := pager.New(sliceQuery(makeVideos(12), nil), pager.Options[models.Video]{PageSize: 5})

		res, err := NewExporter(cacher, nil).ExportVideos(context.Background(), c, "", nil, ExportOpts{
			Format: formatter.FormatJSON,
			Path:   filepath.Join(dir, "home.json"),
			Source: "home",
		})
		if err != nil {
			t.Fatalf("ExportVideos failed: %v", err)
		}
		if res.Count != 12 || res.Pages != 3 || !res.Complete {
			t.Errorf("unexpected result %+v", res)
		}
		if res.Cached != 11 || len(cacher.cached) != 11 {
			t.Errorf("expected 11 cached videos with one cache failure skipped, got %d", res.Cached)
		}

		var decoded []models.Video
		if err := json.Unmarshal([]byte(th.MustReadFile(t, res.Path)), &decoded); err != nil {
			t.Fatalf("export is not valid JSON: %v", err)
		}
		if len(decoded) != 12 {
			t.Errorf("expected 12 exported videos, got %d", len(decoded))
		}
	})

	t.Run("ExportVideos Default Path", func(t *testing.T) {
		dir := t.TempDir()
		c := pager.New(sliceQuery(makeVideos(2), nil), pager.Options[models.Video]{})

		res, err := NewExporter(nil, nil).ExportVideos(context.Background(), c, "", nil, ExportOpts{
			Format: formatter.FormatMarkdown,
			Source: filepath.Join(dir, "favorites"),
		})
		if err != nil {
			t.Fatalf("ExportVideos failed: %v", err)
		}
		if res.Path != filepath.Join(dir, "favorites.md") {
			t.Errorf("unexpected default path %s", res.Path)
		}
		if res.Cached != 0 {
			t.Errorf("expected no caching without a cacher, got %d", res.Cached)
		}
		th.AssertFileExists(t, res.Path)
	})

	t.Run("ExportUsers", func(t *testing.T) {
		dir := t.TempDir()
		users := []models.User{
			{ID: 1, FullName: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, Active: true},
			{ID: 2, FullName: "Jane", Email: "jane@example.com", Role: models.RoleUser},
		}
		c := pager.New(sliceQuery(users, nil), pager.Options[models.User]{PageSize: 1})
		progress := make(chan ProgressUpdate, 10)

		res, err := NewExporter(nil, nil).ExportUsers(context.Background(), c, "", progress, ExportOpts{
			Format: formatter.FormatCSV,
			Path:   filepath.Join(dir, "users.csv"),
		})
		if err != nil {
			t.Fatalf("ExportUsers failed: %v", err)
		}
		if res.Count != 2 || res.Pages != 2 {
			t.Errorf("unexpected result %+v", res)
		}

		content := th.MustReadFile(t, res.Path)
		if !strings.Contains(content, "2,Jane,jane@example.com,USER,disabled") {
			t.Errorf("unexpected CSV content: %s", content)
		}

		close(progress)
		var last ProgressUpdate
		for u := range progress {
			last = u
		}
		if last.Phase != WriteExport || last.Data != res.Path {
			t.Errorf("expected final write update, got %+v", last)
		}
	})

	t.Run("Collect Failure Writes Nothing", func(t *testing.T) {
		dir := t.TempDir()
		fail := map[int]error{0: &shared.APIError{Status: 500}}
		c := pager.New(sliceQuery(makeVideos(2), fail), pager.Options[models.Video]{})
		path := filepath.Join(dir, "home.json")

		if _, err := NewExporter(nil, nil).ExportVideos(context.Background(), c, "", nil, ExportOpts{Path: path}); err == nil {
			t.Fatal("expected export error")
		}
		if matches, _ := filepath.Glob(path); len(matches) != 0 {
			t.Error("no file should be written when collection fails")
		}
	})
}

func TestPhaseString(t *testing.T) {
	if FetchPage.String() != "fetch_page" || CacheItems.String() != "cache_items" || WriteExport.String() != "write_export" {
		t.Error("unexpected phase names")
	}
}
