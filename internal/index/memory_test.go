package index

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

func seedApps(t *testing.T, idx *MemoryIndex, apps ...domain.App) []domain.App {
	t.Helper()
	out := make([]domain.App, 0, len(apps))
	for _, a := range apps {
		stored, err := idx.Apps.Insert(context.Background(), a.Normalize())
		if err != nil {
			t.Fatalf("Insert(%s) error: %v", a.Slug, err)
		}
		out = append(out, stored)
	}
	return out
}

func TestNewMemoryIndex(t *testing.T) {
	idx := NewMemoryIndex()
	if idx.Apps.Count() != 0 || idx.Repos.Count() != 0 {
		t.Fatal("NewMemoryIndex() should start empty")
	}
}

func TestSearchMatchesNameOrDeveloper(t *testing.T) {
	idx := NewMemoryIndex()
	seedApps(t, idx,
		domain.App{Slug: "arcadia", Name: "Arcadia", Description: "x", Developer: "Studio A"},
		domain.App{Slug: "pen", Name: "Pen", Description: "y", Developer: "Focus Labs"},
		domain.App{Slug: "other", Name: "Other", Description: "z", Developer: "Nobody"},
	)

	tests := []struct {
		search string
		want   string
	}{
		{"arc", "arcadia"},
		{"focus", "pen"},
	}

	for _, tt := range tests {
		spec, err := domain.BuildFilter(domain.Apps, domain.Params{"search": tt.search})
		if err != nil {
			t.Fatalf("BuildFilter error: %v", err)
		}
		got, err := idx.Apps.List(context.Background(), spec)
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		if len(got) != 1 || got[0].Slug != tt.want {
			t.Errorf("search %q returned %v, want [%s]", tt.search, got, tt.want)
		}
	}
}

func TestCategoryAllIsSuperset(t *testing.T) {
	idx := NewMemoryIndex()
	seedApps(t, idx,
		domain.App{Slug: "a", Category: "Design"},
		domain.App{Slug: "b", Category: "Media"},
		domain.App{Slug: "c", Category: "Design"},
	)

	list := func(p domain.Params) []domain.App {
		spec, err := domain.BuildFilter(domain.Apps, p)
		if err != nil {
			t.Fatalf("BuildFilter error: %v", err)
		}
		got, err := idx.Apps.List(context.Background(), spec)
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		return got
	}

	all := list(domain.Params{"category": "All"})
	design := list(domain.Params{"category": "design"})
	if len(all) != 3 {
		t.Errorf("category=All returned %d items, want 3", len(all))
	}
	if len(design) != 2 {
		t.Errorf("category=design returned %d items, want 2", len(design))
	}
}

func TestPaginationIsStable(t *testing.T) {
	idx := NewMemoryIndex()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		// identical timestamps force the id tiebreaker
		seedApps(t, idx, domain.App{Slug: fmt.Sprintf("app-%d", i), CreatedAt: at})
	}

	seen := make(map[int64]bool)
	for offset := 0; offset < 7; offset += 3 {
		spec, _ := domain.BuildFilter(domain.Apps, domain.Params{"limit": "3", "offset": strconv.Itoa(offset)})
		page, err := idx.Apps.List(context.Background(), spec)
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		for _, a := range page {
			if seen[a.ID] {
				t.Fatalf("id %d returned twice", a.ID)
			}
			seen[a.ID] = true
		}
	}
	if len(seen) != 7 {
		t.Errorf("pages covered %d items, want 7", len(seen))
	}
}

func TestLimitBound(t *testing.T) {
	idx := NewMemoryIndex()
	for i := 0; i < 120; i++ {
		seedApps(t, idx, domain.App{Slug: fmt.Sprintf("app-%d", i)})
	}

	spec, _ := domain.BuildFilter(domain.Apps, domain.Params{"limit": "1000"})
	got, err := idx.Apps.List(context.Background(), spec)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != domain.MaxLimit {
		t.Errorf("List returned %d items, want %d", len(got), domain.MaxLimit)
	}
}

func TestSlugUniqueness(t *testing.T) {
	idx := NewMemoryIndex()
	seedApps(t, idx, domain.App{Slug: "arcadia"})

	_, err := idx.Apps.Insert(context.Background(), domain.App{Slug: "arcadia"})
	if !errors.Is(err, domain.ErrDuplicateSlug) {
		t.Errorf("Insert duplicate = %v, want ErrDuplicateSlug", err)
	}

	n, err := idx.Apps.InsertMany(context.Background(), []domain.App{{Slug: "arcadia"}, {Slug: "new"}})
	if err != nil {
		t.Fatalf("InsertMany error: %v", err)
	}
	if n != 1 {
		t.Errorf("InsertMany inserted %d, want 1", n)
	}
}

func TestBookmarkUnknownAppLeavesNoRow(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	_, err := idx.Insert(ctx, "7", 42, time.Now())
	if !errors.Is(err, domain.ErrAppNotFound) {
		t.Fatalf("Insert = %v, want ErrAppNotFound", err)
	}

	list, err := idx.ListByAccount(ctx, "7")
	if err != nil {
		t.Fatalf("ListByAccount error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no bookmarks, got %v", list)
	}
}

func TestConcurrentDuplicateBookmark(t *testing.T) {
	idx := NewMemoryIndex()
	apps := seedApps(t, idx, domain.App{Slug: "arcadia"})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = idx.Insert(ctx, "u1", apps[0].ID, time.Now())
		}(i)
	}
	wg.Wait()

	ok, dup := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicateBookmark):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != 1 {
		t.Errorf("got %d successes and %d duplicates, want 1 and 1", ok, dup)
	}

	list, _ := idx.ListByAccount(ctx, "u1")
	if len(list) != 1 {
		t.Errorf("expected exactly one bookmark row, got %d", len(list))
	}
}

func TestBookmarksNewestFirstWithApp(t *testing.T) {
	idx := NewMemoryIndex()
	apps := seedApps(t, idx, domain.App{Slug: "a", Name: "A"}, domain.App{Slug: "b", Name: "B"})
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := idx.Insert(ctx, "u1", apps[0].ID, at); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Insert(ctx, "u1", apps[1].ID, at.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	list, err := idx.ListByAccount(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].App == nil || list[0].App.Name != "B" {
		t.Fatalf("unexpected list %+v", list)
	}

	removed, _ := idx.Delete(ctx, "u1", apps[1].ID)
	if !removed {
		t.Error("Delete should report a removal")
	}
	removed, _ = idx.Delete(ctx, "u1", apps[1].ID)
	if removed {
		t.Error("second Delete should report nothing removed")
	}
}

func TestClearAllKeepsCounting(t *testing.T) {
	idx := NewMemoryIndex()
	first := seedApps(t, idx, domain.App{Slug: "a"})

	if err := idx.ClearAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if idx.Apps.Count() != 0 {
		t.Fatalf("ClearAll left %d apps", idx.Apps.Count())
	}

	second := seedApps(t, idx, domain.App{Slug: "a"})
	if second[0].ID <= first[0].ID {
		t.Errorf("IDs restarted: %d after %d", second[0].ID, first[0].ID)
	}
}

func TestCanceledContext(t *testing.T) {
	idx := NewMemoryIndex()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := idx.Apps.List(ctx, domain.FilterSpec{}); !errors.Is(err, context.Canceled) {
		t.Errorf("List on canceled context = %v", err)
	}
}
