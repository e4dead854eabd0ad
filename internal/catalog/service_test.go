package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/index"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
	storeredis "github.com/MrSnakeDoc/shelf/internal/store/redis"
)

func newApp(slug, name, developer, category string) domain.App {
	return domain.App{
		Slug:             slug,
		Name:             name,
		Description:      name + " description",
		ShortDescription: name,
		Developer:        developer,
		IconURL:          "https://example.com/" + slug + ".png",
		DownloadURL:      "https://example.com/" + slug,
		Platform:         "macOS",
		Category:         category,
	}
}

func newAppService(t *testing.T, opts Options) (*Service[domain.App], *index.Collection[domain.App]) {
	t.Helper()
	repo := index.NewCollection[domain.App]()
	return NewService[domain.App](domain.Apps, repo, logger.Nop(), opts), repo
}

func TestList_SearchByNameOrDeveloper(t *testing.T) {
	svc, _ := newAppService(t, Options{})
	ctx := context.Background()

	for _, a := range []domain.App{
		newApp("arcadia", "Arcadia", "Indie", "Productivity"),
		newApp("pen", "Pen", "Focus Labs", "Design"),
		newApp("misc", "Misc", "Nobody", "Media"),
	} {
		_, err := svc.Create(ctx, a)
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, domain.Params{"search": "arc"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Arcadia", got[0].Name)

	got, err = svc.List(ctx, domain.Params{"search": "focus"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pen", got[0].Name)
}

func TestList_InvalidParameter(t *testing.T) {
	svc, _ := newAppService(t, Options{})

	_, err := svc.List(context.Background(), domain.Params{"limit": "0"})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newAppService(t, Options{})
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.App{Name: "Half"})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredFields)

	bad := newApp("x", "X", "Dev", "Games")
	_, err = svc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	created, err := svc.Create(ctx, newApp(" arcadia ", " Arcadia ", "Dev", "design"))
	require.NoError(t, err)
	assert.Equal(t, "arcadia", created.Slug)
	assert.Equal(t, "Arcadia", created.Name)
	assert.Equal(t, domain.DefaultAppRating, created.Rating)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = svc.Create(ctx, newApp("arcadia", "Again", "Dev", "Design"))
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestGetBySlug_NotFound(t *testing.T) {
	svc, _ := newAppService(t, Options{})

	_, err := svc.GetBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRelated(t *testing.T) {
	svc, _ := newAppService(t, Options{})
	ctx := context.Background()

	src, err := svc.Create(ctx, newApp("src", "Src", "Dev", "Design"))
	require.NoError(t, err)
	for i, slug := range []string{"d1", "d2", "d3", "d4", "d5"} {
		a := newApp(slug, slug, "Dev", "Design")
		a.Rating = float64(i) / 2
		_, err := svc.Create(ctx, a)
		require.NoError(t, err)
	}
	_, err = svc.Create(ctx, newApp("m1", "m1", "Dev", "Media"))
	require.NoError(t, err)

	got, err := svc.Related(ctx, src.ID)
	require.NoError(t, err)
	require.Len(t, got, domain.RelatedLimit)
	for _, a := range got {
		assert.NotEqual(t, src.ID, a.ID)
		assert.Equal(t, "Design", a.Category)
	}
	// d1 has rating 0 which normalizes to the default, so it ranks first.
	assert.Equal(t, "d1", got[0].Slug)

	empty, err := svc.Related(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFeatured_ReposSkipArchived(t *testing.T) {
	repo := index.NewCollection[domain.Repo]()
	svc := NewService[domain.Repo](domain.Repos, repo, logger.Nop(), Options{})
	ctx := context.Background()

	items := []domain.Repo{
		{Slug: "live-small", Stars: 10},
		{Slug: "archived-big", Stars: 1000, IsArchived: true},
		{Slug: "live-big", Stars: 500},
	}
	_, err := repo.InsertMany(ctx, items)
	require.NoError(t, err)

	got, err := svc.Featured(ctx, 6)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "live-big", got[0].Slug)
	assert.Equal(t, "live-small", got[1].Slug)
}

type brokenRepo struct{ delay time.Duration }

func (b brokenRepo) List(ctx context.Context, _ domain.FilterSpec) ([]domain.Workflow, error) {
	select {
	case <-time.After(b.delay):
		return nil, errors.New("connection reset")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
func (brokenRepo) GetBySlug(context.Context, string) (domain.Workflow, error) {
	return domain.Workflow{}, errors.New("connection reset")
}
func (brokenRepo) GetByID(context.Context, int64) (domain.Workflow, error) {
	return domain.Workflow{}, errors.New("connection reset")
}
func (brokenRepo) Insert(context.Context, domain.Workflow) (domain.Workflow, error) {
	return domain.Workflow{}, errors.New("connection reset")
}
func (b brokenRepo) InsertMany(ctx context.Context, _ []domain.Workflow) (int, error) {
	select {
	case <-time.After(b.delay):
		return 0, errors.New("connection reset")
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestStorageFailuresAreUnavailable(t *testing.T) {
	svc := NewService[domain.Workflow](domain.Workflows, brokenRepo{}, logger.Nop(), Options{})
	ctx := context.Background()

	_, err := svc.List(ctx, domain.Params{})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, err = svc.GetBySlug(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, err = svc.Related(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestSlowStoreTimesOut(t *testing.T) {
	svc := NewService[domain.Workflow](domain.Workflows, brokenRepo{delay: time.Second}, logger.Nop(),
		Options{QueryTimeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := svc.List(context.Background(), domain.Params{})
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestLoad_SlowStoreTimesOut(t *testing.T) {
	svc := NewService[domain.Workflow](domain.Workflows, brokenRepo{delay: 2 * time.Second}, logger.Nop(),
		Options{LoadTimeout: 20 * time.Millisecond})

	items := []domain.Workflow{{
		Slug:             "rss",
		Name:             "RSS",
		Description:      "Aggregate feeds",
		ShortDescription: "Feeds",
		Author:           "ops",
		ThumbnailURL:     "https://example.com/rss.png",
		WorkflowURL:      "https://example.com/rss.json",
		Category:         "Automation",
		Difficulty:       "Beginner",
	}}

	start := time.Now()
	n, err := svc.Load(context.Background(), items)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func newCachedAppService(t *testing.T, repo Repository[domain.App]) (*Service[domain.App], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService[domain.App](domain.Apps, repo, logger.Nop(),
		Options{Cache: storeredis.NewStore(client, time.Minute)}), mr
}

func TestCache_SearchTextCannotReuseAnotherFilter(t *testing.T) {
	svc, _ := newCachedAppService(t, index.NewCollection[domain.App]())
	ctx := context.Background()

	_, err := svc.Create(ctx, newApp("arcadia", "Arcadia", "Indie", "Productivity"))
	require.NoError(t, err)

	odd, err := svc.List(ctx, domain.Params{"search": "arc&eq(category)=productivity"})
	require.NoError(t, err)
	assert.Empty(t, odd)

	got, err := svc.List(ctx, domain.Params{"search": "arc", "category": "Productivity"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "arcadia", got[0].Slug)
}

// pausingRepo holds the first List result until released, after the rows
// have been read.
type pausingRepo struct {
	*index.Collection[domain.App]
	read    chan struct{}
	release chan struct{}
}

func (p *pausingRepo) List(ctx context.Context, spec domain.FilterSpec) ([]domain.App, error) {
	items, err := p.Collection.List(ctx, spec)
	if read := p.read; read != nil {
		p.read = nil
		close(read)
		<-p.release
	}
	return items, err
}

func TestCache_ReadRacingCreateLeavesNoStaleEntry(t *testing.T) {
	read := make(chan struct{})
	repo := &pausingRepo{Collection: index.NewCollection[domain.App](), read: read, release: make(chan struct{})}
	svc, _ := newCachedAppService(t, repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, newApp("a", "A", "Dev", "Design"))
	require.NoError(t, err)

	slow := make(chan []domain.App, 1)
	go func() {
		items, _ := svc.List(ctx, domain.Params{})
		slow <- items
	}()
	<-read

	_, err = svc.Create(ctx, newApp("b", "B", "Dev", "Design"))
	require.NoError(t, err)
	close(repo.release)
	assert.Len(t, <-slow, 1, "the slow read saw the catalog before the create")

	fresh, err := svc.List(ctx, domain.Params{})
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestCache_ReadThroughAndInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	m := metrics.New("test")
	svc, repo := newAppService(t, Options{Cache: storeredis.NewStore(client, time.Minute), Metrics: m})
	ctx := context.Background()

	_, err := svc.Create(ctx, newApp("a", "A", "Dev", "Design"))
	require.NoError(t, err)

	first, err := svc.List(ctx, domain.Params{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Written behind the service's back: a cached read must not see it.
	_, err = repo.Insert(ctx, newApp("b", "B", "Dev", "Design").Normalize())
	require.NoError(t, err)
	cached, err := svc.List(ctx, domain.Params{})
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// Creating through the service flushes the collection's cached lists.
	_, err = svc.Create(ctx, newApp("c", "C", "Dev", "Design"))
	require.NoError(t, err)
	fresh, err := svc.List(ctx, domain.Params{})
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}

func TestCache_DownDoesNotFailReads(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	svc, _ := newAppService(t, Options{Cache: storeredis.NewStore(client, time.Minute)})
	ctx := context.Background()
	_, err := svc.Create(ctx, newApp("a", "A", "Dev", "Design"))
	require.NoError(t, err)

	mr.Close()

	got, err := svc.List(ctx, domain.Params{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter, raw)
	}
}
