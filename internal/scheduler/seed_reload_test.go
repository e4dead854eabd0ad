package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/seed"
)

type fakeSeeder struct {
	mu    sync.Mutex
	calls []bool // clearFirst of each call
	err   error
	ran   chan struct{}
}

func newFakeSeeder() *fakeSeeder {
	return &fakeSeeder{ran: make(chan struct{}, 16)}
}

func (f *fakeSeeder) Run(_ context.Context, selector string, clearFirst bool) (seed.Report, error) {
	f.mu.Lock()
	f.calls = append(f.calls, clearFirst)
	f.mu.Unlock()
	select {
	case f.ran <- struct{}{}:
	default:
	}
	if f.err != nil {
		return seed.Report{}, f.err
	}
	return seed.Report{Success: true, Type: selector}, nil
}

func (f *fakeSeeder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func waitRun(t *testing.T, f *fakeSeeder) {
	t.Helper()
	select {
	case <-f.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("seeder was not run")
	}
}

func TestSeedReloader_LoadsOnStartWithoutClearing(t *testing.T) {
	f := newFakeSeeder()
	sr := NewSeedReloader(f, logger.Nop(), 0)

	sr.Start(context.Background())
	defer sr.Stop()

	waitRun(t, f)
	if f.count() != 1 {
		t.Fatalf("expected 1 run at start, got %d", f.count())
	}
	if f.calls[0] {
		t.Error("reload must never clear the catalog")
	}
}

func TestSeedReloader_Trigger(t *testing.T) {
	f := newFakeSeeder()
	sr := NewSeedReloader(f, logger.Nop(), 0)

	sr.Start(context.Background())
	waitRun(t, f)

	sr.Trigger()
	waitRun(t, f)

	sr.Stop()
	if f.count() != 2 {
		t.Errorf("expected 2 runs, got %d", f.count())
	}
}

func TestSeedReloader_Interval(t *testing.T) {
	f := newFakeSeeder()
	sr := NewSeedReloader(f, logger.Nop(), 10*time.Millisecond)

	sr.Start(context.Background())
	waitRun(t, f)
	waitRun(t, f)
	sr.Stop()

	if f.count() < 2 {
		t.Errorf("expected periodic runs, got %d", f.count())
	}
}

func TestSeedReloader_ErrorDoesNotStopLoop(t *testing.T) {
	f := newFakeSeeder()
	f.err = errors.New("boom")
	sr := NewSeedReloader(f, logger.Nop(), 0)

	sr.Start(context.Background())
	waitRun(t, f)

	sr.Trigger()
	waitRun(t, f)
	sr.Stop()
}

func TestSeedReloader_StopWithoutStart(t *testing.T) {
	sr := NewSeedReloader(newFakeSeeder(), logger.Nop(), time.Second)
	sr.Stop()
	sr.Stop()
}
