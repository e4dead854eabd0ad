package bookmarks

import (
	"context"
	"errors"
	"sync"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// Remote is the server side a Toggle talks to. *Client implements it.
type Remote interface {
	SignedIn() bool
	List(ctx context.Context) ([]domain.Bookmark, error)
	Add(ctx context.Context, appID int64) (domain.Bookmark, error)
	Remove(ctx context.Context, appID int64) error
}

// Toggle holds the locally shown "is bookmarked" value of one app.
//
// Flip changes the value before the server answers and puts it back if the
// call fails. Reconcile refreshes it from the server in the background; its
// result is dropped if a flip started in the meantime.
type Toggle struct {
	remote Remote
	appID  int64

	mu      sync.Mutex
	value   bool
	pending bool
	gen     uint64 // bumped by every Flip
}

func NewToggle(remote Remote, appID int64, initial bool) *Toggle {
	return &Toggle{remote: remote, appID: appID, value: initial}
}

// Value is the value to display.
func (t *Toggle) Value() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Pending reports whether a flip is in flight; the control should be
// disabled meanwhile.
func (t *Toggle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Flip inverts the value, then confirms it with the server. On failure the
// previous value is restored and the error returned. The returned bool is
// the value now shown.
func (t *Toggle) Flip(ctx context.Context) (bool, error) {
	if !t.remote.SignedIn() {
		return t.Value(), ErrSignInRequired
	}

	t.mu.Lock()
	if t.pending {
		v := t.value
		t.mu.Unlock()
		return v, ErrBusy
	}
	prev := t.value
	t.value = !prev
	t.pending = true
	t.gen++
	want := t.value
	t.mu.Unlock()

	err := t.apply(ctx, want)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = false
	if err != nil {
		t.value = prev
		return prev, err
	}
	return t.value, nil
}

// apply pushes want to the server. A server that already holds the wanted
// state (duplicate add, missing remove) counts as success.
func (t *Toggle) apply(ctx context.Context, want bool) error {
	var apiErr *APIError
	if want {
		_, err := t.remote.Add(ctx, t.appID)
		if errors.As(err, &apiErr) && apiErr.Code == "DUPLICATE_BOOKMARK" {
			return nil
		}
		return err
	}
	err := t.remote.Remove(ctx, t.appID)
	if errors.As(err, &apiErr) && apiErr.Code == "BOOKMARK_NOT_FOUND" {
		return nil
	}
	return err
}

// Reconcile fetches the account's bookmarks in the background and corrects
// the shown value. It returns immediately; the channel receives the outcome
// once and is closed. A failure leaves the value untouched. Signed-out
// toggles are not reconciled.
func (t *Toggle) Reconcile(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	if !t.remote.SignedIn() {
		done <- ErrSignInRequired
		close(done)
		return done
	}

	t.mu.Lock()
	started := t.gen
	t.mu.Unlock()

	go func() {
		defer close(done)

		list, err := t.remote.List(ctx)
		if err != nil {
			done <- err
			return
		}

		found := false
		for _, b := range list {
			if b.AppID == t.appID {
				found = true
				break
			}
		}

		t.mu.Lock()
		if t.gen == started && !t.pending {
			t.value = found
		}
		t.mu.Unlock()
		done <- nil
	}()
	return done
}
