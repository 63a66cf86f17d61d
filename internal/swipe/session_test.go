package swipe

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/neilotoole/slogt"

	"soulfix/internal/api"
	"soulfix/internal/models"
	"soulfix/internal/storage"
)

// fakeSource is a MatchSource with a mutable pool, mirroring the mock store
// without the persistence.
type fakeSource struct {
	pool   []models.Profile
	likes  []string
	passes []string
}

func (f *fakeSource) PotentialMatches(_ context.Context, _ models.Filters) ([]models.Profile, error) {
	return append([]models.Profile(nil), f.pool...), nil
}

func (f *fakeSource) SwipeRight(_ context.Context, id, _ string) (api.SwipeResponse, error) {
	f.likes = append(f.likes, id)
	f.remove(id)
	return api.SwipeResponse{Match: true, MatchID: id}, nil
}

func (f *fakeSource) SwipeLeft(_ context.Context, id string) error {
	f.passes = append(f.passes, id)
	f.remove(id)
	return nil
}

func (f *fakeSource) remove(id string) {
	for i, p := range f.pool {
		if p.ID == id {
			f.pool = append(f.pool[:i], f.pool[i+1:]...)
			return
		}
	}
}

func profiles(ids ...string) []models.Profile {
	out := make([]models.Profile, len(ids))
	for i, id := range ids {
		out[i] = models.Profile{ID: id, Name: "User " + id}
	}
	return out
}

func newTestSession(t *testing.T, source MatchSource) (*Session, *storage.BboltStorage) {
	t.Helper()

	st, err := storage.NewBboltStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return NewSession(source, st, slogt.New(t)), st
}

func TestFreshBatch(t *testing.T) {
	source := &fakeSource{pool: profiles("101", "102", "103", "104", "105")}
	session, _ := newTestSession(t, source)

	if err := session.Load(context.Background(), models.Filters{}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// First BatchSize candidates from the pool, in order.
	batch := session.Batch()
	if len(batch) != BatchSize {
		t.Fatalf("expected %d candidates, got %d", BatchSize, len(batch))
	}
	for i, want := range []string{"101", "102", "103"} {
		if batch[i].ID != want {
			t.Errorf("batch[%d] = %q, want %q", i, batch[i].ID, want)
		}
	}
	if session.Remaining() != BatchSize {
		t.Errorf("Remaining = %d, want %d", session.Remaining(), BatchSize)
	}
	if session.Exhausted() {
		t.Error("fresh session must not be exhausted")
	}
}

func TestLikeAndPassConsumeBatch(t *testing.T) {
	source := &fakeSource{pool: profiles("101", "102", "103", "104")}
	session, _ := newTestSession(t, source)
	ctx := context.Background()

	if err := session.Load(ctx, models.Filters{}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	resp, err := session.Like(ctx, "hi there")
	if err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if !resp.Match || resp.MatchID != "101" {
		t.Errorf("unexpected swipe response: %+v", resp)
	}

	if err := session.Pass(ctx); err != nil {
		t.Fatalf("Pass failed: %v", err)
	}

	current, ok := session.Current()
	if !ok || current.ID != "103" {
		t.Errorf("cursor should be on 103, got %+v ok=%v", current, ok)
	}
	if session.Remaining() != 1 {
		t.Errorf("Remaining = %d, want 1", session.Remaining())
	}

	if _, err := session.Like(ctx, ""); err != nil {
		t.Fatalf("Like failed: %v", err)
	}

	if !session.Exhausted() {
		t.Error("three swipes must exhaust the day")
	}
	if _, err := session.Like(ctx, ""); !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
	if err := session.Pass(ctx); !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
	if len(source.likes) != 2 || len(source.passes) != 1 {
		t.Errorf("source saw likes=%v passes=%v", source.likes, source.passes)
	}
}

func TestRestoreWithinWindow(t *testing.T) {
	source := &fakeSource{pool: profiles("101", "102", "103", "104")}
	session, st := newTestSession(t, source)
	ctx := context.Background()

	if err := session.Load(ctx, models.Filters{}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := session.Like(ctx, ""); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if _, err := session.Like(ctx, ""); err != nil {
		t.Fatalf("Like failed: %v", err)
	}

	// Same day, one hour later: the batch and the count survive the
	// restart. 101 and 102 are gone from the pool, so only 103 remains.
	restored := NewSession(source, st, slogt.New(t))
	restored.now = func() time.Time { return time.Now().Add(time.Hour) }

	if err := restored.Load(ctx, models.Filters{}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if restored.Remaining() != 1 {
		t.Fatalf("Remaining = %d, want 1", restored.Remaining())
	}
	current, ok := restored.Current()
	if !ok || current.ID != "103" {
		t.Fatalf("expected 103 under the cursor, got %+v ok=%v", current, ok)
	}

	if _, err := restored.Like(ctx, ""); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if !restored.Exhausted() {
		t.Error("restored session should exhaust after its last swipe")
	}
}

func TestResetAfterWindow(t *testing.T) {
	source := &fakeSource{pool: profiles("101", "102", "103", "104", "105")}
	session, st := newTestSession(t, source)
	ctx := context.Background()

	// Yesterday's state: two swipes consumed.
	stale := models.SwipeState{
		SwipedCount:   2,
		LastResetTime: time.Now().Add(-25 * time.Hour).Unix(),
		BatchIDs:      []string{"901", "902", "903"},
	}
	if err := st.SaveSwipeState(stale); err != nil {
		t.Fatalf("SaveSwipeState failed: %v", err)
	}

	if err := session.Load(ctx, models.Filters{}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	state := session.State()
	if state.SwipedCount != 0 {
		t.Errorf("SwipedCount = %d, want 0 after reset", state.SwipedCount)
	}
	if session.Remaining() != BatchSize {
		t.Errorf("Remaining = %d, want %d", session.Remaining(), BatchSize)
	}
	current, ok := session.Current()
	if !ok || current.ID != "101" {
		t.Errorf("reset should draw from the current pool, got %+v", current)
	}

	// The reset is persisted immediately.
	persisted, err := st.SwipeState()
	if err != nil {
		t.Fatalf("SwipeState failed: %v", err)
	}
	if persisted.SwipedCount != 0 || len(persisted.BatchIDs) != BatchSize {
		t.Errorf("persisted state not reset: %+v", persisted)
	}
}

func TestShortPool(t *testing.T) {
	source := &fakeSource{pool: profiles("101", "102")}
	session, _ := newTestSession(t, source)
	ctx := context.Background()

	if err := session.Load(ctx, models.Filters{}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if session.Remaining() != 2 {
		t.Errorf("Remaining = %d, want 2", session.Remaining())
	}

	if _, err := session.Like(ctx, ""); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if err := session.Pass(ctx); err != nil {
		t.Fatalf("Pass failed: %v", err)
	}
	if !session.Exhausted() {
		t.Error("a two-candidate batch exhausts after two swipes")
	}
}

func TestEmptyPool(t *testing.T) {
	session, _ := newTestSession(t, &fakeSource{})

	if err := session.Load(context.Background(), models.Filters{}); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !session.Exhausted() {
		t.Error("an empty pool is immediately exhausted")
	}
	if _, ok := session.Current(); ok {
		t.Error("Current should report false on an empty batch")
	}
}
