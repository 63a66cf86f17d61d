package swipe

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"soulfix/internal/api"
	"soulfix/internal/models"
	"soulfix/internal/storage"
)

const (
	// BatchSize is the number of curated candidates offered per day.
	BatchSize = 3

	// ResetWindow is how long a daily batch lasts before a fresh one is
	// drawn.
	ResetWindow = 24 * time.Hour
)

// MatchSource is the slice of the matcher the session needs.
type MatchSource interface {
	PotentialMatches(ctx context.Context, filters models.Filters) ([]models.Profile, error)
	SwipeRight(ctx context.Context, targetUserID, comment string) (api.SwipeResponse, error)
	SwipeLeft(ctx context.Context, targetUserID string) error
}

// Session layers the daily swipe limit on top of the match source. A batch
// of at most BatchSize candidates is drawn once per ResetWindow; each like
// or pass consumes one and is persisted immediately.
type Session struct {
	source  MatchSource
	storage *storage.BboltStorage
	log     *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	state  models.SwipeState
	batch  []models.Profile
	cursor int
}

func NewSession(source MatchSource, st *storage.BboltStorage, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		source:  source,
		storage: st,
		log:     log,
		now:     time.Now,
	}
}

// Load restores the persisted session or, when the reset window has passed,
// draws a fresh batch from the candidate source. Call once per screen
// entry.
func (s *Session) Load(ctx context.Context, filters models.Filters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.storage.SwipeState()
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.log.Error("failed to load swipe state, starting fresh", "error", err)
	}

	now := s.now()
	if state.LastResetTime == 0 || now.Sub(time.Unix(state.LastResetTime, 0)) > ResetWindow {
		return s.reset(ctx, filters, now)
	}

	// Window still open: restore yesterday's batch. Swiped candidates are
	// gone from the pool, so whatever remains of the batch ids is the
	// unconsumed tail.
	profiles, err := s.source.PotentialMatches(ctx, filters)
	if err != nil {
		return err
	}
	byID := make(map[string]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	s.state = state
	s.batch = nil
	s.cursor = 0
	for _, id := range state.BatchIDs {
		if p, ok := byID[id]; ok {
			s.batch = append(s.batch, p)
		}
	}
	return nil
}

// reset draws a fresh batch and zeroes the counters. Callers must hold
// s.mu.
func (s *Session) reset(ctx context.Context, filters models.Filters, now time.Time) error {
	profiles, err := s.source.PotentialMatches(ctx, filters)
	if err != nil {
		return err
	}
	if len(profiles) > BatchSize {
		profiles = profiles[:BatchSize]
	}

	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}

	s.batch = profiles
	s.cursor = 0
	s.state = models.SwipeState{
		SwipedCount:   0,
		LastResetTime: now.Unix(),
		BatchIDs:      ids,
	}
	s.persist()
	return nil
}

// Current returns the candidate under the cursor, or false when the session
// is exhausted for the day.
func (s *Session) Current() (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exhausted() {
		return models.Profile{}, false
	}
	return s.batch[s.cursor], true
}

// Like swipes right on the current candidate and advances the cursor.
func (s *Session) Like(ctx context.Context, comment string) (api.SwipeResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exhausted() {
		return api.SwipeResponse{}, ErrExhausted
	}

	resp, err := s.source.SwipeRight(ctx, s.batch[s.cursor].ID, comment)
	if err != nil {
		return api.SwipeResponse{}, err
	}
	s.advance()
	return resp, nil
}

// Pass swipes left on the current candidate and advances the cursor.
func (s *Session) Pass(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exhausted() {
		return ErrExhausted
	}

	if err := s.source.SwipeLeft(ctx, s.batch[s.cursor].ID); err != nil {
		return err
	}
	s.advance()
	return nil
}

// Exhausted reports whether the daily batch is used up.
func (s *Session) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exhausted()
}

// Remaining returns how many swipes are left today.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	left := len(s.state.BatchIDs) - s.state.SwipedCount
	if left < 0 {
		return 0
	}
	return left
}

// Batch returns the unconsumed remainder of today's batch, for display.
func (s *Session) Batch() []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.batch) {
		return nil
	}
	return append([]models.Profile(nil), s.batch[s.cursor:]...)
}

// State returns a copy of the persisted bookkeeping, for display.
func (s *Session) State() models.SwipeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

var ErrExhausted = errors.New("daily swipe limit reached")

// advance consumes one swipe and persists the count immediately. Callers
// must hold s.mu.
func (s *Session) advance() {
	s.state.SwipedCount++
	s.cursor++
	s.persist()
}

// persist writes the swipe state; failures are logged and swallowed, the
// in-memory session stays authoritative. Callers must hold s.mu.
func (s *Session) persist() {
	if err := s.storage.SaveSwipeState(s.state); err != nil {
		s.log.Error("failed to persist swipe state", "error", err)
	}
}

// exhausted: the batch is done when every batch entry was consumed. A batch
// shorter than BatchSize exhausts at its own length. Callers must hold
// s.mu.
func (s *Session) exhausted() bool {
	return s.state.SwipedCount >= len(s.state.BatchIDs) || s.cursor >= len(s.batch)
}
