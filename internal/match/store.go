package match

import (
	"errors"
	"log/slog"
	"sync"

	"soulfix/internal/models"
	"soulfix/internal/storage"
	"soulfix/internal/stubs"
)

// Store is the mock backend: an in-memory candidate pool and match list,
// hydrated from local storage on first use and persisted back after every
// mutation. It substitutes for the remote API when the backend is
// unreachable. In-memory state stays authoritative even if a persistence
// write fails.
type Store struct {
	storage *storage.BboltStorage
	log     *slog.Logger

	mu         sync.Mutex
	hydrated   bool
	candidates []models.Profile
	matches    []models.MatchRecord
}

func NewStore(st *storage.BboltStorage, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{storage: st, log: log}
}

// hydrate loads the collections from storage, seeding the built-in samples
// when nothing was persisted yet. Runs at most once per Store. Callers must
// hold s.mu.
func (s *Store) hydrate() {
	if s.hydrated {
		return
	}
	s.hydrated = true

	candidates, err := s.storage.ListCandidates()
	switch {
	case err == nil:
		s.candidates = candidates
	case errors.Is(err, models.ErrNotFound):
		s.candidates = append([]models.Profile(nil), stubs.Candidates...)
	default:
		s.log.Error("failed to load candidate pool, seeding samples", "error", err)
		s.candidates = append([]models.Profile(nil), stubs.Candidates...)
	}

	matches, err := s.storage.ListMatches()
	switch {
	case err == nil:
		s.matches = matches
	case errors.Is(err, models.ErrNotFound):
		s.matches = append([]models.MatchRecord(nil), stubs.Matches...)
	default:
		s.log.Error("failed to load match list, seeding samples", "error", err)
		s.matches = append([]models.MatchRecord(nil), stubs.Matches...)
	}
}

// persist writes both collections back. Failures are logged and swallowed:
// durability is at-least-once, not guaranteed. Callers must hold s.mu.
func (s *Store) persist() {
	if err := s.storage.SaveCandidates(s.candidates); err != nil {
		s.log.Error("failed to persist candidate pool", "error", err)
	}
	if err := s.storage.SaveMatches(s.matches); err != nil {
		s.log.Error("failed to persist match list", "error", err)
	}
}

// PotentialMatches returns the candidate pool filtered by age bounds and
// gender. Pure read, does not mutate the pool.
func (s *Store) PotentialMatches(filters models.Filters) []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate()

	var filtered []models.Profile
	for _, p := range s.candidates {
		if filters.Allows(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// SwipeRight likes a candidate. The mock always resolves a like to a match
// (intentional stub, there is no reciprocal-interest gating). The candidate
// is removed from the pool and a MatchRecord is inserted at the front of the
// match list unless one already exists for that id. Unknown ids are a no-op
// reported as no match.
func (s *Store) SwipeRight(id, comment string) (models.MatchRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate()

	idx := -1
	for i, p := range s.candidates {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.MatchRecord{}, false
	}

	profile := s.candidates[idx]
	lastMessage := comment
	if lastMessage == "" {
		lastMessage = models.GreetingSentinel
	}
	record := models.MatchRecord{
		ID:          profile.ID,
		UserID:      profile.ID,
		Name:        profile.Name,
		Gender:      profile.Gender,
		Photo:       profile.FirstPhoto(),
		Age:         profile.Age,
		Bio:         profile.Bio,
		Occupation:  profile.Occupation,
		Education:   profile.Education,
		Location:    profile.Location,
		Prompts:     profile.Prompts,
		LastMessage: lastMessage,
		Timestamp:   models.TimestampNew,
		Unread:      true,
	}

	if s.findMatch(profile.ID) == -1 {
		s.matches = append([]models.MatchRecord{record}, s.matches...)
	}
	s.candidates = append(s.candidates[:idx], s.candidates[idx+1:]...)
	s.persist()

	return record, true
}

// SwipeLeft passes on a candidate, removing it from the pool. No match
// record is created. Unknown ids are a no-op.
func (s *Store) SwipeLeft(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate()

	for i, p := range s.candidates {
		if p.ID == id {
			s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
			s.persist()
			return
		}
	}
}

// Matches returns the match list, most-recently-active first.
func (s *Store) Matches() []models.MatchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate()

	return append([]models.MatchRecord(nil), s.matches...)
}

// UpdateLastMessage records the latest message on a match, clears its unread
// flag, and moves it to the front of the list. Unknown ids are a no-op.
func (s *Store) UpdateLastMessage(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate()

	idx := s.findMatch(id)
	if idx == -1 {
		return
	}

	record := s.matches[idx]
	record.LastMessage = text
	record.Timestamp = models.TimestampJustNow
	record.Unread = false

	s.matches = append(s.matches[:idx], s.matches[idx+1:]...)
	s.matches = append([]models.MatchRecord{record}, s.matches...)
	s.persist()
}

// Unmatch removes the match record. Idempotent: removing an unknown id is
// still a success.
func (s *Store) Unmatch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate()

	idx := s.findMatch(id)
	if idx == -1 {
		return
	}
	s.matches = append(s.matches[:idx], s.matches[idx+1:]...)
	s.persist()
}

// findMatch matches on either the record id or the originating user id,
// since the seeded records carry both. Callers must hold s.mu.
func (s *Store) findMatch(id string) int {
	for i, m := range s.matches {
		if m.ID == id || m.UserID == id {
			return i
		}
	}
	return -1
}
