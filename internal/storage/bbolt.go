package storage

import (
	"fmt"
	"time"

	"soulfix/internal/models"

	"go.etcd.io/bbolt"
)

var (
	bucketPrefs   = []byte("prefs")
	bucketMock    = []byte("mock")
	bucketSession = []byte("session")
)

// Preference keys shared with the rest of the app.
const (
	PrefAuthToken = "auth_token"
	PrefUserID    = "user_id"
	PrefTheme     = "theme"
)

// BboltStorage is the single local persistence namespace: preferences,
// the mock backend's collections, and the daily swipe state.
type BboltStorage struct {
	db *bbolt.DB
}

func NewBboltStorage(path string) (*BboltStorage, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketPrefs); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketMock); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketSession); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &BboltStorage{db: db}, nil
}

func (s *BboltStorage) Close() error {
	return s.db.Close()
}

// SetPref stores a raw string preference (auth token, user id, theme).
func (s *BboltStorage) SetPref(key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPrefs).Put([]byte(key), []byte(value))
	})
}

// Pref returns a stored preference or models.ErrNotFound.
func (s *BboltStorage) Pref(key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketPrefs).Get([]byte(key))
		if data == nil {
			return models.ErrNotFound
		}
		value = string(data)
		return nil
	})
	return value, err
}

func (s *BboltStorage) DeletePref(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketPrefs).Delete([]byte(key))
	})
}

func (s *BboltStorage) put(bucket []byte, item Storeable) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := item.MarshalBinary()
		if err != nil {
			return err
		}
		return tx.Bucket(bucket).Put(item.Key(), data)
	})
}

func (s *BboltStorage) get(bucket []byte, item Storeable) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get(item.Key())
		if data == nil {
			return models.ErrNotFound
		}
		return item.UnmarshalBinary(data)
	})
}

// SaveCandidates overwrites the persisted candidate pool.
func (s *BboltStorage) SaveCandidates(profiles []models.Profile) error {
	list := DBCandidateList{Profiles: make([]DBProfile, len(profiles))}
	for i, p := range profiles {
		list.Profiles[i] = toDBProfile(p)
	}
	return s.put(bucketMock, &list)
}

// ListCandidates returns the persisted candidate pool in stored order, or
// models.ErrNotFound if the pool was never saved.
func (s *BboltStorage) ListCandidates() ([]models.Profile, error) {
	var list DBCandidateList
	if err := s.get(bucketMock, &list); err != nil {
		return nil, err
	}
	profiles := make([]models.Profile, len(list.Profiles))
	for i, p := range list.Profiles {
		profiles[i] = fromDBProfile(p)
	}
	return profiles, nil
}

// SaveMatches overwrites the persisted match list (most-recent-first).
func (s *BboltStorage) SaveMatches(matches []models.MatchRecord) error {
	list := DBMatchList{Matches: make([]DBMatch, len(matches))}
	for i, m := range matches {
		list.Matches[i] = toDBMatch(m)
	}
	return s.put(bucketMock, &list)
}

// ListMatches returns the persisted match list, or models.ErrNotFound if it
// was never saved.
func (s *BboltStorage) ListMatches() ([]models.MatchRecord, error) {
	var list DBMatchList
	if err := s.get(bucketMock, &list); err != nil {
		return nil, err
	}
	matches := make([]models.MatchRecord, len(list.Matches))
	for i, m := range list.Matches {
		matches[i] = fromDBMatch(m)
	}
	return matches, nil
}

func (s *BboltStorage) SaveSwipeState(state models.SwipeState) error {
	dbState := DBSwipeState{
		SwipedCount:   state.SwipedCount,
		LastResetTime: state.LastResetTime,
		BatchIDs:      state.BatchIDs,
	}
	return s.put(bucketSession, &dbState)
}

func (s *BboltStorage) SwipeState() (models.SwipeState, error) {
	var dbState DBSwipeState
	if err := s.get(bucketSession, &dbState); err != nil {
		return models.SwipeState{}, err
	}
	return models.SwipeState{
		SwipedCount:   dbState.SwipedCount,
		LastResetTime: dbState.LastResetTime,
		BatchIDs:      dbState.BatchIDs,
	}, nil
}

func (s *BboltStorage) SaveFilters(filters models.Filters) error {
	dbFilters := DBFilters{
		MinAge: filters.MinAge,
		MaxAge: filters.MaxAge,
		Gender: filters.Gender,
	}
	return s.put(bucketSession, &dbFilters)
}

func (s *BboltStorage) Filters() (models.Filters, error) {
	var dbFilters DBFilters
	if err := s.get(bucketSession, &dbFilters); err != nil {
		return models.Filters{}, err
	}
	return models.Filters{
		MinAge: dbFilters.MinAge,
		MaxAge: dbFilters.MaxAge,
		Gender: dbFilters.Gender,
	}, nil
}
