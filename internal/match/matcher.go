package match

import (
	"context"
	"log/slog"

	"soulfix/internal/api"
	"soulfix/internal/models"
)

// Matcher fronts the remote API with the mock store. Every operation is
// attempted once against the backend; on failure it falls through to the
// local mock so the app keeps working offline.
type Matcher struct {
	api  *api.Client
	mock *Store
	log  *slog.Logger
}

func NewMatcher(client *api.Client, mock *Store, log *slog.Logger) *Matcher {
	if log == nil {
		log = slog.Default()
	}
	return &Matcher{api: client, mock: mock, log: log}
}

func (m *Matcher) PotentialMatches(ctx context.Context, filters models.Filters) ([]models.Profile, error) {
	profiles, err := m.api.PotentialMatches(ctx, filters)
	if err != nil {
		m.fellBack("potential_matches", err)
		return m.mock.PotentialMatches(filters), nil
	}
	return profiles, nil
}

func (m *Matcher) SwipeRight(ctx context.Context, targetUserID, comment string) (api.SwipeResponse, error) {
	resp, err := m.api.Swipe(ctx, targetUserID, "like", comment)
	if err != nil {
		m.fellBack("swipe_right", err)
		record, matched := m.mock.SwipeRight(targetUserID, comment)
		resp = api.SwipeResponse{Match: matched}
		if matched {
			resp.MatchID = record.ID
			resp.MatchDetails = &record
		}
		return resp, nil
	}
	return resp, nil
}

func (m *Matcher) SwipeLeft(ctx context.Context, targetUserID string) error {
	if _, err := m.api.Swipe(ctx, targetUserID, "pass", ""); err != nil {
		m.fellBack("swipe_left", err)
		m.mock.SwipeLeft(targetUserID)
	}
	return nil
}

func (m *Matcher) Matches(ctx context.Context) ([]models.MatchRecord, error) {
	matches, err := m.api.Matches(ctx)
	if err != nil {
		m.fellBack("matches", err)
		return m.mock.Matches(), nil
	}
	return matches, nil
}

func (m *Matcher) Unmatch(ctx context.Context, matchID string) error {
	if err := m.api.Unmatch(ctx, matchID); err != nil {
		m.fellBack("unmatch", err)
		m.mock.Unmatch(matchID)
	}
	return nil
}

// UpdateLastMessage is local bookkeeping for the matches screen; the real
// backend derives last messages from the conversation itself.
func (m *Matcher) UpdateLastMessage(matchID, text string) {
	m.mock.UpdateLastMessage(matchID, text)
}

func (m *Matcher) fellBack(op string, err error) {
	m.log.Warn("backend call failed, using mock store", "op", op, "error", err)
}
