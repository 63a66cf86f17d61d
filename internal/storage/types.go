package storage

import (
	"encoding"

	"soulfix/internal/models"

	"github.com/vmihailenco/msgpack/v5"
)

type Storeable interface {
	Key() []byte
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

type DBPrompt struct {
	Question string `msgpack:"question"`
	Answer   string `msgpack:"answer"`
}

type DBProfile struct {
	ID         string     `msgpack:"id"`
	Name       string     `msgpack:"name"`
	Gender     string     `msgpack:"gender"`
	Age        int        `msgpack:"age"`
	Bio        string     `msgpack:"bio"`
	Photos     []string   `msgpack:"photos"`
	Occupation string     `msgpack:"occupation"`
	Education  string     `msgpack:"education"`
	Height     string     `msgpack:"height"`
	Location   string     `msgpack:"location"`
	Prompts    []DBPrompt `msgpack:"prompts"`
}

type DBMatch struct {
	ID          string     `msgpack:"id"`
	UserID      string     `msgpack:"userId"`
	Name        string     `msgpack:"name"`
	Gender      string     `msgpack:"gender"`
	Photo       string     `msgpack:"photo"`
	Age         int        `msgpack:"age"`
	Bio         string     `msgpack:"bio"`
	Occupation  string     `msgpack:"occupation"`
	Education   string     `msgpack:"education"`
	Location    string     `msgpack:"location"`
	Prompts     []DBPrompt `msgpack:"prompts"`
	LastMessage string     `msgpack:"lastMessage"`
	Timestamp   string     `msgpack:"timestamp"`
	Unread      bool       `msgpack:"unread"`
}

// DBCandidateList holds the whole candidate pool as a single value. The mock
// store reads and overwrites collections wholesale, so order is preserved
// without per-entry keys.
type DBCandidateList struct {
	Profiles []DBProfile `msgpack:"profiles"`
}

func (l *DBCandidateList) Key() []byte {
	return []byte("candidates")
}

func (l *DBCandidateList) MarshalBinary() (data []byte, err error) {
	type alias DBCandidateList
	return msgpack.Marshal((*alias)(l))
}

func (l *DBCandidateList) UnmarshalBinary(data []byte) error {
	type alias DBCandidateList
	return msgpack.Unmarshal(data, (*alias)(l))
}

// DBMatchList holds the whole match list, front-to-back most-recent-first.
type DBMatchList struct {
	Matches []DBMatch `msgpack:"matches"`
}

func (l *DBMatchList) Key() []byte {
	return []byte("matches")
}

func (l *DBMatchList) MarshalBinary() (data []byte, err error) {
	type alias DBMatchList
	return msgpack.Marshal((*alias)(l))
}

func (l *DBMatchList) UnmarshalBinary(data []byte) error {
	type alias DBMatchList
	return msgpack.Unmarshal(data, (*alias)(l))
}

type DBSwipeState struct {
	SwipedCount   int      `msgpack:"swipedCount"`
	LastResetTime int64    `msgpack:"lastResetTime"`
	BatchIDs      []string `msgpack:"batchIds"`
}

func (s *DBSwipeState) Key() []byte {
	return []byte("swipe_state")
}

func (s *DBSwipeState) MarshalBinary() (data []byte, err error) {
	type alias DBSwipeState
	return msgpack.Marshal((*alias)(s))
}

func (s *DBSwipeState) UnmarshalBinary(data []byte) error {
	type alias DBSwipeState
	return msgpack.Unmarshal(data, (*alias)(s))
}

type DBFilters struct {
	MinAge int    `msgpack:"minAge"`
	MaxAge int    `msgpack:"maxAge"`
	Gender string `msgpack:"gender"`
}

func (f *DBFilters) Key() []byte {
	return []byte("filters")
}

func (f *DBFilters) MarshalBinary() (data []byte, err error) {
	type alias DBFilters
	return msgpack.Marshal((*alias)(f))
}

func (f *DBFilters) UnmarshalBinary(data []byte) error {
	type alias DBFilters
	return msgpack.Unmarshal(data, (*alias)(f))
}

func toDBPrompts(prompts []models.Prompt) []DBPrompt {
	if len(prompts) == 0 {
		return nil
	}
	out := make([]DBPrompt, len(prompts))
	for i, p := range prompts {
		out[i] = DBPrompt{Question: p.Question, Answer: p.Answer}
	}
	return out
}

func fromDBPrompts(prompts []DBPrompt) []models.Prompt {
	if len(prompts) == 0 {
		return nil
	}
	out := make([]models.Prompt, len(prompts))
	for i, p := range prompts {
		out[i] = models.Prompt{Question: p.Question, Answer: p.Answer}
	}
	return out
}

func toDBProfile(p models.Profile) DBProfile {
	return DBProfile{
		ID:         p.ID,
		Name:       p.Name,
		Gender:     p.Gender,
		Age:        p.Age,
		Bio:        p.Bio,
		Photos:     p.Photos,
		Occupation: p.Occupation,
		Education:  p.Education,
		Height:     p.Height,
		Location:   p.Location,
		Prompts:    toDBPrompts(p.Prompts),
	}
}

func fromDBProfile(p DBProfile) models.Profile {
	return models.Profile{
		ID:         p.ID,
		Name:       p.Name,
		Gender:     p.Gender,
		Age:        p.Age,
		Bio:        p.Bio,
		Photos:     p.Photos,
		Occupation: p.Occupation,
		Education:  p.Education,
		Height:     p.Height,
		Location:   p.Location,
		Prompts:    fromDBPrompts(p.Prompts),
	}
}

func toDBMatch(m models.MatchRecord) DBMatch {
	return DBMatch{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Gender:      m.Gender,
		Photo:       m.Photo,
		Age:         m.Age,
		Bio:         m.Bio,
		Occupation:  m.Occupation,
		Education:   m.Education,
		Location:    m.Location,
		Prompts:     toDBPrompts(m.Prompts),
		LastMessage: m.LastMessage,
		Timestamp:   m.Timestamp,
		Unread:      m.Unread,
	}
}

func fromDBMatch(m DBMatch) models.MatchRecord {
	return models.MatchRecord{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Gender:      m.Gender,
		Photo:       m.Photo,
		Age:         m.Age,
		Bio:         m.Bio,
		Occupation:  m.Occupation,
		Education:   m.Education,
		Location:    m.Location,
		Prompts:     fromDBPrompts(m.Prompts),
		LastMessage: m.LastMessage,
		Timestamp:   m.Timestamp,
		Unread:      m.Unread,
	}
}
