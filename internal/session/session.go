// Package session holds the volatile per-admin dialogue state for
// multi-step bot workflows.  Sessions live in process memory only and
// are lost on restart; an owner has at most one live session.
package session

import (
	"sync"

	"github.com/otabek-dev/kinoteka-bot/internal/model"
)

// WorkflowKind identifies which multi-step dialogue a session drives.
type WorkflowKind string

const (
	WorkflowAddMovie       WorkflowKind = "ADD_MOVIE"
	WorkflowAddSeries      WorkflowKind = "ADD_SERIES"
	WorkflowAppendEpisodes WorkflowKind = "APPEND_EPISODES"
	WorkflowAttachVideo    WorkflowKind = "ATTACH_VIDEO"
	WorkflowAddField       WorkflowKind = "ADD_FIELD"
	WorkflowAddMandatory   WorkflowKind = "ADD_MANDATORY_CHANNEL"
	WorkflowAddStorage     WorkflowKind = "ADD_STORAGE_CHANNEL"
	WorkflowAddAdmin       WorkflowKind = "ADD_ADMIN"
	WorkflowEditPrices     WorkflowKind = "EDIT_PRICES"
	WorkflowEditCard       WorkflowKind = "EDIT_CARD"
	WorkflowBroadcast      WorkflowKind = "BROADCAST"
)

// Movie workflow steps, in dialogue order.
type MovieStep int

const (
	MovieStepCode MovieStep = iota
	MovieStepTitle
	MovieStepGenre
	MovieStepDescription
	MovieStepField
	MovieStepPoster
	MovieStepVideo
)

// Series workflow steps.  StepEpisodes repeats until the admin
// finishes; StepPublish asks whether to post to the field channel.
type SeriesStep int

const (
	SeriesStepCode SeriesStep = iota
	SeriesStepTitle
	SeriesStepGenre
	SeriesStepDescription
	SeriesStepField
	SeriesStepPoster
	SeriesStepEpisodes
	SeriesStepPublish
)

// Append workflow steps.
type AppendStep int

const (
	AppendStepCode AppendStep = iota
	AppendStepEpisodes
)

// EpisodeDraft is one uploaded episode awaiting commit.
type EpisodeDraft struct {
	Number      int
	VideoFileID string
}

// MovieDraft accumulates the movie workflow's answers.  FieldChoices
// caches the list rendered at the field-selection prompt so the
// admin's 1-based reply resolves against the same snapshot.
type MovieDraft struct {
	Step         MovieStep
	Code         int
	Title        string
	Genre        string
	Description  *string
	FieldID      uint64
	FieldChoices []model.Field
	PosterFileID string
	VideoFileID  string
}

// SeriesDraft accumulates the new-series workflow's answers.
type SeriesDraft struct {
	Step         SeriesStep
	Code         int
	Title        string
	Genre        string
	Description  *string
	FieldID      uint64
	FieldChoices []model.Field
	PosterFileID string
	Episodes     []EpisodeDraft
}

// AppendDraft accumulates the append-episode workflow's state.
// NextNumber starts at the series' current episode count plus one.
type AppendDraft struct {
	Step       AppendStep
	SeriesID   uint64
	Code       int
	NextNumber int
	Episodes   []EpisodeDraft
}

// AttachDraft holds the movie awaiting its missing video.
type AttachDraft struct {
	MovieCode int
}

// FieldDraft accumulates the add-field workflow (name, then channel).
type FieldDraft struct {
	Step        int
	Name        string
	ChannelID   string
	ChannelLink string
}

// ChannelDraft accumulates mandatory- or storage-channel creation.
type ChannelDraft struct {
	Step        int
	ChannelID   string
	ChannelName string
	ChannelLink string
	Kind        model.ChannelKind
}

// AdminDraft accumulates new-admin creation.
type AdminDraft struct {
	Step       int
	TelegramID int64
	Username   string
}

// PricesDraft walks the four premium tiers in order.
type PricesDraft struct {
	Step   int
	Prices [4]int64
}

// CardDraft accumulates the manual-transfer card update.
type CardDraft struct {
	Step   int
	Number string
	Holder string
}

// BroadcastDraft holds the chosen audience until the message arrives.
type BroadcastDraft struct {
	AudiencePicked bool
	Audience       string
}

// Session is one owner's live workflow.  Data holds the workflow's
// typed draft (one of the *Draft types above, matching Kind).
type Session struct {
	OwnerID int64
	Kind    WorkflowKind
	Data    any
}

// Store is the in-process session table.  It serializes access per
// owner so a retried webhook cannot race a step handler for the same
// admin; different owners proceed independently.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	owners   map[int64]*sync.Mutex
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		owners:   make(map[int64]*sync.Mutex),
	}
}

// LockOwner serializes event handling for one owner.  The returned
// function releases the lock; callers hold it across a full
// read-modify-write of the owner's session.
func (s *Store) LockOwner(ownerID int64) func() {
	s.mu.Lock()
	m, ok := s.owners[ownerID]
	if !ok {
		m = &sync.Mutex{}
		s.owners[ownerID] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// Start unconditionally replaces any existing session for ownerID with
// a fresh one holding the given draft at its zero step.
func (s *Store) Start(ownerID int64, kind WorkflowKind, data any) *Session {
	sess := &Session{OwnerID: ownerID, Kind: kind, Data: data}
	s.mu.Lock()
	s.sessions[ownerID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the owner's live session, or nil when idle.
func (s *Store) Get(ownerID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[ownerID]
}

// Clear removes the owner's session.  Clearing an absent session is a
// no-op, so cancel is idempotent.
func (s *Store) Clear(ownerID int64) {
	s.mu.Lock()
	delete(s.sessions, ownerID)
	s.mu.Unlock()
}
