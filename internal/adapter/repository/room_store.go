package repository

import (
	"sync"

	"github.com/HarshithPancheru/PSG-Hackathon/internal/domain/entities"
)

// DefaultTranscriptCap bounds a room's transcript sequence when no explicit
// cap is configured.
const DefaultTranscriptCap = 2000

// RoomStore owns all room, participant, transcript and MOM state. It is the
// only shared mutable resource in the process; every other component reads
// and writes through it.
//
// Locking: the store-level RWMutex guards the rooms map, each room carries
// its own mutex serializing all mutations of that room. Lock order is always
// store before room, and no operation ever holds two room locks at once, so
// cross-room scans cannot deadlock with per-room work. A collected state is
// marked dead under its own lock; mutators acquire room locks through
// lockRoom, which re-fetches dead states.
type RoomStore struct {
	mu            sync.RWMutex
	rooms         map[string]*roomState
	transcriptCap int
}

type roomState struct {
	mu           sync.Mutex
	participants map[string]entities.Participant
	transcripts  []entities.TranscriptEntry
	mom          *entities.MOM
	metrics      map[string]map[string]interface{}
	// dead is set under mu when collection removes the state from the
	// rooms map. A mutator holding a dead state must re-fetch; writes to
	// a dead state would be lost.
	dead bool
}

func newRoomState() *roomState {
	return &roomState{
		participants: make(map[string]entities.Participant),
		metrics:      make(map[string]map[string]interface{}),
	}
}

// NewRoomStore creates an empty store. A non-positive cap falls back to
// DefaultTranscriptCap.
func NewRoomStore(transcriptCap int) *RoomStore {
	if transcriptCap <= 0 {
		transcriptCap = DefaultTranscriptCap
	}
	return &RoomStore{
		rooms:         make(map[string]*roomState),
		transcriptCap: transcriptCap,
	}
}

// room returns the state for key, creating it when absent.
func (s *RoomStore) room(key string) *roomState {
	s.mu.RLock()
	r, ok := s.rooms[key]
	s.mu.RUnlock()
	if ok {
		return r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[key]; ok {
		return r
	}
	r = newRoomState()
	s.rooms[key] = r
	return r
}

// lookup returns the state for key without creating it.
func (s *RoomStore) lookup(key string) *roomState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[key]
}

// lockRoom returns the state for key with its mutex held, creating the room
// when absent. A state collected between the map read and the lock
// acquisition is dead; fetching again observes the deletion and yields a
// fresh state, so a concurrent collection can never swallow a write.
func (s *RoomStore) lockRoom(key string) *roomState {
	for {
		r := s.room(key)
		r.mu.Lock()
		if !r.dead {
			return r
		}
		r.mu.Unlock()
	}
}

// collect deletes the room if it has no participants and no transcripts,
// marking the state dead under its lock so in-flight mutators re-fetch.
// A room with transcripts but no participants is kept: summarization may
// still be pending for it.
func (s *RoomStore) collect(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[key]
	if !ok {
		return
	}
	r.mu.Lock()
	if len(r.participants) == 0 && len(r.transcripts) == 0 {
		r.dead = true
		delete(s.rooms, key)
	}
	r.mu.Unlock()
}

// EnsureRoom creates the room if it does not exist yet. Calling it again for
// an existing room leaves the room's state untouched.
func (s *RoomStore) EnsureRoom(key string) {
	r := s.lockRoom(key)
	r.mu.Unlock()
}

// AddParticipant upserts the participant by user ID, creating the room when
// absent. A prior participant under the same user ID is overwritten
// (reconnect).
func (s *RoomStore) AddParticipant(room string, p entities.Participant) {
	r := s.lockRoom(room)
	defer r.mu.Unlock()
	r.participants[p.UserID] = p
}

// RemoveParticipant deletes the participant if present; a missing room or
// user is a no-op. Triggers the empty-room collection check.
func (s *RoomStore) RemoveParticipant(room, userID string) {
	r := s.lookup(room)
	if r == nil {
		return
	}
	r.mu.Lock()
	delete(r.participants, userID)
	empty := len(r.participants) == 0 && len(r.transcripts) == 0
	r.mu.Unlock()
	if empty {
		s.collect(room)
	}
}

// RemoveParticipantByConnectionID removes every participant bound to the
// given connection across all rooms and returns the keys of the rooms that
// were affected. Connection IDs are unique process-wide, so at most one
// participant per room can match.
func (s *RoomStore) RemoveParticipantByConnectionID(connID string) []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.rooms))
	states := make([]*roomState, 0, len(s.rooms))
	for key, r := range s.rooms {
		keys = append(keys, key)
		states = append(states, r)
	}
	s.mu.RUnlock()

	var affected []string
	for i, r := range states {
		r.mu.Lock()
		removed := false
		for userID, p := range r.participants {
			if p.ConnectionID == connID {
				delete(r.participants, userID)
				removed = true
			}
		}
		empty := len(r.participants) == 0 && len(r.transcripts) == 0
		r.mu.Unlock()

		if removed {
			affected = append(affected, keys[i])
		}
		if empty {
			s.collect(keys[i])
		}
	}
	return affected
}

// GetParticipants returns a snapshot of the room's participants. Order is
// not stable across calls. Returns an empty slice for an unknown room.
func (s *RoomStore) GetParticipants(room string) []entities.Participant {
	r := s.lookup(room)
	if r == nil {
		return []entities.Participant{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, p)
	}
	return out
}

// FindParticipantByUserID returns the participant and true when present.
func (s *RoomStore) FindParticipantByUserID(room, userID string) (entities.Participant, bool) {
	r := s.lookup(room)
	if r == nil {
		return entities.Participant{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[userID]
	return p, ok
}

// AddTranscript appends the entry, creating the room when absent. The
// sequence is bounded by the configured cap: the oldest excess entries are
// trimmed from the head, preserving the order of the remainder.
func (s *RoomStore) AddTranscript(room string, entry entities.TranscriptEntry) {
	r := s.lockRoom(room)
	defer r.mu.Unlock()
	r.transcripts = append(r.transcripts, entry)
	if n := len(r.transcripts); n > s.transcriptCap {
		r.transcripts = append(r.transcripts[:0], r.transcripts[n-s.transcriptCap:]...)
	}
}

// GetTranscripts returns a snapshot of the room's transcript sequence in
// arrival order, or an empty slice for an unknown room.
func (s *RoomStore) GetTranscripts(room string) []entities.TranscriptEntry {
	r := s.lookup(room)
	if r == nil {
		return []entities.TranscriptEntry{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.TranscriptEntry, len(r.transcripts))
	copy(out, r.transcripts)
	return out
}

// SetMOM replaces the room's current MOM, creating the room when absent. A
// summarization task finishing after its room was collected simply re-creates
// the room shell here; the shell is collected again on the next participant
// removal.
func (s *RoomStore) SetMOM(room string, mom entities.MOM) {
	r := s.lockRoom(room)
	defer r.mu.Unlock()
	r.mom = &mom
}

// SetMOMIfNewer stores the MOM unless the room already holds one with a
// later generation timestamp. The check and the replacement happen under the
// room lock, so concurrent generations can never land an older timestamp
// last. It returns the MOM the room holds afterwards and whether the given
// one was applied.
func (s *RoomStore) SetMOMIfNewer(room string, mom entities.MOM) (entities.MOM, bool) {
	r := s.lockRoom(room)
	defer r.mu.Unlock()
	if r.mom != nil && r.mom.GeneratedAt > mom.GeneratedAt {
		return *r.mom, false
	}
	r.mom = &mom
	return mom, true
}

// GetMOM returns the room's current MOM and true when one exists.
func (s *RoomStore) GetMOM(room string) (entities.MOM, bool) {
	r := s.lookup(room)
	if r == nil {
		return entities.MOM{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mom == nil {
		return entities.MOM{}, false
	}
	return *r.mom, true
}

// ListRooms returns a snapshot of every live room with its participant count
// and the timestamp of its newest transcript entry (0 when none). Room locks
// are taken one at a time.
func (s *RoomStore) ListRooms() []entities.RoomInfo {
	s.mu.RLock()
	keys := make([]string, 0, len(s.rooms))
	states := make([]*roomState, 0, len(s.rooms))
	for key, r := range s.rooms {
		keys = append(keys, key)
		states = append(states, r)
	}
	s.mu.RUnlock()

	out := make([]entities.RoomInfo, 0, len(keys))
	for i, r := range states {
		r.mu.Lock()
		info := entities.RoomInfo{
			Room:         keys[i],
			Participants: len(r.participants),
		}
		if n := len(r.transcripts); n > 0 {
			info.LastUpdated = r.transcripts[n-1].TS
		}
		r.mu.Unlock()
		out = append(out, info)
	}
	return out
}

// SetParticipantMetrics replaces the metrics payload for the user, creating
// the room when absent.
func (s *RoomStore) SetParticipantMetrics(room, userID string, metrics map[string]interface{}) {
	r := s.lockRoom(room)
	defer r.mu.Unlock()
	r.metrics[userID] = metrics
}

// GetMetrics returns a snapshot of the room's per-user metrics, or an empty
// map for an unknown room.
func (s *RoomStore) GetMetrics(room string) map[string]map[string]interface{} {
	r := s.lookup(room)
	if r == nil {
		return map[string]map[string]interface{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]map[string]interface{}, len(r.metrics))
	for userID, m := range r.metrics {
		out[userID] = m
	}
	return out
}
