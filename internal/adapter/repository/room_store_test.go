package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/HarshithPancheru/PSG-Hackathon/internal/domain/entities"
)

func participant(userID, connID string) entities.Participant {
	return entities.Participant{
		UserID:       userID,
		DisplayName:  userID,
		ConnectionID: connID,
		JoinedAt:     1000,
	}
}

func TestEnsureRoomIdempotent(t *testing.T) {
	s := NewRoomStore(0)
	s.EnsureRoom("r1")
	s.AddParticipant("r1", participant("u1", "c1"))

	s.EnsureRoom("r1")

	got := s.GetParticipants("r1")
	if len(got) != 1 || got[0].UserID != "u1" {
		t.Fatalf("expected u1 to survive second EnsureRoom, got %v", got)
	}
}

func TestRemoveParticipantCollectsEmptyRoom(t *testing.T) {
	s := NewRoomStore(0)
	s.AddParticipant("r1", participant("u1", "c1"))
	s.RemoveParticipant("r1", "u1")

	for _, p := range s.GetParticipants("r1") {
		if p.UserID == "u1" {
			t.Fatal("u1 still present after removal")
		}
	}
	if rooms := s.ListRooms(); len(rooms) != 0 {
		t.Fatalf("empty room not collected, list = %v", rooms)
	}
}

func TestRemoveParticipantKeepsRoomWithTranscripts(t *testing.T) {
	s := NewRoomStore(0)
	s.AddParticipant("r1", participant("u1", "c1"))
	s.AddTranscript("r1", entities.TranscriptEntry{UserID: "u1", DisplayName: "u1", Text: "hello", TS: 5})
	s.RemoveParticipant("r1", "u1")

	rooms := s.ListRooms()
	if len(rooms) != 1 {
		t.Fatalf("room with pending transcripts was collected, list = %v", rooms)
	}
	if rooms[0].Participants != 0 || rooms[0].LastUpdated != 5 {
		t.Fatalf("unexpected room info %+v", rooms[0])
	}
}

func TestRemoveParticipantUnknownRoomIsNoop(t *testing.T) {
	s := NewRoomStore(0)
	s.RemoveParticipant("nope", "u1")
	if rooms := s.ListRooms(); len(rooms) != 0 {
		t.Fatalf("unexpected rooms %v", rooms)
	}
}

func TestAddParticipantOverwritesSameUserID(t *testing.T) {
	s := NewRoomStore(0)
	s.AddParticipant("r1", participant("u1", "c1"))
	s.AddParticipant("r1", participant("u1", "c2"))

	got := s.GetParticipants("r1")
	if len(got) != 1 {
		t.Fatalf("expected single participant, got %d", len(got))
	}
	if got[0].ConnectionID != "c2" {
		t.Fatalf("reconnect did not overwrite, connection = %s", got[0].ConnectionID)
	}
}

func TestTranscriptCap(t *testing.T) {
	s := NewRoomStore(0)
	for i := 0; i < 2001; i++ {
		s.AddTranscript("r1", entities.TranscriptEntry{
			UserID: "u1",
			Text:   fmt.Sprintf("line %d", i),
			TS:     int64(i),
		})
	}

	got := s.GetTranscripts("r1")
	if len(got) != 2000 {
		t.Fatalf("expected 2000 entries after cap, got %d", len(got))
	}
	if got[0].TS != 1 {
		t.Fatalf("oldest entry not evicted, head ts = %d", got[0].TS)
	}
	for i, e := range got {
		if e.TS != int64(i+1) {
			t.Fatalf("relative order broken at index %d: ts = %d", i, e.TS)
		}
	}
}

func TestRemoveParticipantByConnectionIDAcrossRooms(t *testing.T) {
	s := NewRoomStore(0)
	s.AddParticipant("r1", participant("u1", "shared"))
	s.AddParticipant("r1", participant("u2", "other"))
	s.AddParticipant("r2", participant("u1", "shared"))

	affected := s.RemoveParticipantByConnectionID("shared")
	if len(affected) != 2 {
		t.Fatalf("expected 2 affected rooms, got %v", affected)
	}

	if _, ok := s.FindParticipantByUserID("r1", "u1"); ok {
		t.Fatal("u1 still in r1 after disconnect")
	}
	if _, ok := s.FindParticipantByUserID("r1", "u2"); !ok {
		t.Fatal("u2 dropped from r1 by unrelated disconnect")
	}
	// r2 is left empty and must be collected
	for _, info := range s.ListRooms() {
		if info.Room == "r2" {
			t.Fatal("empty r2 not collected after disconnect")
		}
	}
}

func TestAddParticipantAfterCollectLandsInLiveState(t *testing.T) {
	s := NewRoomStore(0)
	s.AddParticipant("r1", participant("u1", "c1"))

	// hold the state a concurrent mutator would have fetched just before
	// the room is emptied and collected
	stale := s.lookup("r1")

	s.RemoveParticipant("r1", "u1")
	if s.lookup("r1") != nil {
		t.Fatal("empty room not collected")
	}

	if !stale.dead {
		t.Fatal("collected state not marked dead")
	}

	// a mutator that acquires the room lock now must get a fresh state,
	// never the collected one
	r := s.lockRoom("r1")
	r.mu.Unlock()
	if r == stale {
		t.Fatal("lockRoom handed back the collected state")
	}

	s.AddParticipant("r1", participant("u2", "c2"))

	got := s.GetParticipants("r1")
	if len(got) != 1 || got[0].UserID != "u2" {
		t.Fatalf("join lost after collection, got %v", got)
	}
}

func TestConcurrentJoinLeaveNeverLosesAJoin(t *testing.T) {
	s := NewRoomStore(0)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			user := fmt.Sprintf("u%d", id)
			for j := 0; j < 500; j++ {
				s.AddParticipant("r1", participant(user, user))
				if _, ok := s.FindParticipantByUserID("r1", user); !ok {
					t.Errorf("join of %s vanished", user)
					return
				}
				s.RemoveParticipant("r1", user)
			}
		}(i)
	}
	wg.Wait()
}

func TestMOMRoundTrip(t *testing.T) {
	s := NewRoomStore(0)
	if _, ok := s.GetMOM("r1"); ok {
		t.Fatal("unexpected MOM for unknown room")
	}

	s.SetMOM("r1", entities.MOM{Room: "r1", GeneratedAt: 42, Summary: "first"})
	mom, ok := s.GetMOM("r1")
	if !ok || mom.Summary != "first" {
		t.Fatalf("unexpected MOM %+v ok=%v", mom, ok)
	}

	s.SetMOM("r1", entities.MOM{Room: "r1", GeneratedAt: 43, Summary: "second"})
	mom, _ = s.GetMOM("r1")
	if mom.Summary != "second" || mom.GeneratedAt != 43 {
		t.Fatalf("replacement failed, got %+v", mom)
	}
}

func TestSetMOMIfNewer(t *testing.T) {
	s := NewRoomStore(0)

	stored, applied := s.SetMOMIfNewer("r1", entities.MOM{Room: "r1", GeneratedAt: 100, Summary: "first"})
	if !applied || stored.Summary != "first" {
		t.Fatalf("initial MOM not applied: %+v applied=%v", stored, applied)
	}

	stored, applied = s.SetMOMIfNewer("r1", entities.MOM{Room: "r1", GeneratedAt: 50, Summary: "stale"})
	if applied {
		t.Fatal("older timestamp replaced a newer MOM")
	}
	if stored.GeneratedAt != 100 || stored.Summary != "first" {
		t.Fatalf("expected the held MOM back, got %+v", stored)
	}

	stored, applied = s.SetMOMIfNewer("r1", entities.MOM{Room: "r1", GeneratedAt: 100, Summary: "refresh"})
	if !applied || stored.Summary != "refresh" {
		t.Fatalf("equal timestamp not applied: %+v applied=%v", stored, applied)
	}
}

func TestMetricsReplaceOnWrite(t *testing.T) {
	s := NewRoomStore(0)
	s.SetParticipantMetrics("r1", "u1", map[string]interface{}{"packets": 1})
	s.SetParticipantMetrics("r1", "u1", map[string]interface{}{"packets": 2})

	got := s.GetMetrics("r1")
	if len(got) != 1 {
		t.Fatalf("expected one user in metrics, got %v", got)
	}
	if got["u1"]["packets"] != 2 {
		t.Fatalf("metrics not replaced, got %v", got["u1"])
	}
}

func TestListRoomsSnapshot(t *testing.T) {
	s := NewRoomStore(0)
	s.AddParticipant("r1", participant("u1", "c1"))
	s.AddParticipant("r1", participant("u2", "c2"))
	s.AddTranscript("r2", entities.TranscriptEntry{UserID: "u3", Text: "hi", TS: 99})

	rooms := s.ListRooms()
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %v", rooms)
	}
	byKey := map[string]entities.RoomInfo{}
	for _, info := range rooms {
		byKey[info.Room] = info
	}
	if byKey["r1"].Participants != 2 || byKey["r1"].LastUpdated != 0 {
		t.Fatalf("unexpected r1 info %+v", byKey["r1"])
	}
	if byKey["r2"].Participants != 0 || byKey["r2"].LastUpdated != 99 {
		t.Fatalf("unexpected r2 info %+v", byKey["r2"])
	}
}
