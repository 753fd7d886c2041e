package handler

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	sessiondto "github.com/HarshithPancheru/PSG-Hackathon/internal/adapter/dto/session"
)

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	msg, _ := json.Marshal(sessiondto.Envelope{Event: event, Data: data})
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) sessiondto.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var env sessiondto.Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		t.Fatalf("invalid envelope %s: %v", msg, err)
	}
	return env
}

// waitForEvent reads until the given event arrives, skipping others.
func waitForEvent(t *testing.T, conn *websocket.Conn, event string) sessiondto.Envelope {
	t.Helper()
	for i := 0; i < 10; i++ {
		env := readEvent(t, conn)
		if env.Event == event {
			return env
		}
	}
	t.Fatalf("event %q never arrived", event)
	return sessiondto.Envelope{}
}

func TestWebsocketJoinAndSignal(t *testing.T) {
	e, _ := newTestServer()
	server := httptest.NewServer(e)
	defer server.Close()

	alice := dialWS(t, server)
	bob := dialWS(t, server)

	sendEvent(t, alice, "join-room", sessiondto.JoinRoomRequest{Room: "r1", UserID: "alice"})
	waitForEvent(t, alice, sessiondto.EventParticipantsUpdate)

	sendEvent(t, bob, "join-room", sessiondto.JoinRoomRequest{Room: "r1", UserID: "bob"})
	waitForEvent(t, bob, sessiondto.EventParticipantsUpdate)

	// second join reaches alice too
	env := waitForEvent(t, alice, sessiondto.EventParticipantsUpdate)
	var update sessiondto.ParticipantsUpdate
	if err := json.Unmarshal(env.Data, &update); err != nil {
		t.Fatalf("invalid participants_update: %v", err)
	}
	if len(update.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %v", update.Participants)
	}

	sendEvent(t, alice, "signal", sessiondto.SignalRequest{
		Room: "r1", From: "alice", To: "bob", Type: "offer", Data: []byte(`{"sdp":"v=0"}`),
	})

	env = waitForEvent(t, bob, sessiondto.EventSignal)
	var sig sessiondto.SignalRequest
	if err := json.Unmarshal(env.Data, &sig); err != nil {
		t.Fatalf("invalid signal: %v", err)
	}
	if sig.From != "alice" || sig.Type != "offer" {
		t.Fatalf("unexpected signal %+v", sig)
	}
}

func TestWebsocketValidationError(t *testing.T) {
	e, store := newTestServer()
	server := httptest.NewServer(e)
	defer server.Close()

	conn := dialWS(t, server)

	// join without userId must be rejected without touching state
	sendEvent(t, conn, "join-room", map[string]string{"room": "r1"})

	env := waitForEvent(t, conn, sessiondto.EventError)
	var errResp sessiondto.ErrorResponse
	if err := json.Unmarshal(env.Data, &errResp); err != nil {
		t.Fatalf("invalid error payload: %v", err)
	}
	if errResp.Code != "bad_request" {
		t.Fatalf("unexpected code %q", errResp.Code)
	}
	if rooms := store.ListRooms(); len(rooms) != 0 {
		t.Fatalf("rejected join mutated state: %v", rooms)
	}
}

func TestWebsocketTranscriptBroadcast(t *testing.T) {
	e, _ := newTestServer()
	server := httptest.NewServer(e)
	defer server.Close()

	alice := dialWS(t, server)
	sendEvent(t, alice, "join-room", sessiondto.JoinRoomRequest{Room: "r1", UserID: "alice"})
	waitForEvent(t, alice, sessiondto.EventParticipantsUpdate)

	sendEvent(t, alice, "transcript", sessiondto.TranscriptRequest{
		Room: "r1", UserID: "alice", Text: "hello there",
	})

	env := waitForEvent(t, alice, sessiondto.EventTranscriptBroadcast)
	var tb sessiondto.TranscriptBroadcast
	if err := json.Unmarshal(env.Data, &tb); err != nil {
		t.Fatalf("invalid transcript_broadcast: %v", err)
	}
	if tb.Entry.Text != "hello there" || tb.Entry.TS == 0 {
		t.Fatalf("unexpected entry %+v", tb.Entry)
	}
}

func TestWebsocketDisconnectCleansUp(t *testing.T) {
	e, store := newTestServer()
	server := httptest.NewServer(e)
	defer server.Close()

	alice := dialWS(t, server)
	bob := dialWS(t, server)

	sendEvent(t, alice, "join-room", sessiondto.JoinRoomRequest{Room: "r1", UserID: "alice"})
	waitForEvent(t, alice, sessiondto.EventParticipantsUpdate)
	sendEvent(t, bob, "join-room", sessiondto.JoinRoomRequest{Room: "r1", UserID: "bob"})
	waitForEvent(t, bob, sessiondto.EventParticipantsUpdate)

	alice.Close()

	// bob observes the shrunken participant list
	deadline := time.Now().Add(2 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("disconnect update never arrived")
		}
		env := waitForEvent(t, bob, sessiondto.EventParticipantsUpdate)
		var update sessiondto.ParticipantsUpdate
		if err := json.Unmarshal(env.Data, &update); err != nil {
			t.Fatalf("invalid participants_update: %v", err)
		}
		if len(update.Participants) == 1 && update.Participants[0].UserID == "bob" {
			break
		}
	}

	if _, ok := store.FindParticipantByUserID("r1", "alice"); ok {
		t.Fatal("alice still in room after disconnect")
	}
}

func TestWebsocketUnknownTargetSignal(t *testing.T) {
	e, _ := newTestServer()
	server := httptest.NewServer(e)
	defer server.Close()

	alice := dialWS(t, server)
	sendEvent(t, alice, "join-room", sessiondto.JoinRoomRequest{Room: "r1", UserID: "alice"})
	waitForEvent(t, alice, sessiondto.EventParticipantsUpdate)

	sendEvent(t, alice, "signal", sessiondto.SignalRequest{
		Room: "r1", From: "alice", To: "ghost", Type: "answer", Data: []byte(`{}`),
	})

	env := waitForEvent(t, alice, sessiondto.EventError)
	var errResp sessiondto.ErrorResponse
	if err := json.Unmarshal(env.Data, &errResp); err != nil {
		t.Fatalf("invalid error payload: %v", err)
	}
	if errResp.Code != "invalid_target" {
		t.Fatalf("unexpected code %q", errResp.Code)
	}
	if !strings.Contains(errResp.Message, fmt.Sprintf("target %s", "ghost")) {
		t.Fatalf("unexpected message %q", errResp.Message)
	}
}
