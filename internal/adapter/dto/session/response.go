package session

import "github.com/HarshithPancheru/PSG-Hackathon/internal/domain/entities"

// Event names emitted to clients over the session socket.
const (
	EventParticipantsUpdate  = "participants_update"
	EventSignal              = "signal"
	EventTranscriptBroadcast = "transcript_broadcast"
	EventMOMUpdate           = "mom_update"
	EventParticipantsMetrics = "participants_metrics"
	EventError               = "error"
)

// ParticipantsUpdate is broadcast to a room whenever its participant set
// changes.
type ParticipantsUpdate struct {
	Room         string                 `json:"room"`
	Participants []entities.Participant `json:"participants"`
}

// TranscriptBroadcast carries one stored transcript entry to a room.
type TranscriptBroadcast struct {
	Room  string                   `json:"room"`
	Entry entities.TranscriptEntry `json:"entry"`
}

// ParticipantsMetrics carries the room's full per-user metrics mapping.
type ParticipantsMetrics struct {
	Room    string                            `json:"room"`
	Metrics map[string]map[string]interface{} `json:"metrics"`
}

// ErrorResponse is sent to the originating connection only.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomListResponse represents the GET /rooms response
type RoomListResponse struct {
	Rooms []entities.RoomInfo `json:"rooms"`
}

// MOMResponse represents the GET /rooms/:room/mom response
type MOMResponse struct {
	Room    string       `json:"room"`
	LastMOM entities.MOM `json:"lastMom"`
}

// TranscriptAcceptedResponse represents the POST /mock-transcript response
type TranscriptAcceptedResponse struct {
	Status  string                   `json:"status"`
	Message string                   `json:"message"`
	Entry   entities.TranscriptEntry `json:"entry"`
}

// RequestMOMResponse represents the POST /rooms/:room/request-mom response
type RequestMOMResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	MOM     entities.MOM `json:"mom"`
}
