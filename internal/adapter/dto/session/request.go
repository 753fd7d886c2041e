package session

import "encoding/json"

// Envelope frames every message on the session socket in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinRoomRequest represents the join-room event payload
type JoinRoomRequest struct {
	Room        string `json:"room" validate:"required"`
	UserID      string `json:"userId" validate:"required"`
	DisplayName string `json:"displayName"`
}

// LeaveRoomRequest represents the leave-room event payload. Missing fields
// make the event a silent no-op rather than an error.
type LeaveRoomRequest struct {
	Room   string `json:"room"`
	UserID string `json:"userId"`
}

// SignalRequest represents a WebRTC signaling payload relayed between
// participants. The core never interprets Data; Type is constrained to the
// negotiation variants at the boundary. An empty To means room-wide delivery
// excluding the sender.
type SignalRequest struct {
	Room string          `json:"room" validate:"required"`
	From string          `json:"from" validate:"required"`
	To   string          `json:"to,omitempty"`
	Type string          `json:"type" validate:"required,oneof=offer answer ice-candidate"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// TranscriptRequest represents the transcript event payload. TS is in Unix
// milliseconds and defaults to the arrival time when zero; DisplayName
// defaults to UserID.
type TranscriptRequest struct {
	Room        string `json:"room" validate:"required"`
	UserID      string `json:"userId" validate:"required"`
	DisplayName string `json:"displayName"`
	Text        string `json:"text" validate:"required"`
	TS          int64  `json:"ts"`
}

// RequestMOMRequest represents the request_mom event payload
type RequestMOMRequest struct {
	Room string `json:"room" validate:"required"`
}

// StatsUpdateRequest represents the stats_update event payload. Missing
// room or userId makes the event a silent no-op.
type StatsUpdateRequest struct {
	Room   string                 `json:"room"`
	UserID string                 `json:"userId"`
	Stats  map[string]interface{} `json:"stats"`
}
