package entities

// Participant represents one connected user's presence inside a room. A user
// ID maps to at most one participant per room; a later join under the same
// user ID replaces the earlier record (reconnect).
type Participant struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	// ConnectionID identifies the transport connection used for targeted
	// delivery. It is unique process-wide and never exposed to clients.
	ConnectionID string `json:"-"`
	// JoinedAt is the join time in Unix milliseconds.
	JoinedAt int64 `json:"joinedAt"`
}
