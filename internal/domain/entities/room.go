package entities

// RoomInfo is a point-in-time summary of one live room, as returned by the
// store's room listing. LastUpdated is the timestamp of the newest transcript
// entry in Unix milliseconds, or 0 when the room has no transcripts yet.
type RoomInfo struct {
	Room         string `json:"room"`
	Participants int    `json:"participants"`
	LastUpdated  int64  `json:"lastUpdated"`
}
