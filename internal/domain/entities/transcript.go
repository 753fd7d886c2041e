package entities

// TranscriptEntry is one timestamped utterance attributed to a user. Entries
// are immutable once appended; a room keeps them in arrival order.
type TranscriptEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
	// TS is the utterance timestamp in Unix milliseconds. Caller-supplied,
	// or assigned on arrival when the client sends none.
	TS int64 `json:"ts"`
}
