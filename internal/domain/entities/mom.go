package entities

// ActionItem is one task extracted from a room's transcript.
type ActionItem struct {
	Assignee string `json:"assignee"`
	// Text is the transcript line the item was extracted from.
	Text       string  `json:"text"`
	Due        string  `json:"due,omitempty"`
	Confidence float64 `json:"confidence"`
}

// MOM holds the minutes of meeting derived from a room's transcripts: a
// narrative summary, extracted action items, per-user engagement counts and
// an overall confidence score in [0,1]. A room keeps at most one MOM; each
// regeneration replaces the previous one.
type MOM struct {
	Room        string       `json:"room"`
	GeneratedAt int64        `json:"generatedAt"`
	Summary     string       `json:"summary"`
	ActionItems []ActionItem `json:"actionItems"`
	// Engagement maps user ID to the number of speaking turns.
	Engagement map[string]int `json:"engagement"`
	Confidence float64        `json:"confidence"`
}
