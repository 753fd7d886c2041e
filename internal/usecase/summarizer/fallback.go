package summarizer

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/HarshithPancheru/PSG-Hackathon/internal/domain/entities"
)

const (
	summaryTail     = 6
	summaryMaxChars = 800
	maxActionItems  = 10
)

var (
	actionKeywordsRe = regexp.MustCompile(`(?i)\b(action|todo|will|by|due|assign|please|follow up|deadline|review|implement|test|fix)\b`)
	assigneeRe       = regexp.MustCompile(`(?i)^\s*([A-Z][a-z0-9_-]{1,20})\b|([A-Z][a-z0-9_-]{1,20})\s+will\b`)
	dueRe            = regexp.MustCompile(`(?i)\b(by|due)\s+([A-Za-z0-9\-/]+)`)
)

// Fallback is the deterministic rule-based MOM generator. It is used when no
// external summarizer is configured and whenever the configured one fails.
func Fallback(transcripts []entities.TranscriptEntry, room string) entities.MOM {
	mom := entities.MOM{
		Room:        room,
		GeneratedAt: time.Now().UnixMilli(),
		ActionItems: []entities.ActionItem{},
		Engagement:  map[string]int{},
		Confidence:  0.5,
	}

	if len(transcripts) == 0 {
		mom.Summary = "No transcript available yet."
		mom.Confidence = 0.2
		return mom
	}

	mom.Engagement = Engagement(transcripts)

	// extractive summary: last few lines joined, truncated
	tail := transcripts
	if len(tail) > summaryTail {
		tail = tail[len(tail)-summaryTail:]
	}
	lines := make([]string, 0, len(tail))
	for _, t := range tail {
		lines = append(lines, fmt.Sprintf("%s: %s", t.DisplayName, t.Text))
	}
	mom.Summary = truncate(strings.Join(lines, " | "), summaryMaxChars)

	matched := 0
	for _, t := range transcripts {
		if !actionKeywordsRe.MatchString(t.Text) {
			continue
		}
		matched++
		if len(mom.ActionItems) >= maxActionItems {
			continue
		}

		assignee := t.DisplayName
		if m := assigneeRe.FindStringSubmatch(t.Text); m != nil {
			if m[1] != "" {
				assignee = m[1]
			} else if m[2] != "" {
				assignee = m[2]
			}
		}

		var due string
		if m := dueRe.FindStringSubmatch(t.Text); m != nil {
			due = m[2]
		}

		mom.ActionItems = append(mom.ActionItems, entities.ActionItem{
			Assignee:   assignee,
			Text:       t.Text,
			Due:        due,
			Confidence: 0.6,
		})
	}

	mom.Confidence = 0.5 + min(0.4, float64(matched)*0.05)
	return mom
}

// Engagement counts speaking turns per user ID.
func Engagement(transcripts []entities.TranscriptEntry) map[string]int {
	counts := make(map[string]int)
	for _, t := range transcripts {
		counts[t.UserID]++
	}
	return counts
}

// truncate cuts s to at most n bytes, backing off to the previous rune
// boundary so the result is always valid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
