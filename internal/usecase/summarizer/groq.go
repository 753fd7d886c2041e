package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/HarshithPancheru/PSG-Hackathon/internal/domain/entities"
	pkgai "github.com/HarshithPancheru/PSG-Hackathon/pkg/ai"
)

const groqPrompt = `You are a meeting assistant. Analyze the meeting transcript below and
respond with nothing but a JSON object of this exact shape:
{"summary": "...", "actionItems": [{"assignee": "...", "text": "...", "due": "...", "confidence": 0.9}], "confidence": 0.9}
Confidence values are between 0 and 1. Omit "due" when no due date was mentioned.

Transcript:
%s`

// GroqPort implements Port over the Groq chat completions API. Calls are
// retried with exponential backoff; malformed model output is an error so the
// caller falls back to the rule-based generator.
type GroqPort struct {
	client *pkgai.GroqClient
}

// NewGroqPort constructs a Groq-backed summarizer port.
func NewGroqPort(client *pkgai.GroqClient) *GroqPort {
	return &GroqPort{client: client}
}

// momPayload is the shape the model is asked to produce.
type momPayload struct {
	Summary     string                `json:"summary"`
	ActionItems []entities.ActionItem `json:"actionItems"`
	Confidence  float64               `json:"confidence"`
}

// Summarize sends the transcript to Groq and assembles a MOM from the model
// output. Engagement is computed locally: it is statistical, not a language
// task.
func (p *GroqPort) Summarize(ctx context.Context, transcripts []entities.TranscriptEntry, room string) (entities.MOM, error) {
	if len(transcripts) == 0 {
		return entities.MOM{}, fmt.Errorf("no transcripts for room %s", room)
	}

	var sb strings.Builder
	for _, t := range transcripts {
		sb.WriteString(t.DisplayName)
		sb.WriteString(": ")
		sb.WriteString(t.Text)
		sb.WriteString("\n")
	}
	prompt := fmt.Sprintf(groqPrompt, sb.String())

	var content string
	call := func() error {
		var err error
		content, err = p.client.Complete(ctx, prompt)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	bo.MaxInterval = 10 * time.Second

	if err := backoff.Retry(call, backoff.WithContext(bo, ctx)); err != nil {
		return entities.MOM{}, fmt.Errorf("groq call failed: %w", err)
	}

	var payload momPayload
	if err := json.Unmarshal([]byte(extractJSON(content)), &payload); err != nil {
		return entities.MOM{}, fmt.Errorf("failed to parse model output: %w", err)
	}
	if payload.Summary == "" {
		return entities.MOM{}, fmt.Errorf("missing summary in model output")
	}

	mom := entities.MOM{
		Room:        room,
		GeneratedAt: time.Now().UnixMilli(),
		Summary:     payload.Summary,
		ActionItems: payload.ActionItems,
		Engagement:  Engagement(transcripts),
		Confidence:  clamp01(payload.Confidence),
	}
	if mom.ActionItems == nil {
		mom.ActionItems = []entities.ActionItem{}
	}
	if len(mom.ActionItems) > maxActionItems {
		mom.ActionItems = mom.ActionItems[:maxActionItems]
	}
	for i := range mom.ActionItems {
		mom.ActionItems[i].Confidence = clamp01(mom.ActionItems[i].Confidence)
	}
	return mom, nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
