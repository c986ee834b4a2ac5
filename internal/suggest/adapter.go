package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoCredential means no API key is configured. Normal condition,
	// resolved by the keyword tier.
	ErrNoCredential = errors.New("no model credential configured")

	// ErrInvalidOutput means the model answered but its response could
	// not be turned into a single valid suggestion.
	ErrInvalidOutput = errors.New("model returned no usable tasks")
)

const systemPrompt = "You are a planning assistant. Extract 5-10 actionable tasks from the user's message. " +
	"Prefer concise titles. Infer due dates only if clearly implied (ISO 8601)."

// Adapter resolves task suggestions through a fixed degradation ladder:
// model call, then response validation, then the keyword engine. Provider
// and parse failures never escape; they only move resolution down a tier.
type Adapter struct {
	client Completer // nil when no credential is configured
}

func NewAdapter(client Completer) *Adapter {
	return &Adapter{client: client}
}

// Suggest returns suggestions for a non-empty, trimmed message. It never
// fails and never returns an empty list: an empty "successful" model
// response is treated the same as a failed one.
func (a *Adapter) Suggest(ctx context.Context, message string) []TaskSuggestion {
	out, err := a.fromModel(ctx, message)
	switch {
	case err == nil:
		return out
	case errors.Is(err, ErrInvalidOutput):
		// model responded with something, just nothing usable:
		// minimal title-only wraps
		return WrapTitles(TasksFromMessage(message), false)
	default:
		// no credential or transport failure: field-complete wraps so
		// the response shape matches the model path
		return WrapTitles(TasksFromMessage(message), true)
	}
}

func (a *Adapter) fromModel(ctx context.Context, message string) ([]TaskSuggestion, error) {
	if a.client == nil {
		return nil, ErrNoCredential
	}

	userPrompt := fmt.Sprintf(
		"Message: %s\nReturn JSON with a 'tasks' array where each item has: "+
			"title (string), due_at (ISO datetime or null), notes (string or null), tags (array), confidence (0-1).",
		message,
	)

	content, err := a.client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Tasks []json.RawMessage `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, ErrInvalidOutput
	}

	valid := NormalizeCandidates(parsed.Tasks)
	if len(valid) == 0 {
		return nil, ErrInvalidOutput
	}
	return valid, nil
}
