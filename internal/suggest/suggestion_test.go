package suggest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCandidate_FullItem(t *testing.T) {
	raw := json.RawMessage(`{
		"title": "Book flights",
		"due_at": "2025-06-01T12:00:00Z",
		"notes": "aim for morning departure",
		"tags": ["travel", "booking"],
		"confidence": 0.9,
		"priority": "high",
		"estimated_minutes": 45,
		"status": "pending"
	}`)

	s, ok := NormalizeCandidate(raw)
	require.True(t, ok)
	assert.Equal(t, "Book flights", s.Title)
	require.NotNil(t, s.DueAt)
	assert.Equal(t, 2025, s.DueAt.Year())
	require.NotNil(t, s.Notes)
	assert.Equal(t, "aim for morning departure", *s.Notes)
	assert.Equal(t, []string{"travel", "booking"}, s.Tags)
	require.NotNil(t, s.Priority)
	assert.Equal(t, "high", *s.Priority)
	require.NotNil(t, s.EstimatedMinutes)
	assert.Equal(t, 45, *s.EstimatedMinutes)
}

func TestNormalizeCandidate_TitleOnlyIsValid(t *testing.T) {
	s, ok := NormalizeCandidate(json.RawMessage(`{"title": "Send a gift"}`))
	require.True(t, ok)
	assert.Equal(t, "Send a gift", s.Title)
	assert.Nil(t, s.DueAt)
	assert.Nil(t, s.Priority)
	assert.Nil(t, s.EstimatedMinutes)
}

func TestNormalizeCandidate_DroppedWhole(t *testing.T) {
	cases := map[string]string{
		"missing title":          `{"notes": "no title here"}`,
		"blank title":            `{"title": "   "}`,
		"title too long":         `{"title": "` + strings.Repeat("x", 256) + `"}`,
		"bad priority":           `{"title": "A", "priority": "urgent"}`,
		"bad status":             `{"title": "A", "status": "done"}`,
		"zero minutes":           `{"title": "A", "estimated_minutes": 0}`,
		"negative minutes":       `{"title": "A", "estimated_minutes": -10}`,
		"minutes wrong type":     `{"title": "A", "estimated_minutes": "soon"}`,
		"due_at unparsable":      `{"title": "A", "due_at": "next tuesday"}`,
		"due_at wrong type":      `{"title": "A", "due_at": 12345}`,
		"tags wrong type":        `{"title": "A", "tags": "travel"}`,
		"confidence wrong type":  `{"title": "A", "confidence": "high"}`,
		"title wrong type":       `{"title": 42}`,
		"not an object":          `"just a string"`,
	}

	for name, raw := range cases {
		_, ok := NormalizeCandidate(json.RawMessage(raw))
		assert.False(t, ok, "%s should be dropped", name)
	}
}

func TestNormalizeCandidate_DueAtWithoutZone(t *testing.T) {
	s, ok := NormalizeCandidate(json.RawMessage(`{"title": "A", "due_at": "2025-06-01T09:30:00"}`))
	require.True(t, ok)
	require.NotNil(t, s.DueAt)
	assert.Equal(t, 9, s.DueAt.Hour())
}

func TestNormalizeCandidates_KeepsOnlyValid(t *testing.T) {
	items := []json.RawMessage{
		json.RawMessage(`{"title": "Good one"}`),
		json.RawMessage(`{"title": "Bad one", "priority": "??"}`),
		json.RawMessage(`{"title": "Another good one", "estimated_minutes": 15}`),
	}

	out := NormalizeCandidates(items)
	require.Len(t, out, 2)
	assert.Equal(t, "Good one", out[0].Title)
	assert.Equal(t, "Another good one", out[1].Title)
}

func TestWrapTitles(t *testing.T) {
	withDefaults := WrapTitles([]string{"A", "B"}, true)
	require.Len(t, withDefaults, 2)
	require.NotNil(t, withDefaults[0].Priority)
	assert.Equal(t, "medium", *withDefaults[0].Priority)

	minimal := WrapTitles([]string{"A"}, false)
	require.Len(t, minimal, 1)
	assert.Nil(t, minimal[0].Priority)
	assert.Nil(t, minimal[0].DueAt)
}
