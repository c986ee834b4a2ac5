package schedule

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewHandler_PlacesTasks(t *testing.T) {
	body := `{"tasks": [
		{"title": "A", "estimated_minutes": 90},
		{"title": "B", "estimated_minutes": 60, "priority": "high"}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/schedule/preview", strings.NewReader(body))
	w := httptest.NewRecorder()
	PreviewHandler(nil)(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Week      []DaySchedule `json:"week"`
		QuickWins []QuickWin    `json:"quick_wins"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Week, 7)
	assert.Equal(t, time.Now().Format("2006-01-02"), resp.Week[0].Date)
	require.Len(t, resp.Week[0].Items, 1)
	assert.Equal(t, "A", resp.Week[0].Items[0].Title)
	require.Len(t, resp.Week[1].Items, 1)
	assert.Equal(t, "B", resp.Week[1].Items[0].Title)
	assert.Equal(t, "high", resp.Week[1].Items[0].Priority)
	assert.Empty(t, resp.QuickWins)
}

func TestPreviewHandler_EmptyTaskListIsValid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/schedule/preview", strings.NewReader(`{"tasks": []}`))
	w := httptest.NewRecorder()
	PreviewHandler(nil)(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Week      []DaySchedule `json:"week"`
		QuickWins []QuickWin    `json:"quick_wins"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Week, 7)
	for _, d := range resp.Week {
		assert.Empty(t, d.Items)
	}
	assert.Empty(t, resp.QuickWins)
}

func TestPreviewHandler_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/schedule/preview", strings.NewReader(`{`))
	w := httptest.NewRecorder()
	PreviewHandler(nil)(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewHandler_MalformedFieldsDegradePerItem(t *testing.T) {
	body := `{"tasks": [
		{"title": "ok", "estimated_minutes": "nope", "due_at": 99},
		{"title": ""}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/schedule/preview", strings.NewReader(body))
	w := httptest.NewRecorder()
	PreviewHandler(nil)(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Week []DaySchedule `json:"week"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Week[0].Items, 1)
	assert.Equal(t, 30, resp.Week[0].Items[0].EstimatedMinutes)
	assert.Equal(t, "medium", resp.Week[0].Items[0].Priority)
}
