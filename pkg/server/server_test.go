package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/narrative"
	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/source"
	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/spread"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	mk := func(subreddit, title string, offset time.Duration) source.Post {
		return source.Post{
			Subreddit:  subreddit,
			Author:     "someone",
			CreatedUTC: start.Add(offset).Unix(),
			Title:      title,
		}
	}

	posts := []source.Post{
		mk("technology", "AI breakthrough", 0),
		mk("politics", "election results", 0),
		mk("worldnews", "AI and election", 3*day),
		mk("technology", "more AI talk", 3*day),
	}

	rules := narrative.NewRuleset([]narrative.Rule{
		{Name: "Technology", Keywords: []string{"ai"}},
		{Name: "Politics", Keywords: []string{"election"}},
	})

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return New(spread.Expand(posts, rules), log, 0)
}

func doGet(t *testing.T, srv *Server, path string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	resp := rec.Result()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestHandleHealth(t *testing.T) {
	resp, body := doGet(t, testServer(t), "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestHandleNarratives(t *testing.T) {
	resp, body := doGet(t, testServer(t), "/api/v1/narratives")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, []any{"Politics", "Technology"}, body["data"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(0), body["min_day"])
	assert.Equal(t, float64(3), body["max_day"])
}

func TestHandleSummary(t *testing.T) {
	srv := testServer(t)

	resp, body := doGet(t, srv, "/api/v1/summary")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(5), data["total_events"])
	assert.Equal(t, float64(3), data["active_subreddits"])
	assert.Equal(t, float64(2), data["active_narratives"])

	// Window narrows the summary.
	resp, body = doGet(t, srv, "/api/v1/summary?min_day=0&max_day=0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(2), data["total_events"])
}

func TestHandleSummaryEmptyWindow(t *testing.T) {
	resp, body := doGet(t, testServer(t), "/api/v1/summary?min_day=100&max_day=200")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(0), data["total_events"])
	assert.Equal(t, float64(0), data["active_subreddits"])
	assert.Equal(t, float64(0), data["active_narratives"])
}

func TestHandleSummaryBadParams(t *testing.T) {
	resp, body := doGet(t, testServer(t), "/api/v1/summary?min_day=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "min_day")
}

func TestHandleDistribution(t *testing.T) {
	resp, body := doGet(t, testServer(t), "/api/v1/distribution")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := body["data"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Technology", first["narrative"])
	assert.Equal(t, float64(3), first["count"])
}

func TestHandleTimeSeriesIgnoresWindow(t *testing.T) {
	// The growth series always covers the narrative's whole life, even
	// when a display window is sent along.
	resp, body := doGet(t, testServer(t), "/api/v1/timeseries?narrative=Technology&min_day=0&max_day=0")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Technology", body["narrative"])
	series := body["data"].([]any)
	require.Len(t, series, 2)

	point := series[1].(map[string]any)
	assert.Equal(t, float64(3), point["day"])
	assert.Equal(t, float64(2), point["count"])
}

func TestHandleTimeSeriesDefaultNarrative(t *testing.T) {
	resp, body := doGet(t, testServer(t), "/api/v1/timeseries")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Politics", body["narrative"])
}

func TestHandleTimeSeriesUnknownNarrative(t *testing.T) {
	resp, body := doGet(t, testServer(t), "/api/v1/timeseries?narrative=Nope")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])
}

func TestHandleCommunities(t *testing.T) {
	resp, body := doGet(t, testServer(t), "/api/v1/communities?narrative=Technology")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rows := body["data"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "technology", first["subreddit"])
	assert.Equal(t, float64(2), first["count"])
}

func TestHandleObservations(t *testing.T) {
	resp, body := doGet(t, testServer(t), "/api/v1/observations?narrative=Technology")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["empty"])
	assert.Equal(t, "Technology", data["dominant_narrative"])
	assert.Len(t, data["statements"], 4)
}

func TestHandleObservationsEmptyWindow(t *testing.T) {
	resp, body := doGet(t, testServer(t), "/api/v1/observations?min_day=100&max_day=200")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["empty"])
	assert.Equal(t, spread.EmptyWindowMessage, data["message"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/summary", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
