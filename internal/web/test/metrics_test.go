package test

import (
	"github.com/gistsearch/gistsearch/internal/gists/gisttest"
	"github.com/stretchr/testify/require"
	"net/http"
	"testing"
)

func TestMetricsDisabled(t *testing.T) {
	s := setup(t)

	w := s.request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics(t *testing.T) {
	t.Setenv("GS_METRICS_ENABLED", "true")

	s := setup(t)
	s.github.AddGists("alice", gisttest.Gist{ID: "g1", Files: map[string]string{"a.txt": "hello"}})

	w := s.postJSON(t, "/api/v1/search", searchBody{Username: "alice", Pattern: "hello"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	require.Contains(t, body, `gistsearch_searches_total{status="success"}`)
	require.Contains(t, body, `gistsearch_remote_requests_total{endpoint="listing",outcome="ok"}`)
	require.Contains(t, body, `gistsearch_remote_requests_total{endpoint="raw",outcome="ok"}`)
	require.Contains(t, body, "gistsearch_gists_scanned_total")
	require.Contains(t, body, "gistsearch_search_duration_seconds_bucket")
}
