package test

import (
	"encoding/json"
	"github.com/gistsearch/gistsearch/internal/cli"
	"github.com/gistsearch/gistsearch/internal/config"
	"github.com/gistsearch/gistsearch/internal/gists/gisttest"
	"github.com/gistsearch/gistsearch/internal/web/server"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

type testServer struct {
	server *server.Server
	github *gisttest.Server
}

// setup loads the default configuration pointed at a fake GitHub and
// returns a server ready to receive requests.
func setup(t *testing.T) *testServer {
	t.Setenv("CONFIG", "")
	t.Setenv("GS_GISTSEARCH_HOME", t.TempDir())
	t.Setenv("GS_LOG_LEVEL", "error")

	github := gisttest.NewServer(t)
	t.Setenv("GS_GITHUB_API_URL", github.URL)

	err := config.InitConfig("", io.Discard)
	require.NoError(t, err, "Could not init config")

	config.InitLog()

	return &testServer{
		server: server.NewServer(cli.NewSearcher(), true),
		github: github,
	}
}

func (s *testServer) request(method, uri string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "http://localhost:9876"+uri, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	s.server.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(t *testing.T, uri string, data any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	return s.request(http.MethodPost, uri, strings.NewReader(string(payload)), "application/json")
}

func (s *testServer) postForm(uri string, values url.Values) *httptest.ResponseRecorder {
	return s.request(http.MethodPost, uri, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}
