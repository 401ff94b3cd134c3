// Package gisttest provides an in-memory stand-in for the GitHub gist
// listing and raw content endpoints.
package gisttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type Gist struct {
	ID    string
	Files map[string]string

	// Delay is waited before answering any raw file request of this gist.
	Delay time.Duration
}

type failure struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	users       map[string][]Gist
	listingFail map[string]failure
	rawFail     map[string]failure

	listingRequests atomic.Int64
	rawRequests     atomic.Int64
}

// NewServer starts a fake GitHub closed at the end of the test.
func NewServer(t testing.TB) *Server {
	s := &Server{
		users:       make(map[string][]Gist),
		listingFail: make(map[string]failure),
		rawFail:     make(map[string]failure),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{user}/gists", s.listing)
	mux.HandleFunc("GET /raw/{id}/{name}", s.raw)
	s.Server = httptest.NewServer(mux)

	t.Cleanup(s.Close)
	return s
}

// AddGists registers gists for user, in listing order. Calling it without
// gists registers a user with no gist.
func (s *Server) AddGists(user string, gists ...Gist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user] = append(s.users[user], gists...)
}

// FailListing makes every listing request of user answer with status and body.
func (s *Server) FailListing(user string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listingFail[user] = failure{status: status, body: body}
}

// FailRaw makes the raw request of one file answer with status and body.
func (s *Server) FailRaw(gistID, filename string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawFail[gistID+"/"+filename] = failure{status: status, body: body}
}

func (s *Server) RawURL(gistID, filename string) string {
	return s.URL + "/raw/" + gistID + "/" + filename
}

func (s *Server) ListingRequests() int {
	return int(s.listingRequests.Load())
}

func (s *Server) RawRequests() int {
	return int(s.rawRequests.Load())
}

func (s *Server) listing(w http.ResponseWriter, r *http.Request) {
	s.listingRequests.Add(1)
	user := r.PathValue("user")

	s.mu.Lock()
	fail, failing := s.listingFail[user]
	gists, known := s.users[user]
	s.mu.Unlock()

	if failing {
		w.WriteHeader(fail.status)
		_, _ = w.Write([]byte(fail.body))
		return
	}
	if !known {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"message":           "Not Found",
			"documentation_url": "https://docs.github.com/rest/gists/gists#list-gists-for-a-user",
		})
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 30)

	start := (page - 1) * perPage
	if start > len(gists) {
		start = len(gists)
	}
	end := start + perPage
	if end > len(gists) {
		end = len(gists)
	}

	if end < len(gists) {
		next := fmt.Sprintf("%s/users/%s/gists?page=%d&per_page=%d", s.URL, user, page+1, perPage)
		last := fmt.Sprintf("%s/users/%s/gists?page=%d&per_page=%d", s.URL, user, (len(gists)+perPage-1)/perPage, perPage)
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next", <%s>; rel="last"`, next, last))
	}

	entries := make([]map[string]any, 0, end-start)
	for _, gist := range gists[start:end] {
		files := make(map[string]any, len(gist.Files))
		names := make([]string, 0, len(gist.Files))
		for name := range gist.Files {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			files[name] = map[string]any{
				"filename": name,
				"size":     len(gist.Files[name]),
				"raw_url":  s.RawURL(gist.ID, name),
			}
		}
		entries = append(entries, map[string]any{
			"id":       gist.ID,
			"html_url": "https://gist.github.com/" + user + "/" + gist.ID,
			"files":    files,
		})
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) raw(w http.ResponseWriter, r *http.Request) {
	s.rawRequests.Add(1)
	id, name := r.PathValue("id"), r.PathValue("name")

	s.mu.Lock()
	fail, failing := s.rawFail[id+"/"+name]
	var gist Gist
	var found bool
	for _, gists := range s.users {
		for _, g := range gists {
			if g.ID == id {
				gist, found = g, true
			}
		}
	}
	s.mu.Unlock()

	if gist.Delay > 0 {
		time.Sleep(gist.Delay)
	}

	if failing {
		w.WriteHeader(fail.status)
		_, _ = w.Write([]byte(fail.body))
		return
	}

	content, ok := gist.Files[name]
	if !found || !ok {
		http.Error(w, "404: Not Found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
