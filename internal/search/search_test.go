package search

import (
	"context"
	"fmt"
	"github.com/gistsearch/gistsearch/internal/gists"
	"github.com/gistsearch/gistsearch/internal/gists/gisttest"
	"github.com/stretchr/testify/require"
	"net/http"
	"testing"
	"time"
)

const webURL = "https://gist.github.com"

func newTestSearcher(srv *gisttest.Server, pageSize, concurrency int) *Searcher {
	client := gists.NewClient(gists.Options{BaseURL: srv.URL, PageSize: pageSize})
	return NewSearcher(client, Options{WebURL: webURL, Concurrency: concurrency})
}

// forEachMode runs f against a sequential and a concurrent searcher.
func forEachMode(t *testing.T, f func(t *testing.T, concurrency int)) {
	for _, concurrency := range []int{1, 4} {
		t.Run(fmt.Sprintf("concurrency=%d", concurrency), func(t *testing.T) {
			f(t, concurrency)
		})
	}
}

func TestSearchMatch(t *testing.T) {
	forEachMode(t, func(t *testing.T, concurrency int) {
		srv := gisttest.NewServer(t)
		srv.AddGists("alice", gisttest.Gist{ID: "g1", Files: map[string]string{"hello.txt": "hello world"}})

		s := newTestSearcher(srv, 10, concurrency)

		result, err := s.Search(context.Background(), "alice", MustCompile("hello"))
		require.NoError(t, err)
		require.Equal(t, "alice", result.Username)
		require.Equal(t, "hello", result.Pattern)
		require.Equal(t, []string{"https://gist.github.com/alice/g1"}, result.Matches)

		result, err = s.Search(context.Background(), "alice", MustCompile("goodbye"))
		require.NoError(t, err)
		require.NotNil(t, result.Matches)
		require.Empty(t, result.Matches)
	})
}

func TestSearchUserWithoutGists(t *testing.T) {
	forEachMode(t, func(t *testing.T, concurrency int) {
		srv := gisttest.NewServer(t)
		srv.AddGists("alice")

		result, err := newTestSearcher(srv, 10, concurrency).Search(context.Background(), "alice", MustCompile(".*"))
		require.NoError(t, err)
		require.Equal(t, []string{}, result.Matches)
		require.Equal(t, 0, srv.RawRequests())
	})
}

func TestSearchUnknownUser(t *testing.T) {
	forEachMode(t, func(t *testing.T, concurrency int) {
		srv := gisttest.NewServer(t)

		result, err := newTestSearcher(srv, 10, concurrency).Search(context.Background(), "nobody", MustCompile("hello"))
		require.Nil(t, result)
		require.Error(t, err)

		var remoteErr *gists.RemoteServiceError
		require.ErrorAs(t, err, &remoteErr)
		require.Equal(t, "Not Found", remoteErr.Message)
		require.Equal(t, "Github gists error: Not Found", err.Error())
	})
}

func TestSearchOneURLPerGist(t *testing.T) {
	forEachMode(t, func(t *testing.T, concurrency int) {
		srv := gisttest.NewServer(t)
		srv.AddGists("alice", gisttest.Gist{ID: "g1", Files: map[string]string{
			"a.txt": "hello",
			"b.txt": "hello again",
			"c.txt": "hello once more",
		}})

		result, err := newTestSearcher(srv, 10, concurrency).Search(context.Background(), "alice", MustCompile("hello"))
		require.NoError(t, err)
		require.Equal(t, []string{"https://gist.github.com/alice/g1"}, result.Matches)
		// The first matching file ends the gist.
		require.Equal(t, 1, srv.RawRequests())
	})
}

func TestSearchKeepsListingOrder(t *testing.T) {
	forEachMode(t, func(t *testing.T, concurrency int) {
		srv := gisttest.NewServer(t)

		var want []string
		for i := 1; i <= 25; i++ {
			content := "nothing here"
			if i%2 == 1 {
				content = "match me"
			}
			id := fmt.Sprintf("g%02d", i)
			// Later gists answer faster so completion order is reversed.
			srv.AddGists("alice", gisttest.Gist{
				ID:    id,
				Files: map[string]string{"file.txt": content},
				Delay: time.Duration(26-i) * time.Millisecond,
			})
			if i%2 == 1 {
				want = append(want, "https://gist.github.com/alice/"+id)
			}
		}

		result, err := newTestSearcher(srv, 10, concurrency).Search(context.Background(), "alice", MustCompile("match"))
		require.NoError(t, err)
		require.Equal(t, want, result.Matches)
		require.Equal(t, 3, srv.ListingRequests())
		require.Equal(t, 25, srv.RawRequests())
	})
}

func TestSearchFileFailureAbortsSearch(t *testing.T) {
	forEachMode(t, func(t *testing.T, concurrency int) {
		srv := gisttest.NewServer(t)
		srv.AddGists("alice",
			gisttest.Gist{ID: "g1", Files: map[string]string{"a.txt": "hello"}},
			gisttest.Gist{ID: "g2", Files: map[string]string{"a.txt": "bye"}},
			gisttest.Gist{ID: "g3", Files: map[string]string{"a.txt": "hello"}},
		)
		srv.FailRaw("g2", "a.txt", http.StatusInternalServerError, `{"message":"Server Error"}`)

		result, err := newTestSearcher(srv, 10, concurrency).Search(context.Background(), "alice", MustCompile("hello"))
		require.Nil(t, result)
		require.Error(t, err)
		require.Equal(t, "Github gists error: Server Error", err.Error())
	})
}

func TestSearchListingFailureAbortsSearch(t *testing.T) {
	forEachMode(t, func(t *testing.T, concurrency int) {
		srv := gisttest.NewServer(t)
		srv.AddGists("alice", makeMatchingGists(3)...)
		srv.FailListing("alice", http.StatusForbidden, `{"message":"API rate limit exceeded for 127.0.0.1."}`)

		result, err := newTestSearcher(srv, 10, concurrency).Search(context.Background(), "alice", MustCompile("hello"))
		require.Nil(t, result)
		require.True(t, gists.IsRemoteServiceError(err))
		require.Equal(t, "Github gists error: API rate limit exceeded for 127.0.0.1.", err.Error())
	})
}

func TestSearchCanceled(t *testing.T) {
	forEachMode(t, func(t *testing.T, concurrency int) {
		srv := gisttest.NewServer(t)
		srv.AddGists("alice", makeMatchingGists(3)...)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := newTestSearcher(srv, 10, concurrency).Search(ctx, "alice", MustCompile("hello"))
		require.Nil(t, result)

		var remoteErr *gists.RemoteServiceError
		require.ErrorAs(t, err, &remoteErr)
		require.Equal(t, gists.KindTransport, remoteErr.Kind)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSearchTimeout(t *testing.T) {
	forEachMode(t, func(t *testing.T, concurrency int) {
		srv := gisttest.NewServer(t)
		srv.AddGists("alice", gisttest.Gist{
			ID:    "g1",
			Files: map[string]string{"a.txt": "hello"},
			Delay: 300 * time.Millisecond,
		})

		client := gists.NewClient(gists.Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
		s := NewSearcher(client, Options{WebURL: webURL, Concurrency: concurrency})

		start := time.Now()
		result, err := s.Search(context.Background(), "alice", MustCompile("hello"))
		require.Less(t, time.Since(start), 250*time.Millisecond)
		require.Nil(t, result)

		var remoteErr *gists.RemoteServiceError
		require.ErrorAs(t, err, &remoteErr)
		require.Equal(t, gists.KindTransport, remoteErr.Kind)
		require.Equal(t, "Github gists error: Something went wrong with the gist request", err.Error())
	})
}

func TestGistURL(t *testing.T) {
	s := NewSearcher(gists.NewClient(gists.Options{}), Options{})
	require.Equal(t, "https://gist.github.com/alice/abc123", s.GistURL("alice", "abc123"))

	s = NewSearcher(gists.NewClient(gists.Options{}), Options{WebURL: "https://gist.example.com/"})
	require.Equal(t, "https://gist.example.com/alice/abc123", s.GistURL("alice", "abc123"))
}

func TestAsRemoteServiceError(t *testing.T) {
	err := asRemoteServiceError(context.DeadlineExceeded)
	require.Equal(t, "Github gists error: Something went wrong with the gist request", err.Error())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	remote := &gists.RemoteServiceError{Kind: gists.KindStatus, StatusCode: 404, Message: "Not Found"}
	require.Same(t, remote, asRemoteServiceError(remote))
}

func makeMatchingGists(n int) []gisttest.Gist {
	list := make([]gisttest.Gist, n)
	for i := range list {
		list[i] = gisttest.Gist{
			ID:    fmt.Sprintf("g%d", i+1),
			Files: map[string]string{"file.txt": "hello"},
		}
	}
	return list
}
