package search

import (
	"context"
	"github.com/gistsearch/gistsearch/internal/gists"
	"github.com/gistsearch/gistsearch/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"net/url"
	"strings"
	"time"
)

const (
	defaultWebURL = "https://gist.github.com"

	genericRemoteMessage = "Something went wrong with the gist request"
)

type Options struct {
	// WebURL is the base of the human facing gist URLs put in results.
	WebURL string

	// Concurrency is the number of gists resolved at the same time. Values
	// below 2 resolve gists one after the other.
	Concurrency int
}

// Searcher answers "which of this user's gists match this pattern". It
// keeps no state between searches and may be shared by concurrent callers.
type Searcher struct {
	client      *gists.Client
	webURL      string
	concurrency int
}

func NewSearcher(client *gists.Client, opts Options) *Searcher {
	webURL := opts.WebURL
	if webURL == "" {
		webURL = defaultWebURL
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Searcher{
		client:      client,
		webURL:      strings.TrimRight(webURL, "/"),
		concurrency: concurrency,
	}
}

// Result is the outcome of one successful search.
type Result struct {
	Username string   `json:"username"`
	Pattern  string   `json:"pattern"`
	Matches  []string `json:"matches"`
}

// Search lists every gist of username and returns, in listing order, the
// URL of each gist having at least one file matching pattern. username and
// pattern are expected to be validated by the caller.
//
// Any remote failure aborts the whole search; the returned error is then
// always a *gists.RemoteServiceError.
func (s *Searcher) Search(ctx context.Context, username string, pattern *Pattern) (*Result, error) {
	start := time.Now()
	log.Debug().Str("username", username).Str("pattern", pattern.String()).Msg("Search started")

	var matches []string
	var err error
	if s.concurrency > 1 {
		matches, err = s.searchConcurrent(ctx, username, pattern)
	} else {
		matches, err = s.searchSequential(ctx, username, pattern)
	}

	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Searches.WithLabelValues("error").Inc()
		err = asRemoteServiceError(err)
		log.Warn().Err(err).Str("username", username).Msg("Search failed")
		return nil, err
	}

	metrics.Searches.WithLabelValues("success").Inc()
	metrics.Matches.Add(float64(len(matches)))
	log.Debug().Str("username", username).Int("matches", len(matches)).
		TimeDiff("duration", time.Now(), start).Msg("Search finished")

	return &Result{
		Username: username,
		Pattern:  pattern.String(),
		Matches:  matches,
	}, nil
}

// GistURL builds the web URL of a gist.
func (s *Searcher) GistURL(username, gistID string) string {
	return s.webURL + "/" + url.PathEscape(username) + "/" + url.PathEscape(gistID)
}

func (s *Searcher) searchSequential(ctx context.Context, username string, pattern *Pattern) ([]string, error) {
	matches := make([]string, 0)

	it := s.client.Gists(username)
	for {
		gist, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if gist == nil {
			return matches, nil
		}

		matched, err := s.matchGist(ctx, gist, pattern)
		if err != nil {
			return nil, err
		}
		if matched {
			matches = append(matches, s.GistURL(username, gist.ID))
		}
	}
}

// searchConcurrent resolves gists on a bounded pool while the listing is
// still being paged. Each gist owns a slot indexed by its listing position
// so the result keeps listing order whatever the completion order.
func (s *Searcher) searchConcurrent(ctx context.Context, username string, pattern *Pattern) ([]string, error) {
	type slot struct {
		gistID  string
		matched bool
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	var slots []*slot
	var listErr error

	it := s.client.Gists(username)
	for {
		gist, err := it.Next(gctx)
		if err != nil {
			listErr = err
			break
		}
		if gist == nil {
			break
		}

		sl := &slot{gistID: gist.ID}
		slots = append(slots, sl)

		g.Go(func() error {
			matched, err := s.matchGist(gctx, gist, pattern)
			if err != nil {
				return err
			}
			sl.matched = matched
			return nil
		})
	}

	// A failing worker cancels gctx, which in turn fails the listing; the
	// worker error is the meaningful one.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if listErr != nil {
		return nil, listErr
	}

	matches := make([]string, 0)
	for _, sl := range slots {
		if sl.matched {
			matches = append(matches, s.GistURL(username, sl.gistID))
		}
	}
	return matches, nil
}

// matchGist fetches the files of gist one by one and stops at the first
// one matching.
func (s *Searcher) matchGist(ctx context.Context, gist *gists.Gist, pattern *Pattern) (bool, error) {
	metrics.GistsScanned.Inc()
	if gist.Truncated {
		log.Debug().Str("gist", gist.ID).Msg("Gist listing is truncated, searching listed files only")
	}

	files := s.client.Files(gist)
	for {
		content, ok, err := files.Next(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if pattern.Match(content) {
			return true, nil
		}
	}
}

// asRemoteServiceError makes sure callers only ever see one error type.
func asRemoteServiceError(err error) error {
	if gists.IsRemoteServiceError(err) {
		return err
	}
	return &gists.RemoteServiceError{
		Kind:    gists.KindTransport,
		Message: genericRemoteMessage,
		Err:     err,
	}
}
