package gists

import (
	"context"
)

// GistIterator lazily walks every page of a user's gist listing, one
// request per page, following the Link header until no "next" relation
// is returned.
//
// An iterator is single use: once exhausted or failed it keeps returning
// the same outcome. Call Client.Gists again to start over from page 1.
// It is not safe for concurrent use.
type GistIterator struct {
	client *Client
	cursor Cursor
	page   []*Gist
	pages  int
	err    error
}

// Gists returns an iterator over the public gists of username. No request
// is made until the first call to Next.
func (c *Client) Gists(username string) *GistIterator {
	return &GistIterator{
		client: c,
		cursor: NextCursor(c.UserGistsURL(username)),
	}
}

// Next returns the next gist, or nil, nil once every page was consumed.
// Errors from the remote are returned as is.
func (it *GistIterator) Next(ctx context.Context) (*Gist, error) {
	if it.err != nil {
		return nil, it.err
	}

	for {
		// Pages may come back empty while still pointing at a next page.
		for len(it.page) == 0 {
			next, ok := it.cursor.URL()
			if !ok {
				return nil, nil
			}

			var page []*Gist
			cursor, err := it.client.Fetch(ctx, next, &page)
			if err != nil {
				it.err = err
				return nil, err
			}
			it.pages++
			it.page = page
			it.cursor = cursor
		}

		gist := it.page[0]
		it.page = it.page[1:]
		if gist != nil {
			return gist, nil
		}
	}
}

// Collect drains the iterator.
func (it *GistIterator) Collect(ctx context.Context) ([]*Gist, error) {
	var all []*Gist
	for {
		gist, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if gist == nil {
			return all, nil
		}
		all = append(all, gist)
	}
}

// Pages returns the number of listing pages fetched so far.
func (it *GistIterator) Pages() int {
	return it.pages
}
