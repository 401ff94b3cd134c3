package gists

// Gist is the subset of a gist listing entry the search relies on.
// See https://docs.github.com/en/rest/gists/gists#list-gists-for-a-user
type Gist struct {
	ID        string           `json:"id"`
	HTMLURL   string           `json:"html_url,omitempty"`
	Files     map[string]*File `json:"files"`
	Truncated bool             `json:"truncated,omitempty"`
}

// File describes one file attached to a gist. Its content is not part of
// the listing and must be fetched from RawURL.
type File struct {
	Filename string `json:"filename"`
	Language string `json:"language,omitempty"`
	Size     int64  `json:"size,omitempty"`
	RawURL   string `json:"raw_url"`
}

// Cursor points at the next page of a paginated listing. The zero value
// means there are no more pages.
type Cursor struct {
	next string
}

// NextCursor returns a cursor to the given URL. An empty URL yields the
// terminal cursor.
func NextCursor(url string) Cursor {
	return Cursor{next: url}
}

// URL returns the next page URL and whether one is present.
func (c Cursor) URL() (string, bool) {
	return c.next, c.next != ""
}

// Done reports whether the listing is exhausted.
func (c Cursor) Done() bool {
	return c.next == ""
}
