package search

import "strings"

// Request is the user input of a search, as received by the HTTP API or the
// command line.
type Request struct {
	Username string `json:"username" form:"username" schema:"username" validate:"required,max=39,githubuser"`
	Pattern  string `json:"pattern" form:"pattern" schema:"pattern" validate:"required,regexp"`
}

// Normalize trims surrounding whitespace from the username. The pattern is
// kept verbatim since whitespace may be significant in it.
func (r *Request) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
}
