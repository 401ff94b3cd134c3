package search

import (
	"regexp"
)

// Pattern is a compiled search expression. A pattern matches content only
// when it matches at the very beginning of the content; ^ and $ match at
// line boundaries.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// Compile compiles source into a Pattern.
func Compile(source string) (*Pattern, error) {
	// Compiled on its own first so errors quote what the user typed.
	if _, err := regexp.Compile(source); err != nil {
		return nil, err
	}

	re, err := regexp.Compile(`(?m)` + source)
	if err != nil {
		return nil, err
	}
	return &Pattern{source: source, re: re}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(source string) *Pattern {
	p, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether content matches the pattern. Matching is
// leftmost-first, so a match at the start of content is found whenever one
// exists.
func (p *Pattern) Match(content string) bool {
	loc := p.re.FindStringIndex(content)
	return loc != nil && loc[0] == 0
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.source
}
