package gist

import (
	"github.com/gistsearch/gistsearch/internal/search"
	"github.com/gistsearch/gistsearch/internal/validator"
	"github.com/gistsearch/gistsearch/internal/web/context"
	"github.com/gorilla/schema"
	"net/http"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Status   string   `json:"status"`
	Username string   `json:"username"`
	Pattern  string   `json:"pattern"`
	Matches  []string `json:"matches"`
}

// Search returns the handler of the search endpoint. The request is read
// from the JSON or form body for POST and from the query string for GET.
func Search(searcher *search.Searcher) func(ctx *context.Context) error {
	return func(ctx *context.Context) error {
		dto := new(search.Request)
		if ctx.Request().Method == http.MethodGet {
			if err := decoder.Decode(dto, ctx.QueryParams()); err != nil {
				return ctx.BadRequest("Cannot read search parameters", err)
			}
		} else if err := ctx.Bind(dto); err != nil {
			return ctx.BadRequest("Cannot read search request", err)
		}
		dto.Normalize()

		if err := ctx.Validate(dto); err != nil {
			return ctx.BadRequest(validator.ValidationMessages(&err), err)
		}

		pattern, err := search.Compile(dto.Pattern)
		if err != nil {
			return ctx.BadRequest("Invalid pattern", err)
		}

		result, err := searcher.Search(ctx.Request().Context(), dto.Username, pattern)
		if err != nil {
			return ctx.ErrorRes(http.StatusInternalServerError, err.Error(), err)
		}

		return ctx.Json(SearchResponse{
			Status:   "success",
			Username: result.Username,
			Pattern:  result.Pattern,
			Matches:  result.Matches,
		})
	}
}
