package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rbxlens/rbxlens/internal/lookup"
)

type lookupResponseJSON struct {
	Success    bool                   `json:"success"`
	Data       []lookup.Asset         `json:"data"`
	Categories []lookup.CategoryGroup `json:"categories"`
}

type searchResponseJSON struct {
	Success        bool           `json:"success"`
	Data           []lookup.Asset `json:"data"`
	NextPageCursor string         `json:"nextPageCursor,omitempty"`
}

// Handles:
//
//	GET /api/lookup?ids=1,2 3
//	GET /api/lookup?query=sword&category=&subcategory=&minPrice=&maxPrice=&cursor=
func (rt *router) handleGetLookup(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	switch {
	case q.Get("ids") != "":
		rt.lookupByIDs(w, req, q.Get("ids"))
	case q.Get("query") != "":
		rt.lookupByQuery(w, req)
	default:
		writeError(w, http.StatusBadRequest, "ids or query parameter is required")
	}
}

func (rt *router) lookupByIDs(w http.ResponseWriter, req *http.Request, raw string) {
	res, err := rt.lookup.LookupIDs(req.Context(), raw)
	if err != nil {
		if errors.Is(err, lookup.ErrNoValidIDs) {
			writeError(w, http.StatusBadRequest, "no valid asset IDs in input")
			return
		}
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, lookupResponseJSON{
		Success:    true,
		Data:       res.Assets,
		Categories: res.Categories,
	})
}

func (rt *router) lookupByQuery(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	params := lookup.Query{
		Keyword:     q.Get("query"),
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Cursor:      q.Get("cursor"),
	}

	if v := q.Get("minPrice"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid minPrice")
			return
		}
		params.MinPrice = n
	}
	if v := q.Get("maxPrice"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid maxPrice")
			return
		}
		params.MaxPrice = n
	}

	res, err := rt.lookup.Search(req.Context(), params)
	if err != nil {
		if errors.Is(err, lookup.ErrEmptyKeyword) {
			writeError(w, http.StatusBadRequest, "empty search keyword")
			return
		}
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, searchResponseJSON{
		Success:        true,
		Data:           res.Items,
		NextPageCursor: res.NextCursor,
	})
}
