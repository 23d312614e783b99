package http

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/community-health-finder/internal/domain"
	"github.com/couchcryptid/community-health-finder/internal/finder"
)

type categoryJSON struct {
	ID    domain.Category `json:"id"`
	Label string          `json:"label"`
}

// handleResources always answers 200: malformed parameters are ignored
// rather than rejected.
func handleResources(searcher Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, searcher.Search(r.Context(), parseRequest(r)))
	}
}

func handleCategories(w http.ResponseWriter, _ *http.Request) {
	cats := domain.Categories()
	out := make([]categoryJSON, len(cats))
	for i, c := range cats {
		out[i] = categoryJSON{ID: c, Label: c.Label()}
	}
	writeJSON(w, http.StatusOK, map[string][]categoryJSON{"categories": out})
}

func parseRequest(r *http.Request) finder.Request {
	q := r.URL.Query()
	return finder.Request{
		Zip:        strings.TrimSpace(q.Get("zip")),
		Categories: splitCategories(q["categories"]),
		Lat:        parseFloat(q.Get("lat")),
		Lng:        parseFloat(q.Get("lng")),
	}
}

// splitCategories accepts both categories=a,b and repeated categories params.
func splitCategories(values []string) []string {
	var out []string
	for _, v := range values {
		for _, tok := range strings.Split(v, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				out = append(out, tok)
			}
		}
	}
	return out
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
