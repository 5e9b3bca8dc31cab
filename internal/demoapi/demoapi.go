// Package demoapi is a small self-contained backend used by the demo picker
// and the integration tests. It serves a fixed company dataset in the two
// shapes the selector supports: a flat array endpoint and a cursor-paginated
// endpoint with a nested options path.
package demoapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// PageSize is the number of companies per page on the paginated endpoint.
const PageSize = 5

// Company is one record of the demo dataset.
type Company struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

var companies = []Company{
	{1, "Acme Corp", "us"},
	{2, "Globex", "us"},
	{3, "Initech", "us"},
	{4, "Umbrella Industries", "eu"},
	{5, "Hooli", "us"},
	{6, "Stark Industries", "us"},
	{7, "Wayne Enterprises", "us"},
	{8, "Wonka Works", "eu"},
	{9, "Cyberdyne Systems", "us"},
	{10, "Tyrell Corp", "us"},
	{11, "Soylent Foods", "us"},
	{12, "Massive Dynamic", "us"},
	{13, "Aperture Science", "us"},
	{14, "Black Mesa", "us"},
	{15, "Gringotts Bank", "eu"},
	{16, "Weyland-Yutani", "eu"},
	{17, "Oscorp", "us"},
	{18, "Vandelay Industries", "us"},
	{19, "Duff Brewing", "us"},
	{20, "Pied Piper", "us"},
}

// NewRouter creates the demo backend router.
func NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/companies", handleCompanies)
	r.Get("/companies/paged", handleCompaniesPaged)
	return r
}

// handleCompanies returns the matching companies as a flat JSON array.
func handleCompanies(w http.ResponseWriter, r *http.Request) {
	matched := filter(r.URL.Query().Get("search"), r.URL.Query().Get("region"))
	WriteJSON(w, http.StatusOK, matched)
}

// handleCompaniesPaged returns one page of matches wrapped in an envelope:
//
//	{"data": {"results": [...], "next_cursor": 1}}
//
// next_cursor is omitted on the last page.
func handleCompaniesPaged(w http.ResponseWriter, r *http.Request) {
	cursor := 0
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cursor"})
			return
		}
		cursor = n
	}

	matched := filter(r.URL.Query().Get("search"), r.URL.Query().Get("region"))

	start := cursor * PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + PageSize
	if end > len(matched) {
		end = len(matched)
	}

	page := map[string]any{"results": matched[start:end]}
	if end < len(matched) {
		page["next_cursor"] = cursor + 1
	}
	WriteJSON(w, http.StatusOK, map[string]any{"data": page})
}

// filter matches companies by case-insensitive name substring and an
// optional exact region.
func filter(search, region string) []Company {
	search = strings.ToLower(search)
	out := make([]Company, 0, len(companies))
	for _, c := range companies {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		if region != "" && c.Region != region {
			continue
		}
		out = append(out, c)
	}
	return out
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}
