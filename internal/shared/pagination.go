package shared

import (
	"net/http"
	"strconv"
)

// ListWindow bounds offset based listings. The legacy clients page with
// skip/limit query parameters, so that is what the handlers parse.
type ListWindow struct {
	Skip  int
	Limit int
}

// WindowFromRequest extracts skip/limit with sane defaults.
func WindowFromRequest(r *http.Request) ListWindow {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return ListWindow{Skip: skip, Limit: limit}
}
