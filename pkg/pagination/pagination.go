package pagination

import (
	"net/http"
	"strconv"
)

// Defaults and bounds for result windows.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Window holds a limit/offset result window extracted from query strings.
type Window struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultWindow returns the default result window.
func DefaultWindow() Window {
	return Window{
		Limit:  DefaultLimit,
		Offset: 0,
	}
}

// Clamp normalizes the window in place: non-positive or malformed limits fall
// back to the default, limits above MaxLimit are capped, and negative offsets
// become zero.
func (w *Window) Clamp() {
	if w.Limit <= 0 {
		w.Limit = DefaultLimit
	}
	if w.Limit > MaxLimit {
		w.Limit = MaxLimit
	}
	if w.Offset < 0 {
		w.Offset = 0
	}
}

// FromRequest extracts a result window from an HTTP request's limit/offset
// query parameters. Malformed or out-of-range values fall back to defaults
// rather than erroring.
func FromRequest(r *http.Request) Window {
	w := DefaultWindow()

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			w.Limit = v
		}
	}

	if offset := r.URL.Query().Get("offset"); offset != "" {
		if v, err := strconv.Atoi(offset); err == nil {
			w.Offset = v
		}
	}

	w.Clamp()
	return w
}
