// Package web is a small wrapper around httptreemux that gives every debug
// route a consistent error-to-response translation, the way the teacher's
// (unretrieved) foundation/web package does for its full public/private
// API. Only the pieces the debug surface needs are implemented here: there
// is no middleware chain, since this domain exposes no public REST API.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/dimfeld/httptreemux/v5"
)

// Handler is an HTTP handler that can return an error instead of writing
// its own failure response.
type Handler func(w http.ResponseWriter, r *http.Request) error

// App wraps an httptreemux router so handlers can be registered with the
// Handler signature above.
type App struct {
	mux *httptreemux.ContextMux
}

// NewApp constructs an empty App.
func NewApp() *App {
	return &App{mux: httptreemux.NewContextMux()}
}

// Handle registers h for method and path, translating a returned error into
// a JSON error response.
func (a *App) Handle(method, path string, h Handler) {
	a.mux.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			Respond(w, map[string]string{"error": err.Error()}, http.StatusInternalServerError)
		}
	})
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Respond writes v as JSON with the given status code. Any encoding error
// is reported to the caller rather than swallowed.
func Respond(w http.ResponseWriter, v any, statusCode int) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err = w.Write(data)
	return err
}
