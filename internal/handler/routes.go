package handler

import (
	"io/fs"
	"log/slog"
	"net/http"
)

// Register mounts every route on mux.
func (d *Dependencies) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", d.HandleHome)
	mux.HandleFunc("GET /status", d.HandleStatus)
	mux.HandleFunc("POST /webhook", d.HandleWebhook)
	mux.HandleFunc("GET /donations", d.HandleDonationsPage)
	mux.HandleFunc("GET /api/donations", d.HandleDonationsAPI)
	mux.HandleFunc("GET /donations_updates", d.HandleDonationsUpdates)

	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		slog.Warn("unmatched request",
			"method", r.Method,
			"path", r.URL.Path,
			"content_length", r.ContentLength,
		)
		http.NotFound(w, r)
	})
}

// NewRouter returns the application handler with request logging applied.
func NewRouter(d *Dependencies) http.Handler {
	mux := http.NewServeMux()
	d.Register(mux)
	return LoggingMiddleware(mux)
}
