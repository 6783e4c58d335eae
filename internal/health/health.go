package health

import (
	"io"
	"net/http"
	"time"
)

// Handler serves the liveness probe required by the hosting environment:
// GET / answers 200 "Bot is alive!".
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "Bot is alive!")
	})
	return mux
}

// NewServer wraps Handler in an http.Server listening on addr.
func NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      Handler(),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
