package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"github.com/soar/exilepad/internal/hub"
)

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	pauser      hub.Pauser
	frontendFS  fs.FS
	addr        string
	logger      *slog.Logger
	httpServer  *http.Server
}

func New(h *hub.Hub, b *hub.Broadcaster, p hub.Pauser, frontendFS fs.FS, addr string, logger *slog.Logger) *Server {
	s := &Server{
		hub:         h,
		broadcaster: b,
		pauser:      p,
		frontendFS:  frontendFS,
		addr:        addr,
		logger:      logger,
	}
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	return s
}

// Handler returns the HTTP routes: the status WebSocket, the JSON status
// endpoint and the minified status page.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster, s.pauser, s.logger))
	mux.HandleFunc("/api/status", handleStatus(s.broadcaster, s.logger))

	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)

	fileServer := http.FileServer(http.FS(s.frontendFS))
	mux.Handle("/", m.Middleware(fileServer))

	return mux
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
