package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/starfederation/datastar-go/datastar"

	"hosts-editor/internal/hostsfile"
	"hosts-editor/internal/session"
	"hosts-editor/internal/source"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const DefaultAddr = "127.0.0.1:3340"

type ServerConfig struct {
	Addr     string
	ReadOnly bool
}

// Server serves one editing session over HTTP. All browser tabs share the
// session; changes are pushed to them over SSE.
type Server struct {
	cfg  ServerConfig
	sess *session.Session
	tmpl *template.Template
}

func NewServer(cfg ServerConfig, sess *session.Session) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if sess == nil {
		return nil, errors.New("web: session is nil")
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, sess: sess, tmpl: tmpl}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /help", s.handleHelp)
	mux.HandleFunc("GET /rows/events", s.handleRowEvents)
	mux.HandleFunc("POST /rows", s.handleRowAdd)
	mux.HandleFunc("POST /rows/{index}/toggle", s.handleRowToggle)
	mux.HandleFunc("POST /rows/{index}/edit", s.handleRowEdit)
	mux.HandleFunc("POST /rows/{index}/delete", s.handleRowDelete)
	mux.HandleFunc("POST /rows/{index}/move", s.handleRowMove)
	mux.HandleFunc("POST /save", s.handleSave)
	mux.HandleFunc("POST /reload", s.handleReload)
	mux.HandleFunc("GET /api/lines", s.handleAPILines)
	mux.HandleFunc("POST /api/save", s.handleAPISave)
	mux.HandleFunc("GET /{$}", s.handleHome)
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info().Str("addr", ln.Addr().String()).Str("source", s.sess.Source().Describe()).Msg("web ui listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	ref := strings.TrimSpace(r.Header.Get("Referer"))
	if ref != "" {
		http.Redirect(w, r, ref, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}

// finish ends a form POST: datastar fetches get 204 (the SSE stream carries
// the new rows), plain forms are redirected back to the page.
func finish(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Datastar-Request") == "true" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	redirectBack(w, r, "/")
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	q := queryFromValues(r.URL.Query())
	s.writeHTMLTemplate(w, "page.html", pageVM{
		Title:     "hosts-editor",
		Rows:      s.rowsVM(q),
		Filter:    q,
		StreamURL: "/rows/events?" + filterValues(q).Encode(),
		ReadOnly:  s.cfg.ReadOnly,
		Error:     strings.TrimSpace(r.URL.Query().Get("error")),
	})
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, "help.html", helpVM{Title: "hosts-editor help", Body: renderMarkdownHTML(helpMarkdown)})
}

// handleRowEvents streams the #rows fragment: once on connect and again
// every time the session changes.
func (s *Server) handleRowEvents(w http.ResponseWriter, r *http.Request) {
	q := queryFromValues(r.URL.Query())
	sse := datastar.NewSSE(w, r)

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		changed := s.sess.Changed()
		html, err := s.renderTemplate("rows.html", s.rowsVM(q))
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		} else {
			_ = sse.PatchElements(html, datastar.WithSelector("#rows"), datastar.WithMode(datastar.ElementPatchModeOuter))
		}

	wait:
		for {
			select {
			case <-sse.Context().Done():
				return
			case <-keepAlive.C:
				_ = sse.PatchSignals([]byte(`{}`))
			case <-changed:
				break wait
			}
		}
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var idx *hostsfile.IndexError
	var field *hostsfile.FieldError
	var unavail *source.UnavailableError
	switch {
	case errors.As(err, &idx):
		return http.StatusNotFound
	case errors.As(err, &field):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &unavail):
		return http.StatusBadGateway
	case errors.Is(err, errReadOnly):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

var errReadOnly = errors.New("web: server is read-only")

func (s *Server) writable(w http.ResponseWriter) bool {
	if s.cfg.ReadOnly {
		http.Error(w, errReadOnly.Error(), http.StatusForbidden)
		return false
	}
	return true
}
