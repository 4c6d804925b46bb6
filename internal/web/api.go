package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"hosts-editor/internal/hostsfile"
)

type apiLine struct {
	Index int            `json:"index"`
	Line  hostsfile.Line `json:"line"`
}

type apiLines struct {
	Source string           `json:"source"`
	Dirty  bool             `json:"dirty"`
	Stats  hostsfile.Counts `json:"stats"`
	Lines  []apiLine        `json:"lines"`
}

type apiSaved struct {
	Saved  bool   `json:"saved"`
	Source string `json:"source"`
	Bytes  int    `json:"bytes"`
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleAPILines lists the lines that pass the filter in the query string,
// with their positions in the full sequence.
func (s *Server) handleAPILines(w http.ResponseWriter, r *http.Request) {
	lines := s.sess.Lines()
	out := apiLines{
		Source: s.sess.Source().Describe(),
		Dirty:  s.sess.Dirty(),
		Stats:  hostsfile.Stats(lines),
		Lines:  []apiLine{},
	}
	for _, i := range hostsfile.VisibleIndices(lines, queryFromValues(r.URL.Query())) {
		out.Lines = append(out.Lines, apiLine{Index: i, Line: lines[i]})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPISave(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ReadOnly {
		writeJSON(w, http.StatusForbidden, apiError{Error: errReadOnly.Error()})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()
	text := s.sess.Text()
	if err := s.sess.Save(ctx); err != nil {
		writeJSON(w, statusFor(err), apiError{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, apiSaved{Saved: true, Source: s.sess.Source().Describe(), Bytes: len(text)})
}
