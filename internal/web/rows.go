package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hosts-editor/internal/hostsfile"
)

type pageVM struct {
	Title     string
	Rows      rowsVM
	Filter    hostsfile.Query
	StreamURL string
	ReadOnly  bool
	Error     string
}

type helpVM struct {
	Title string
	Body  template.HTML
}

type rowsVM struct {
	Source   string
	Dirty    bool
	Stats    hostsfile.Counts
	Rows     []rowVM
	Empty    string
	Filter   hostsfile.Query
	ReadOnly bool
}

type rowVM struct {
	Index    int
	IsNote   bool
	Active   bool
	Address  string
	Hostname string
	Comment  string
	Text     string
}

func queryFromValues(v url.Values) hostsfile.Query {
	return hostsfile.Query{
		Address:  strings.TrimSpace(v.Get("address")),
		Hostname: strings.TrimSpace(v.Get("hostname")),
		Comment:  strings.TrimSpace(v.Get("comment")),
	}
}

// filterValues encodes the non-empty query fields.
func filterValues(q hostsfile.Query) url.Values {
	v := url.Values{}
	if q.Address != "" {
		v.Set("address", q.Address)
	}
	if q.Hostname != "" {
		v.Set("hostname", q.Hostname)
	}
	if q.Comment != "" {
		v.Set("comment", q.Comment)
	}
	return v
}

func (s *Server) rowsVM(q hostsfile.Query) rowsVM {
	lines := s.sess.Lines()
	vm := rowsVM{
		Source:   s.sess.Source().Describe(),
		Dirty:    s.sess.Dirty(),
		Stats:    hostsfile.Stats(lines),
		Filter:   q,
		ReadOnly: s.cfg.ReadOnly,
	}
	for _, i := range hostsfile.VisibleIndices(lines, q) {
		row := rowVM{Index: i}
		switch l := lines[i].(type) {
		case hostsfile.Mapping:
			row.Active = l.Active
			row.Address = l.Address
			row.Hostname = l.Hostname
			row.Comment = l.CommentText()
		case hostsfile.Note:
			row.IsNote = true
			row.Text = l.Text
		}
		vm.Rows = append(vm.Rows, row)
	}
	switch {
	case len(lines) == 0:
		vm.Empty = "(hosts file is empty)"
	case len(vm.Rows) == 0:
		vm.Empty = "(no lines match the filter)"
	}
	return vm
}

func pathIndex(r *http.Request) (int, error) {
	raw := r.PathValue("index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid row index %q", raw)
	}
	return i, nil
}

func (s *Server) handleRowAdd(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w) {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.FormValue("kind") == string(hostsfile.KindNote) {
		text := strings.TrimRight(r.FormValue("text"), "\r\n")
		if strings.TrimSpace(text) == "" {
			text = "# "
		}
		s.sess.Append(hostsfile.Note{Text: normalizeNewlines(text)})
		finish(w, r)
		return
	}

	m, err := mappingFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.Active = r.FormValue("disabled") == ""
	s.sess.Append(m)
	finish(w, r)
}

func (s *Server) handleRowToggle(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w) {
		return
	}
	i, err := pathIndex(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.sess.Toggle(i); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	finish(w, r)
}

func (s *Server) handleRowEdit(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w) {
		return
	}
	i, err := pathIndex(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cur, err := s.sess.At(i)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var next hostsfile.Line
	switch cur := cur.(type) {
	case hostsfile.Mapping:
		m, err := mappingFromForm(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		m.Active = cur.Active
		next = m
	case hostsfile.Note:
		next = hostsfile.Note{Text: normalizeNewlines(strings.TrimRight(r.FormValue("text"), "\r\n"))}
	}
	if err := s.sess.Replace(i, next); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	finish(w, r)
}

func (s *Server) handleRowDelete(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w) {
		return
	}
	i, err := pathIndex(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.sess.DeleteAt(i); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	finish(w, r)
}

// handleRowMove moves a row one step past its visible neighbour. The form
// carries the page's filter so hidden rows keep their place.
func (s *Server) handleRowMove(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w) {
		return
	}
	i, err := pathIndex(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	delta := 1
	switch r.FormValue("dir") {
	case "up":
		delta = -1
	case "down":
	default:
		http.Error(w, `dir must be "up" or "down"`, http.StatusBadRequest)
		return
	}
	visible := s.sess.Visible(queryFromValues(r.Form))
	if _, err := s.sess.ShiftVisible(visible, []int{i}, delta); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	finish(w, r)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if !s.writable(w) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()
	if err := s.sess.Save(ctx); err != nil {
		log.Warn().Err(err).Msg("web save failed")
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	finish(w, r)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	if err := s.sess.Load(ctx); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	finish(w, r)
}

func mappingFromForm(r *http.Request) (hostsfile.Mapping, error) {
	addr := strings.TrimSpace(r.FormValue("address"))
	host := strings.TrimSpace(r.FormValue("hostname"))
	comment := strings.TrimSpace(r.FormValue("comment"))
	for _, f := range []struct{ name, v string }{{"address", addr}, {"hostname", host}} {
		switch {
		case f.v == "":
			return hostsfile.Mapping{}, fmt.Errorf("%s is required", f.name)
		case strings.ContainsAny(f.v, " \t#"):
			return hostsfile.Mapping{}, fmt.Errorf("%s must not contain spaces or '#'", f.name)
		}
	}
	m := hostsfile.Mapping{Address: addr, Hostname: host}
	if comment != "" {
		m = m.WithComment(comment)
	}
	return m, nil
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
