package web

import (
	"bytes"
	"net/http"

	"activation-admin/internal/domain/model"
)

// Row is one rendered table line. Values are plain strings; html/template
// escapes them on output.
type Row struct {
	ID     int64
	Name   string
	Code   string
	Active bool
	Expiry string
	Usage  string
}

type consoleView struct {
	Title     string
	Alert     string
	Created   string
	ShowTable bool
	Rows      []Row
}

type loginView struct {
	Title string
	Alert string
}

type confirmView struct {
	Title string
	ID    int64
}

// BuildRows projects codes into table rows in the order given.
func BuildRows(codes []*model.ActivationCode) []Row {
	rows := make([]Row, 0, len(codes))
	for _, c := range codes {
		if c == nil {
			continue
		}
		r := Row{ID: c.ID, Name: c.DisplayName(), Code: c.Code, Active: c.Active, Expiry: c.ExpiryText(), Usage: c.UsageText()}
		if r.Name == "" {
			r.Name = "-"
		}
		rows = append(rows, r)
	}
	return rows
}

// render buffers the page so a template error never leaves a half-written body.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, status int, data any) {
	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, page+".html", data); err != nil {
		s.logger(r).Error().Err(err).Str("page", page).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
