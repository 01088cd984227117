package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"activation-admin/internal/domain"
	"activation-admin/internal/usecase"

	"github.com/go-chi/chi/v5"
)

// Alert keys carried across redirects. Only these messages are ever shown.
const (
	alertUnreachable  = "unreachable"
	alertInvalid      = "invalid"
	alertListFailed   = "list_failed"
	alertGenerate     = "generate_failed"
	alertToggle       = "toggle_failed"
	alertDelete       = "delete_failed"
	alertEmptyToken   = "empty_token"
	alertLoginFailed  = "login_failed"
	alertBadID        = "bad_id"
	alertDeleteCancel = "delete_cancelled"
)

// alert resolves an alert key against the message catalog. Unknown keys
// render nothing.
func (s *Server) alert(key string) string {
	if key == "" || !s.opts.Messages.Has("alert."+key) {
		return ""
	}
	return s.opts.Messages.T("alert." + key)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleServiceWorker(w http.ResponseWriter, r *http.Request) {
	if len(s.opts.ServiceWorker) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(s.opts.ServiceWorker)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login", http.StatusOK, loginView{Title: "Admin login", Alert: s.alert(r.URL.Query().Get("alert"))})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	sess, err := s.opts.Sessions.Login(r.Context(), r.PostForm.Get("token"))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyToken) {
			s.render(w, r, "login", http.StatusBadRequest, loginView{Title: "Admin login", Alert: s.alert(alertEmptyToken)})
			return
		}
		s.logger(r).Error().Err(err).Msg("login failed")
		s.render(w, r, "login", http.StatusInternalServerError, loginView{Title: "Admin login", Alert: s.alert(alertLoginFailed)})
		return
	}
	if err := s.opts.Auth.Mint(w, sess.ID); err != nil {
		s.logger(r).Error().Err(err).Msg("mint session cookie")
		_ = s.opts.Sessions.Logout(r.Context(), sess, usecase.LogoutManual)
		s.render(w, r, "login", http.StatusInternalServerError, loginView{Title: "Admin login", Alert: s.alert(alertLoginFailed)})
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id, err := s.opts.Auth.SessionID(r); err == nil {
		if sess, err := s.opts.Sessions.Resolve(r.Context(), id); err == nil {
			if err := s.opts.Sessions.Logout(r.Context(), sess, usecase.LogoutManual); err != nil {
				s.logger(r).Error().Err(err).Msg("logout failed")
			}
		}
	}
	s.toLogin(w, r, true)
}

// handleConsole performs exactly one List per page load. A failed list shows
// the alert and no table.
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sess := sessionFrom(r.Context())
	view := consoleView{Title: "Activation codes", Alert: s.alert(q.Get("alert")), Created: s.opts.Auth.TakeFlash(w, r, sess.ID)}

	codes, err := s.opts.Codes.List(r.Context(), sess)
	if err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.logger(r).Warn().Err(err).Msg("list codes failed")
		view.Alert = s.alert(alertFor(err, alertListFailed))
		s.render(w, r, "console", http.StatusOK, view)
		return
	}
	view.ShowTable = true
	view.Rows = BuildRows(codes)
	s.render(w, r, "console", http.StatusOK, view)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.backToConsole(w, r, url.Values{"alert": {alertInvalid}})
		return
	}
	req, err := usecase.ParseGenerateForm(r.PostForm.Get("name"), r.PostForm.Get("days"), r.PostForm.Get("limit"))
	if err != nil {
		s.backToConsole(w, r, url.Values{"alert": {alertInvalid}})
		return
	}
	sess := sessionFrom(r.Context())
	code, err := s.opts.Codes.Generate(r.Context(), sess, req)
	if err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.logger(r).Warn().Err(err).Msg("generate code failed")
		s.backToConsole(w, r, url.Values{"alert": {alertFor(err, alertGenerate)}})
		return
	}
	if err := s.opts.Auth.SetFlash(w, sess.ID, code); err != nil {
		s.logger(r).Error().Err(err).Msg("set flash")
	}
	s.backToConsole(w, r, nil)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, ok := codeID(r)
	if !ok {
		s.backToConsole(w, r, url.Values{"alert": {alertBadID}})
		return
	}
	if err := s.opts.Codes.Toggle(r.Context(), sessionFrom(r.Context()), id); err != nil {
		if s.unauthorized(w, r, err) {
			return
		}
		s.logger(r).Warn().Err(err).Int64("code_id", id).Msg("toggle code failed")
		s.backToConsole(w, r, url.Values{"alert": {alertFor(err, alertToggle)}})
		return
	}
	s.backToConsole(w, r, nil)
}

func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := codeID(r)
	if !ok {
		s.backToConsole(w, r, url.Values{"alert": {alertBadID}})
		return
	}
	s.render(w, r, "confirm_delete", http.StatusOK, confirmView{Title: "Delete code", ID: id})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := codeID(r)
	if !ok {
		s.backToConsole(w, r, url.Values{"alert": {alertBadID}})
		return
	}
	if err := r.ParseForm(); err != nil {
		s.backToConsole(w, r, url.Values{"alert": {alertInvalid}})
		return
	}
	err := s.opts.Codes.Delete(r.Context(), sessionFrom(r.Context()), id, r.PostForm.Get("confirm") == "yes")
	switch {
	case err == nil:
		s.backToConsole(w, r, nil)
	case errors.Is(err, domain.ErrNotConfirmed):
		s.backToConsole(w, r, url.Values{"alert": {alertDeleteCancel}})
	case s.unauthorized(w, r, err):
	default:
		s.logger(r).Warn().Err(err).Int64("code_id", id).Msg("delete code failed")
		s.backToConsole(w, r, url.Values{"alert": {alertFor(err, alertDelete)}})
	}
}

// unauthorized finishes the logout started by the use case: the stored
// session is already gone, so only the cookie is left to clear.
func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, domain.ErrUnauthorized) {
		return false
	}
	s.toLogin(w, r, true)
	return true
}

func (s *Server) backToConsole(w http.ResponseWriter, r *http.Request, q url.Values) {
	target := "/admin"
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func alertFor(err error, fallback string) string {
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return alertUnreachable
	}
	return fallback
}

func codeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
