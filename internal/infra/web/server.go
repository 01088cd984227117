package web

import (
	"context"
	"net/http"
	"time"

	"activation-admin/internal/domain/model"
	"activation-admin/internal/infra/i18n"
	"activation-admin/internal/infra/logging"
	"activation-admin/internal/infra/offline"
	"activation-admin/internal/usecase"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Options struct {
	Auth     *AuthManager
	Sessions usecase.SessionUseCase
	Codes    usecase.CodeUseCase
	// Offline fronts the static assets with the cache-first worker. Nil serves them directly.
	Offline *offline.Worker
	// ServiceWorker is the rendered /sw.js body.
	ServiceWorker      []byte
	LoginRatePerMinute int
	RequestTimeout     time.Duration
	// Metrics serves /metrics; nil uses the default gatherer.
	Metrics http.Handler
	// Messages is the alert catalog; nil loads the default language.
	Messages *i18n.Translator
}

type Server struct {
	opts   Options
	log    *zerolog.Logger
	router chi.Router
}

func NewServer(opts Options, logger *zerolog.Logger) *Server {
	if opts.LoginRatePerMinute <= 0 {
		opts.LoginRatePerMinute = 10
	}
	if opts.Metrics == nil {
		opts.Metrics = promhttp.Handler()
	}
	if opts.Messages == nil {
		tr, err := i18n.Load(i18n.DefaultLang)
		if err != nil {
			panic(err)
		}
		opts.Messages = tr
	}
	s := &Server{opts: opts, log: logger}
	s.setupRouter()
	return s
}

// Router returns the root handler.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(TraceID)
	r.Use(chimw.RealIP)
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	if s.opts.RequestTimeout > 0 {
		r.Use(Timeout(s.opts.RequestTimeout))
	}

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.opts.Metrics)
	r.Get("/sw.js", s.handleServiceWorker)

	static := StaticHandler()
	if s.opts.Offline != nil {
		static = s.opts.Offline.Middleware(static)
	}
	r.Method(http.MethodGet, "/admin.html", static)
	r.Method(http.MethodHead, "/admin.html", static)
	r.Method(http.MethodGet, "/manifest.json", static)
	r.Method(http.MethodHead, "/manifest.json", static)
	r.Method(http.MethodGet, "/static/*", static)
	r.Method(http.MethodHead, "/static/*", static)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	})
	r.Get("/login", s.handleLoginForm)
	r.With(httprate.LimitByIP(s.opts.LoginRatePerMinute, time.Minute)).Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/admin", s.handleConsole)
		r.Post("/admin/generate", s.handleGenerate)
		r.Post("/admin/codes/{id}/toggle", s.handleToggle)
		r.Get("/admin/codes/{id}/delete", s.handleConfirmDelete)
		r.Post("/admin/codes/{id}/delete", s.handleDelete)
	})

	s.router = r
}

type sessionKey struct{}

func sessionFrom(ctx context.Context) *model.Session {
	sess, _ := ctx.Value(sessionKey{}).(*model.Session)
	return sess
}

// requireSession resolves cookie to session. Anything short of a stored
// session redirects to the login page before any upstream call is made.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.opts.Auth.SessionID(r)
		if err != nil {
			s.toLogin(w, r, false)
			return
		}
		sess, err := s.opts.Sessions.Resolve(r.Context(), id)
		if err != nil {
			s.logger(r).Debug().Err(err).Msg("session not resolved")
			s.toLogin(w, r, true)
			return
		}
		ctx := logging.WithSessID(r.Context(), sess.ID)
		ctx = context.WithValue(ctx, sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) toLogin(w http.ResponseWriter, r *http.Request, clear bool) {
	if clear {
		s.opts.Auth.Clear(w)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) logger(r *http.Request) *zerolog.Logger {
	return logging.With(r.Context(), s.log)
}
