// Package offline keeps a named, cache-first copy of the console's static assets.
//
// A Worker has two lifecycle steps. Install fetches a fixed asset list from the
// origin handler and stores all of it or none of it. After that the fetch
// middleware answers matching requests from the cache and sends everything else
// to the network. Cached entries are never revalidated; changing the cache name
// is the only way to pick up new asset versions.
package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"activation-admin/internal/domain"
	"activation-admin/internal/infra/logging"
	"activation-admin/internal/infra/metrics"

	"github.com/rs/zerolog"
)

type Worker struct {
	name      string
	assets    []string
	store     Store
	origin    http.Handler
	log       *zerolog.Logger
	installed atomic.Bool
}

func NewWorker(name string, assets []string, store Store, origin http.Handler, logger *zerolog.Logger) *Worker {
	return &Worker{
		name:   name,
		assets: append([]string(nil), assets...),
		store:  store,
		origin: origin,
		log:    logger,
	}
}

func (w *Worker) Name() string { return w.name }

func (w *Worker) Assets() []string { return append([]string(nil), w.assets...) }

func (w *Worker) Installed() bool { return w.installed.Load() }

// Install populates the cache. Any asset that cannot be fetched with a 200
// fails the whole install and nothing is stored.
func (w *Worker) Install(ctx context.Context) error {
	entries := make([]Entry, 0, len(w.assets))
	for _, path := range w.assets {
		e, err := w.fetch(ctx, path)
		if err != nil {
			metrics.IncCacheInstall(w.name, "failed")
			return fmt.Errorf("%w: %s: %v", domain.ErrInstallFailed, path, err)
		}
		entries = append(entries, *e)
	}
	if err := w.store.PutAll(ctx, w.name, entries); err != nil {
		metrics.IncCacheInstall(w.name, "failed")
		return fmt.Errorf("%w: %v", domain.ErrInstallFailed, err)
	}
	w.installed.Store(true)
	metrics.IncCacheInstall(w.name, "ok")
	w.log.Info().Str("cache", w.name).Int("assets", len(entries)).Msg("offline cache installed")
	return nil
}

func (w *Worker) fetch(ctx context.Context, path string) (*Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	rec := newBufferedWriter()
	w.origin.ServeHTTP(rec, req)
	if rec.status != http.StatusOK {
		return nil, fmt.Errorf("status %d", rec.status)
	}
	return &Entry{Path: path, Status: rec.status, Header: rec.header.Clone(), Body: rec.body.Bytes()}, nil
}

// Middleware serves cached GET and HEAD requests and passes the rest to next.
func (w *Worker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(rw, r)
			return
		}
		e, err := w.store.Match(r.Context(), w.name, r.URL.Path)
		if err != nil {
			if !errors.Is(err, domain.ErrCacheMiss) {
				logging.With(r.Context(), w.log).Warn().Err(err).Str("path", r.URL.Path).Msg("offline cache lookup failed")
			}
			metrics.IncCacheRequest(w.name, "miss")
			next.ServeHTTP(rw, r)
			return
		}
		metrics.IncCacheRequest(w.name, "hit")
		for k, vs := range e.Header {
			for _, v := range vs {
				rw.Header().Add(k, v)
			}
		}
		rw.Header().Set("X-Offline-Cache", "hit")
		rw.WriteHeader(e.Status)
		if r.Method == http.MethodGet {
			_, _ = rw.Write(e.Body)
		}
	})
}

type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: http.Header{}}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}
