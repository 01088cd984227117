//go:build !integration

package codeapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"activation-admin/internal/domain"
	"activation-admin/internal/domain/model"

	"github.com/rs/zerolog"
)

func newLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

type recordedCall struct {
	Method string
	Path   string
	Token  string
	CType  string
	Body   string
}

// fakeAPI records every call and answers with a per-route handler.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []recordedCall
	routes map[string]http.HandlerFunc // key: "METHOD /path"
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{
		Method: r.Method,
		Path:   r.URL.Path,
		Token:  r.Header.Get(TokenHeader),
		CType:  r.Header.Get("Content-Type"),
		Body:   string(b),
	})
	f.mu.Unlock()
	if h, ok := f.routes[r.Method+" "+r.URL.Path]; ok {
		h(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func newTestClient(t *testing.T, routes map[string]http.HandlerFunc) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{routes: routes}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client(), 2*time.Second, newLogger()), api
}

var sess = &model.Session{ID: "s1", Token: "tok-123"}

func TestListDecodesInServerOrder(t *testing.T) {
	c, api := newTestClient(t, map[string]http.HandlerFunc{
		"GET /admin/codes": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":2,"code":"B","active":false},{"id":1,"code":"ABC123","active":true,"remaining_days":5,"name":"vip","usage_limit":3}]`))
		},
	})

	codes, err := c.List(context.Background(), sess)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(codes) != 2 || codes[0].ID != 2 || codes[1].ID != 1 {
		t.Fatalf("codes = %+v", codes)
	}
	if codes[1].RemainingDays == nil || *codes[1].RemainingDays != 5 {
		t.Errorf("remaining_days not decoded: %+v", codes[1])
	}
	if codes[1].DisplayName() != "vip" || *codes[1].UsageLimit != 3 {
		t.Errorf("optional fields not decoded: %+v", codes[1])
	}
	if codes[0].Name != nil || codes[0].DisplayName() != "" {
		t.Errorf("absent name should stay nil")
	}
	if len(api.calls) != 1 || api.calls[0].Token != "tok-123" {
		t.Errorf("calls = %+v", api.calls)
	}
}

func TestListEmptyArray(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"GET /admin/codes": func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`null`)) },
	})
	codes, err := c.List(context.Background(), sess)
	if err != nil || codes == nil || len(codes) != 0 {
		t.Errorf("List = %v, %v; want empty slice", codes, err)
	}
}

func TestGenerateSendsNullForAbsentFields(t *testing.T) {
	c, api := newTestClient(t, map[string]http.HandlerFunc{
		"POST /admin/generate": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code":"NEW-CODE"}`))
		},
	})

	code, err := c.Generate(context.Background(), sess, model.GenerateRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if code != "NEW-CODE" {
		t.Errorf("code = %q", code)
	}

	call := api.calls[0]
	if call.CType != "application/json" {
		t.Errorf("content type = %q", call.CType)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal([]byte(call.Body), &body); err != nil {
		t.Fatalf("body not json: %s", call.Body)
	}
	for _, k := range []string{"name", "days", "usage_limit"} {
		v, ok := body[k]
		if !ok {
			t.Errorf("field %s omitted", k)
			continue
		}
		if string(v) != "null" {
			t.Errorf("field %s = %s, want null", k, v)
		}
	}
	if _, ok := body["expires_at"]; ok {
		t.Error("legacy expires_at field must not be sent")
	}
}

func TestGenerateSendsValues(t *testing.T) {
	c, api := newTestClient(t, map[string]http.HandlerFunc{
		"POST /admin/generate": func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"code":"X"}`)) },
	})
	name, days, limit := "trial", 30, 5
	if _, err := c.Generate(context.Background(), sess, model.GenerateRequest{Name: &name, Days: &days, UsageLimit: &limit}); err != nil {
		t.Fatal(err)
	}
	if got := api.calls[0].Body; got != `{"name":"trial","days":30,"usage_limit":5}` {
		t.Errorf("body = %s", got)
	}
}

func TestGenerateMissingCode(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"POST /admin/generate": func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{}`)) },
	})
	if _, err := c.Generate(context.Background(), sess, model.GenerateRequest{}); !errors.Is(err, domain.ErrUpstreamDecode) {
		t.Errorf("err = %v, want ErrUpstreamDecode", err)
	}
}

func TestToggleAndDeletePaths(t *testing.T) {
	c, api := newTestClient(t, nil)
	if err := c.Toggle(context.Background(), sess, 42); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if err := c.Delete(context.Background(), sess, 42); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	want := []recordedCall{
		{Method: http.MethodPut, Path: "/admin/code/42/toggle", Token: "tok-123"},
		{Method: http.MethodDelete, Path: "/admin/code/42", Token: "tok-123"},
	}
	if len(api.calls) != len(want) {
		t.Fatalf("calls = %+v", api.calls)
	}
	for i, w := range want {
		got := api.calls[i]
		if got.Method != w.Method || got.Path != w.Path || got.Token != w.Token {
			t.Errorf("call %d = %+v, want %+v", i, got, w)
		}
		if got.Body != "" {
			t.Errorf("call %d carried a body: %q", i, got.Body)
		}
	}
}

func TestErrorMapping(t *testing.T) {
	c, _ := newTestClient(t, map[string]http.HandlerFunc{
		"GET /admin/codes": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusUnauthorized)
		},
		"PUT /admin/code/1/toggle": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"DELETE /admin/code/1": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "missing", http.StatusNotFound)
		},
		"POST /admin/generate": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
	})
	ctx := context.Background()

	if _, err := c.List(ctx, sess); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("List err = %v, want ErrUnauthorized", err)
	}

	err := c.Toggle(ctx, sess, 1)
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusInternalServerError || se.Body != "boom" {
		t.Errorf("Toggle err = %v", err)
	}
	if !errors.Is(err, domain.ErrUpstreamStatus) {
		t.Errorf("StatusError should unwrap to ErrUpstreamStatus")
	}

	if err := c.Delete(ctx, sess, 1); !errors.Is(err, domain.ErrUpstreamStatus) {
		t.Errorf("Delete err = %v, want status error", err)
	}

	if _, err := c.Generate(ctx, sess, model.GenerateRequest{}); !errors.Is(err, domain.ErrUpstreamDecode) {
		t.Errorf("Generate err = %v, want decode error", err)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil, time.Second, newLogger())
	if _, err := c.List(context.Background(), sess); !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestMissingSession(t *testing.T) {
	c, api := newTestClient(t, nil)
	if _, err := c.List(context.Background(), nil); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
	if err := c.Toggle(context.Background(), &model.Session{ID: "x"}, 1); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("err = %v, want ErrNoSession", err)
	}
	if len(api.calls) != 0 {
		t.Errorf("no request expected without a credential, got %d", len(api.calls))
	}
}
