package stores

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"kontor/internal/api"
	"kontor/internal/session"
)

type recordedCall struct {
	Method string
	Path   string
	Query  string
	Body   string
	Auth   string
}

type fakeBackend struct {
	mu     sync.Mutex
	calls  []recordedCall
	routes map[string]http.HandlerFunc
}

// handle registers a handler for "METHOD /path".
func (f *fakeBackend) handle(route string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = h
}

func (f *fakeBackend) json(route string, status int, body any) {
	f.handle(route, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	})
}

func (f *fakeBackend) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 0, 512)
	if r.Body != nil {
		tmp := make([]byte, 512)
		for {
			n, err := r.Body.Read(tmp)
			buf = append(buf, tmp[:n]...)
			if err != nil {
				break
			}
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(buf),
		Auth:   r.Header.Get("Authorization"),
	})
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

type publishedEvent struct {
	Entity, Action string
	ID             int64
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishChange(_ context.Context, entity, action string, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{entity, action, id})
	return p.err
}

func (p *fakePublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type testEnv struct {
	backend   *fakeBackend
	session   *session.Session
	publisher *fakePublisher
	deps      Deps
}

// newTestEnv starts a fake backend and an authenticated session.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := &fakeBackend{routes: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("api.New() error = %v", err)
	}
	sess, err := session.Open(context.Background(), session.NewMemoryStorage(), nil)
	if err != nil {
		t.Fatalf("session.Open() error = %v", err)
	}
	if err := sess.SetAuthenticated(context.Background(), "a@b.c", api.AuthResponse{AccessToken: "tok"}); err != nil {
		t.Fatal(err)
	}

	pub := &fakePublisher{}
	return &testEnv{
		backend:   backend,
		session:   sess,
		publisher: pub,
		deps:      Deps{Client: client, Session: sess, Publisher: pub},
	}
}

func (e *testEnv) logout(t *testing.T) {
	t.Helper()
	if err := e.session.SetNotAuthenticated(context.Background()); err != nil {
		t.Fatal(err)
	}
}
