package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/jonwraymond/netresilience/cache"
	"github.com/jonwraymond/netresilience/classify"
	"github.com/jonwraymond/netresilience/observe"
	"github.com/jonwraymond/netresilience/resilience"
	"github.com/jonwraymond/netresilience/transport"
)

type profile struct {
	Name string `json:"name"`
}

// fakeServer answers with the queued responses in order, then repeats the
// last one.
type fakeServer struct {
	mu        sync.Mutex
	responses []response
	hits      atomic.Int32
	ids       []string
}

type response struct {
	status int
	body   string
}

func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := int(s.hits.Add(1)) - 1
	s.mu.Lock()
	s.ids = append(s.ids, r.Header.Get(transport.HeaderRequestID))
	resp := s.responses[min(n, len(s.responses)-1)]
	s.mu.Unlock()

	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (s *fakeServer) set(responses ...response) {
	s.mu.Lock()
	s.responses = responses
	s.mu.Unlock()
	s.hits.Store(0)
}

func newTestClient(t *testing.T, srv *fakeServer, opts ...Option) *Client {
	t.Helper()
	hs := httptest.NewServer(srv)
	t.Cleanup(hs.Close)

	tc, err := transport.New(hs.URL)
	if err != nil {
		t.Fatalf("transport.New: %v", err)
	}
	store, err := cache.NewStore(cache.NewMemoryCache(cache.DefaultPolicy()), nil, cache.DefaultPolicy(), nil)
	if err != nil {
		t.Fatalf("cache.NewStore: %v", err)
	}
	return New(tc, append([]Option{WithStore(store)}, opts...)...)
}

var noRetry = resilience.Policy{MaxRetries: 0}

func TestGetJSON_Success(t *testing.T) {
	srv := &fakeServer{responses: []response{{200, `{"name":"ada"}`}}}
	c := newTestClient(t, srv)

	out, err := GetJSON(context.Background(), c, "/profile", profile{Name: "default"}, noRetry)
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if out.IsOffline || out.Error != "" || out.Data.Name != "ada" {
		t.Errorf("GetJSON() = %+v", out)
	}
}

func TestGetJSON_FallsBackToLastKnownGood(t *testing.T) {
	srv := &fakeServer{responses: []response{{200, `{"name":"ada"}`}}}
	c := newTestClient(t, srv)
	ctx := context.Background()

	if _, err := GetJSON(ctx, c, "/profile", profile{}, noRetry); err != nil {
		t.Fatalf("warm-up GetJSON() error = %v", err)
	}

	srv.set(response{503, `{"message":"maintenance"}`})
	out, err := GetJSON(ctx, c, "/profile", profile{Name: "default"}, noRetry)
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}

	want := resilience.Outcome[profile]{
		Data:      profile{Name: "ada"},
		IsOffline: true,
		Error:     classify.MsgServerUnavailable,
	}
	if out != want {
		t.Errorf("GetJSON() = %+v, want %+v", out, want)
	}
}

func TestGetJSON_FallsBackToDefault(t *testing.T) {
	srv := &fakeServer{responses: []response{{500, ``}}}
	c := newTestClient(t, srv)

	out, err := GetJSON(context.Background(), c, "/profile", profile{Name: "default"}, noRetry)
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if !out.IsOffline || out.Data.Name != "default" {
		t.Errorf("GetJSON() = %+v, want default fallback", out)
	}
}

func TestGetJSON_FatalErrorPropagates(t *testing.T) {
	srv := &fakeServer{responses: []response{{404, `{"message":"no such profile"}`}}}
	c := newTestClient(t, srv)

	out, err := GetJSON(context.Background(), c, "/profile", profile{Name: "default"}, resilience.DefaultPolicy())

	var f *classify.Failure
	if !errors.As(err, &f) || f.StatusCode != 404 || f.Message != "no such profile" {
		t.Fatalf("GetJSON() error = %v, want 404 failure", err)
	}
	if out != (resilience.Outcome[profile]{}) {
		t.Errorf("GetJSON() outcome = %+v, want zero", out)
	}
	if srv.hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", srv.hits.Load())
	}
}

func TestGetJSON_DecodeError(t *testing.T) {
	srv := &fakeServer{responses: []response{{200, `not json`}}}
	c := newTestClient(t, srv)

	if _, err := GetJSON(context.Background(), c, "/profile", profile{}, noRetry); err == nil {
		t.Error("GetJSON() error = nil, want decode error")
	}
}

func TestGetJSON_RetriesWithBackoff(t *testing.T) {
	srv := &fakeServer{responses: []response{{502, ``}, {200, `{"name":"ada"}`}}}
	mClock := quartz.NewMock(t)
	c := newTestClient(t, srv, WithExecutor(resilience.NewExecutor(resilience.WithClock(mClock))))

	var out resilience.Outcome[profile]
	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		out, err = GetJSON(context.Background(), c, "/profile", profile{}, resilience.Policy{MaxRetries: 1})
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		if d, ok := mClock.Peek(); ok {
			if d != time.Second {
				t.Fatalf("first backoff = %v, want 1s", d)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("backoff timer never created")
		}
		time.Sleep(time.Millisecond)
	}
	advCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mClock.Advance(time.Second).MustWait(advCtx)
	<-done

	if err != nil || out.Data.Name != "ada" || out.IsOffline {
		t.Errorf("GetJSON() = %+v, %v", out, err)
	}
	if srv.hits.Load() != 2 {
		t.Errorf("hits = %d, want 2", srv.hits.Load())
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.ids) != 2 || srv.ids[0] == "" || srv.ids[0] != srv.ids[1] {
		t.Errorf("request IDs = %v, want one shared ID", srv.ids)
	}
}

func TestFetch_DoesNotRememberPost(t *testing.T) {
	srv := &fakeServer{responses: []response{{200, `{"id":1}`}}}
	c := newTestClient(t, srv)
	ctx := context.Background()

	if _, err := c.Fetch(ctx, http.MethodPost, "/orders", []byte(`{}`), nil, noRetry); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	srv.set(response{503, ``})
	out, err := c.Fetch(ctx, http.MethodPost, "/orders", []byte(`{}`), []byte(`{"id":0}`), noRetry)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !out.IsOffline || string(out.Data) != `{"id":0}` {
		t.Errorf("Fetch() = %+v, want caller fallback", out)
	}
}

func TestFetch_WithoutStore(t *testing.T) {
	hs := httptest.NewServer(&fakeServer{responses: []response{{503, ``}}})
	defer hs.Close()
	tc, err := transport.New(hs.URL)
	if err != nil {
		t.Fatalf("transport.New: %v", err)
	}

	out, err := New(tc).Fetch(context.Background(), http.MethodGet, "/", nil, []byte("fb"), noRetry)
	if err != nil || !out.IsOffline || string(out.Data) != "fb" {
		t.Errorf("Fetch() = %+v, %v", out, err)
	}
}

func TestWithRequest_KeepsCallerMeta(t *testing.T) {
	ctx := observe.ContextWithRequest(context.Background(), observe.RequestMeta{Name: "profile.get", ID: "abc"})
	meta, _ := observe.RequestFromContext(withRequest(ctx, http.MethodGet, "/profile"))

	want := observe.RequestMeta{Name: "profile.get", Method: http.MethodGet, Endpoint: "/profile", ID: "abc"}
	if meta != want {
		t.Errorf("meta = %+v, want %+v", meta, want)
	}
}
