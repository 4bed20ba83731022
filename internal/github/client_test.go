package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeContents is a minimal in-memory Contents API.
type fakeContents struct {
	mu      sync.Mutex
	sha     string // "" means the file does not exist
	putCode int    // status to answer PUT with; 0 = natural

	gets     int
	puts     int
	lastPut  map[string]any
	lastAuth string
	lastPath string
	lastRef  string
}

func (f *fakeContents) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.lastAuth = r.Header.Get("Authorization")
		f.lastPath = r.URL.Path

		switch r.Method {
		case http.MethodGet:
			f.gets++
			f.lastRef = r.URL.Query().Get("ref")
			if f.sha == "" {
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, `{"message":"Not Found"}`)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"sha": f.sha, "path": "log.txt"})

		case http.MethodPut:
			f.puts++
			body, _ := io.ReadAll(r.Body)
			f.lastPut = map[string]any{}
			if err := json.Unmarshal(body, &f.lastPut); err != nil {
				t.Errorf("PUT body is not JSON: %v", err)
			}
			if f.putCode != 0 {
				w.WriteHeader(f.putCode)
				io.WriteString(w, `{"message":"sha does not match"}`)
				return
			}
			status := http.StatusOK
			if f.sha == "" {
				status = http.StatusCreated
			}
			f.sha = "newsha"
			w.WriteHeader(status)
			io.WriteString(w, `{"content":{"sha":"newsha"},"commit":{"sha":"c0ffee","html_url":"https://example.com/commit/c0ffee"}}`)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestServer(t *testing.T, f *fakeContents) (*Client, Config) {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	cfg := Config{
		Token:   "secret",
		Owner:   "octo",
		Repo:    "daily",
		Branch:  "main",
		BaseURL: srv.URL,
	}
	return NewClient(srv.Client(), nil), cfg
}

// ============================================================
// Create / update
// ============================================================

func TestUpsertCreateOmitsSHA(t *testing.T) {
	f := &fakeContents{}
	c, cfg := newTestServer(t, f)

	res, err := c.Upsert(context.Background(), cfg, "log.txt", []byte("hello"), "first")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if res.StatusCode != http.StatusCreated || !res.Created {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, ok := f.lastPut["sha"]; ok {
		t.Fatal("create must not send a sha")
	}
	if f.lastPut["message"] != "first" || f.lastPut["branch"] != "main" {
		t.Fatalf("unexpected PUT body: %v", f.lastPut)
	}
	decoded, err := base64.StdEncoding.DecodeString(f.lastPut["content"].(string))
	if err != nil || string(decoded) != "hello" {
		t.Fatalf("content not base64 of payload: %v %q", err, decoded)
	}
	if res.CommitSHA != "c0ffee" || res.ContentSHA != "newsha" {
		t.Fatalf("response fields not parsed: %+v", res)
	}
}

func TestUpsertUpdateSendsFetchedSHA(t *testing.T) {
	f := &fakeContents{sha: "abc123"}
	c, cfg := newTestServer(t, f)

	res, err := c.Upsert(context.Background(), cfg, "log.txt", []byte("v2"), "update")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if res.StatusCode != http.StatusOK || res.Created {
		t.Fatalf("unexpected result: %+v", res)
	}
	if f.lastPut["sha"] != "abc123" {
		t.Fatalf("PUT sha = %v, want abc123", f.lastPut["sha"])
	}
	if f.gets != 1 || f.puts != 1 {
		t.Fatalf("expected one GET and one PUT, got %d/%d", f.gets, f.puts)
	}
}

func TestUpsertTwiceUsesNewSHA(t *testing.T) {
	f := &fakeContents{}
	c, cfg := newTestServer(t, f)

	if _, err := c.Upsert(context.Background(), cfg, "log.txt", []byte("a"), "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Upsert(context.Background(), cfg, "log.txt", []byte("b"), "two"); err != nil {
		t.Fatal(err)
	}
	if f.lastPut["sha"] != "newsha" {
		t.Fatalf("second write should carry the sha from the first, got %v", f.lastPut["sha"])
	}
}

func TestUpsertRequestShape(t *testing.T) {
	f := &fakeContents{}
	c, cfg := newTestServer(t, f)

	if _, err := c.Upsert(context.Background(), cfg, "/logs/daily log.txt", []byte("x"), "m"); err != nil {
		t.Fatal(err)
	}
	if f.lastAuth != "token secret" {
		t.Fatalf("Authorization = %q", f.lastAuth)
	}
	if f.lastPath != "/repos/octo/daily/contents/logs/daily log.txt" {
		t.Fatalf("path = %q", f.lastPath)
	}
	if f.lastRef != "main" {
		t.Fatalf("GET ref = %q, want main", f.lastRef)
	}
}

// ============================================================
// Failures
// ============================================================

func TestUpsertAuthMissing(t *testing.T) {
	f := &fakeContents{}
	c, cfg := newTestServer(t, f)
	cfg.Token = ""

	_, err := c.Upsert(context.Background(), cfg, "log.txt", []byte("x"), "m")
	if !errors.Is(err, ErrAuthMissing) {
		t.Fatalf("expected ErrAuthMissing, got %v", err)
	}
	if f.gets != 0 || f.puts != 0 {
		t.Fatal("no request should be made without a token")
	}
}

func TestUpsertInvalidConfig(t *testing.T) {
	c := NewClient(nil, nil)
	_, err := c.Upsert(context.Background(), Config{Token: "t"}, "log.txt", nil, "m")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestUpsertRejected(t *testing.T) {
	f := &fakeContents{sha: "stale", putCode: http.StatusConflict}
	c, cfg := newTestServer(t, f)

	_, err := c.Upsert(context.Background(), cfg, "log.txt", []byte("x"), "m")
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.StatusCode != http.StatusConflict {
		t.Fatalf("StatusCode = %d, want 409", rejected.StatusCode)
	}
	if rejected.Message != "sha does not match" {
		t.Fatalf("Message = %q", rejected.Message)
	}
	if f.puts != 1 {
		t.Fatalf("rejected write must not be retried, got %d PUTs", f.puts)
	}
}

func TestUpsertTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(nil, nil)
	cfg := Config{Token: "t", Owner: "o", Repo: "r", BaseURL: base}
	_, err := c.Upsert(context.Background(), cfg, "log.txt", []byte("x"), "m")

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Op != "put contents" {
		t.Fatalf("Op = %q", te.Op)
	}
}

func TestUpsertLookupFailureTreatedAsCreate(t *testing.T) {
	var put map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewDecoder(r.Body).Decode(&put)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), nil)
	cfg := Config{Token: "t", Owner: "o", Repo: "r", BaseURL: srv.URL}
	res, err := c.Upsert(context.Background(), cfg, "log.txt", []byte("x"), "m")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !res.Created {
		t.Fatal("failed lookup should be the create case")
	}
	if _, ok := put["sha"]; ok {
		t.Fatal("no sha should be sent after a failed lookup")
	}
	if _, ok := put["branch"]; ok {
		t.Fatal("empty branch should be omitted")
	}
}

func TestUpsertUndecodableLookup(t *testing.T) {
	var put map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			io.WriteString(w, `not json`)
			return
		}
		json.NewDecoder(r.Body).Decode(&put)
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), nil)
	cfg := Config{Token: "t", Owner: "o", Repo: "r", BaseURL: srv.URL}
	if _, err := c.Upsert(context.Background(), cfg, "log.txt", []byte("x"), "m"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, ok := put["sha"]; ok {
		t.Fatal("no sha should be sent when the lookup body is unreadable")
	}
}

// ============================================================
// Async
// ============================================================

func TestUpsertAsync(t *testing.T) {
	f := &fakeContents{}
	c, cfg := newTestServer(t, f)

	ch := c.UpsertAsync(context.Background(), cfg, "log.txt", []byte("x"), "m")
	res, ok := <-ch
	if !ok {
		t.Fatal("channel closed without a result")
	}
	if res.Err != nil || res.Value == nil || !res.Value.Created {
		t.Fatalf("unexpected async result: %+v", res)
	}
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after one result")
	}
}

func TestUpsertAsyncError(t *testing.T) {
	c := NewClient(nil, nil)
	res := <-c.UpsertAsync(context.Background(), Config{}, "log.txt", nil, "m")
	if !errors.Is(res.Err, ErrAuthMissing) {
		t.Fatalf("expected ErrAuthMissing, got %v", res.Err)
	}
	if res.Value != nil {
		t.Fatal("failed upsert should carry no value")
	}
}

// ============================================================
// Config
// ============================================================

func TestContentsURL(t *testing.T) {
	tests := []struct {
		cfg  Config
		path string
		want string
	}{
		{Config{Owner: "o", Repo: "r"}, "log.txt", "https://api.github.com/repos/o/r/contents/log.txt"},
		{Config{Owner: "o", Repo: "r", BaseURL: "http://h/api/v3/"}, "a/b.md", "http://h/api/v3/repos/o/r/contents/a/b.md"},
		{Config{Owner: "o", Repo: "r"}, "/dir/x y.txt", "https://api.github.com/repos/o/r/contents/dir/x%20y.txt"},
	}
	for _, tt := range tests {
		if got := tt.cfg.contentsURL(tt.path); got != tt.want {
			t.Errorf("contentsURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	if got := (&RejectedError{StatusCode: 422}).Error(); got != "github rejected write: status 422" {
		t.Fatalf("got %q", got)
	}
	inner := errors.New("dial tcp: refused")
	te := &TransportError{Op: "put contents", Err: inner}
	if !errors.Is(te, inner) {
		t.Fatal("TransportError should unwrap")
	}
}
