package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func text(body string) HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { io.WriteString(w, body) }
}

func do(t *testing.T, r *Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouting(t *testing.T) {
	r := New()
	r.GET("/api/v1/views", text("views"))
	r.POST("/api/v1/events/site", text("site"))
	r.GET("/swagger/*", text("swagger"))
	r.GET("/api/v1/*/export", text("export"))

	tests := []struct {
		method, path string
		code         int
		body         string
	}{
		{http.MethodGet, "/api/v1/views", http.StatusOK, "views"},
		{http.MethodPost, "/api/v1/events/site", http.StatusOK, "site"},
		{http.MethodGet, "/api/v1/events/site", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/swagger/index.html", http.StatusOK, "swagger"},
		{http.MethodGet, "/swagger/a/b/c", http.StatusOK, "swagger"},
		{http.MethodGet, "/api/v1/scatter/export", http.StatusOK, "export"},
		{http.MethodPost, "/swagger/index.html", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := do(t, r, tt.method, tt.path)
		if rec.Code != tt.code {
			t.Errorf("%s %s: code = %d, want %d", tt.method, tt.path, rec.Code, tt.code)
			continue
		}
		if tt.body != "" && rec.Body.String() != tt.body {
			t.Errorf("%s %s: body = %q, want %q", tt.method, tt.path, rec.Body.String(), tt.body)
		}
	}
}

func TestWildcardsMatchInRegistrationOrder(t *testing.T) {
	r := New()
	r.GET("/files/*", text("first"))
	r.GET("/files/*/raw", text("second"))

	for i := 0; i < 20; i++ {
		if got := do(t, r, http.MethodGet, "/files/a/raw").Body.String(); got != "first" {
			t.Fatalf("body = %q, want first", got)
		}
	}
}

func TestRequestID(t *testing.T) {
	r := New()
	var seen string
	r.GET("/id", func(w http.ResponseWriter, req *http.Request) { seen = RequestID(req) })

	rec := do(t, r, http.MethodGet, "/id")
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("generated id %q, header %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("propagated id %q, header %q", seen, rec.Header().Get(RequestIDHeader))
	}
}

func TestHandle(t *testing.T) {
	r := New()
	r.Handle(http.MethodGet, "/static", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	if rec := do(t, r, http.MethodGet, "/static"); rec.Code != http.StatusTeapot {
		t.Errorf("code = %d", rec.Code)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	r := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx, "127.0.0.1:0", time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
