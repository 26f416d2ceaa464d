package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

// RequestIDHeader carries the per-request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

type HandlerFunc func(http.ResponseWriter, *http.Request)

type Router struct {
	mux       *http.ServeMux
	routes    map[string]HandlerFunc // key = METHOD:PATH
	paths     map[string]bool        // track registered paths
	wildcards []string               // wildcard paths in registration order
}

func New() *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		routes: make(map[string]HandlerFunc),
		paths:  make(map[string]bool),
	}

	// Catch-all handler for every path
	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		reqID := req.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		lrw.Header().Set(RequestIDHeader, reqID)
		req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, reqID))

		r.dispatch(lrw, req)

		duration := time.Since(start)
		color := statusColor(lrw.statusCode)
		methodColor := methodColor(req.Method)

		log.Printf("%s[%s]%s %s%s%s %s %s%d%s %s(%v)%s req=%s",
			colorCyan, start.Format("2006-01-02 15:04:05"), colorReset,
			methodColor, req.Method, colorReset,
			req.URL.Path,
			color, lrw.statusCode, colorReset,
			colorBlue, duration, colorReset,
			shortID(reqID),
		)
	})

	return r
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	key := req.Method + ":" + req.URL.Path
	if h, ok := r.routes[key]; ok {
		h(w, req)
		return
	}

	// First registered wildcard route wins
	wildcardMatched := false
	for _, routePath := range r.wildcards {
		if !matchWildcardRoute(req.URL.Path, routePath) {
			continue
		}
		wildcardMatched = true
		if h, ok := r.routes[req.Method+":"+routePath]; ok {
			h(w, req)
			return
		}
	}

	if r.paths[req.URL.Path] || wildcardMatched {
		// Path exists but method not allowed
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// RequestID returns the identifier assigned to the request by the router.
func RequestID(req *http.Request) string {
	id, _ := req.Context().Value(ctxKey{}).(string)
	return id
}

// matchWildcardRoute checks if a request path matches a wildcard route pattern
func matchWildcardRoute(requestPath, routePattern string) bool {
	// Split both paths into segments
	requestSegments := strings.Split(strings.Trim(requestPath, "/"), "/")
	routeSegments := strings.Split(strings.Trim(routePattern, "/"), "/")

	// A trailing wildcard matches any number of remaining segments
	if routeSegments[len(routeSegments)-1] == "*" {
		if len(requestSegments) < len(routeSegments)-1 {
			return false
		}
		for i := 0; i < len(routeSegments)-1; i++ {
			if requestSegments[i] != routeSegments[i] {
				return false
			}
		}
		return true
	}

	if len(requestSegments) != len(routeSegments) {
		return false
	}
	for i, routeSegment := range routeSegments {
		if routeSegment == "*" {
			// Wildcard matches any segment
			continue
		}
		if requestSegments[i] != routeSegment {
			return false
		}
	}
	return true
}

// --- Register paths ---
func (r *Router) register(method, path string, handler HandlerFunc) {
	key := method + ":" + path
	r.routes[key] = handler
	if !r.paths[path] && strings.Contains(path, "*") {
		r.wildcards = append(r.wildcards, path)
	}
	r.paths[path] = true
}

func (r *Router) GET(path string, handler HandlerFunc)  { r.register(http.MethodGet, path, handler) }
func (r *Router) POST(path string, handler HandlerFunc) { r.register(http.MethodPost, path, handler) }

// Handle registers an http.Handler, e.g. a file server or a generated UI.
func (r *Router) Handle(method, path string, h http.Handler) {
	r.register(method, path, h.ServeHTTP)
}

// Handler exposes the router for tests and custom servers.
func (r *Router) Handler() http.Handler {
	return r.mux
}

// --- Start server ---

// Serve listens on addr until ctx is cancelled, then drains in-flight
// requests for at most shutdownTimeout.
func (r *Router) Serve(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server started on %shttp://localhost%s%s", colorGreen, addr, colorReset)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Printf("🛑 Shutting down server on %s", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// --- Logging response writer to capture status codes ---
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// --- Color helpers ---
func statusColor(code int) string {
	switch {
	case code >= 200 && code < 300:
		return colorGreen
	case code >= 300 && code < 400:
		return colorCyan
	case code >= 400 && code < 500:
		return colorYellow
	default:
		return colorRed
	}
}

func methodColor(method string) string {
	switch method {
	case http.MethodGet:
		return colorGreen
	case http.MethodPost:
		return colorBlue
	default:
		return colorCyan
	}
}
