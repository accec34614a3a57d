// Package testutil contains test helpers, chiefly a recording fake of the
// SiteBay REST API.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
)

// UpstreamRequest captures a single request received by an [UpstreamServer].
//
// It is intended for test assertions (e.g. validating headers, paths, and
// request bodies).
type UpstreamRequest struct {
	Call   int
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Response is a canned upstream reply.
type Response struct {
	Status int
	Body   string
}

// UpstreamServer is an httptest.Server that mimics the SiteBay REST API.
//
// Routes are keyed "METHOD /f/api/v1/path"; unrouted requests get a 404 with
// a FastAPI-style detail body.
type UpstreamServer struct {
	*httptest.Server

	callCount atomic.Uint32

	mu       sync.Mutex
	routes   map[string]Response
	requests []UpstreamRequest
}

func NewUpstreamServer(t testing.TB) *UpstreamServer {
	t.Helper()

	s := &UpstreamServer{routes: map[string]Response{}}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := int(s.callCount.Add(1))

		body, err := io.ReadAll(r.Body)
		_ = r.Body.Close()
		if err != nil {
			t.Errorf("read upstream request body: %v", err)
		}

		s.mu.Lock()
		s.requests = append(s.requests, UpstreamRequest{
			Call:   call,
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		resp, ok := s.routes[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if !ok {
			resp = Response{Status: http.StatusNotFound, Body: `{"detail": "Not Found"}`}
		}
		if resp.Status == 0 {
			resp.Status = http.StatusOK
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.Status)
		_, _ = w.Write([]byte(resp.Body))
	}))
	t.Cleanup(s.Close)

	return s
}

// Route registers a canned response for "METHOD path", where path is the
// full upstream path including the /f/api/v1 prefix.
func (s *UpstreamServer) Route(method, path string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = resp
}

func (s *UpstreamServer) Requests() []UpstreamRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UpstreamRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or nil if none were received.
func (s *UpstreamServer) LastRequest() *UpstreamRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	req := s.requests[len(s.requests)-1]
	return &req
}

func (s *UpstreamServer) CallCount() int {
	return int(s.callCount.Load())
}
