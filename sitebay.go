// Package sitebaymcp exposes the SiteBay WordPress-hosting REST API as a set
// of MCP tools. Every tool maps onto exactly one upstream HTTP call; the
// server holds no state of its own beyond the credential injected at
// construction.
package sitebaymcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"cdr.dev/slog"
	"github.com/hashicorp/go-multierror"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/sitebay/sitebay-mcp/buildinfo"
	"github.com/sitebay/sitebay-mcp/client"
	"github.com/sitebay/sitebay-mcp/metrics"
	"github.com/sitebay/sitebay-mcp/tools"
)

// Type + function aliases so integrators only need the root package.
type (
	Config  = client.Config
	Metrics = metrics.Metrics
)

// NewMetrics creates AND registers metrics on the given registerer.
var NewMetrics = metrics.NewMetrics

// MCPPath is the route the streamable HTTP transport is mounted on.
const MCPPath = "/mcp"

// Server is an [http.Handler] exposing the SiteBay tool registry over the
// MCP streamable HTTP transport, plus the discovery document. It can
// alternatively serve the same registry over stdio.
//
// Server is safe for concurrent use; concurrent invocations share only the
// immutable credential captured at construction.
type Server struct {
	mux    *http.ServeMux
	logger slog.Logger

	api      *client.Client
	registry *tools.Registry
	mcpSrv   *server.MCPServer
	httpSrv  *server.StreamableHTTPServer
	tracer   trace.Tracer

	inflightReqs atomic.Int32
	inflightWG   sync.WaitGroup // For graceful shutdown.

	inflightCtx    context.Context
	inflightCancel func()

	shutdownOnce sync.Once
	closed       chan struct{}
}

var _ http.Handler = &Server{}

// New validates cfg, builds the tool registry, and registers it (plus the
// supplemented MCP resources) on an MCP server.
//
// m and tracer may be nil; a nil tracer falls back to the global otel tracer.
func New(cfg Config, logger slog.Logger, m *Metrics, tracer trace.Tracer) (*Server, error) {
	if tracer == nil {
		tracer = otel.Tracer("sitebay-mcp")
	}

	api, err := client.New(logger.Named("client"), tracer, m, cfg)
	if err != nil {
		return nil, fmt.Errorf("create sitebay client: %w", err)
	}

	registry := tools.NewRegistry(logger.Named("tools"), tracer, m, api)

	mcpSrv := server.NewMCPServer(
		"SiteBay WordPress Hosting",
		buildinfo.Version(),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)
	for _, t := range registry.Tools() {
		mcpSrv.AddTool(t.Def, t.Handler)
	}

	inflightCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		logger:         logger,
		api:            api,
		registry:       registry,
		mcpSrv:         mcpSrv,
		httpSrv:        server.NewStreamableHTTPServer(mcpSrv),
		tracer:         tracer,
		inflightCtx:    inflightCtx,
		inflightCancel: cancel,
		closed:         make(chan struct{}, 1),
	}
	s.registerResources()

	mux := http.NewServeMux()
	mux.Handle(MCPPath, s.httpSrv)
	mux.HandleFunc(DiscoveryPath, s.handleDiscovery)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		logger.Warn(r.Context(), "route not supported", slog.F("path", r.URL.Path), slog.F("method", r.Method))
		http.Error(w, fmt.Sprintf("route not supported: %s %s", r.Method, r.URL.Path), http.StatusNotFound)
	})
	s.mux = mux

	return s, nil
}

// ServeStdio serves the registry over the stdio transport. It blocks until
// stdin closes or ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.serveStdio(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serveStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info(ctx, "serving MCP over stdio", slog.F("version", buildinfo.Version()))
	err := server.NewStdioServer(s.mcpSrv).Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio server: %w", err)
	}
	return nil
}

// ServeHTTP exposes the internal mux: the streamable MCP endpoint and the
// discovery document. It also tracks inflight requests.
func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	select {
	case <-s.closed:
		http.Error(rw, "server closed", http.StatusInternalServerError)
		return
	default:
	}

	// We want to abide by the context passed in without losing any of its
	// functionality, but we still want to link our shutdown context to each
	// request.
	ctx := mergeContexts(r.Context(), s.inflightCtx)

	s.inflightReqs.Add(1)
	s.inflightWG.Add(1)
	defer func() {
		s.inflightReqs.Add(-1)
		s.inflightWG.Done()
	}()

	s.mux.ServeHTTP(rw, r.WithContext(ctx))
}

// Shutdown gracefully stops the HTTP surface: new requests are rejected,
// inflight requests are waited for (or cancelled when ctx expires), then the
// streamable transport is shut down.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		// Prevent any new requests from being accepted.
		close(s.closed)

		// Wait for inflight requests to complete or context cancellation.
		done := make(chan struct{})
		go func() {
			s.inflightWG.Wait()
			close(done)
		}()

		select {
		case <-ctx.Done():
			s.logger.Debug(ctx, "shutdown context canceled; cancelling inflight requests", slog.Error(ctx.Err()))
			s.inflightCancel()
			<-done
			err = ctx.Err()
		case <-done:
			s.inflightCancel()
		}

		err = multierror.Append(err, s.httpSrv.Shutdown(ctx)).ErrorOrNil()
	})

	return err
}

func (s *Server) InflightRequests() int32 {
	return s.inflightReqs.Load()
}

// mergeContexts merges two contexts together, so that if either is cancelled
// the returned context is cancelled. The context values will only be used from
// the first context.
func mergeContexts(base, other context.Context) context.Context {
	ctx, cancel := context.WithCancel(base)
	go func() {
		defer cancel()
		select {
		case <-base.Done():
		case <-other.Done():
		}
	}()
	return ctx
}
