// This is an example server demonstrating sitebaymcp usage.
// Run with: SITEBAY_API_TOKEN=... go run ./example
//
// By default the tools are served over stdio, which is what MCP clients like
// Claude Desktop expect. Pass -http to serve the streamable HTTP transport
// (plus /metrics and the discovery document) instead.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sitebaymcp "github.com/sitebay/sitebay-mcp"
)

func main() {
	var (
		httpMode = flag.Bool("http", false, "serve over streamable HTTP instead of stdio")
		addr     = flag.String("addr", ":8080", "listen address for -http mode")
	)
	flag.Parse()

	// Logs go to stderr; stdout belongs to the stdio transport.
	logger := slog.Make(sloghuman.Sink(os.Stderr)).Leveled(slog.LevelDebug)

	token := os.Getenv("SITEBAY_API_TOKEN")
	if token == "" {
		log.Fatal("SITEBAY_API_TOKEN is required")
	}

	reg := prometheus.NewRegistry()
	metrics := sitebaymcp.NewMetrics(reg)

	srv, err := sitebaymcp.New(sitebaymcp.Config{Token: token}, logger, metrics, nil)
	if err != nil {
		log.Fatalf("create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !*httpMode {
		if err := srv.ServeStdio(ctx); err != nil {
			log.Fatalf("stdio server: %v", err)
		}
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", srv)

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", *addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
