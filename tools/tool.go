// Package tools defines the SiteBay tool registry: one declarative entry per
// tool, mapping a parameter schema onto a single upstream API call and a text
// rendering of its result.
//
// The registry is the single source of truth for the tool surface; the MCP
// dispatcher and the discovery document are both derived from it.
package tools

import (
	"context"
	"net/url"
	"time"

	"cdr.dev/slog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/sitebay/sitebay-mcp/metrics"
	"github.com/sitebay/sitebay-mcp/tracing"
)

// Caller is the narrowest interface the registry requires from
// [client.Client]. Tests substitute it when a tool must be exercised without
// a live upstream.
type Caller interface {
	Get(ctx context.Context, path string, query url.Values) (gjson.Result, error)
	Post(ctx context.Context, path string, body []byte) (gjson.Result, error)
	Patch(ctx context.Context, path string, body []byte) (gjson.Result, error)
	Delete(ctx context.Context, path string) (gjson.Result, error)
}

// Tool pairs an MCP tool definition with its handler.
type Tool struct {
	Def     mcp.Tool
	Handler server.ToolHandlerFunc
}

// Registry holds every SiteBay tool. All handlers share the same wrapper:
// logging, one tracing span per invocation, and invocation metrics.
type Registry struct {
	client  Caller
	logger  slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics

	tools map[string]Tool
}

// NewRegistry assembles the full tool surface.
// m may be nil to disable metrics.
func NewRegistry(logger slog.Logger, tracer trace.Tracer, m *metrics.Metrics, c Caller) *Registry {
	r := &Registry{
		client:  c,
		logger:  logger,
		tracer:  tracer,
		metrics: m,
		tools:   make(map[string]Tool),
	}

	r.register(
		// Site management.
		r.listSites(),
		r.getSite(),
		r.createSite(),
		r.updateSite(),
		r.deleteSite(),
		// Site operations.
		r.shellCommand(),
		r.editFile(),
		// Proxies.
		r.wordpressProxy(),
		r.shopifyProxy(),
		r.posthogProxy(),
		// Backup/restore.
		r.backupListCommits(),
		r.backupRestore(),
		// Helpers and account.
		r.listTeams(),
		r.listReadyMadeSites(),
		r.accountAffiliates(),
		r.accountCreateCheckout(),
	)
	return r
}

func (r *Registry) register(tools ...Tool) {
	for _, t := range tools {
		r.tools[t.Def.Name] = t
	}
}

// Tools returns all registered tools in a stable (name-sorted) order.
func (r *Registry) Tools() []Tool {
	names := maps.Keys(r.tools)
	slices.Sort(names)

	out := make([]Tool, 0, len(names))
	for _, name := range names {
		out = append(out, r.tools[name])
	}
	return out
}

// Get returns a registered tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// handlerFunc is the shape every tool executor reduces to: parameters in,
// rendered text out. Returned errors become MCP tool-error results; local
// validation rejections are ordinary text results, not errors.
type handlerFunc func(ctx context.Context, req mcp.CallToolRequest) (string, error)

func (r *Registry) tool(def mcp.Tool, fn handlerFunc) Tool {
	return Tool{
		Def: def,
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			ctx, span := r.tracer.Start(ctx, "Registry.CallTool", trace.WithAttributes(
				attribute.String(tracing.ToolName, def.Name),
			))
			defer span.End()

			out, err := fn(ctx, req)
			if err != nil {
				span.RecordError(err)
				r.logger.Warn(ctx, "tool call failed", slog.F("tool", def.Name), slog.Error(err))
				r.observe(def.Name, metrics.ToolCallStatusFailed, time.Since(start))
				return mcp.NewToolResultError(err.Error()), nil
			}

			r.logger.Debug(ctx, "tool call completed", slog.F("tool", def.Name))
			r.observe(def.Name, metrics.ToolCallStatusCompleted, time.Since(start))
			return mcp.NewToolResultText(out), nil
		},
	}
}

func (r *Registry) observe(tool, status string, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	r.metrics.ToolCallCount.WithLabelValues(tool, status).Inc()
	r.metrics.ToolCallDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// boolArg reports the value of a boolean argument and whether it was supplied
// at all. The distinction matters for partial updates, where an explicit
// false must be forwarded but an absent flag must be omitted.
func boolArg(req mcp.CallToolRequest, key string) (value, ok bool) {
	v, present := req.GetArguments()[key]
	if !present {
		return false, false
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, false
	}
	return b, true
}

// strArg is the string counterpart of [boolArg]: a supplied empty string
// (e.g. clearing a previously set value) must be forwarded, while an absent
// argument must be omitted.
func strArg(req mcp.CallToolRequest, key string) (value string, ok bool) {
	v, present := req.GetArguments()[key]
	if !present {
		return "", false
	}
	s, isStr := v.(string)
	if !isStr {
		return "", false
	}
	return s, true
}

// setField sets a key on a JSON body under construction.
// sjson only fails on invalid paths; all keys here are static literals.
func setField(body []byte, key string, value any) []byte {
	out, err := sjson.SetBytes(body, key, value)
	if err != nil {
		return body
	}
	return out
}

func emptyBody() []byte { return []byte(`{}`) }
