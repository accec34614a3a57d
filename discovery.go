package sitebaymcp

import (
	"encoding/json"
	"net/http"

	"cdr.dev/slog"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sitebay/sitebay-mcp/buildinfo"
)

// DiscoveryPath serves a JSON document describing every registered tool, so
// non-MCP clients (and dashboards) can enumerate the surface without
// speaking the protocol.
const DiscoveryPath = "/.well-known/mcp/tools.json"

type discoveryDocument struct {
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Tools   []discoveryTool `json:"tools"`
}

type discoveryTool struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	InputSchema mcp.ToolInputSchema `json:"input_schema"`
}

// discoveryDoc is generated from the live registry so the document can never
// drift from the tools actually served.
func (s *Server) discoveryDoc() discoveryDocument {
	doc := discoveryDocument{
		Name:    "SiteBay WordPress Hosting",
		Version: buildinfo.Version(),
	}
	for _, t := range s.registry.Tools() {
		doc.Tools = append(doc.Tools, discoveryTool{
			Name:        t.Def.Name,
			Description: t.Def.Description,
			InputSchema: t.Def.InputSchema,
		})
	}
	return doc
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.discoveryDoc()); err != nil {
		s.logger.Warn(r.Context(), "failed to encode discovery document", slog.Error(err))
	}
}
