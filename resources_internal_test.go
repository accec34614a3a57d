package sitebaymcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/slogtest"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/sitebay/sitebay-mcp/testutil"
)

func newTestServer(t *testing.T, upstream *testutil.UpstreamServer) *Server {
	t.Helper()
	logger := slogtest.Make(t, nil).Leveled(slog.LevelDebug)
	srv, err := New(Config{Token: "test-token", BaseURL: upstream.URL}, logger, nil, nil)
	require.NoError(t, err)
	return srv
}

// readResource performs a resources/read the way a connected MCP client
// would, so URI routing (exact vs templated) is exercised, not just the
// handler bodies.
func readResource(t *testing.T, srv *Server, uri string) gjson.Result {
	t.Helper()

	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":%q}}`, uri)
	resp := srv.mcpSrv.HandleMessage(context.Background(), json.RawMessage(msg))
	require.NotNil(t, resp)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	parsed := gjson.ParseBytes(raw)
	require.False(t, parsed.Get("error").Exists(), "resources/read failed: %s", parsed.Get("error").Raw)

	contents := parsed.Get("result.contents").Array()
	require.Len(t, contents, 1)
	require.Equal(t, uri, contents[0].Get("uri").String())
	require.Equal(t, "application/json", contents[0].Get("mimeType").String())
	return gjson.Parse(contents[0].Get("text").String())
}

func TestResourcesReadableOverProtocol(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstreamServer(t)
	upstream.Route("GET", "/f/api/v1/site/a.com", testutil.Response{
		Body: `{"fqdn": "a.com", "status": "active", "git_enabled": false}`,
	})
	upstream.Route("GET", "/f/api/v1/site/a.com/event", testutil.Response{
		Body: `{"results": [{"created_at": "2024-04-01T00:00:00Z", "event_type": "deploy", "status": "done"}]}`,
	})
	upstream.Route("GET", "/f/api/v1/site", testutil.Response{Body: `[]`})
	upstream.Route("GET", "/f/api/v1/team", testutil.Response{Body: `[]`})

	srv := newTestServer(t, upstream)

	// Templated URIs resolve with a concrete fqdn substituted in.
	cfg := readResource(t, srv, "sitebay://site/a.com/config")
	require.Equal(t, "a.com", cfg.Get("site_info.domain").String())

	events := readResource(t, srv, "sitebay://site/a.com/events")
	require.Equal(t, "a.com", events.Get("site").String())
	require.Equal(t, int64(1), events.Get("total_events").Int())

	summary := readResource(t, srv, accountSummaryURI)
	require.Equal(t, int64(0), summary.Get("account_overview.total_sites").Int())
}

func TestSiteConfigResource(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstreamServer(t)
	upstream.Route("GET", "/f/api/v1/site/a.com", testutil.Response{
		Body: `{
			"fqdn": "a.com",
			"wp_title": "My Blog",
			"status": "active",
			"region_name": "nyc",
			"created_at": "2024-01-01",
			"updated_at": "2024-02-01",
			"php_version": "8.2",
			"mysql_version": null,
			"wp_version": "6.5",
			"git_enabled": true,
			"site_url": "https://a.com",
			"admin_url": "https://a.com/wp-admin",
			"staging_site": {"fqdn": "stage.a.com"}
		}`,
	})

	srv := newTestServer(t, upstream)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "sitebay://site/a.com/config"
	contents, err := srv.readSiteConfig(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	require.Equal(t, "sitebay://site/a.com/config", text.URI)
	require.Equal(t, "application/json", text.MIMEType)

	cfg := gjson.Parse(text.Text)
	require.Equal(t, "a.com", cfg.Get("site_info.domain").String())
	require.Equal(t, "My Blog", cfg.Get("site_info.title").String())
	require.Equal(t, "8.2", cfg.Get("technical_specs.php_version").String())
	require.Equal(t, gjson.Null, cfg.Get("technical_specs.mysql_version").Type)
	require.True(t, cfg.Get("technical_specs.git_enabled").Bool())
	require.True(t, cfg.Get("features.staging_available").Bool())
	require.True(t, cfg.Get("features.backup_enabled").Bool())
}

func TestSiteConfigResourceMalformedURI(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstreamServer(t)
	srv := newTestServer(t, upstream)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "sitebay://bogus"
	_, err := srv.readSiteConfig(context.Background(), req)
	require.ErrorContains(t, err, "malformed site resource URI")
	require.Zero(t, upstream.CallCount())
}

func TestSiteEventsResource(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstreamServer(t)
	upstream.Route("GET", "/f/api/v1/site/a.com/event", testutil.Response{
		Body: `{"results": [
			{"created_at": "2024-04-01T00:00:00Z", "event_type": "deploy", "status": "done", "description": "Site deployed"},
			{"created_at": "2024-04-02T00:00:00Z", "event_type": "restore", "status": "running", "description": null, "metadata": {"commit": "abc"}}
		]}`,
	})

	srv := newTestServer(t, upstream)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "sitebay://site/a.com/events"
	contents, err := srv.readSiteEvents(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)

	doc := gjson.Parse(text.Text)
	require.Equal(t, "a.com", doc.Get("site").String())
	require.Equal(t, int64(2), doc.Get("total_events").Int())
	require.Equal(t, int64(2), doc.Get("showing").Int())
	events := doc.Get("events").Array()
	require.Len(t, events, 2)
	require.Equal(t, "deploy", events[0].Get("type").String())
	// Absent metadata renders as an empty object, not null.
	require.True(t, events[0].Get("metadata").IsObject())
	require.Equal(t, "abc", events[1].Get("metadata.commit").String())
}

func TestAccountSummaryResource(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstreamServer(t)
	upstream.Route("GET", "/f/api/v1/site", testutil.Response{
		Body: `[
			{"fqdn": "a.com", "status": "active", "region_name": "nyc", "created_at": "2024-03-01"},
			{"fqdn": "b.com", "status": "active", "region_name": "nyc", "created_at": "2024-01-01"},
			{"fqdn": "c.com", "status": "deploying", "region_name": "ams", "created_at": "2024-02-01"}
		]`,
	})
	upstream.Route("GET", "/f/api/v1/team", testutil.Response{
		Body: `[{"id": "t1", "name": "Acme"}]`,
	})

	srv := newTestServer(t, upstream)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = accountSummaryURI
	contents, err := srv.readAccountSummary(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)

	summary := gjson.Parse(text.Text)
	require.Equal(t, int64(3), summary.Get("account_overview.total_sites").Int())
	require.Equal(t, int64(1), summary.Get("account_overview.total_teams").Int())
	require.Equal(t, int64(2), summary.Get("sites_by_status.active").Int())
	require.Equal(t, int64(1), summary.Get("sites_by_status.deploying").Int())
	require.Equal(t, int64(2), summary.Get("sites_by_region.nyc").Int())

	recent := summary.Get("recent_sites").Array()
	require.Len(t, recent, 3)
	// Newest first.
	require.Equal(t, "a.com", recent[0].Get("domain").String())
	require.Equal(t, "c.com", recent[1].Get("domain").String())
	require.Equal(t, "b.com", recent[2].Get("domain").String())
}
