package tools_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/sitebay/sitebay-mcp/testutil"
)

func TestBackupListCommits(t *testing.T) {
	t.Parallel()

	t.Run("renders commits", func(t *testing.T) {
		t.Parallel()

		upstream := testutil.NewUpstreamServer(t)
		upstream.Route("GET", "/f/api/v1/site/a.com/pit_restore/commits", testutil.Response{
			Body: `[
				{"id":"c1","commit_hash":"abc123","created_at":"2024-05-01T10:00:00Z","tables_saved":["wp_posts","wp_options"],"finished_at":"2024-05-01T10:01:00Z"},
				{"id":"c2","commit_hash":"def456","created_at":null,"tables_saved":[],"finished_at":null}
			]`,
		})

		r := newRegistry(t, upstream)
		out, isErr := callTool(t, r, "sitebay_backup_list_commits", map[string]any{
			"fqdn":            "a.com",
			"number_to_fetch": 2,
		})
		require.False(t, isErr)
		require.Contains(t, out, "**Available Backup Commits for a.com** (2 entries):")
		require.Contains(t, out, "- Commit Hash: abc123")
		require.Contains(t, out, "- Tables Saved: 2 tables")
		require.Contains(t, out, "- Status: Completed")
		// Null timestamps and finished_at fall back gracefully.
		require.Contains(t, out, "• **Unknown time**")
		require.Contains(t, out, "- Status: In Progress")

		req := upstream.LastRequest()
		require.NotNil(t, req)
		require.Equal(t, "2", req.Query.Get("number_to_fetch"))
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		upstream := testutil.NewUpstreamServer(t)
		upstream.Route("GET", "/f/api/v1/site/a.com/pit_restore/commits", testutil.Response{Body: `[]`})

		r := newRegistry(t, upstream)
		out, isErr := callTool(t, r, "sitebay_backup_list_commits", map[string]any{"fqdn": "a.com"})
		require.False(t, isErr)
		require.Equal(t, "No backup commits found for a.com.", out)

		// Default number_to_fetch is 1.
		req := upstream.LastRequest()
		require.NotNil(t, req)
		require.Equal(t, "1", req.Query.Get("number_to_fetch"))
	})
}

func TestBackupRestore(t *testing.T) {
	t.Parallel()

	t.Run("empty body restores latest", func(t *testing.T) {
		t.Parallel()

		upstream := testutil.NewUpstreamServer(t)
		upstream.Route("POST", "/f/api/v1/site/a.com/pit_restore", testutil.Response{Body: `{}`})

		r := newRegistry(t, upstream)
		out, isErr := callTool(t, r, "sitebay_backup_restore", map[string]any{"fqdn": "a.com"})
		require.False(t, isErr)
		require.Equal(t, "✅ **Point-in-Time Restore Initiated**\n\nRestore operation for a.com has been started.", out)

		req := upstream.LastRequest()
		require.NotNil(t, req)
		require.JSONEq(t, `{}`, string(req.Body))
	})

	t.Run("only supplied flags forwarded", func(t *testing.T) {
		t.Parallel()

		upstream := testutil.NewUpstreamServer(t)
		upstream.Route("POST", "/f/api/v1/site/a.com/pit_restore", testutil.Response{Body: `{}`})

		r := newRegistry(t, upstream)
		_, isErr := callTool(t, r, "sitebay_backup_restore", map[string]any{
			"fqdn":          "a.com",
			"restore_point": "2024-05-01T10:00:00Z",
			"restore_db":    false,
			"is_dry_run":    true,
		})
		require.False(t, isErr)

		req := upstream.LastRequest()
		require.NotNil(t, req)
		body := gjson.ParseBytes(req.Body)
		require.Equal(t, "2024-05-01T10:00:00Z", body.Get("restore_point").String())
		require.True(t, body.Get("restore_db").Exists())
		require.False(t, body.Get("restore_db").Bool())
		require.True(t, body.Get("is_dry_run").Bool())
		require.False(t, body.Get("for_stage_site").Exists())
		require.False(t, body.Get("restore_wp_content").Exists())
		require.False(t, body.Get("delete_extra_files").Exists())
	})

	t.Run("supplied empty strings forwarded", func(t *testing.T) {
		t.Parallel()

		upstream := testutil.NewUpstreamServer(t)
		upstream.Route("POST", "/f/api/v1/site/a.com/pit_restore", testutil.Response{Body: `{}`})

		r := newRegistry(t, upstream)
		_, isErr := callTool(t, r, "sitebay_backup_restore", map[string]any{
			"fqdn":              "a.com",
			"restore_point":     "",
			"dolt_restore_hash": "",
		})
		require.False(t, isErr)

		req := upstream.LastRequest()
		require.NotNil(t, req)
		body := gjson.ParseBytes(req.Body)
		require.True(t, body.Get("restore_point").Exists())
		require.True(t, body.Get("dolt_restore_hash").Exists())
	})
}
