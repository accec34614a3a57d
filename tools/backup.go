package tools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
)

func (r *Registry) backupListCommits() Tool {
	def := mcp.NewTool("sitebay_backup_list_commits",
		mcp.WithDescription("List available backup commits for point-in-time restore."),
		mcp.WithString("fqdn",
			mcp.Required(),
			mcp.Description("The site domain"),
		),
		mcp.WithNumber("number_to_fetch",
			mcp.Description("Number of backup entries to fetch"),
			mcp.DefaultNumber(1),
		),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		fqdn, err := req.RequireString("fqdn")
		if err != nil {
			return "", err
		}
		numberToFetch := req.GetInt("number_to_fetch", 1)

		query := url.Values{}
		query.Set("number_to_fetch", strconv.Itoa(numberToFetch))

		res, err := r.client.Get(ctx, "/site/"+fqdn+"/pit_restore/commits", query)
		if err != nil {
			return "", err
		}

		commits := ExtractList(res)
		if len(commits) == 0 {
			return fmt.Sprintf("No backup commits found for %s.", fqdn), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "**Available Backup Commits for %s** (%d entries):\n\n", fqdn, len(commits))
		for _, commit := range commits {
			fmt.Fprintf(&sb, "• **%s**\n", FieldOr(commit, "created_at", "Unknown time"))
			fmt.Fprintf(&sb, "  - ID: %s\n", Field(commit, "id"))
			fmt.Fprintf(&sb, "  - Commit Hash: %s\n", Field(commit, "commit_hash"))
			fmt.Fprintf(&sb, "  - Tables Saved: %d tables\n", len(commit.Get("tables_saved").Array()))
			fmt.Fprintf(&sb, "  - Status: %s\n", commitStatus(commit))
			sb.WriteString("\n")
		}
		return sb.String(), nil
	})
}

func commitStatus(commit gjson.Result) string {
	if finished := commit.Get("finished_at"); finished.Exists() && finished.Type != gjson.Null {
		return "Completed"
	}
	return "In Progress"
}

func (r *Registry) backupRestore() Tool {
	def := mcp.NewTool("sitebay_backup_restore",
		mcp.WithDescription("Restore a site to a previous point in time."),
		mcp.WithString("fqdn",
			mcp.Required(),
			mcp.Description("The site domain"),
		),
		mcp.WithString("restore_point",
			mcp.Description("ISO datetime string, or omit for the latest backup"),
		),
		mcp.WithBoolean("for_stage_site",
			mcp.Description("Whether to restore the stage site"),
		),
		mcp.WithBoolean("restore_db",
			mcp.Description("Restore the database (backend default: true)"),
		),
		mcp.WithBoolean("restore_wp_content",
			mcp.Description("Restore wp-content (backend default: true)"),
		),
		mcp.WithBoolean("delete_extra_files",
			mcp.Description("Delete extra files from the target (backend default: false)"),
		),
		mcp.WithString("dolt_restore_hash",
			mcp.Description("Optional Dolt hash to restore the database to"),
		),
		mcp.WithBoolean("is_dry_run",
			mcp.Description("Simulate the restore without applying changes"),
		),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		fqdn, err := req.RequireString("fqdn")
		if err != nil {
			return "", err
		}

		// Only supplied fields are forwarded; an empty body restores to the
		// latest backup with the backend's defaults.
		body := emptyBody()
		if v, ok := strArg(req, "restore_point"); ok {
			body = setField(body, "restore_point", v)
		}
		for _, key := range []string{
			"for_stage_site",
			"restore_db",
			"restore_wp_content",
			"delete_extra_files",
			"is_dry_run",
		} {
			if v, ok := boolArg(req, key); ok {
				body = setField(body, key, v)
			}
		}
		if v, ok := strArg(req, "dolt_restore_hash"); ok {
			body = setField(body, "dolt_restore_hash", v)
		}

		if _, err := r.client.Post(ctx, "/site/"+fqdn+"/pit_restore", body); err != nil {
			return "", err
		}

		return fmt.Sprintf("✅ **Point-in-Time Restore Initiated**\n\nRestore operation for %s has been started.", fqdn), nil
	})
}
