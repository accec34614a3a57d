package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
)

const (
	// strippedAbsPrefix is the absolute mount point of the WordPress install
	// inside a site's container; models sometimes pass it along.
	strippedAbsPrefix = "/bitnami/wordpress/"
	// requiredPathPrefix is the only directory editable through the API.
	requiredPathPrefix = "wp-content/"

	searchMarker  = "<<<<<<< SEARCH"
	dividerMarker = "======="
	replaceMarker = ">>>>>>> REPLACE"
)

func (r *Registry) shellCommand() Tool {
	def := mcp.NewTool("sitebay_site_shell_command",
		mcp.WithDescription("Execute a shell command on a WordPress site. Supports WP-CLI commands, system commands, etc."),
		mcp.WithString("fqdn",
			mcp.Required(),
			mcp.Description("The fully qualified domain name of the site"),
		),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("The shell command to execute (e.g., \"wp plugin list\", \"ls -la\", \"wp search-replace\")"),
		),
		mcp.WithString("cwd",
			mcp.Description("Optional working directory for the command"),
		),
		mcp.WithBoolean("auto_track_dir",
			mcp.Description("Track directory changes across subsequent commands"),
		),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		fqdn, err := req.RequireString("fqdn")
		if err != nil {
			return "", err
		}
		command, err := req.RequireString("command")
		if err != nil {
			return "", err
		}

		body := setField(emptyBody(), "cmd", command)
		cwd := req.GetString("cwd", "")
		if cwd != "" {
			body = setField(body, "cwd", cwd)
		}
		if autoTrack, ok := boolArg(req, "auto_track_dir"); ok {
			body = setField(body, "auto_track_dir", autoTrack)
		}

		res, err := r.client.Post(ctx, "/site/"+fqdn+"/cmd", body)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "**Command executed on %s:**\n", fqdn)
		fmt.Fprintf(&sb, "```bash\n%s\n```\n\n", command)
		if cwd != "" {
			fmt.Fprintf(&sb, "**Working directory:** `%s`\n\n", cwd)
		}
		fmt.Fprintf(&sb, "**Output:**\n```\n%s\n```", commandOutput(res))
		return sb.String(), nil
	})
}

// commandOutput extracts the remote output from the response, which may be
// an object carrying "output" or "result", a bare string, or anything else.
func commandOutput(res gjson.Result) string {
	if out := res.Get("output"); out.Exists() {
		return out.String()
	}
	if out := res.Get("result"); out.Exists() {
		return out.String()
	}
	if res.Type == gjson.String {
		return res.Str
	}
	return res.Raw
}

func (r *Registry) editFile() Tool {
	def := mcp.NewTool("sitebay_site_edit_file",
		mcp.WithDescription("Edit a file in the site's wp-content directory using search/replace blocks."),
		mcp.WithString("fqdn",
			mcp.Required(),
			mcp.Description("The fully qualified domain name of the site"),
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the file in wp-content (e.g., \"wp-content/themes/mytheme/style.css\")"),
		),
		mcp.WithString("file_edit_using_search_replace_blocks",
			mcp.Required(),
			mcp.Description("One or more search/replace blocks delimited by "+
				searchMarker+", "+dividerMarker+" and "+replaceMarker),
		),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		fqdn, err := req.RequireString("fqdn")
		if err != nil {
			return "", err
		}
		filePath, err := req.RequireString("file_path")
		if err != nil {
			return "", err
		}
		blocks, err := req.RequireString("file_edit_using_search_replace_blocks")
		if err != nil {
			return "", err
		}

		// Both checks below reject locally, before any network call, and
		// report the problem as an ordinary result rather than an error.
		path := strings.TrimPrefix(filePath, strippedAbsPrefix)
		if !strings.HasPrefix(path, requiredPathPrefix) {
			return fmt.Sprintf(
				"❌ Invalid file path %q: the path must point inside the site's wp-content directory "+
					"(e.g., \"wp-content/themes/mytheme/style.css\"). No changes were made.", filePath), nil
		}

		if !strings.Contains(blocks, searchMarker) ||
			!strings.Contains(blocks, dividerMarker) ||
			!strings.Contains(blocks, replaceMarker) {
			return fmt.Sprintf(
				"❌ Invalid edit format: the payload must contain %q, %q and %q markers. No changes were made.",
				searchMarker, dividerMarker, replaceMarker), nil
		}

		body := setField(emptyBody(), "path", path)
		body = setField(body, "content", blocks)

		res, err := r.client.Post(ctx, "/site/"+fqdn+"/wpfile_diff_edit", body)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString("✅ **File Updated Successfully**\n\n")
		fmt.Fprintf(&sb, "• **Site**: %s\n", fqdn)
		fmt.Fprintf(&sb, "• **File**: %s\n", path)
		if res.Type == gjson.String && res.Str != "" {
			fmt.Fprintf(&sb, "\n**Server Response:**\n```\n%s\n```", res.Str)
		}
		return sb.String(), nil
	})
}
