package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

func (r *Registry) listSites() Tool {
	def := mcp.NewTool("sitebay_list_sites",
		mcp.WithDescription("List all WordPress sites for the authenticated user."),
		mcp.WithString("team_id",
			mcp.Description("Optional team ID (UUID) to filter sites by team"),
		),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		query := url.Values{}
		if teamID := req.GetString("team_id", ""); teamID != "" {
			if _, err := uuid.Parse(teamID); err != nil {
				return "", fmt.Errorf("invalid team_id %q: must be a UUID", teamID)
			}
			query.Set("team_id", teamID)
		}

		res, err := r.client.Get(ctx, "/site", query)
		if err != nil {
			return "", err
		}

		sites := ExtractList(res)
		if len(sites) == 0 {
			return "No sites found for your account.", nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Found %d site(s):\n\n", len(sites))
		for _, site := range sites {
			fmt.Fprintf(&sb, "• **%s**\n", Field(site, "fqdn"))
			fmt.Fprintf(&sb, "  - Active: %s\n", Field(site, "active"))
			fmt.Fprintf(&sb, "  - HTTP Auth Enabled: %s\n", Field(site, "http_auth_enabled"))
			fmt.Fprintf(&sb, "  - Is Free: %s\n", Field(site, "is_free"))
			fmt.Fprintf(&sb, "  - Created: %s\n", Field(site, "created_at"))
			sb.WriteString("\n")
		}
		return sb.String(), nil
	})
}

func (r *Registry) getSite() Tool {
	def := mcp.NewTool("sitebay_get_site",
		mcp.WithDescription("Get detailed information about a specific WordPress site."),
		mcp.WithString("fqdn",
			mcp.Required(),
			mcp.Description("The fully qualified domain name of the site (e.g., \"www.example.com\")"),
		),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		fqdn, err := req.RequireString("fqdn")
		if err != nil {
			return "", err
		}

		site, err := r.client.Get(ctx, "/site/"+fqdn, nil)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "**Site Details for %s**\n\n", fqdn)
		fmt.Fprintf(&sb, "• **Active**: %s\n", Field(site, "active"))
		fmt.Fprintf(&sb, "• **HTTP Auth Enabled**: %s\n", Field(site, "http_auth_enabled"))
		fmt.Fprintf(&sb, "• **Is Free**: %s\n", Field(site, "is_free"))
		fmt.Fprintf(&sb, "• **Git URL**: %s\n", FieldOr(site, "git_url", "—"))
		fmt.Fprintf(&sb, "• **Created**: %s\n", Field(site, "created_at"))
		fmt.Fprintf(&sb, "• **Updated**: %s\n", Field(site, "updated_at"))

		if site.Get("git_enabled").Bool() {
			sb.WriteString("• **Git Integration**: Enabled\n")
			if repo := site.Get("git_repo"); repo.Exists() && repo.String() != "" {
				fmt.Fprintf(&sb, "• **Git Repository**: %s\n", repo.String())
			}
		}
		return sb.String(), nil
	})
}

func (r *Registry) createSite() Tool {
	def := mcp.NewTool("sitebay_create_site",
		mcp.WithDescription("Create a new WordPress site."),
		mcp.WithString("team_id",
			mcp.Required(),
			mcp.Description("Team UUID that owns the site"),
		),
		mcp.WithString("fqdn",
			mcp.Required(),
			mcp.Description("The fully qualified domain name for the new site (e.g., \"www.example.org\")"),
		),
		mcp.WithString("wordpress_blog_name",
			mcp.Required(),
			mcp.Description("Blog/site title"),
		),
		mcp.WithString("wordpress_first_name",
			mcp.Required(),
			mcp.Description("Admin first name"),
		),
		mcp.WithString("wordpress_last_name",
			mcp.Required(),
			mcp.Description("Admin last name"),
		),
		mcp.WithString("wordpress_email",
			mcp.Required(),
			mcp.Description("Admin email address"),
		),
		mcp.WithString("wordpress_username",
			mcp.Required(),
			mcp.Description("Admin username"),
		),
		mcp.WithString("wordpress_password",
			mcp.Required(),
			mcp.Description("Admin password (strong)"),
		),
		mcp.WithString("git_url",
			mcp.Description("Optional Git repository URL"),
		),
		mcp.WithString("ready_made_site_name",
			mcp.Description("Optional ready-made site name to launch from"),
		),
		mcp.WithBoolean("is_free",
			mcp.Description("Optional flag for free plan"),
		),
	)

	required := []string{
		"team_id",
		"fqdn",
		"wordpress_blog_name",
		"wordpress_first_name",
		"wordpress_last_name",
		"wordpress_email",
		"wordpress_username",
		"wordpress_password",
	}

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		body := emptyBody()
		for _, key := range required {
			v, err := req.RequireString(key)
			if err != nil {
				return "", err
			}
			body = setField(body, key, v)
		}

		teamID := req.GetString("team_id", "")
		if _, err := uuid.Parse(teamID); err != nil {
			return "", fmt.Errorf("invalid team_id %q: must be a UUID", teamID)
		}
		fqdn := req.GetString("fqdn", "")
		if !strings.Contains(fqdn, ".") {
			return "", fmt.Errorf("invalid domain name %q", fqdn)
		}

		gitURL := req.GetString("git_url", "")
		if gitURL != "" {
			body = setField(body, "git_url", gitURL)
		}
		readyMade := req.GetString("ready_made_site_name", "")
		if readyMade != "" {
			body = setField(body, "ready_made_site_name", readyMade)
		}
		isFree, hasIsFree := boolArg(req, "is_free")
		if hasIsFree {
			body = setField(body, "is_free", isFree)
		}

		site, err := r.client.Post(ctx, "/site", body)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString("✅ **Site Created Successfully!**\n\n")
		fmt.Fprintf(&sb, "• **Domain**: %s\n", Field(site, "fqdn"))
		fmt.Fprintf(&sb, "• **Active**: %s\n", Field(site, "active"))
		fmt.Fprintf(&sb, "• **HTTP Auth Enabled**: %s\n", Field(site, "http_auth_enabled"))
		fmt.Fprintf(&sb, "• **Admin Username**: %s\n", req.GetString("wordpress_username", ""))
		fmt.Fprintf(&sb, "• **Admin Email**: %s\n", req.GetString("wordpress_email", ""))
		if gitURL != "" {
			fmt.Fprintf(&sb, "• **Git URL**: %s\n", gitURL)
		}
		if readyMade != "" {
			fmt.Fprintf(&sb, "• **Ready-made**: %s\n", readyMade)
		}
		if hasIsFree {
			fmt.Fprintf(&sb, "• **Plan**: %s\n", planName(isFree))
		}
		sb.WriteString("\n🚀 Your WordPress site is being deployed and will be ready shortly!")
		return sb.String(), nil
	})
}

func (r *Registry) updateSite() Tool {
	def := mcp.NewTool("sitebay_update_site",
		mcp.WithDescription("Update an existing site's configuration. Only the supplied fields are changed."),
		mcp.WithString("fqdn",
			mcp.Required(),
			mcp.Description("Site domain to update"),
		),
		mcp.WithBoolean("cf_dev_mode_enabled",
			mcp.Description("Enable/disable Cloudflare dev mode"),
		),
		mcp.WithString("new_fqdn",
			mcp.Description("Change the site domain"),
		),
		mcp.WithString("git_url",
			mcp.Description("Set repository URL for deployments"),
		),
		mcp.WithBoolean("http_auth_enabled",
			mcp.Description("Enable/disable HTTP basic auth"),
		),
		mcp.WithString("team_id",
			mcp.Description("Move site to a different team (UUID)"),
		),
		mcp.WithBoolean("is_free",
			mcp.Description("Toggle free plan flag"),
		),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		fqdn, err := req.RequireString("fqdn")
		if err != nil {
			return "", err
		}

		body := emptyBody()
		supplied := 0

		cfDevMode, hasCfDevMode := boolArg(req, "cf_dev_mode_enabled")
		if hasCfDevMode {
			body = setField(body, "cf_dev_mode_enabled", cfDevMode)
			supplied++
		}
		newFQDN, hasNewFQDN := strArg(req, "new_fqdn")
		if hasNewFQDN {
			body = setField(body, "new_fqdn", newFQDN)
			supplied++
		}
		gitURL, hasGitURL := strArg(req, "git_url")
		if hasGitURL {
			body = setField(body, "git_url", gitURL)
			supplied++
		}
		httpAuth, hasHTTPAuth := boolArg(req, "http_auth_enabled")
		if hasHTTPAuth {
			body = setField(body, "http_auth_enabled", httpAuth)
			supplied++
		}
		teamID, hasTeamID := strArg(req, "team_id")
		if hasTeamID {
			if _, err := uuid.Parse(teamID); err != nil {
				return "", fmt.Errorf("invalid team_id %q: must be a UUID", teamID)
			}
			body = setField(body, "team_id", teamID)
			supplied++
		}
		isFree, hasIsFree := boolArg(req, "is_free")
		if hasIsFree {
			body = setField(body, "is_free", isFree)
			supplied++
		}

		// Partial-update guard: without it an empty PATCH would be sent.
		if supplied == 0 {
			return "No updates specified.", nil
		}

		site, err := r.client.Patch(ctx, "/site/"+fqdn, body)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString("✅ **Site Updated Successfully!**\n\n")
		fmt.Fprintf(&sb, "• **Domain**: %s\n", Field(site, "fqdn"))
		fmt.Fprintf(&sb, "• **Status**: %s\n", Field(site, "status"))
		if hasCfDevMode {
			fmt.Fprintf(&sb, "• **Cloudflare Dev Mode**: %s\n", enabled(cfDevMode))
		}
		if hasNewFQDN {
			fmt.Fprintf(&sb, "• **New Domain**: %s\n", newFQDN)
		}
		if hasGitURL {
			fmt.Fprintf(&sb, "• **Git URL**: %s\n", gitURL)
		}
		if hasHTTPAuth {
			fmt.Fprintf(&sb, "• **HTTP Auth**: %s\n", enabled(httpAuth))
		}
		if hasTeamID {
			fmt.Fprintf(&sb, "• **Team ID**: Moved to %s\n", teamID)
		}
		if hasIsFree {
			fmt.Fprintf(&sb, "• **Plan**: %s\n", planName(isFree))
		}
		return sb.String(), nil
	})
}

func (r *Registry) deleteSite() Tool {
	def := mcp.NewTool("sitebay_delete_site",
		mcp.WithDescription("Delete a WordPress site permanently. This action cannot be undone."),
		mcp.WithString("fqdn",
			mcp.Required(),
			mcp.Description("The fully qualified domain name of the site to delete"),
		),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		fqdn, err := req.RequireString("fqdn")
		if err != nil {
			return "", err
		}

		if _, err := r.client.Delete(ctx, "/site/"+fqdn); err != nil {
			return "", err
		}

		return fmt.Sprintf("✅ **Site Deleted Successfully**\n\nThe site %s has been permanently deleted.", fqdn), nil
	})
}

func enabled(v bool) string {
	if v {
		return "Enabled"
	}
	return "Disabled"
}

func planName(isFree bool) string {
	if isFree {
		return "Free"
	}
	return "Paid"
}
