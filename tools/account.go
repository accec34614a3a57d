package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (r *Registry) listTeams() Tool {
	def := mcp.NewTool("sitebay_list_teams",
		mcp.WithDescription("List all teams for the authenticated user."),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		res, err := r.client.Get(ctx, "/team", nil)
		if err != nil {
			return "", err
		}

		teams := ExtractList(res)
		if len(teams) == 0 {
			return "No teams found for your account.", nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "**Your Teams** (%d teams):\n\n", len(teams))
		for _, team := range teams {
			fmt.Fprintf(&sb, "• **%s**\n", Field(team, "name"))
			fmt.Fprintf(&sb, "  - ID: %s\n", Field(team, "id"))
			fmt.Fprintf(&sb, "  - Plan: %s\n", Field(team, "plan_type_name"))
			fmt.Fprintf(&sb, "  - Active: %s\n", Field(team, "is_active"))
			fmt.Fprintf(&sb, "  - Default: %s\n", Field(team, "is_default"))
			fmt.Fprintf(&sb, "  - Created: %s\n", Field(team, "created_at"))
			sb.WriteString("\n")
		}
		return sb.String(), nil
	})
}

func (r *Registry) listReadyMadeSites() Tool {
	def := mcp.NewTool("sitebay_list_ready_made_sites",
		mcp.WithDescription("List available ready-made sites for quick launches."),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		res, err := r.client.Get(ctx, "/ready_made_site", nil)
		if err != nil {
			return "", err
		}

		items := ExtractList(res)
		if len(items) == 0 {
			return "No ready-made sites available.", nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "**Available Ready-made Sites** (%d):\n\n", len(items))
		for _, item := range items {
			fmt.Fprintf(&sb, "• **%s**\n", Field(item, "name"))
			fmt.Fprintf(&sb, "  - ID: %s\n", Field(item, "id"))
			if desc := item.Get("description"); desc.Exists() && desc.String() != "" {
				fmt.Fprintf(&sb, "  - Description: %s\n", desc.String())
			}
			if category := item.Get("category"); category.Exists() && category.String() != "" {
				fmt.Fprintf(&sb, "  - Category: %s\n", category.String())
			}
			sb.WriteString("\n")
		}
		return sb.String(), nil
	})
}

func (r *Registry) accountAffiliates() Tool {
	def := mcp.NewTool("sitebay_account_affiliates",
		mcp.WithDescription("Get affiliate referral information: users who signed up using your affiliate links."),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		res, err := r.client.Get(ctx, "/account/referred_user", nil)
		if err != nil {
			return "", err
		}

		affiliates := ExtractList(res)
		if len(affiliates) == 0 {
			return "No affiliate referrals found.", nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "**Your Affiliate Referrals** (%d referrals):\n\n", len(affiliates))
		for _, affiliate := range affiliates {
			fmt.Fprintf(&sb, "• **Email**: %s\n", Field(affiliate, "email"))
			fmt.Fprintf(&sb, "  - Name: %s\n", Field(affiliate, "full_name"))
			fmt.Fprintf(&sb, "  - Signed up: %s\n", Field(affiliate, "created_at"))
			fmt.Fprintf(&sb, "  - Active: %s\n", Field(affiliate, "is_active"))
			sb.WriteString("\n")
		}
		return sb.String(), nil
	})
}

func (r *Registry) accountCreateCheckout() Tool {
	def := mcp.NewTool("sitebay_account_create_checkout",
		mcp.WithDescription("Create a Stripe checkout session for team billing."),
		mcp.WithString("plan_name",
			mcp.Description("Plan type"),
			mcp.Enum("starter", "business", "micro"),
			mcp.DefaultString("starter"),
		),
		mcp.WithString("interval",
			mcp.Description("Billing interval"),
			mcp.Enum("month", "year"),
			mcp.DefaultString("month"),
		),
		mcp.WithString("team_id",
			mcp.Description("Optional team ID to purchase for"),
		),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		planName := req.GetString("plan_name", "starter")
		interval := req.GetString("interval", "month")

		body := setField(emptyBody(), "plan_name", planName)
		body = setField(body, "interval", interval)
		if teamID := req.GetString("team_id", ""); teamID != "" {
			body = setField(body, "for_team_id", teamID)
		}

		res, err := r.client.Post(ctx, "/create_checkout_session", body)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("✅ **Checkout Session Created**\n\nPlan: %s (%sly)\nCheckout URL: %s",
			planName, interval, FieldOr(res, "url", "URL not provided")), nil
	})
}
