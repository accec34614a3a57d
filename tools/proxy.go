package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// The proxy tools forward an opaque payload to a SiteBay passthrough
// endpoint without interpretation. The payload string may be JSON or a
// query string; the backend decides.

func methodParam() mcp.ToolOption {
	return mcp.WithString("method",
		mcp.Description("HTTP method"),
		mcp.Enum("get", "post", "put", "delete"),
		mcp.DefaultString("get"),
	)
}

func queryParamsParam() mcp.ToolOption {
	return mcp.WithString("query_params_json",
		mcp.Description("Optional JSON string for payload or query params"),
	)
}

func (r *Registry) wordpressProxy() Tool {
	def := mcp.NewTool("sitebay_wordpress_proxy",
		mcp.WithDescription("Proxy requests to a WordPress site's REST API."),
		mcp.WithString("fqdn",
			mcp.Required(),
			mcp.Description("The site domain"),
		),
		mcp.WithString("path",
			mcp.Description("WordPress API path (e.g., \"/wp-json/wp/v2/posts\")"),
			mcp.DefaultString("/wp-json/wp/v2/"),
		),
		queryParamsParam(),
		methodParam(),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		fqdn, err := req.RequireString("fqdn")
		if err != nil {
			return "", err
		}

		body := setField(emptyBody(), "fqdn", fqdn)
		body = setField(body, "method", req.GetString("method", "get"))
		body = setField(body, "path", req.GetString("path", "/wp-json/wp/v2/"))
		if qp := req.GetString("query_params_json", ""); qp != "" {
			body = setField(body, "query_params_json", qp)
		}

		res, err := r.client.Post(ctx, "/wp-proxy", body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ WordPress API Response:\n```json\n%s\n```", prettyJSON(res)), nil
	})
}

func (r *Registry) shopifyProxy() Tool {
	def := mcp.NewTool("sitebay_shopify_proxy",
		mcp.WithDescription("Proxy requests to a Shopify Admin API."),
		mcp.WithString("shop_name",
			mcp.Required(),
			mcp.Description("Shopify shop name"),
		),
		mcp.WithString("path",
			mcp.Description("Shopify API path (e.g., \"/admin/api/2024-04/products.json\")"),
			mcp.DefaultString("/admin/api/2024-04"),
		),
		queryParamsParam(),
		methodParam(),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		shopName, err := req.RequireString("shop_name")
		if err != nil {
			return "", err
		}

		body := setField(emptyBody(), "shop_name", shopName)
		body = setField(body, "method", req.GetString("method", "get"))
		body = setField(body, "path", req.GetString("path", "/admin/api/2024-04"))
		if qp := req.GetString("query_params_json", ""); qp != "" {
			body = setField(body, "query_params_json", qp)
		}

		res, err := r.client.Post(ctx, "/shopify-proxy", body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ Shopify API Response:\n```json\n%s\n```", prettyJSON(res)), nil
	})
}

func (r *Registry) posthogProxy() Tool {
	def := mcp.NewTool("sitebay_posthog_proxy",
		mcp.WithDescription("Proxy requests to the PostHog analytics API."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("PostHog API path"),
		),
		queryParamsParam(),
		methodParam(),
	)

	return r.tool(def, func(ctx context.Context, req mcp.CallToolRequest) (string, error) {
		path, err := req.RequireString("path")
		if err != nil {
			return "", err
		}

		body := setField(emptyBody(), "path", path)
		body = setField(body, "method", req.GetString("method", "get"))
		if qp := req.GetString("query_params_json", ""); qp != "" {
			body = setField(body, "query_params_json", qp)
		}

		res, err := r.client.Post(ctx, "/posthog-proxy", body)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ PostHog API Response:\n```json\n%s\n```", prettyJSON(res)), nil
	})
}
