package tools_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/sitebay/sitebay-mcp/testutil"
)

func TestListTeams(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstreamServer(t)
	upstream.Route("GET", "/f/api/v1/team", testutil.Response{
		Body: `[{"id":"t1","name":"Acme","plan_type_name":"business","is_active":true,"is_default":false,"created_at":"2024-01-01"}]`,
	})

	r := newRegistry(t, upstream)
	out, isErr := callTool(t, r, "sitebay_list_teams", nil)
	require.False(t, isErr)
	require.Contains(t, out, "**Your Teams** (1 teams):")
	require.Contains(t, out, "• **Acme**")
	require.Contains(t, out, "- Plan: business")
	require.Contains(t, out, "- Default: false")
}

func TestListReadyMadeSites(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstreamServer(t)
	upstream.Route("GET", "/f/api/v1/ready_made_site", testutil.Response{
		Body: `[{"id":"r1","name":"store-starter","description":"WooCommerce starter","category":"ecommerce"},{"id":"r2","name":"blank"}]`,
	})

	r := newRegistry(t, upstream)
	out, isErr := callTool(t, r, "sitebay_list_ready_made_sites", nil)
	require.False(t, isErr)
	require.Contains(t, out, "**Available Ready-made Sites** (2):")
	require.Contains(t, out, "- Description: WooCommerce starter")
	require.Contains(t, out, "- Category: ecommerce")
	require.Contains(t, out, "• **blank**")
}

func TestAccountAffiliates(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		upstream := testutil.NewUpstreamServer(t)
		upstream.Route("GET", "/f/api/v1/account/referred_user", testutil.Response{Body: `[]`})

		r := newRegistry(t, upstream)
		out, isErr := callTool(t, r, "sitebay_account_affiliates", nil)
		require.False(t, isErr)
		require.Equal(t, "No affiliate referrals found.", out)
	})

	t.Run("renders referrals", func(t *testing.T) {
		t.Parallel()

		upstream := testutil.NewUpstreamServer(t)
		upstream.Route("GET", "/f/api/v1/account/referred_user", testutil.Response{
			Body: `[{"email":"x@y.com","full_name":"X Y","created_at":"2024-02-02","is_active":true}]`,
		})

		r := newRegistry(t, upstream)
		out, isErr := callTool(t, r, "sitebay_account_affiliates", nil)
		require.False(t, isErr)
		require.Contains(t, out, "**Your Affiliate Referrals** (1 referrals):")
		require.Contains(t, out, "• **Email**: x@y.com")
		require.Contains(t, out, "- Name: X Y")
	})
}

func TestAccountCreateCheckout(t *testing.T) {
	t.Parallel()

	upstream := testutil.NewUpstreamServer(t)
	upstream.Route("POST", "/f/api/v1/create_checkout_session", testutil.Response{
		Body: `{"url":"https://checkout.stripe.com/c/pay/cs_test"}`,
	})

	r := newRegistry(t, upstream)
	out, isErr := callTool(t, r, "sitebay_account_create_checkout", map[string]any{
		"plan_name": "business",
		"interval":  "year",
		"team_id":   "b3b2c6a0-9c3d-4e6f-8a1b-2c3d4e5f6a7b",
	})
	require.False(t, isErr)
	require.Contains(t, out, "✅ **Checkout Session Created**")
	require.Contains(t, out, "Plan: business (yearly)")
	require.Contains(t, out, "Checkout URL: https://checkout.stripe.com/c/pay/cs_test")

	req := upstream.LastRequest()
	require.NotNil(t, req)
	body := gjson.ParseBytes(req.Body)
	require.Equal(t, "business", body.Get("plan_name").String())
	require.Equal(t, "year", body.Get("interval").String())
	require.Equal(t, "b3b2c6a0-9c3d-4e6f-8a1b-2c3d4e5f6a7b", body.Get("for_team_id").String())
}
