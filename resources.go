package sitebaymcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sitebay/sitebay-mcp/tools"
	"github.com/sitebay/sitebay-mcp/tracing"
)

const (
	siteURIPrefix       = "sitebay://site/"
	siteConfigURISuffix = "/config"
	siteEventsURISuffix = "/events"

	accountSummaryURI = "sitebay://account/summary"

	// siteEventsLimit caps how many events one read renders.
	siteEventsLimit = 50
)

// registerResources adds the read-only resources: per-site configuration and
// event documents plus an account-wide summary. Each is a JSON rendering of
// one or two upstream GETs, same as the tools.
func (s *Server) registerResources() {
	// The per-site resources carry a URI parameter, so they must be
	// registered as templates; AddResource only matches exact URIs.
	s.mcpSrv.AddResourceTemplate(
		mcp.NewResourceTemplate(
			siteURIPrefix+"{site_fqdn}"+siteConfigURISuffix,
			"Site Configuration",
			mcp.WithTemplateDescription("Configuration and technical details for a WordPress site"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.readSiteConfig,
	)

	s.mcpSrv.AddResourceTemplate(
		mcp.NewResourceTemplate(
			siteURIPrefix+"{site_fqdn}"+siteEventsURISuffix,
			"Site Events",
			mcp.WithTemplateDescription("Recent deployment and lifecycle events for a WordPress site"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.readSiteEvents,
	)

	s.mcpSrv.AddResource(
		mcp.NewResource(
			accountSummaryURI,
			"Account Summary",
			mcp.WithResourceDescription("Overview of all sites and teams on the account"),
			mcp.WithMIMEType("application/json"),
		),
		s.readAccountSummary,
	)
}

type siteConfig struct {
	SiteInfo struct {
		Domain  any `json:"domain"`
		Title   any `json:"title"`
		Status  any `json:"status"`
		Region  any `json:"region"`
		Created any `json:"created"`
		Updated any `json:"updated"`
	} `json:"site_info"`
	TechnicalSpecs struct {
		PHPVersion       any  `json:"php_version"`
		MySQLVersion     any  `json:"mysql_version"`
		WordPressVersion any  `json:"wordpress_version"`
		GitEnabled       bool `json:"git_enabled"`
	} `json:"technical_specs"`
	URLs struct {
		SiteURL  any `json:"site_url"`
		AdminURL any `json:"admin_url"`
	} `json:"urls"`
	Features struct {
		StagingAvailable bool `json:"staging_available"`
		GitIntegration   bool `json:"git_integration"`
		// SiteBay keeps point-in-time backups for every site.
		BackupEnabled bool `json:"backup_enabled"`
	} `json:"features"`
}

// siteFQDNFromURI extracts the fqdn from "sitebay://site/<fqdn><suffix>".
func siteFQDNFromURI(uri, suffix string) (string, error) {
	fqdn := strings.TrimSuffix(strings.TrimPrefix(uri, siteURIPrefix), suffix)
	if fqdn == "" || fqdn == uri || !strings.HasPrefix(uri, siteURIPrefix) || !strings.HasSuffix(uri, suffix) {
		return "", fmt.Errorf("malformed site resource URI: %q", uri)
	}
	return fqdn, nil
}

func (s *Server) readSiteConfig(ctx context.Context, req mcp.ReadResourceRequest) (_ []mcp.ResourceContents, outErr error) {
	uri := req.Params.URI
	ctx, span := s.tracer.Start(ctx, "Server.ReadSiteConfig", trace.WithAttributes(
		attribute.String(tracing.ResourceURI, uri),
	))
	defer tracing.EndSpanErr(span, &outErr)

	fqdn, err := siteFQDNFromURI(uri, siteConfigURISuffix)
	if err != nil {
		return nil, err
	}

	site, err := s.api.Get(ctx, "/site/"+fqdn, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch site %s: %w", fqdn, err)
	}

	var cfg siteConfig
	cfg.SiteInfo.Domain = site.Get("fqdn").Value()
	cfg.SiteInfo.Title = site.Get("wp_title").Value()
	cfg.SiteInfo.Status = site.Get("status").Value()
	cfg.SiteInfo.Region = site.Get("region_name").Value()
	cfg.SiteInfo.Created = site.Get("created_at").Value()
	cfg.SiteInfo.Updated = site.Get("updated_at").Value()
	cfg.TechnicalSpecs.PHPVersion = site.Get("php_version").Value()
	cfg.TechnicalSpecs.MySQLVersion = site.Get("mysql_version").Value()
	cfg.TechnicalSpecs.WordPressVersion = site.Get("wp_version").Value()
	cfg.TechnicalSpecs.GitEnabled = site.Get("git_enabled").Bool()
	cfg.URLs.SiteURL = site.Get("site_url").Value()
	cfg.URLs.AdminURL = site.Get("admin_url").Value()
	staging := site.Get("staging_site")
	cfg.Features.StagingAvailable = staging.Exists() && staging.Type != gjson.Null
	cfg.Features.GitIntegration = cfg.TechnicalSpecs.GitEnabled
	cfg.Features.BackupEnabled = true

	return jsonResource(uri, cfg)
}

type siteEvents struct {
	Site        string      `json:"site"`
	TotalEvents int         `json:"total_events"`
	Showing     int         `json:"showing"`
	Events      []siteEvent `json:"events"`
}

type siteEvent struct {
	Timestamp   any `json:"timestamp"`
	Type        any `json:"type"`
	Status      any `json:"status"`
	Description any `json:"description"`
	Metadata    any `json:"metadata"`
}

func (s *Server) readSiteEvents(ctx context.Context, req mcp.ReadResourceRequest) (_ []mcp.ResourceContents, outErr error) {
	uri := req.Params.URI
	ctx, span := s.tracer.Start(ctx, "Server.ReadSiteEvents", trace.WithAttributes(
		attribute.String(tracing.ResourceURI, uri),
	))
	defer tracing.EndSpanErr(span, &outErr)

	fqdn, err := siteFQDNFromURI(uri, siteEventsURISuffix)
	if err != nil {
		return nil, err
	}

	res, err := s.api.Get(ctx, "/site/"+fqdn+"/event", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch events for %s: %w", fqdn, err)
	}

	events := tools.ExtractList(res)
	doc := siteEvents{
		Site:        fqdn,
		TotalEvents: len(events),
		Events:      []siteEvent{},
	}
	for i, ev := range events {
		if i == siteEventsLimit {
			break
		}
		meta := ev.Get("metadata").Value()
		if meta == nil {
			meta = map[string]any{}
		}
		doc.Events = append(doc.Events, siteEvent{
			Timestamp:   ev.Get("created_at").Value(),
			Type:        ev.Get("event_type").Value(),
			Status:      ev.Get("status").Value(),
			Description: ev.Get("description").Value(),
			Metadata:    meta,
		})
	}
	doc.Showing = len(doc.Events)

	return jsonResource(uri, doc)
}

type accountSummary struct {
	AccountOverview struct {
		TotalSites int `json:"total_sites"`
		TotalTeams int `json:"total_teams"`
	} `json:"account_overview"`
	SitesByStatus map[string]int `json:"sites_by_status"`
	SitesByRegion map[string]int `json:"sites_by_region"`
	RecentSites   []recentSite   `json:"recent_sites"`
}

type recentSite struct {
	Domain  any `json:"domain"`
	Status  any `json:"status"`
	Created any `json:"created"`
	Region  any `json:"region"`
}

func (s *Server) readAccountSummary(ctx context.Context, req mcp.ReadResourceRequest) (_ []mcp.ResourceContents, outErr error) {
	ctx, span := s.tracer.Start(ctx, "Server.ReadAccountSummary", trace.WithAttributes(
		attribute.String(tracing.ResourceURI, req.Params.URI),
	))
	defer tracing.EndSpanErr(span, &outErr)

	sitesRes, err := s.api.Get(ctx, "/site", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch sites: %w", err)
	}
	teamsRes, err := s.api.Get(ctx, "/team", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	sites := tools.ExtractList(sitesRes)
	teams := tools.ExtractList(teamsRes)

	summary := accountSummary{
		SitesByStatus: map[string]int{},
		SitesByRegion: map[string]int{},
		RecentSites:   []recentSite{},
	}
	summary.AccountOverview.TotalSites = len(sites)
	summary.AccountOverview.TotalTeams = len(teams)

	for _, site := range sites {
		summary.SitesByStatus[tools.FieldOr(site, "status", "unknown")]++
		summary.SitesByRegion[tools.FieldOr(site, "region_name", "unknown")]++
	}

	sort.SliceStable(sites, func(i, j int) bool {
		return sites[i].Get("created_at").String() > sites[j].Get("created_at").String()
	})
	for i, site := range sites {
		if i == 5 {
			break
		}
		summary.RecentSites = append(summary.RecentSites, recentSite{
			Domain:  site.Get("fqdn").Value(),
			Status:  site.Get("status").Value(),
			Created: site.Get("created_at").Value(),
			Region:  site.Get("region_name").Value(),
		})
	}

	return jsonResource(accountSummaryURI, summary)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
