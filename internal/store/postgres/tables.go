package postgres

import "github.com/MrSnakeDoc/shelf/internal/domain"

var appsTable = table[domain.App]{
	name: "apps",
	columns: []string{
		"name", "slug", "description", "short_description", "developer",
		"icon_url", "download_url", "platform", "category",
		"price", "is_paid", "pricing_model", "screenshots", "tags",
		"rating", "reviews_count",
	},
	scan: scanApp,
	values: func(a domain.App) []any {
		return []any{
			a.Name, a.Slug, a.Description, a.ShortDescription, a.Developer,
			a.IconURL, a.DownloadURL, a.Platform, a.Category,
			a.Price, a.IsPaid, a.PricingModel, stringList(a.Screenshots), stringList(a.Tags),
			a.Rating, a.ReviewsCount,
		}
	},
}

func scanApp(s scanner) (domain.App, error) {
	var a domain.App
	var screenshots, tags stringList
	err := s.Scan(
		&a.ID, &a.Name, &a.Slug, &a.Description, &a.ShortDescription, &a.Developer,
		&a.IconURL, &a.DownloadURL, &a.Platform, &a.Category,
		&a.Price, &a.IsPaid, &a.PricingModel, &screenshots, &tags,
		&a.Rating, &a.ReviewsCount, &a.CreatedAt,
	)
	a.Screenshots, a.Tags = screenshots, tags
	return a, err
}

var workflowsTable = table[domain.Workflow]{
	name: "workflows",
	columns: []string{
		"name", "slug", "description", "short_description", "author",
		"thumbnail_url", "workflow_url", "category", "tags", "difficulty",
		"use_cases", "rating", "downloads_count",
	},
	scan: scanWorkflow,
	values: func(w domain.Workflow) []any {
		return []any{
			w.Name, w.Slug, w.Description, w.ShortDescription, w.Author,
			w.ThumbnailURL, w.WorkflowURL, w.Category, stringList(w.Tags), w.Difficulty,
			stringList(w.UseCases), w.Rating, w.DownloadsCount,
		}
	},
}

func scanWorkflow(s scanner) (domain.Workflow, error) {
	var w domain.Workflow
	var tags, useCases stringList
	err := s.Scan(
		&w.ID, &w.Name, &w.Slug, &w.Description, &w.ShortDescription, &w.Author,
		&w.ThumbnailURL, &w.WorkflowURL, &w.Category, &tags, &w.Difficulty,
		&useCases, &w.Rating, &w.DownloadsCount, &w.CreatedAt,
	)
	w.Tags, w.UseCases = tags, useCases
	return w, err
}

var reposTable = table[domain.Repo]{
	name: "repos",
	columns: []string{
		"name", "slug", "description", "short_description", "author",
		"github_url", "language", "topics", "stars", "forks",
		"is_archived", "last_updated",
	},
	scan: scanRepo,
	values: func(r domain.Repo) []any {
		return []any{
			r.Name, r.Slug, r.Description, r.ShortDescription, r.Author,
			r.GithubURL, r.Language, stringList(r.Topics), r.Stars, r.Forks,
			r.IsArchived, r.LastUpdated,
		}
	},
}

func scanRepo(s scanner) (domain.Repo, error) {
	var r domain.Repo
	var topics stringList
	err := s.Scan(
		&r.ID, &r.Name, &r.Slug, &r.Description, &r.ShortDescription, &r.Author,
		&r.GithubURL, &r.Language, &topics, &r.Stars, &r.Forks,
		&r.IsArchived, &r.LastUpdated, &r.CreatedAt,
	)
	r.Topics = topics
	return r, err
}

var mcpsTable = table[domain.MCP]{
	name: "mcps",
	columns: []string{
		"name", "slug", "description", "short_description", "provider",
		"mcp_url", "icon_url", "platform", "category", "integrations",
		"rating", "installs_count",
	},
	scan: scanMCP,
	values: func(m domain.MCP) []any {
		return []any{
			m.Name, m.Slug, m.Description, m.ShortDescription, m.Provider,
			m.MCPURL, m.IconURL, m.Platform, m.Category, stringList(m.Integrations),
			m.Rating, m.InstallsCount,
		}
	},
}

func scanMCP(s scanner) (domain.MCP, error) {
	var m domain.MCP
	var integrations stringList
	err := s.Scan(
		&m.ID, &m.Name, &m.Slug, &m.Description, &m.ShortDescription, &m.Provider,
		&m.MCPURL, &m.IconURL, &m.Platform, &m.Category, &integrations,
		&m.Rating, &m.InstallsCount, &m.CreatedAt,
	)
	m.Integrations = integrations
	return m, err
}
