package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

func mapAll[S, T any](seeds []S, fn func(S) (T, error)) ([]T, error) {
	out := make([]T, 0, len(seeds))
	for i, s := range seeds {
		item, err := fn(s)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// parseTime accepts RFC 3339 timestamps and plain dates. Empty means unset.
func parseTime(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", field, raw)
}

func mapApp(s AppSeed) (domain.App, error) {
	createdAt, err := parseTime("created_at", s.CreatedAt)
	if err != nil {
		return domain.App{}, err
	}
	return domain.App{
		Name:             s.Name,
		Slug:             s.Slug,
		Description:      s.Description,
		ShortDescription: s.ShortDescription,
		Developer:        s.Developer,
		IconURL:          s.IconURL,
		DownloadURL:      s.DownloadURL,
		Platform:         s.Platform,
		Category:         s.Category,
		Price:            s.Price,
		IsPaid:           s.IsPaid,
		PricingModel:     s.PricingModel,
		Screenshots:      s.Screenshots,
		Tags:             s.Tags,
		Rating:           s.Rating,
		ReviewsCount:     s.ReviewsCount,
		CreatedAt:        createdAt,
	}, nil
}

func mapWorkflow(s WorkflowSeed) (domain.Workflow, error) {
	createdAt, err := parseTime("created_at", s.CreatedAt)
	if err != nil {
		return domain.Workflow{}, err
	}
	return domain.Workflow{
		Name:             s.Name,
		Slug:             s.Slug,
		Description:      s.Description,
		ShortDescription: s.ShortDescription,
		Author:           s.Author,
		ThumbnailURL:     s.ThumbnailURL,
		WorkflowURL:      s.WorkflowURL,
		Category:         s.Category,
		Tags:             s.Tags,
		Difficulty:       s.Difficulty,
		UseCases:         s.UseCases,
		Rating:           s.Rating,
		DownloadsCount:   s.DownloadsCount,
		CreatedAt:        createdAt,
	}, nil
}

func mapRepo(s RepoSeed) (domain.Repo, error) {
	createdAt, err := parseTime("created_at", s.CreatedAt)
	if err != nil {
		return domain.Repo{}, err
	}
	lastUpdated, err := parseTime("last_updated", s.LastUpdated)
	if err != nil {
		return domain.Repo{}, err
	}
	return domain.Repo{
		Name:             s.Name,
		Slug:             s.Slug,
		Description:      s.Description,
		ShortDescription: s.ShortDescription,
		Author:           s.Author,
		GithubURL:        s.GithubURL,
		Language:         s.Language,
		Topics:           s.Topics,
		Stars:            s.Stars,
		Forks:            s.Forks,
		IsArchived:       s.IsArchived,
		LastUpdated:      lastUpdated,
		CreatedAt:        createdAt,
	}, nil
}

func mapMCP(s MCPSeed) (domain.MCP, error) {
	createdAt, err := parseTime("created_at", s.CreatedAt)
	if err != nil {
		return domain.MCP{}, err
	}
	return domain.MCP{
		Name:             s.Name,
		Slug:             s.Slug,
		Description:      s.Description,
		ShortDescription: s.ShortDescription,
		Provider:         s.Provider,
		MCPURL:           s.MCPURL,
		IconURL:          s.IconURL,
		Platform:         s.Platform,
		Category:         s.Category,
		Integrations:     s.Integrations,
		Rating:           s.Rating,
		InstallsCount:    s.InstallsCount,
		CreatedAt:        createdAt,
	}, nil
}
