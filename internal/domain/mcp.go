package domain

import (
	"strings"
	"time"
)

// MCP is a Model Context Protocol server integration.
type MCP struct {
	ID               int64    `json:"id"`
	Slug             string   `json:"slug" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	ShortDescription string   `json:"shortDescription" validate:"required"`
	Provider         string   `json:"provider" validate:"required"`
	MCPURL           string   `json:"mcpUrl" validate:"required"`
	IconURL          string   `json:"iconUrl" validate:"required"`
	Platform         string   `json:"platform" validate:"required"`
	Category         string   `json:"category" validate:"required"`
	Integrations     []string `json:"integrations"`

	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	InstallsCount int64   `json:"installsCount" validate:"gte=0"`

	CreatedAt time.Time `json:"createdAt"`
}

func (m MCP) GetID() int64    { return m.ID }
func (m MCP) GetSlug() string { return m.Slug }

func (m MCP) Field(name string) any {
	switch name {
	case "id":
		return m.ID
	case "slug":
		return m.Slug
	case "name":
		return m.Name
	case "description":
		return m.Description
	case "provider":
		return m.Provider
	case "platform":
		return m.Platform
	case "category":
		return m.Category
	case "integrations":
		return m.Integrations
	case "rating":
		return m.Rating
	case "installs_count":
		return m.InstallsCount
	case "created_at":
		return m.CreatedAt
	}
	return nil
}

func (m MCP) Normalize() MCP {
	m.Name = strings.TrimSpace(m.Name)
	m.Slug = strings.TrimSpace(m.Slug)
	m.Description = strings.TrimSpace(m.Description)
	m.ShortDescription = strings.TrimSpace(m.ShortDescription)
	m.Provider = strings.TrimSpace(m.Provider)
	m.MCPURL = strings.TrimSpace(m.MCPURL)
	m.IconURL = strings.TrimSpace(m.IconURL)
	m.Platform = strings.TrimSpace(m.Platform)
	m.Category = strings.TrimSpace(m.Category)
	m.Integrations = cleanList(m.Integrations)
	return m
}

func (m MCP) Stamp(id int64, createdAt time.Time) MCP {
	m.ID = id
	m.CreatedAt = createdAt
	return m
}
