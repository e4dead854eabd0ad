package domain

import (
	"strings"
	"time"
)

// Repo is a source repository hosted on GitHub.
type Repo struct {
	ID               int64    `json:"id"`
	Slug             string   `json:"slug" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	ShortDescription string   `json:"shortDescription" validate:"required"`
	Author           string   `json:"author" validate:"required"`
	GithubURL        string   `json:"githubUrl" validate:"required"`
	Language         string   `json:"language" validate:"required"`
	Topics           []string `json:"topics"`

	Stars int64 `json:"stars" validate:"gte=0"`
	Forks int64 `json:"forks" validate:"gte=0"`

	IsArchived  bool      `json:"isArchived"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r Repo) GetID() int64    { return r.ID }
func (r Repo) GetSlug() string { return r.Slug }

func (r Repo) Field(name string) any {
	switch name {
	case "id":
		return r.ID
	case "slug":
		return r.Slug
	case "name":
		return r.Name
	case "description":
		return r.Description
	case "author":
		return r.Author
	case "language":
		return r.Language
	case "topics":
		return r.Topics
	case "stars":
		return r.Stars
	case "forks":
		return r.Forks
	case "is_archived":
		return r.IsArchived
	case "last_updated":
		return r.LastUpdated
	case "created_at":
		return r.CreatedAt
	}
	return nil
}

func (r Repo) Normalize() Repo {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
	r.Description = strings.TrimSpace(r.Description)
	r.ShortDescription = strings.TrimSpace(r.ShortDescription)
	r.Author = strings.TrimSpace(r.Author)
	r.GithubURL = strings.TrimSpace(r.GithubURL)
	r.Language = strings.TrimSpace(r.Language)
	r.Topics = cleanList(r.Topics)
	return r
}

// Stamp also backfills LastUpdated so fresh repos sort sensibly by "updated".
func (r Repo) Stamp(id int64, createdAt time.Time) Repo {
	r.ID = id
	r.CreatedAt = createdAt
	if r.LastUpdated.IsZero() {
		r.LastUpdated = createdAt
	}
	return r
}
