package domain

import (
	"strings"
	"time"
)

// Workflow is an automation recipe (n8n, Zapier, ...) users can import.
type Workflow struct {
	ID               int64    `json:"id"`
	Slug             string   `json:"slug" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	ShortDescription string   `json:"shortDescription" validate:"required"`
	Author           string   `json:"author" validate:"required"`
	ThumbnailURL     string   `json:"thumbnailUrl" validate:"required"`
	WorkflowURL      string   `json:"workflowUrl" validate:"required"`
	Category         string   `json:"category" validate:"required"`
	Tags             []string `json:"tags"`
	Difficulty       string   `json:"difficulty" validate:"required"`
	UseCases         []string `json:"useCases"`

	Rating         float64 `json:"rating" validate:"gte=0,lte=5"`
	DownloadsCount int64   `json:"downloadsCount" validate:"gte=0"`

	CreatedAt time.Time `json:"createdAt"`
}

func (w Workflow) GetID() int64    { return w.ID }
func (w Workflow) GetSlug() string { return w.Slug }

func (w Workflow) Field(name string) any {
	switch name {
	case "id":
		return w.ID
	case "slug":
		return w.Slug
	case "name":
		return w.Name
	case "description":
		return w.Description
	case "author":
		return w.Author
	case "category":
		return w.Category
	case "difficulty":
		return w.Difficulty
	case "tags":
		return w.Tags
	case "rating":
		return w.Rating
	case "downloads_count":
		return w.DownloadsCount
	case "created_at":
		return w.CreatedAt
	}
	return nil
}

func (w Workflow) Normalize() Workflow {
	w.Name = strings.TrimSpace(w.Name)
	w.Slug = strings.TrimSpace(w.Slug)
	w.Description = strings.TrimSpace(w.Description)
	w.ShortDescription = strings.TrimSpace(w.ShortDescription)
	w.Author = strings.TrimSpace(w.Author)
	w.ThumbnailURL = strings.TrimSpace(w.ThumbnailURL)
	w.WorkflowURL = strings.TrimSpace(w.WorkflowURL)
	w.Category = strings.TrimSpace(w.Category)
	w.Difficulty = strings.TrimSpace(w.Difficulty)
	w.Tags = cleanList(w.Tags)
	w.UseCases = cleanList(w.UseCases)
	return w
}

func (w Workflow) Stamp(id int64, createdAt time.Time) Workflow {
	w.ID = id
	w.CreatedAt = createdAt
	return w
}
