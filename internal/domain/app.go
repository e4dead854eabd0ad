package domain

import (
	"strings"
	"time"
)

const (
	DefaultAppRating    = 4.5
	DefaultPrice        = "Free"
	DefaultPricingModel = "Free"
)

// App is a desktop or mobile application listed in the directory.
type App struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	ID   int64  `json:"id"`
	Slug string `json:"slug" validate:"required"`

	// ─────────────────────────────
	// Listing
	// ─────────────────────────────

	Name             string `json:"name" validate:"required"`
	Description      string `json:"description" validate:"required"`
	ShortDescription string `json:"shortDescription" validate:"required"`
	Developer        string `json:"developer" validate:"required"`
	IconURL          string `json:"iconUrl" validate:"required"`
	DownloadURL      string `json:"downloadUrl" validate:"required"`
	Platform         string `json:"platform" validate:"required"`
	Category         string `json:"category" validate:"required"`

	// ─────────────────────────────
	// Pricing
	// ─────────────────────────────

	Price        string `json:"price"`
	IsPaid       bool   `json:"isPaid"`
	PricingModel string `json:"pricingModel"`

	// ─────────────────────────────
	// Media & labels
	// ─────────────────────────────

	Screenshots []string `json:"screenshots"`
	Tags        []string `json:"tags"`

	// ─────────────────────────────
	// Popularity
	// ─────────────────────────────

	Rating       float64 `json:"rating" validate:"gte=0,lte=5"`
	ReviewsCount int64   `json:"reviewsCount" validate:"gte=0"`

	CreatedAt time.Time `json:"createdAt"`
}

func (a App) GetID() int64    { return a.ID }
func (a App) GetSlug() string { return a.Slug }

func (a App) Field(name string) any {
	switch name {
	case "id":
		return a.ID
	case "slug":
		return a.Slug
	case "name":
		return a.Name
	case "description":
		return a.Description
	case "developer":
		return a.Developer
	case "platform":
		return a.Platform
	case "category":
		return a.Category
	case "is_paid":
		return a.IsPaid
	case "tags":
		return a.Tags
	case "rating":
		return a.Rating
	case "reviews_count":
		return a.ReviewsCount
	case "created_at":
		return a.CreatedAt
	}
	return nil
}

func (a App) Normalize() App {
	a.Name = strings.TrimSpace(a.Name)
	a.Slug = strings.TrimSpace(a.Slug)
	a.Description = strings.TrimSpace(a.Description)
	a.ShortDescription = strings.TrimSpace(a.ShortDescription)
	a.Developer = strings.TrimSpace(a.Developer)
	a.IconURL = strings.TrimSpace(a.IconURL)
	a.DownloadURL = strings.TrimSpace(a.DownloadURL)
	a.Platform = strings.TrimSpace(a.Platform)
	a.Category = strings.TrimSpace(a.Category)
	a.Price = orDefault(a.Price, DefaultPrice)
	a.PricingModel = orDefault(a.PricingModel, DefaultPricingModel)
	a.Screenshots = cleanList(a.Screenshots)
	a.Tags = cleanList(a.Tags)
	if a.Rating == 0 {
		a.Rating = DefaultAppRating
	}
	return a
}

func (a App) Stamp(id int64, createdAt time.Time) App {
	a.ID = id
	a.CreatedAt = createdAt
	return a
}
