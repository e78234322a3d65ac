package domain

import (
	"errors"
	"time"
)

var (
	ErrProjectNotFound = errors.New("project not found")
)

// Category is the fixed set of gallery categories.
type Category string

const (
	CategoryBranding     Category = "branding"
	CategoryPoster       Category = "poster"
	CategorySocial       Category = "social"
	CategoryIllustration Category = "illustration"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBranding, CategoryPoster, CategorySocial, CategoryIllustration:
		return true
	}
	return false
}

// Status is the publication state of a project.
type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusArchived  Status = "archived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPublished, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// Project is a displayable creative work with engagement counters.
// Only published projects are listable by the gallery.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     Category  `json:"category"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image"`
	ThumbnailURL string    `json:"thumbnail,omitempty"`
	Likes        int64     `json:"likes"`
	Views        int64     `json:"views"`
	Featured     bool      `json:"featured"`
	Status       Status    `json:"status"`
	Tags         []string  `json:"tags"`
	Client       string    `json:"client,omitempty"`
	ProjectURL   string    `json:"projectUrl,omitempty"`
	CompletedAt  time.Time `json:"completedAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
