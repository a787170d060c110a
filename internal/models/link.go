package models

import (
	"time"
)

type Link struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateLinkInput struct {
	URL  string `json:"url" binding:"required"`
	Slug string `json:"slug,omitempty"`
}

type LinkWithClicks struct {
	Link
	ClickCount int64 `json:"clickCount"`
}
