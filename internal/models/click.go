package models

import (
	"time"
)

type Click struct {
	ID        string    `json:"id"`
	LinkID    string    `json:"linkId"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Referer   string    `json:"referer"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClickMeta метаданные клиента, извлечённые из входящего запроса
type ClickMeta struct {
	IP        string
	UserAgent string
	Referer   string
}

type LinkStats struct {
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
	Total     int64     `json:"total"`
	Recent    []*Click  `json:"recent"`
}
