package models

import "time"

type TermsSection struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Position  int       `json:"order"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TermsSectionRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}
