// Package models defines the domain types shared across services, repositories, and handlers.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Category is the fixed classification for articles and tickets.
type Category string

// Valid categories.
const (
	CategoryBilling   Category = "Billing"
	CategoryAccount   Category = "Account"
	CategoryTechnical Category = "Technical"
	CategoryProduct   Category = "Product"
	CategoryShipping  Category = "Shipping"
	CategoryOther     Category = "Other"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryBilling,
		CategoryAccount,
		CategoryTechnical,
		CategoryProduct,
		CategoryShipping,
		CategoryOther,
	}
}

// ParseCategory parses a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}

	return "", fmt.Errorf("unknown category: %q", s)
}

// Article is a knowledge-base article. Embedding is a unit-length vector of the
// provider's fixed dimension, or empty when no embedding is available (e.g. the
// embedding job has not run yet). It is computed once at creation and recomputed
// only when content changes.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	Tags      []string  `json:"tags"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasEmbedding reports whether the article has an embedding vector.
func (a *Article) HasEmbedding() bool {
	return len(a.Embedding) > 0
}

// CreateArticleRequest is the request to add a knowledge-base article.
// Category and tags are derived by the classifier when omitted.
type CreateArticleRequest struct {
	Title   string   `json:"title" validate:"required,min=3,max=500"`
	Content string   `json:"content" validate:"required,min=5"`
	Tags    []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=100"`
}

// RankedArticle is one entry of a ranking result: an article id with its relevance score.
type RankedArticle struct {
	ArticleID string  `json:"article_id"`
	Score     float64 `json:"score"`
}
