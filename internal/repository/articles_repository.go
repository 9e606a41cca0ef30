// Package repository handles data access for articles, tickets, feedback,
// impression logs, gap reports, and alerts.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/supportdesk/hub/internal/apperrors"
	"github.com/supportdesk/hub/internal/models"
)

// ArticlesRepository handles data access for knowledge-base articles.
type ArticlesRepository struct {
	db *pgxpool.Pool
}

// NewArticlesRepository creates a new articles repository.
func NewArticlesRepository(db *pgxpool.Pool) *ArticlesRepository {
	return &ArticlesRepository{db: db}
}

// embeddingParam converts an embedding slice to the vector column value.
// Empty embeddings are stored as NULL ("no embedding available").
func embeddingParam(embedding []float32) any {
	if len(embedding) == 0 {
		return nil
	}

	return pgvector.NewVector(embedding)
}

// Create inserts a new article.
func (r *ArticlesRepository) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (id, title, content, category, tags, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`

	_, err := r.db.Exec(ctx, query,
		article.ID, article.Title, article.Content, string(article.Category),
		article.Tags, embeddingParam(article.Embedding), article.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}

	return nil
}

// GetByID retrieves a single article by id.
func (r *ArticlesRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `
		SELECT id, title, content, category, tags, embedding, created_at, updated_at
		FROM articles
		WHERE id = $1
	`

	article, err := scanArticle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("article", "article not found")
		}

		return nil, fmt.Errorf("get article: %w", err)
	}

	return article, nil
}

// List retrieves all articles in insertion order. The knowledge base is bounded
// (hundreds to low thousands), so callers scan it linearly.
func (r *ArticlesRepository) List(ctx context.Context) ([]*models.Article, error) {
	query := `
		SELECT id, title, content, category, tags, embedding, created_at, updated_at
		FROM articles
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []*models.Article

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}

		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, nil
}

// UpdateEmbedding stores a freshly computed embedding for an article.
func (r *ArticlesRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	query := `
		UPDATE articles
		SET embedding = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, embeddingParam(embedding))
	if err != nil {
		return fmt.Errorf("update article embedding: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("article", "article not found")
	}

	return nil
}

// UpdateContent replaces an article's content and clears the embedding so it can
// be recomputed (content changed, stored vector is stale).
func (r *ArticlesRepository) UpdateContent(ctx context.Context, id, content string) error {
	query := `
		UPDATE articles
		SET content = $2, embedding = NULL, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, content)
	if err != nil {
		return fmt.Errorf("update article content: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("article", "article not found")
	}

	return nil
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	var (
		article  models.Article
		category string
		vec      *pgvector.Vector
	)

	err := row.Scan(
		&article.ID, &article.Title, &article.Content, &category,
		&article.Tags, &vec, &article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	article.Category = models.Category(category)
	if vec != nil {
		article.Embedding = vec.Slice()
	}

	return &article, nil
}
