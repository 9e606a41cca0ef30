package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/supportdesk/hub/internal/intent"
	"github.com/supportdesk/hub/internal/models"
	"github.com/supportdesk/hub/internal/observability"
)

// uniqueByPeriodEmbedding dedupes embedding jobs for the same article within this window.
const uniqueByPeriodEmbedding = 15 * time.Minute

// ArticlesRepository defines the interface for article data access.
type ArticlesRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context) ([]*models.Article, error)
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
	UpdateContent(ctx context.Context, id, content string) error
}

// KnowledgeService handles business logic for knowledge-base articles: category
// and tag derivation on create, and keeping embeddings in step with content.
type KnowledgeService struct {
	repo            ArticlesRepository
	classifier      intent.Classifier
	embeddingClient EmbeddingClient
	inserter        ArticleEmbeddingInserter
	queueName       string
	maxAttempts     int
	metrics         observability.EmbeddingMetrics
}

// KnowledgeServiceParams configures KnowledgeService. Inserter may be nil; embeddings
// are then computed inline on the request path (local provider). Metrics may be nil.
type KnowledgeServiceParams struct {
	Repo            ArticlesRepository
	Classifier      intent.Classifier
	EmbeddingClient EmbeddingClient
	Inserter        ArticleEmbeddingInserter
	QueueName       string
	MaxAttempts     int
	Metrics         observability.EmbeddingMetrics
}

// NewKnowledgeService creates a new knowledge service.
func NewKnowledgeService(p KnowledgeServiceParams) *KnowledgeService {
	queueName := p.QueueName
	if queueName == "" {
		queueName = EmbeddingsQueueName
	}

	return &KnowledgeService{
		repo:            p.Repo,
		classifier:      p.Classifier,
		embeddingClient: p.EmbeddingClient,
		inserter:        p.Inserter,
		queueName:       queueName,
		maxAttempts:     p.MaxAttempts,
		metrics:         p.Metrics,
	}
}

// CreateArticle classifies, embeds, and stores a new article. Classification
// failures degrade to the Other category; embedding failures leave the article
// without an embedding so ranking falls back to lexical scoring.
func (s *KnowledgeService) CreateArticle(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error) {
	text := req.Title + " " + req.Content

	category, err := s.classifier.Classify(ctx, text)
	if err != nil {
		slog.Warn("knowledge: classify failed, using Other", "title", req.Title, "error", err)

		category = models.CategoryOther
	}

	tags := req.Tags
	if len(tags) == 0 {
		tags, err = s.classifier.Tags(ctx, text)
		if err != nil {
			slog.Warn("knowledge: tag derivation failed", "title", req.Title, "error", err)

			tags = nil
		}
	}

	now := time.Now().UTC()
	article := &models.Article{
		ID:        "art_" + uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		Category:  category,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if s.inserter == nil {
		embedding, embErr := s.embeddingClient.CreateEmbedding(ctx, text)
		if embErr != nil {
			slog.Warn("knowledge: embedding failed, storing without", "title", req.Title, "error", embErr)
		} else {
			article.Embedding = embedding
		}
	}

	if err := s.repo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	if s.inserter != nil {
		s.enqueueEmbedding(ctx, article.ID)
	}

	return article, nil
}

// GetArticle retrieves a single article by ID.
func (s *KnowledgeService) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	return s.repo.GetByID(ctx, id)
}

// ListArticles retrieves all articles in creation order.
func (s *KnowledgeService) ListArticles(ctx context.Context) ([]*models.Article, error) {
	return s.repo.List(ctx)
}

// UpdateArticleContent replaces an article's content. The stored embedding is
// cleared immediately and recomputed, so a stale vector is never scored against
// the new text.
func (s *KnowledgeService) UpdateArticleContent(ctx context.Context, id, content string) (*models.Article, error) {
	if err := s.repo.UpdateContent(ctx, id, content); err != nil {
		return nil, fmt.Errorf("update article content: %w", err)
	}

	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.inserter != nil {
		s.enqueueEmbedding(ctx, id)

		return article, nil
	}

	embedding, embErr := s.embeddingClient.CreateEmbedding(ctx, article.Title+" "+article.Content)
	if embErr != nil {
		slog.Warn("knowledge: re-embedding failed", "article_id", id, "error", embErr)

		return article, nil
	}

	if err := s.repo.UpdateEmbedding(ctx, id, embedding); err != nil {
		slog.Error("knowledge: store embedding failed", "article_id", id, "error", err)

		return article, nil
	}

	article.Embedding = embedding

	return article, nil
}

func (s *KnowledgeService) enqueueEmbedding(ctx context.Context, articleID string) {
	opts := &river.InsertOpts{
		Queue:       s.queueName,
		MaxAttempts: s.maxAttempts,
		UniqueOpts:  river.UniqueOpts{ByArgs: true, ByPeriod: uniqueByPeriodEmbedding},
	}

	_, err := s.inserter.Insert(ctx, ArticleEmbeddingArgs{ArticleID: articleID}, opts)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordProviderError(ctx, "enqueue_failed")
		}

		slog.Error("knowledge: embedding enqueue failed", "article_id", articleID, "error", err)

		return
	}

	slog.Info("knowledge: embedding job enqueued", "article_id", articleID)

	if s.metrics != nil {
		s.metrics.RecordJobsEnqueued(ctx, 1)
	}
}
