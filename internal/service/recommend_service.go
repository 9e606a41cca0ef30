package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/supportdesk/hub/internal/models"
	"github.com/supportdesk/hub/internal/observability"
	"github.com/supportdesk/hub/internal/recommender"
)

const queryEmbeddingCacheName = "query_embedding"

// predictTopK and predictSnippetLen are the fixed shape of predict results.
const (
	predictTopK       = 3
	predictSnippetLen = 200
)

// ErrEmptyQuery is returned when the query is empty after trimming.
var ErrEmptyQuery = errors.New("query is required and must be non-empty")

// ImpressionsAppender is the append-only impression log. Append is the only
// mutation; counts are derived elsewhere.
type ImpressionsAppender interface {
	Append(ctx context.Context, record models.ImpressionRecord) error
}

// Prediction is one predict result: a ranked article with display fields.
type Prediction struct {
	ArticleID string  `json:"article_id"`
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet"`
	Score     float64 `json:"score"`
}

// RecommendService ranks knowledge-base articles against a query. Every ranking
// invocation appends one impression record, which feeds gap analysis.
type RecommendService struct {
	articles        ArticlesRepository
	impressions     ImpressionsAppender
	embeddingClient EmbeddingClient
	queryCache      *lru.Cache[string, []float32]
	queryLoadGroup  singleflight.Group
	cacheMetrics    observability.CacheMetrics
	hubMetrics      observability.HubMetrics
	logger          *slog.Logger
}

// RecommendServiceParams configures RecommendService. QueryCache, CacheMetrics,
// and HubMetrics may be nil (no caching / metrics disabled).
type RecommendServiceParams struct {
	Articles        ArticlesRepository
	Impressions     ImpressionsAppender
	EmbeddingClient EmbeddingClient
	QueryCache      *lru.Cache[string, []float32]
	CacheMetrics    observability.CacheMetrics
	HubMetrics      observability.HubMetrics
	Logger          *slog.Logger
}

// NewRecommendService creates a RecommendService.
func NewRecommendService(p RecommendServiceParams) *RecommendService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RecommendService{
		articles:        p.Articles,
		impressions:     p.Impressions,
		embeddingClient: p.EmbeddingClient,
		queryCache:      p.QueryCache,
		cacheMetrics:    p.CacheMetrics,
		hubMetrics:      p.HubMetrics,
		logger:          logger,
	}
}

// Recommend ranks articles for the query and logs one impression. category
// narrows candidates (case-insensitive substring); empty category means no
// filter. ticketID, when set, ties the impression to a ticket. source labels
// the invocation for metrics.
func (s *RecommendService) Recommend(
	ctx context.Context, query, category string, topK int, ticketID *string, source string,
) ([]models.RankedArticle, error) {
	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	embedding := s.queryEmbedding(ctx, query)

	articles, err := s.articles.List(ctx)
	if err != nil {
		s.logger.Error("recommend: list articles failed", "error", err)

		return nil, fmt.Errorf("list articles: %w", err)
	}

	q := recommender.NewQuery(query, embedding)
	ranked := recommender.Rank(q, articles, topK, category)

	s.logImpression(ctx, query, ticketID, ranked)

	if s.hubMetrics != nil {
		s.hubMetrics.RecordRecommendation(ctx, source, time.Since(start))
	}

	return ranked, nil
}

// Predict returns the top-3 unfiltered recommendations with titles and
// 200-character content snippets.
func (s *RecommendService) Predict(ctx context.Context, query string) ([]Prediction, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	embedding := s.queryEmbedding(ctx, query)

	articles, err := s.articles.List(ctx)
	if err != nil {
		s.logger.Error("predict: list articles failed", "error", err)

		return nil, fmt.Errorf("list articles: %w", err)
	}

	q := recommender.NewQuery(query, embedding)
	ranked := recommender.Rank(q, articles, predictTopK, "")

	byID := make(map[string]*models.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}

	predictions := make([]Prediction, 0, len(ranked))

	for _, r := range ranked {
		article, ok := byID[r.ArticleID]
		if !ok {
			continue
		}

		predictions = append(predictions, Prediction{
			ArticleID: article.ID,
			Title:     article.Title,
			Snippet:   snippet(article.Content, predictSnippetLen),
			Score:     r.Score,
		})
	}

	s.logImpression(ctx, query, nil, ranked)

	if s.hubMetrics != nil {
		s.hubMetrics.RecordRecommendation(ctx, "predict", 0)
	}

	return predictions, nil
}

// queryEmbedding returns the query embedding, via the LRU cache when configured.
// Embedding failures are not fatal: ranking degrades to lexical-only scoring.
func (s *RecommendService) queryEmbedding(ctx context.Context, query string) []float32 {
	var (
		embedding []float32
		err       error
	)

	if s.queryCache != nil {
		embedding, err = s.getQueryEmbeddingCached(ctx, query)
	} else {
		embedding, err = s.embeddingClient.CreateEmbedding(ctx, query)
	}

	if err != nil {
		s.logger.Warn("recommend: query embedding failed, falling back to lexical scoring", "error", err)

		return nil
	}

	return embedding
}

func (s *RecommendService) getQueryEmbeddingCached(ctx context.Context, query string) ([]float32, error) {
	if vec, ok := s.queryCache.Get(query); ok {
		if s.cacheMetrics != nil {
			s.cacheMetrics.RecordHit(ctx, queryEmbeddingCacheName)
		}

		return vec, nil
	}

	val, err, _ := s.queryLoadGroup.Do(query, func() (any, error) {
		vec, loadErr := s.embeddingClient.CreateEmbedding(ctx, query)
		if loadErr != nil {
			return nil, fmt.Errorf("create embedding: %w", loadErr)
		}

		s.queryCache.Add(query, vec)

		return vec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	if s.cacheMetrics != nil {
		s.cacheMetrics.RecordMiss(ctx, queryEmbeddingCacheName)
	}

	return val.([]float32), nil
}

// logImpression appends one record to the impression log. Failures are logged
// and swallowed: a ranking result is never withheld over bookkeeping.
func (s *RecommendService) logImpression(ctx context.Context, query string, ticketID *string, ranked []models.RankedArticle) {
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ArticleID
	}

	record := models.ImpressionRecord{
		Timestamp:      time.Now().UTC(),
		TicketID:       ticketID,
		Description:    query,
		RecommendedIDs: ids,
	}

	if err := s.impressions.Append(ctx, record); err != nil {
		s.logger.Error("recommend: append impression failed", "error", err)
	}
}

// snippet cuts content to at most maxLen characters, never splitting a rune,
// and marks the preview with a trailing ellipsis.
func snippet(content string, maxLen int) string {
	runes := []rune(content)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	return string(runes) + "..."
}
