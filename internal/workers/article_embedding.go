// Package workers provides River job workers (article embedding).
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riverqueue/river"

	"github.com/supportdesk/hub/internal/models"
	"github.com/supportdesk/hub/internal/observability"
	"github.com/supportdesk/hub/internal/service"
)

// ArticleEmbeddingWorker generates and stores embeddings for articles.
type ArticleEmbeddingWorker struct {
	river.WorkerDefaults[service.ArticleEmbeddingArgs]

	articles        articleEmbeddingStore
	embeddingClient service.EmbeddingClient
	metrics         observability.EmbeddingMetrics
}

// articleEmbeddingStore is the minimal article access needed by the worker.
type articleEmbeddingStore interface {
	GetByID(ctx context.Context, id string) (*models.Article, error)
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
}

// NewArticleEmbeddingWorker creates a worker that fetches the article, calls the
// embedding provider, and stores the vector. metrics may be nil when metrics are disabled.
func NewArticleEmbeddingWorker(
	articles articleEmbeddingStore,
	embeddingClient service.EmbeddingClient,
	metrics observability.EmbeddingMetrics,
) *ArticleEmbeddingWorker {
	return &ArticleEmbeddingWorker{
		articles:        articles,
		embeddingClient: embeddingClient,
		metrics:         metrics,
	}
}

const articleEmbeddingTimeout = 30 * time.Second

// Timeout limits how long a single embedding job can run.
func (w *ArticleEmbeddingWorker) Timeout(*river.Job[service.ArticleEmbeddingArgs]) time.Duration {
	return articleEmbeddingTimeout
}

// Work loads the article, generates the embedding from title and content, and
// persists it. Articles with no embeddable text get their vector cleared.
func (w *ArticleEmbeddingWorker) Work(ctx context.Context, job *river.Job[service.ArticleEmbeddingArgs]) error {
	args := job.Args
	start := time.Now()

	article, err := w.articles.GetByID(ctx, args.ArticleID)
	if err != nil {
		w.recordOutcome(ctx, "get_article_failed", "failed", start)

		slog.Error("embedding: get article failed", "article_id", args.ArticleID, "error", err)

		return nil // no retry when the article is gone
	}

	text := strings.TrimSpace(article.Title + " " + article.Content)
	if text == "" {
		if err := w.articles.UpdateEmbedding(ctx, args.ArticleID, nil); err != nil {
			w.recordOutcome(ctx, "update_failed", "failed", start)

			slog.Error("embedding: clear failed", "article_id", args.ArticleID, "error", err)

			return fmt.Errorf("clear article embedding: %w", err)
		}

		if w.metrics != nil {
			w.metrics.RecordEmbeddingOutcome(ctx, "cleared")
			w.metrics.RecordEmbeddingDuration(ctx, time.Since(start), "cleared")
		}

		slog.Info("embedding: cleared (no text)", "article_id", args.ArticleID)

		return nil
	}

	embedding, err := w.embeddingClient.CreateEmbedding(ctx, text)
	if err != nil {
		isLastAttempt := job.Attempt >= job.MaxAttempts

		if w.metrics != nil {
			w.metrics.RecordWorkerError(ctx, "provider_failed")

			if isLastAttempt {
				w.metrics.RecordEmbeddingOutcome(ctx, "failed")
				w.metrics.RecordEmbeddingDuration(ctx, time.Since(start), "failed")
			} else {
				w.metrics.RecordEmbeddingOutcome(ctx, "retry")
				w.metrics.RecordEmbeddingDuration(ctx, time.Since(start), "retry")
			}
		}

		if isLastAttempt {
			slog.Error("embedding: provider failed (final attempt)", "article_id", args.ArticleID, "error", err)

			return nil
		}

		return fmt.Errorf("create embedding: %w", err)
	}

	if err := w.articles.UpdateEmbedding(ctx, args.ArticleID, embedding); err != nil {
		w.recordOutcome(ctx, "update_failed", "failed", start)

		slog.Error("embedding: store failed", "article_id", args.ArticleID, "error", err)

		return fmt.Errorf("update article embedding: %w", err)
	}

	slog.Info("embedding: stored", "article_id", args.ArticleID)

	if w.metrics != nil {
		w.metrics.RecordEmbeddingOutcome(ctx, "computed")
		w.metrics.RecordEmbeddingDuration(ctx, time.Since(start), "computed")
	}

	return nil
}

func (w *ArticleEmbeddingWorker) recordOutcome(ctx context.Context, reason, status string, start time.Time) {
	if w.metrics == nil {
		return
	}

	w.metrics.RecordWorkerError(ctx, reason)
	w.metrics.RecordEmbeddingOutcome(ctx, status)
	w.metrics.RecordEmbeddingDuration(ctx, time.Since(start), status)
}
