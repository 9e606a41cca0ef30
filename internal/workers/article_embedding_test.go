package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/hub/internal/embeddings"
	"github.com/supportdesk/hub/internal/models"
	"github.com/supportdesk/hub/internal/service"
)

type stubArticleStore struct {
	article   *models.Article
	getErr    error
	updateErr error

	updatedID  string
	updatedVec []float32
	updated    bool
}

func (s *stubArticleStore) GetByID(_ context.Context, _ string) (*models.Article, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}

	return s.article, nil
}

func (s *stubArticleStore) UpdateEmbedding(_ context.Context, id string, embedding []float32) error {
	if s.updateErr != nil {
		return s.updateErr
	}

	s.updated = true
	s.updatedID = id
	s.updatedVec = embedding

	return nil
}

type failingEmbeddingClient struct{}

func (failingEmbeddingClient) CreateEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("provider down")
}

func embeddingJob(attempt, maxAttempts int) *river.Job[service.ArticleEmbeddingArgs] {
	return &river.Job[service.ArticleEmbeddingArgs]{
		JobRow: &rivertype.JobRow{Attempt: attempt, MaxAttempts: maxAttempts},
		Args:   service.ArticleEmbeddingArgs{ArticleID: "art_1"},
	}
}

func TestArticleEmbeddingWorker_Work_StoresEmbedding(t *testing.T) {
	store := &stubArticleStore{article: &models.Article{
		ID:      "art_1",
		Title:   "Tracking your order",
		Content: "How to track a delayed package.",
	}}
	worker := NewArticleEmbeddingWorker(store, embeddings.NewLocalClient(), nil)

	err := worker.Work(context.Background(), embeddingJob(1, 3))
	require.NoError(t, err)

	assert.True(t, store.updated)
	assert.Equal(t, "art_1", store.updatedID)
	assert.Len(t, store.updatedVec, embeddings.Dimension)
}

func TestArticleEmbeddingWorker_Work_ClearsWhenNoText(t *testing.T) {
	store := &stubArticleStore{article: &models.Article{ID: "art_1"}}
	worker := NewArticleEmbeddingWorker(store, embeddings.NewLocalClient(), nil)

	err := worker.Work(context.Background(), embeddingJob(1, 3))
	require.NoError(t, err)

	assert.True(t, store.updated)
	assert.Nil(t, store.updatedVec)
}

func TestArticleEmbeddingWorker_Work_MissingArticleDoesNotRetry(t *testing.T) {
	store := &stubArticleStore{getErr: errors.New("not found")}
	worker := NewArticleEmbeddingWorker(store, embeddings.NewLocalClient(), nil)

	err := worker.Work(context.Background(), embeddingJob(1, 3))
	assert.NoError(t, err)
}

func TestArticleEmbeddingWorker_Work_ProviderFailureRetriesUntilLastAttempt(t *testing.T) {
	store := &stubArticleStore{article: &models.Article{
		ID:      "art_1",
		Title:   "Tracking your order",
		Content: "How to track a delayed package.",
	}}
	worker := NewArticleEmbeddingWorker(store, failingEmbeddingClient{}, nil)

	err := worker.Work(context.Background(), embeddingJob(1, 3))
	assert.Error(t, err, "non-final attempt should be retried")

	err = worker.Work(context.Background(), embeddingJob(3, 3))
	assert.NoError(t, err, "final attempt should not be retried")
}
