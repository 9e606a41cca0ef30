package service

import (
	"context"
	"testing"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supportdesk/hub/internal/embeddings"
	"github.com/supportdesk/hub/internal/intent"
	"github.com/supportdesk/hub/internal/models"
)

type capturingInserter struct {
	args []river.JobArgs
	opts []*river.InsertOpts
}

func (c *capturingInserter) Insert(_ context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	c.args = append(c.args, args)
	c.opts = append(c.opts, opts)

	return &rivertype.JobInsertResult{}, nil
}

func TestKnowledgeService_CreateArticle_InlineEmbedding(t *testing.T) {
	repo := &mockArticlesRepo{}
	svc := NewKnowledgeService(KnowledgeServiceParams{
		Repo:            repo,
		Classifier:      intent.NewRuleClassifier(),
		EmbeddingClient: embeddings.NewLocalClient(),
	})

	article, err := svc.CreateArticle(context.Background(), &models.CreateArticleRequest{
		Title:   "Refund policy",
		Content: "How to request a refund and get your money back.",
	})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryProduct, article.Category)
	assert.Len(t, article.Embedding, embeddings.Dimension)
	assert.NotEmpty(t, article.Tags)
	assert.True(t, article.CreatedAt.Equal(article.UpdatedAt))
}

func TestKnowledgeService_CreateArticle_RemoteProviderEnqueuesJob(t *testing.T) {
	repo := &mockArticlesRepo{}
	inserter := &capturingInserter{}
	svc := NewKnowledgeService(KnowledgeServiceParams{
		Repo:            repo,
		Classifier:      intent.NewRuleClassifier(),
		EmbeddingClient: embeddings.NewLocalClient(),
		Inserter:        inserter,
		MaxAttempts:     5,
	})

	article, err := svc.CreateArticle(context.Background(), &models.CreateArticleRequest{
		Title:   "Refund policy",
		Content: "How to request a refund and get your money back.",
	})
	require.NoError(t, err)

	// The article is stored without a vector; the worker fills it in.
	assert.Empty(t, article.Embedding)

	require.Len(t, inserter.args, 1)
	args, ok := inserter.args[0].(ArticleEmbeddingArgs)
	require.True(t, ok)
	assert.Equal(t, article.ID, args.ArticleID)

	opts := inserter.opts[0]
	assert.Equal(t, EmbeddingsQueueName, opts.Queue)
	assert.Equal(t, 5, opts.MaxAttempts)
	assert.True(t, opts.UniqueOpts.ByArgs)
}

func TestKnowledgeService_CreateArticle_ExplicitTagsWin(t *testing.T) {
	repo := &mockArticlesRepo{}
	svc := NewKnowledgeService(KnowledgeServiceParams{
		Repo:            repo,
		Classifier:      intent.NewRuleClassifier(),
		EmbeddingClient: embeddings.NewLocalClient(),
	})

	article, err := svc.CreateArticle(context.Background(), &models.CreateArticleRequest{
		Title:   "Billing overview",
		Content: "Invoices, charges, and payment methods explained.",
		Tags:    []string{"billing-faq"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"billing-faq"}, article.Tags)
}
