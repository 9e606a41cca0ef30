package service

import (
	"context"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

const (
	articleEmbeddingKind = "article_embedding"
	// EmbeddingsQueueName is the River queue used for article embedding jobs.
	EmbeddingsQueueName = "embeddings"
)

// ArticleEmbeddingInserter inserts embedding jobs (e.g. River client).
type ArticleEmbeddingInserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// ArticleEmbeddingArgs is the job payload for generating and storing an embedding for one article.
// Uniqueness is by ArticleID so repeated content updates for the same article do not create duplicate jobs.
type ArticleEmbeddingArgs struct {
	ArticleID string `json:"article_id" river:"unique"`
}

// Kind returns the River job kind.
func (ArticleEmbeddingArgs) Kind() string { return articleEmbeddingKind }

var _ river.JobArgs = ArticleEmbeddingArgs{}
