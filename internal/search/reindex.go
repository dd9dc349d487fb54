package search

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/anonto42/microblog/internal/models"
)

const reindexBatchSize = 100

// PostSource yields every stored post in batches.
type PostSource interface {
	EachPost(batchSize int, fn func(posts []models.Post) error) error
}

// AddPost indexes a single post body.
func AddPost(ctx context.Context, idx Index, post *models.Post) error {
	return idx.Add(ctx, PostsIndex, post.ID, map[string]any{"body": post.Body})
}

// Reindex pushes every post into the index and returns how many were written.
func Reindex(ctx context.Context, idx Index, posts PostSource) (int, error) {
	count := 0
	err := posts.EachPost(reindexBatchSize, func(batch []models.Post) error {
		for i := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := AddPost(ctx, idx, &batch[i]); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	logrus.WithField("posts", count).Info("search index rebuilt")
	return count, err
}
