// Package search keeps a full-text index of searchable records.
package search

import (
	"context"

	"github.com/sirupsen/logrus"
)

// PostsIndex is the index holding post bodies.
const PostsIndex = "posts"

// Index is a full-text index keyed by record id.
type Index interface {
	Add(ctx context.Context, index string, id uint, fields map[string]any) error
	Remove(ctx context.Context, index string, id uint) error
	// Query returns matching ids best match first, plus the total number of hits.
	Query(ctx context.Context, index, query string, page, perPage int) ([]uint, int64, error)
}

// New connects to Elasticsearch when url is set and falls back to a no-op index.
func New(url string) Index {
	if url == "" {
		return NopIndex{}
	}
	idx, err := NewElasticIndex(url)
	if err != nil {
		logrus.WithError(err).WithField("url", url).Warn("elasticsearch unavailable, search disabled")
		return NopIndex{}
	}
	return idx
}

// NopIndex is used when no search backend is configured.
type NopIndex struct{}

func (NopIndex) Add(context.Context, string, uint, map[string]any) error { return nil }

func (NopIndex) Remove(context.Context, string, uint) error { return nil }

func (NopIndex) Query(context.Context, string, string, int, int) ([]uint, int64, error) {
	return nil, 0, nil
}
