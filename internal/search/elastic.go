package search

import (
	"context"
	"net/http"
	"strconv"

	"github.com/olivere/elastic/v7"
)

type ElasticIndex struct {
	client *elastic.Client
}

func NewElasticIndex(url string, opts ...elastic.ClientOptionFunc) (*ElasticIndex, error) {
	options := append([]elastic.ClientOptionFunc{
		elastic.SetURL(url),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	}, opts...)
	client, err := elastic.NewClient(options...)
	if err != nil {
		return nil, err
	}
	return &ElasticIndex{client: client}, nil
}

func (e *ElasticIndex) Add(ctx context.Context, index string, id uint, fields map[string]any) error {
	_, err := e.client.Index().
		Index(index).
		Id(strconv.FormatUint(uint64(id), 10)).
		BodyJson(fields).
		Do(ctx)
	return err
}

func (e *ElasticIndex) Remove(ctx context.Context, index string, id uint) error {
	_, err := e.client.Delete().
		Index(index).
		Id(strconv.FormatUint(uint64(id), 10)).
		Do(ctx)
	if elastic.IsNotFound(err) {
		return nil
	}
	return err
}

func (e *ElasticIndex) Query(ctx context.Context, index, query string, page, perPage int) ([]uint, int64, error) {
	if page < 1 {
		page = 1
	}
	res, err := e.client.Search().
		Index(index).
		Query(elastic.NewMultiMatchQuery(query, "*")).
		From((page - 1) * perPage).
		Size(perPage).
		Do(ctx)
	if err != nil {
		// the index does not exist until the first post is added
		if ee, ok := err.(*elastic.Error); ok && ee.Status == http.StatusNotFound {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	ids := make([]uint, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		id, err := strconv.ParseUint(hit.Id, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, res.TotalHits(), nil
}
