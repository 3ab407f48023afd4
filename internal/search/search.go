package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
)

type Product struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return client, nil
}

func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	products := make([]Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return r.Hits.Total.Value, products, nil
}
