package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/akulikov/class_registration/internal/models"
)

const Index = "classes"

// Classes runs a fuzzy multi_match over class names and descriptions.
func Classes(ctx context.Context, es *elasticsearch.Client, query string, from, size int) (int64, []models.Class, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"class_name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(Index),
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
				Source models.Class `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	classes := make([]models.Class, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		classes[i] = hit.Source
	}
	return r.Hits.Total.Value, classes, nil
}

// IndexClass pushes a catalog entry into the search index. Used by the
// seed process.
func IndexClass(ctx context.Context, es *elasticsearch.Client, class models.Class) error {
	data, err := json.Marshal(class)
	if err != nil {
		return fmt.Errorf("index class: %w", err)
	}

	docID := strings.ReplaceAll(class.ClassID, " ", "_")
	res, err := es.Index(
		Index,
		bytes.NewReader(data),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(docID),
	)
	if err != nil {
		return fmt.Errorf("index class: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("index class: %s: %s", res.Status(), body)
	}
	return nil
}
