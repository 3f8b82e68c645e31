package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/safari_vendors/internal/models"
)

type ElasticOptions struct {
	URL      string
	Username string
	Password string
	Index    string
}

type ElasticEngine struct {
	client *elasticsearch.Client
	index  string
}

func NewElastic(ctx context.Context, opts ElasticOptions) (*ElasticEngine, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{opts.URL},
		Username:  opts.Username,
		Password:  opts.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := client.Info(client.Info.WithContext(pingCtx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: info: %s: %s", res.Status(), body)
	}

	return &ElasticEngine{client: client, index: opts.Index}, nil
}

func (e *ElasticEngine) Index(ctx context.Context, p *models.Product) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(body),
		e.client.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: index: %s", res.Status())
	}
	return nil
}

func (e *ElasticEngine) Delete(ctx context.Context, id uint) error {
	res, err := e.client.Delete(
		e.index,
		strconv.FormatUint(uint64(id), 10),
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("elasticsearch: delete: %s", res.Status())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source models.Product `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *ElasticEngine) Search(ctx context.Context, rawQ string, offset, limit int) (Results, error) {
	q := sanitizeQuery(rawQ)
	if q == "" {
		return Results{Total: 0, Items: []models.Product{}}, nil
	}
	offset, limit = clamp(offset, limit)

	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "category"},
				"fuzziness": "AUTO",
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return Results{}, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
		e.client.Search.WithFrom(offset),
		e.client.Search.WithSize(limit),
		e.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return Results{}, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return Results{}, fmt.Errorf("elasticsearch: search: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return Results{}, fmt.Errorf("elasticsearch: decode: %w", err)
	}

	items := make([]models.Product, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		items = append(items, h.Source)
	}
	return Results{Total: parsed.Hits.Total.Value, Items: items}, nil
}
