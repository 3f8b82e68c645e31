package search

import (
	"context"
	"strings"

	"github.com/Skotchmaster/safari_vendors/internal/models"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Results struct {
	Total int64            `json:"total"`
	Items []models.Product `json:"items"`
}

// Engine keeps a searchable projection of the catalog.
type Engine interface {
	Index(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, offset, limit int) (Results, error)
}

func sanitizeQuery(q string) string {
	return strings.TrimSpace(q)
}

func clamp(offset, limit int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

type productFinder interface {
	SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error)
}

// DBEngine searches the relational store directly; indexing is implicit.
type DBEngine struct {
	Repo productFinder
}

func (e *DBEngine) Index(context.Context, *models.Product) error { return nil }
func (e *DBEngine) Delete(context.Context, uint) error           { return nil }

func (e *DBEngine) Search(ctx context.Context, rawQ string, offset, limit int) (Results, error) {
	q := sanitizeQuery(rawQ)
	if q == "" {
		return Results{Total: 0, Items: []models.Product{}}, nil
	}
	offset, limit = clamp(offset, limit)

	total, items, err := e.Repo.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return Results{}, err
	}
	return Results{Total: total, Items: items}, nil
}
