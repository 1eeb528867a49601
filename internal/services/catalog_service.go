// Package services – CatalogService
//
// This file implements CatalogService, the stateless read side used by the
// HTTP API: paged search and exact record lookup against the loaded
// database. Unlike BotService it keeps no per-user state; the client passes
// the page it wants.
package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/present"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/search"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/utils"
)

// CatalogService answers stateless queries over the database.
type CatalogService struct {
	DB       *search.Database
	Renderer present.Renderer

	// MaxPageSize caps client supplied page sizes.
	MaxPageSize int
}

// SearchResult is one page of a stateless search.
type SearchResult struct {
	Query    string       `json:"query"`
	Total    int          `json:"total"`
	PageSize int          `json:"page_size"`
	Page     present.Page `json:"page"`
}

// Search runs query and returns the requested zero-based page. pageSize
// falls back to the renderer's size and is capped by MaxPageSize.
//
// It returns ErrEmptyQuery for a blank query and present.ErrPageOutOfRange
// for a page past the end.
func (s *CatalogService) Search(ctx context.Context, query string, page, pageSize int) (SearchResult, error) {
	tr := otel.Tracer("services/CatalogService")
	_, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	q := strings.TrimSpace(query)
	if q == "" {
		return SearchResult{}, ErrEmptyQuery
	}

	r := s.Renderer
	r.PageSize = utils.ClampPageSize(pageSize, s.defaultSize(), s.MaxPageSize)

	results := search.Search(s.DB, q)
	span.SetAttributes(attribute.Int("results", len(results)))

	p, err := r.Render(results, q, page)
	if err != nil {
		return SearchResult{}, err
	}
	return SearchResult{Query: q, Total: len(results), PageSize: r.PageSize, Page: p}, nil
}

// Record returns the description stored for id.
func (s *CatalogService) Record(id uint64) (string, error) {
	desc, ok := s.DB.Get(id)
	if !ok {
		return "", ErrRecordNotFound
	}
	return desc, nil
}

// Size reports how many records are loaded.
func (s *CatalogService) Size() int { return s.DB.Len() }

func (s *CatalogService) defaultSize() int {
	if s.Renderer.PageSize > 0 {
		return s.Renderer.PageSize
	}
	return present.DefaultPageSize
}
