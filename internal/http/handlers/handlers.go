// Package handlers provides HTTP handler implementations for the public API.
//
// The API exposes the bot conversation over JSON (messages and navigation
// actions answered with the same Reply the Telegram transport renders), a
// stateless paged search, exact record lookup and the ingestion reports.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/http/middleware"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/services"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/utils"
)

//
// Service contracts (context-aware)
//

// BotService handles conversation events. *services.BotService satisfies it.
type BotService interface {
	Handle(ctx context.Context, ev services.Event) (services.Reply, error)
}

// CatalogService answers stateless searches and record lookups.
// *services.CatalogService satisfies it.
type CatalogService interface {
	// Search returns the zero-based page of results for query.
	Search(ctx context.Context, query string, page, pageSize int) (services.SearchResult, error)
	// Record returns the description stored for id.
	Record(id uint64) (string, error)
	// Size reports how many records are loaded.
	Size() int
}

// IngestReports exposes the stored ingestion reports.
// *services.IngestService satisfies it.
type IngestReports interface {
	Latest(ctx context.Context) (*domain.IngestRun, error)
	FailuresPage(ctx context.Context, page, pageSize int) ([]domain.LineFailure, int64, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. Any service may be nil; its routes
// then answer 503.
type Handlers struct {
	botSvc     BotService
	catalogSvc CatalogService
	ingestSvc  IngestReports
}

// New constructs and returns a Handlers instance bound to the given services.
func New(bot BotService, catalog CatalogService, ingest IngestReports) *Handlers {
	return &Handlers{botSvc: bot, catalogSvc: catalog, ingestSvc: ingest}
}

// userID returns the caller identity set by middleware.UserID. The
// conversation endpoints require it; there is no anonymous fallback because
// sessions are keyed by it.
func userID(c *gin.Context) (int64, bool) {
	return middleware.UserFrom(c)
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses. Page is 1-based.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	pages := utils.PageCount(int(total), pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params,
// returning a 1-based page. A zero defaultSize means 20.
func clampPagination(c *gin.Context, defaultSize, maxSize int) (page, pageSize int) {
	if defaultSize <= 0 {
		defaultSize = 20
	}
	if maxSize <= 0 {
		maxSize = 100
	}
	page = utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampPageSize(utils.AtoiDefault(c.Query("page_size"), defaultSize), defaultSize, maxSize)
	return page, pageSize
}
