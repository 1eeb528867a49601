// Ingestion report HTTP handlers.
//
// This file exposes what the last load of the source export did:
//   - GET /ingest            (latest run statistics)
//   - GET /ingest/failures   (paged list of skipped lines)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/services"
)

// IngestReport is the latest run plus the number of records being served.
type IngestReport struct {
	Run domain.IngestRun `json:"run"`
	// Serving is the size of the database the search endpoints answer from.
	Serving int `json:"serving"`
}

// ListFailuresResponse wraps a page of failed lines.
type ListFailuresResponse struct {
	RunID      string               `json:"run_id"`
	Failures   []domain.LineFailure `json:"failures"`
	Pagination Pagination           `json:"pagination"`
}

// LatestIngest godoc
// @ID          latestIngest
// @Summary     Latest ingestion report
// @Description Statistics of the most recent load of the source export.
// @Tags        Ingestion
// @Produce     json
//
// @Success     200  {object}  handlers.IngestReport
// @Failure     404  {object}  handlers.ErrorResponse  "Nothing loaded yet"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ingest [get]
func (h *Handlers) LatestIngest(c *gin.Context) {
	if h.ingestSvc == nil {
		unavailable(c, "ingestion reports")
		return
	}
	run, err := h.ingestSvc.Latest(c.Request.Context())
	if errors.Is(err, services.ErrNoIngestRun) {
		fail(c, http.StatusNotFound, ErrCodeNoIngestRun, "no ingestion run recorded")
		return
	}
	if err != nil {
		failInternal(c, ErrCodeReportFailed, err)
		return
	}

	resp := IngestReport{Run: *run}
	if h.catalogSvc != nil {
		resp.Serving = h.catalogSvc.Size()
	}
	ok(c, http.StatusOK, resp)
}

// ListFailures godoc
// @ID          listIngestFailures
// @Summary     Skipped lines of the latest load (paginated)
// @Description Lines that could not be parsed, ordered by line number.
// @Tags        Ingestion
// @Produce     json
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListFailuresResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Nothing loaded yet"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /ingest/failures [get]
func (h *Handlers) ListFailures(c *gin.Context) {
	if h.ingestSvc == nil {
		unavailable(c, "ingestion reports")
		return
	}
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c, 20, 100)

	run, err := h.ingestSvc.Latest(ctx)
	if errors.Is(err, services.ErrNoIngestRun) {
		fail(c, http.StatusNotFound, ErrCodeNoIngestRun, "no ingestion run recorded")
		return
	}
	if err != nil {
		failInternal(c, ErrCodeReportFailed, err)
		return
	}

	items, total, err := h.ingestSvc.FailuresPage(ctx, page, pageSize)
	if err != nil {
		failInternal(c, ErrCodeReportFailed, err)
		return
	}
	if items == nil {
		items = []domain.LineFailure{}
	}
	ok(c, http.StatusOK, ListFailuresResponse{
		RunID:      run.ID,
		Failures:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}
