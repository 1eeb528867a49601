// Catalog HTTP handlers.
//
// This file exposes the stateless read side:
//   - GET /search         (paged search, no session involved)
//   - GET /records/{id}   (exact lookup)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/present"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/services"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/utils"
)

// SearchResponse is one page of a stateless search.
type SearchResponse struct {
	Query string          `json:"query" example:"листовка"`
	Items []domain.Record `json:"items"`
	// Markdown is the page exactly as the bot renders it (MarkdownV2).
	Markdown   string            `json:"markdown"`
	Controls   []present.Control `json:"controls,omitempty"`
	Pagination Pagination        `json:"pagination"`
}

// Search godoc
// @ID          searchRecords
// @Summary     Search the materials list
// @Description A query of digits also matches the record with that id exactly. Other queries match descriptions case-insensitively. Results are ordered by id.
// @Tags        Catalog
// @Produce     json
//
// @Param       q          query  string  true   "Query"           example(листовка)
// @Param       page       query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1)
//
// @Success     200  {object}  handlers.SearchResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Empty query"
// @Failure     404  {object}  handlers.ErrorResponse  "Page out of range"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /search [get]
func (h *Handlers) Search(c *gin.Context) {
	if h.catalogSvc == nil {
		unavailable(c, "search")
		return
	}
	page := utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	// zero lets the service apply its own default and cap
	size := utils.AtoiDefault(c.Query("page_size"), 0)

	res, err := h.catalogSvc.Search(c.Request.Context(), c.Query("q"), page-1, size)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrEmptyQuery):
		fail(c, http.StatusBadRequest, ErrCodeEmptyQuery, "query parameter q must not be empty")
		return
	case errors.Is(err, present.ErrPageOutOfRange):
		fail(c, http.StatusNotFound, ErrCodePageRange, fmt.Sprintf("page %d does not exist", page))
		return
	default:
		failInternal(c, ErrCodeSearchFailed, err)
		return
	}

	items := res.Page.Items
	if items == nil {
		items = []domain.Record{}
	}
	ok(c, http.StatusOK, SearchResponse{
		Query:      res.Query,
		Items:      items,
		Markdown:   res.Page.Text,
		Controls:   res.Page.Controls(),
		Pagination: newPagination(page, res.PageSize, int64(res.Total)),
	})
}

// GetRecord godoc
// @ID          getRecord
// @Summary     Get one record
// @Description Returns the description stored for the identifier.
// @Tags        Catalog
// @Produce     json
//
// @Param       id  path  int  true  "Record identifier"  example(3632)
//
// @Success     200  {object}  domain.Record
// @Failure     400  {object}  handlers.ErrorResponse  "Identifier is not a number"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /records/{id} [get]
func (h *Handlers) GetRecord(c *gin.Context) {
	if h.catalogSvc == nil {
		unavailable(c, "search")
		return
	}
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a non-negative integer")
		return
	}

	desc, err := h.catalogSvc.Record(id)
	if errors.Is(err, services.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("record %d not found", id))
		return
	}
	if err != nil {
		failInternal(c, ErrCodeSearchFailed, err)
		return
	}
	ok(c, http.StatusOK, domain.Record{ID: id, Description: desc})
}
