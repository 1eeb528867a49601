package present

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/utils"
)

const (
	// DefaultPageSize is the number of results per page.
	DefaultPageSize = 5

	// DefaultPreviewRunes caps each description on a page.
	DefaultPreviewRunes = 200
)

// Navigation actions carried by controls.
const (
	ActionPrev = "prev"
	ActionNext = "next"
)

// ErrPageOutOfRange is returned for a page index outside [0, PageCount).
var ErrPageOutOfRange = errors.New("page out of range")

// Control is one navigation button.
type Control struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

var (
	prevControl = Control{Label: "◀️ Назад", Action: ActionPrev}
	nextControl = Control{Label: "Далее ▶️", Action: ActionNext}
)

// Page is one rendered page of results.
type Page struct {
	Text    string          `json:"text"`
	Index   int             `json:"page"`        // zero-based
	Total   int             `json:"total_pages"` // at least 1
	HasPrev bool            `json:"has_prev"`
	HasNext bool            `json:"has_next"`
	Items   []domain.Record `json:"items"`
}

// Controls returns the navigation buttons for the page, previous first.
func (p Page) Controls() []Control {
	var cs []Control
	if p.HasPrev {
		cs = append(cs, prevControl)
	}
	if p.HasNext {
		cs = append(cs, nextControl)
	}
	return cs
}

// PageCount returns ceil(total/size), and 1 for an empty result set.
func PageCount(total, size int) int {
	return utils.PageCount(total, size)
}

// Renderer formats result pages. The zero value uses the defaults and
// produces MarkdownV2; Plain switches to unescaped text without markup for
// terminals and logs.
type Renderer struct {
	PageSize     int
	PreviewRunes int
	Plain        bool
}

// RenderPage formats page (zero-based) of results using the default
// preview length.
func RenderPage(results []domain.Record, query string, page, pageSize int) (Page, error) {
	return Renderer{PageSize: pageSize}.Render(results, query, page)
}

// Render formats the given page of results for query.
//
// The header reports the result count, the query and "page/total"; each
// entry shows its id and a description cut to PreviewRunes. Unless Plain is
// set, every dynamic value is escaped for MarkdownV2.
func (r Renderer) Render(results []domain.Record, query string, page int) (Page, error) {
	size := r.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	preview := r.PreviewRunes
	if preview <= 0 {
		preview = DefaultPreviewRunes
	}

	total := PageCount(len(results), size)
	if page < 0 || page >= total {
		return Page{}, ErrPageOutOfRange
	}
	lo, hi := utils.PageBounds(len(results), page, size)
	items := results[lo:hi]

	esc, bold, code := EscapeMarkdownV2, "*", "`"
	if r.Plain {
		esc, bold, code = func(s string) string { return s }, "", `"`
	}

	var b strings.Builder
	b.WriteString("🔎 Найдено: " + bold + strconv.Itoa(len(results)) + bold)
	b.WriteString(" записей по запросу " + code + esc(query) + code + "\n")
	b.WriteString("📄 Страница " + bold + strconv.Itoa(page+1) + "/" + strconv.Itoa(total) + bold + "\n\n")
	for _, rec := range items {
		b.WriteString("📌 " + bold + "№ " + esc(strconv.FormatUint(rec.ID, 10)) + bold + "\n")
		b.WriteString(esc(Truncate(rec.Description, preview)))
		b.WriteString("\n\n")
	}

	return Page{
		Text:    b.String(),
		Index:   page,
		Total:   total,
		HasPrev: page > 0,
		HasNext: page < total-1,
		Items:   items,
	}, nil
}
