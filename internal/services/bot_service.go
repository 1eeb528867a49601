// Package services – BotService
//
// This file implements BotService, the transport-independent conversation
// handler. A transport converts its updates into Events, calls Handle and
// renders the returned Reply; no Telegram or HTTP type reaches this layer.
//
// Per user the service keeps the last result list and the page being shown.
// A new query always replaces that state. Navigation is debounced per user
// and moves the page atomically, so concurrent presses never tear it.
//
// Observability: Handle is OpenTelemetry-instrumented and every event is
// counted in Prometheus by kind and outcome.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/observability"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/present"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/session"
)

// Searcher answers queries against the loaded database.
// *search.Database satisfies it.
type Searcher interface {
	Search(query string) []domain.Record
}

// BotService handles conversation events.
type BotService struct {
	Searcher Searcher
	Sessions *session.Store
	Debounce *session.Debouncer
	Renderer present.Renderer

	// Now is the clock used for events without a timestamp.
	Now func() time.Time
}

// NewBotService wires a BotService with in-memory sessions, the given
// navigation window and the renderer defaults.
func NewBotService(s Searcher, window, sessionTTL time.Duration) *BotService {
	return &BotService{
		Searcher: s,
		Sessions: session.NewStore(sessionTTL),
		Debounce: session.NewDebouncer(window, 0),
		Now:      time.Now,
	}
}

// Handle dispatches ev and returns what the transport must render.
//
// User mistakes (blank query, stale or unknown navigation) are answered
// with a message, not an error. An error is returned only for internal
// failures or an unknown event kind.
func (s *BotService) Handle(ctx context.Context, ev Event) (Reply, error) {
	tr := otel.Tracer("services/BotService")
	_, span := tr.Start(ctx, "Handle",
		trace.WithAttributes(
			attribute.Int64("user.id", ev.UserID),
			attribute.String("event.kind", ev.Kind.String()),
		),
	)
	defer span.End()

	start := time.Now()
	if ev.At.IsZero() {
		ev.At = s.now()
	}

	var (
		r       Reply
		outcome string
		err     error
	)
	switch ev.Kind {
	case EventStart:
		r, outcome = Reply{Text: present.WelcomeMarkdown, Markdown: true}, "welcome"
	case EventQuery:
		r, outcome, err = s.query(ev)
	case EventNavigate:
		r, outcome, err = s.navigate(ev)
	default:
		err = errors.New("unknown event kind")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		outcome = "error"
	}
	span.SetAttributes(attribute.String("event.outcome", outcome))
	observability.ObserveEvent(ev.Kind.String(), outcome, time.Since(start))
	return r, err
}

func (s *BotService) query(ev Event) (Reply, string, error) {
	q := strings.TrimSpace(ev.Text)
	if q == "" {
		return Reply{Text: present.EmptyQuery}, "empty_query", nil
	}

	var results []domain.Record
	if s.Searcher != nil {
		results = s.Searcher.Search(q)
	}
	if len(results) == 0 {
		return Reply{Text: present.NothingFoundMarkdown(q), Markdown: true}, "no_results", nil
	}

	s.Sessions.Replace(ev.UserID, session.State{
		Results:    results,
		Query:      q,
		LastAction: ev.At,
	})
	p, err := s.Renderer.Render(results, q, 0)
	if err != nil {
		return Reply{}, "", err
	}
	return Reply{Text: p.Text, Markdown: true, Controls: p.Controls()}, "results", nil
}

func (s *BotService) navigate(ev Event) (Reply, string, error) {
	if !s.Debounce.CheckAndUpdateRateLimit(ev.UserID, ev.At) {
		return Reply{Notice: present.PleaseWait, Silent: true}, "debounced", nil
	}

	var page present.Page
	_, err := s.Sessions.Update(ev.UserID, func(st *session.State) error {
		target, err := step(st.Page, ev.Action)
		if err != nil {
			return err
		}
		p, err := s.Renderer.Render(st.Results, st.Query, target)
		if err != nil {
			return err
		}
		page = p
		st.Page = target
		st.LastAction = ev.At
		return nil
	})
	switch {
	case err == nil:
		return Reply{Text: page.Text, Markdown: true, Controls: page.Controls(), Edit: true}, "page", nil
	case errors.Is(err, ErrNoSession), errors.Is(err, ErrUnknownAction), errors.Is(err, present.ErrPageOutOfRange):
		return Reply{Text: present.PageUnavailableMarkdown, Markdown: true, Edit: true}, "unavailable", nil
	default:
		return Reply{}, "", err
	}
}

// Sweep evicts idle sessions and debounce entries.
func (s *BotService) Sweep(now time.Time) (sessions, pressers int) {
	return s.Sessions.Sweep(now), s.Debounce.Sweep(now)
}

func (s *BotService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// step returns the page an action leads to from cur.
func step(cur int, action string) (int, error) {
	switch action {
	case present.ActionNext:
		return cur + 1, nil
	case present.ActionPrev:
		return cur - 1, nil
	default:
		return cur, ErrUnknownAction
	}
}
