// Package telegram is the long-polling Telegram transport.
//
// It turns updates into services.Events, hands them to the conversation
// handler and renders the returned Reply as MarkdownV2 with an inline
// keyboard. Delivery failures are classified and answered the way a user
// expects (silently, with a "too many requests" notice, or by re-sending
// the page as a new message); they never stop the polling loop.
package telegram

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/observability"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/present"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/services"
)

const startCommand = "start"

// API is the subset of *tgbotapi.BotAPI the transport needs.
type API interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Handler answers conversation events. *services.BotService satisfies it.
type Handler interface {
	Handle(ctx context.Context, ev services.Event) (services.Reply, error)
}

// Options tune the polling loop.
type Options struct {
	// PollTimeout is the long-poll timeout in seconds.
	PollTimeout int
	// MaxConcurrency bounds the updates handled at once. Values below 1
	// mean 1.
	MaxConcurrency int
	// DropPending discards updates queued while the bot was offline.
	DropPending bool
}

// Bot polls Telegram and dispatches every update in its own goroutine.
type Bot struct {
	api     API
	handler Handler
	opts    Options

	sem chan struct{}
	wg  sync.WaitGroup
}

// New returns a Bot reading updates from api and answering them with h.
func New(api API, h Handler, opts Options) *Bot {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	return &Bot{
		api:     api,
		handler: h,
		opts:    opts,
		sem:     make(chan struct{}, opts.MaxConcurrency),
	}
}

// Run polls until ctx is cancelled or the update channel closes, then
// waits for in-flight updates. It returns an error only when dropping the
// pending updates fails.
func (b *Bot) Run(ctx context.Context) error {
	if b.opts.DropPending {
		if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
			return fmt.Errorf("drop pending updates: %w", err)
		}
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.opts.PollTimeout
	cfg.AllowedUpdates = []string{"message", "callback_query"}
	updates := b.api.GetUpdatesChan(cfg)

	log.Info().
		Int("max_concurrency", b.opts.MaxConcurrency).
		Int("poll_timeout", b.opts.PollTimeout).
		Msg("telegram polling started")
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Info().Msg("telegram polling stopped")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			select {
			case b.sem <- struct{}{}:
			case <-ctx.Done():
				b.api.StopReceivingUpdates()
				return nil
			}
			b.wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer func() {
					<-b.sem
					b.wg.Done()
				}()
				b.HandleUpdate(ctx, upd)
			}(upd)
		}
	}
}

// HandleUpdate processes one update synchronously. Panics are logged and
// swallowed.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Interface("panic", rec).
				Int("update_id", upd.UpdateID).
				Bytes("stack", debug.Stack()).
				Msg("telegram update panicked")
		}
	}()

	ev, ok := eventFrom(upd)
	if !ok {
		return
	}

	reply, err := b.handler.Handle(ctx, ev)
	if err != nil {
		log.Error().Err(err).
			Int64("user_id", ev.UserID).
			Str("kind", ev.Kind.String()).
			Msg("handle telegram update")
		if cb := upd.CallbackQuery; cb != nil {
			b.answer(cb.ID, "")
		}
		return
	}

	if cb := upd.CallbackQuery; cb != nil {
		b.deliverCallback(cb, reply)
		return
	}
	b.send(upd.Message.Chat.ID, reply)
}

// eventFrom maps an update to an Event. Commands other than /start,
// non-text messages and updates without a sender are ignored.
func eventFrom(upd tgbotapi.Update) (services.Event, bool) {
	if cb := upd.CallbackQuery; cb != nil {
		if cb.From == nil {
			return services.Event{}, false
		}
		return services.Event{Kind: services.EventNavigate, UserID: cb.From.ID, Action: cb.Data}, true
	}

	m := upd.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return services.Event{}, false
	}
	if m.IsCommand() {
		if m.Command() == startCommand {
			return services.Event{Kind: services.EventStart, UserID: m.From.ID}, true
		}
		return services.Event{}, false
	}
	if m.Text == "" {
		return services.Event{}, false
	}
	return services.Event{Kind: services.EventQuery, UserID: m.From.ID, Text: m.Text}, true
}

// deliverCallback renders a reply to a control press and answers the
// callback exactly once.
func (b *Bot) deliverCallback(cb *tgbotapi.CallbackQuery, reply services.Reply) {
	if reply.Silent || cb.Message == nil || cb.Message.Chat == nil {
		b.answer(cb.ID, reply.Notice)
		return
	}
	chatID := cb.Message.Chat.ID

	if !reply.Edit {
		b.answer(cb.ID, reply.Notice)
		b.send(chatID, reply)
		return
	}

	_, err := b.api.Request(editConfig(chatID, cb.Message.MessageID, reply))
	if err == nil {
		b.answer(cb.ID, reply.Notice)
		return
	}

	class := classify(err)
	observability.ObserveSendError(class)
	switch class {
	case classNotModified:
		b.answer(cb.ID, "")
	case classTooManyRequests:
		b.answer(cb.ID, present.TooManyRequests)
	default:
		log.Warn().Err(err).
			Int64("chat_id", chatID).
			Int("message_id", cb.Message.MessageID).
			Msg("edit failed; re-sending results")
		b.answer(cb.ID, "")
		if b.sendRaw(refreshedConfig(chatID)) {
			b.send(chatID, reply)
		}
	}
}

// send delivers reply as a new message.
func (b *Bot) send(chatID int64, reply services.Reply) {
	if reply.Text == "" {
		return
	}
	b.sendRaw(messageConfig(chatID, reply))
}

func (b *Bot) sendRaw(c tgbotapi.MessageConfig) bool {
	if _, err := b.api.Send(c); err != nil {
		observability.ObserveSendError(classify(err))
		log.Error().Err(err).Int64("chat_id", c.ChatID).Msg("send telegram message")
		return false
	}
	return true
}

// answer acknowledges a callback. Failures only get a debug line: the
// callback may have expired or already been answered.
func (b *Bot) answer(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Debug().Err(err).Str("callback_id", id).Msg("answer callback")
	}
}
