// Conversation HTTP handlers.
//
// This file exposes the bot conversation over JSON:
//   - POST /messages   (free text or /start)
//   - POST /actions    (prev/next navigation)
//
// Both answer with the services.Reply the Telegram transport would render,
// so a client can drive exactly the same session the bot keeps per user.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/present"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/services"
)

const startCommand = "/start"

// MessageRequest is the JSON payload of a conversation message.
type MessageRequest struct {
	// Text is a search query, or /start for the welcome message.
	Text string `json:"text" example:"листовка"`
}

// ActionRequest is the JSON payload of a navigation press.
type ActionRequest struct {
	// Action is "prev" or "next".
	Action string `json:"action" example:"next"`
}

// isStart reports whether text is the start command, optionally with a
// payload or a bot mention ("/start@bot", "/start ref").
func isStart(text string) bool {
	if !strings.HasPrefix(text, startCommand) {
		return false
	}
	rest := text[len(startCommand):]
	return rest == "" || rest[0] == ' ' || rest[0] == '@'
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Send a message to the bot
// @Description Runs a search for the text (or shows the welcome for /start) and returns what the bot would answer. The result list becomes the caller's session for /actions.
// @Tags        Conversation
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int                      true  "Caller identity"  example(123456789)
// @Param       body       body    handlers.MessageRequest  true  "Message payload"
//
// @Success     200  {object}  services.Reply
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request or missing X-User-ID"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	if h.botSvc == nil {
		unavailable(c, "conversation")
		return
	}
	uid, found := userID(c)
	if !found {
		fail(c, http.StatusBadRequest, ErrCodeMissingUser, "X-User-ID header with a numeric id is required")
		return
	}
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ev := services.Event{Kind: services.EventQuery, UserID: uid, Text: req.Text}
	if isStart(strings.TrimSpace(req.Text)) {
		ev = services.Event{Kind: services.EventStart, UserID: uid}
	}

	reply, err := h.botSvc.Handle(c.Request.Context(), ev)
	if err != nil {
		failInternal(c, ErrCodeHandleFailed, err)
		return
	}
	ok(c, http.StatusOK, reply)
}

// PostAction godoc
// @ID          postAction
// @Summary     Press a navigation control
// @Description Moves the caller's session one page back or forward. Presses closer together than the debounce window are answered with a silent notice.
// @Tags        Conversation
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  int                     true  "Caller identity"  example(123456789)
// @Param       body       body    handlers.ActionRequest  true  "Action payload"
//
// @Success     200  {object}  services.Reply
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request, unsupported action or missing X-User-ID"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /actions [post]
func (h *Handlers) PostAction(c *gin.Context) {
	if h.botSvc == nil {
		unavailable(c, "conversation")
		return
	}
	uid, found := userID(c)
	if !found {
		fail(c, http.StatusBadRequest, ErrCodeMissingUser, "X-User-ID header with a numeric id is required")
		return
	}
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action != present.ActionPrev && action != present.ActionNext {
		fail(c, http.StatusBadRequest, ErrCodeUnsupported, `action must be "prev" or "next"`)
		return
	}

	reply, err := h.botSvc.Handle(c.Request.Context(), services.Event{
		Kind:   services.EventNavigate,
		UserID: uid,
		Action: action,
	})
	if err != nil {
		failInternal(c, ErrCodeHandleFailed, err)
		return
	}
	ok(c, http.StatusOK, reply)
}
