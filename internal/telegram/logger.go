package telegram

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Logger routes the Bot API library's own logging (poll retries, debug
// dumps) into zerolog. Install it with tgbotapi.SetLogger.
type Logger struct {
	L zerolog.Logger
}

// Println implements tgbotapi.BotLogger.
func (l Logger) Println(v ...interface{}) {
	l.L.Warn().Str("component", "tgbotapi").Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Printf implements tgbotapi.BotLogger.
func (l Logger) Printf(format string, v ...interface{}) {
	l.L.Debug().Str("component", "tgbotapi").Msg(fmt.Sprintf(format, v...))
}
