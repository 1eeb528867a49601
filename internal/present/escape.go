// Package present renders search results as Telegram MarkdownV2 pages and
// holds the user-visible texts of the bot.
//
// Everything here is pure: no I/O, no logging, no session state. The caller
// owns the result list and the current page and asks for a rendering.
package present

import "strings"

// markdownV2Reserved lists every character Telegram requires to be escaped
// in MarkdownV2 text outside of entities.
const markdownV2Reserved = "\\_*[]()~`>#+-=|{}.!"

// EscapeMarkdownV2 prefixes each reserved MarkdownV2 character of s with a
// backslash. It never fails.
func EscapeMarkdownV2(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for _, r := range s {
		if strings.ContainsRune(markdownV2Reserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate returns the first n runes of s followed by "..." when s is
// longer than n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos] + "..."
		}
		i++
	}
	return s
}
