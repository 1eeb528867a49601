package present

// Texts shown to users. The Markdown ones are already escaped for
// MarkdownV2; the rest are meant to be sent as plain text.
const (
	// WelcomeMarkdown answers /start.
	WelcomeMarkdown = "🛡️ *Неофициальный бот поиска по Федеральному списку экстремистских материалов РФ*\n\n" +
		"Отправьте:\n" +
		"• Номер записи \\(например, `3632`\\)\n" +
		"• Или слово \\(например, `Книга`, `Брошюра`, `статья`, `музыка`\\)\n\n" +
		"⚠️ Содержание может быть шокирующим\\. Только для правового ознакомления\\."

	// EmptyQuery is sent for a blank text message.
	EmptyQuery = "Введите запрос."

	// PleaseWait is the callback notice for a debounced navigation press.
	PleaseWait = "⏳ Подождите..."

	// TooManyRequests is the callback notice when Telegram throttles edits.
	TooManyRequests = "⏳ Слишком много запросов. Подождите..."

	// PageUnavailableMarkdown replaces the results when navigation cannot
	// proceed.
	PageUnavailableMarkdown = "❌ Эта страница недоступна\\."

	// RefreshedMarkdown precedes a results page re-sent as a new message
	// after an edit failed.
	RefreshedMarkdown = "📬 Результаты \\(обновлено\\):"
)

// NothingFoundMarkdown reports an empty result set for query.
func NothingFoundMarkdown(query string) string {
	return "❌ Ничего не найдено по запросу: *" + EscapeMarkdownV2(query) + "*"
}

// NothingFound is the plain-text form of NothingFoundMarkdown.
func NothingFound(query string) string {
	return "❌ Ничего не найдено по запросу: " + query
}
