package notifier

import (
	"fmt"
	"html"
	"strings"

	"SoftWork/internal/model"
)

// FormatNewSubscriber formats the operator alert for an accepted subscription.
func FormatNewSubscriber(email string, total int) string {
	return fmt.Sprintf("📧 <b>New subscriber</b>\n\n%s\nTotal subscribers: %d", html.EscapeString(email), total)
}

// FormatTip formats the tip currently on display.
func FormatTip(tip model.TipRecord, index, count int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💡 <b>%s</b> | %s | Confidence: %s\n\n", html.EscapeString(tip.Symbol), tip.Type, tip.Confidence))
	b.WriteString(html.EscapeString(tip.Tip))
	b.WriteString("\n")
	if tip.HasPrice() {
		b.WriteString(fmt.Sprintf("\nCurrent Price: $%s", tip.Price))
		if tip.Change != "" {
			b.WriteString(fmt.Sprintf(" (%s)", html.EscapeString(tip.Change)))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\nTip %d of %d", index+1, count))
	return b.String()
}

// FormatSubscribers lists the subscriber ledger.
func FormatSubscribers(emails []string) string {
	if len(emails) == 0 {
		return "📊 No subscribers yet."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Subscribers (%d)</b>\n\n", len(emails)))
	for _, e := range emails {
		b.WriteString("• ")
		b.WriteString(html.EscapeString(e))
		b.WriteString("\n")
	}
	return b.String()
}

// HelpText lists the supported operator commands.
const HelpText = "Available commands:\n• /tip\n• /subscribers"
