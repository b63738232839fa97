package service

import (
	"strings"

	"travelchat/internal/documents"
	"travelchat/internal/domain"
)

const assistantGuidelines = `You are AtithiBot, an expert Indian travel assistant for the AtithiVerse tourism platform.

IMPORTANT GUIDELINES:
- Provide specific, actionable travel advice for India
- Include approximate costs in Indian Rupees (₹)
- Mention best times to visit
- Suggest both budget and luxury options
- Be enthusiastic about Indian culture and destinations
- Keep responses under 200 words for better readability
- Always end with a follow-up question to keep the conversation going`

const bookingNote = "If users show interest in any destination, mention they can book directly through our website."

// BuildSystemPrompt assembles the behavioural rules, the destination
// catalog and, when non-empty, the retrieved context block.
func BuildSystemPrompt(catalog []domain.TravelDocument, context string) string {
	var b strings.Builder
	b.WriteString(assistantGuidelines)
	if len(catalog) > 0 {
		b.WriteString("\n\nAvailable destinations on our platform:\n")
		for _, d := range catalog {
			b.WriteString("• ")
			b.WriteString(d.Name)
			if d.Location != "" {
				b.WriteString(", ")
				b.WriteString(d.Location)
			}
			if d.Price != "" {
				b.WriteString(" (")
				b.WriteString(d.Price)
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(bookingNote)
	if context != "" {
		b.WriteString("\n\nRelevant travel information:\n")
		b.WriteString(context)
	}
	return b.String()
}

// BuildContext renders matched documents as labelled blocks separated by
// blank lines. No matches yields "".
func BuildContext(matched []domain.ScoredDocument) string {
	blocks := make([]string, 0, len(matched))
	for _, m := range matched {
		if block := strings.TrimSpace(documents.Format(m.Document)); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n\n")
}
