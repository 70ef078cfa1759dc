// Package receipt renders plain-text ticket slips for 58 mm thermal
// printers (iWare MP58II class hardware at the helpdesk counter).
package receipt

import (
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

// lineWidth is the printable character count of a 58 mm roll at the
// printer's default font.
const lineWidth = 32

// Render produces the receipt body for a ticket.
func Render(ticket domain.TicketWithDetails) string {
	var b strings.Builder
	divider := strings.Repeat("-", lineWidth)

	writeCentered(&b, "IT HELPDESK")
	writeCentered(&b, "TICKET RECEIPT")
	b.WriteString(divider + "\n")

	writeField(&b, "Ticket", ticket.TicketID)
	writeField(&b, "Date", ticket.CreatedAt.Format("2006-01-02 15:04"))
	writeField(&b, "Dept", ticket.Department.Name)
	writeField(&b, "Name", ticket.User.Name)
	writeField(&b, "Ext", ticket.Extension)
	writeField(&b, "Rack", ticket.RackLocation)
	writeField(&b, "Status", string(ticket.Status))

	b.WriteString(divider + "\n")
	b.WriteString("ISSUE:\n")
	for _, line := range wrap(ticket.IssueDescription, lineWidth) {
		b.WriteString(line + "\n")
	}
	b.WriteString(divider + "\n")
	writeCentered(&b, "Keep this slip for reference")
	return b.String()
}

func writeCentered(b *strings.Builder, text string) {
	// Rune count, not bytes: names are not guaranteed ASCII and the
	// printer advances one column per character.
	width := utf8.RuneCountInString(text)
	if width >= lineWidth {
		b.WriteString(text + "\n")
		return
	}
	pad := (lineWidth - width) / 2
	b.WriteString(strings.Repeat(" ", pad) + text + "\n")
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(label + ": " + value + "\n")
}

func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := make([]string, 0)
	current := ""
	for _, word := range words {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current)
}
