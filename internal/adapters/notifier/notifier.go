// Package notifier delivers registration notices to people watching the event.
package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/eventreg/internal/domain/model"
)

// Notifier delivers a single notice.
type Notifier interface {
	Notify(ctx context.Context, n model.Notice) error
}

// Message renders a notice as a short Markdown message.
func Message(n model.Notice) string { //nolint:gocritic // hugeParam: notices are small value types
	p := n.Participant

	var status string
	switch n.Kind {
	case model.NoticeRegistered:
		status = "registered"
	case model.NoticeUpdated:
		status = "updated their registration"
	case model.NoticeCancelled:
		status = "cancelled their registration"
	default:
		status = string(n.Kind)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Registration Update**\n**Participant:** %s <%s>\n**Status:** %s", p.Name, p.Email, status)
	if p.EventName != "" {
		fmt.Fprintf(&b, "\n**Event:** %s", p.EventName)
	}
	if !p.RegistrationDate.IsZero() {
		fmt.Fprintf(&b, "\n**Registered:** %s", p.RegistrationDate.Format("2006-01-02 15:04 MST"))
	}
	return b.String()
}
