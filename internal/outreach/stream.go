package outreach

import (
	"context"
	"fmt"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Event is one message of a campaign stream. Exactly one of Status, Result
// or Error is set; Completed marks the final status.
type Event struct {
	Status    string                `json:"status,omitempty"`
	Result    *model.OutreachResult `json:"result,omitempty"`
	Error     string                `json:"error,omitempty"`
	Completed bool                  `json:"completed,omitempty"`
}

const errNoContacts = "No contacts provided"

// Stream runs a campaign and reports its progress through emit: a start
// status, then a processing status and a result per contact, then a
// completion marker. An empty list emits a single error event.
func (r *Runner) Stream(ctx context.Context, contacts []model.Contact, cfg model.OutreachConfig, emit func(Event)) error {
	total := len(contacts)
	if total == 0 {
		emit(Event{Error: errNoContacts})
		return nil
	}

	emit(Event{Status: fmt.Sprintf("Starting campaign for %d contacts...", total)})

	_, err := r.run(ctx, contacts, cfg, hooks{
		before: func(i int, c model.Contact) {
			emit(Event{Status: fmt.Sprintf("Processing %d/%d: %s", i+1, total, c.FullName)})
		},
		after: func(_ int, res model.OutreachResult) {
			emit(Event{Result: &res})
		},
	})
	if err != nil {
		emit(Event{Error: err.Error()})
		return err
	}

	emit(Event{Status: "Campaign completed!", Completed: true})
	return nil
}
