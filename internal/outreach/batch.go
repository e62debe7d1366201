package outreach

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/model"
)

// DefaultPacing is the pause between two contacts of a campaign.
const DefaultPacing = 2 * time.Second

// ProgressFunc is called after each contact with the number completed so far.
type ProgressFunc func(completed, total int)

// Runner drives an Orchestrator over a contact list, one contact at a time.
type Runner struct {
	orch   *Orchestrator
	pacing time.Duration
}

// NewRunner creates a Runner. A non-positive pacing uses DefaultPacing.
func NewRunner(orch *Orchestrator, pacing time.Duration) *Runner {
	if pacing <= 0 {
		pacing = DefaultPacing
	}
	return &Runner{orch: orch, pacing: pacing}
}

// hooks observe a run. Either may be nil.
type hooks struct {
	before func(i int, c model.Contact)
	after  func(i int, res model.OutreachResult)
}

// Run reaches out to every contact in order and returns one result per
// contact. A failed contact never stops the run. Cancelling ctx stops at the
// next pause and returns the results so far with the context error.
func (r *Runner) Run(ctx context.Context, contacts []model.Contact, cfg model.OutreachConfig, progress ProgressFunc) ([]model.OutreachResult, error) {
	total := len(contacts)
	return r.run(ctx, contacts, cfg, hooks{
		after: func(i int, _ model.OutreachResult) {
			if progress != nil {
				progress(i+1, total)
			}
		},
	})
}

func (r *Runner) run(ctx context.Context, contacts []model.Contact, cfg model.OutreachConfig, h hooks) ([]model.OutreachResult, error) {
	results := make([]model.OutreachResult, 0, len(contacts))

	for i, c := range contacts {
		if h.before != nil {
			h.before(i, c)
		}

		res := r.orch.Execute(ctx, c, cfg)
		results = append(results, res)

		if h.after != nil {
			h.after(i, res)
		}

		if i == len(contacts)-1 {
			break
		}

		timer := time.NewTimer(r.pacing)
		select {
		case <-ctx.Done():
			timer.Stop()
			return results, eris.Wrap(ctx.Err(), "outreach: campaign cancelled")
		case <-timer.C:
		}
	}

	return results, nil
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	ByChannel map[model.Channel]int `json:"byChannel"`
}

// Summarize tallies results by outcome and by channel.
func Summarize(results []model.OutreachResult) Summary {
	s := Summary{Total: len(results), ByChannel: map[model.Channel]int{}}
	for _, r := range results {
		if r.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
		s.ByChannel[r.Channel]++
	}
	return s
}
