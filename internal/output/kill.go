package output

import (
	"fmt"
	"strings"

	"github.com/supratikpm/serverslayer/pkg/model"
)

const (
	noTargetsMessage = "No matching servers found to kill."
	abortedMessage   = "Aborted: no servers were terminated."
	rule             = "=================================================="
)

// RenderKillReport prints one line per outcome, then either the no-targets
// notice or, when anything was killed, a summary block.
func RenderKillReport(r model.KillReport) string {
	var lines []string
	for _, o := range r.Outcomes {
		lines = append(lines, outcomeLine(o))
	}

	switch {
	case r.Aborted:
		lines = append(lines, abortedMessage)
	case r.NoTargets:
		lines = append(lines, noTargetsMessage)
	}

	if r.Killed > 0 {
		lines = append(lines,
			"",
			rule,
			killedStyle.Render(fmt.Sprintf("Stray servers slain: %d of %d terminated. Ready to code!", r.Killed, r.Attempted)),
			rule,
		)
	}
	return strings.Join(lines, "\n")
}

func outcomeLine(o model.Outcome) string {
	e := o.Entry
	switch o.Status {
	case model.StatusKilled:
		return fmt.Sprintf("%s %d (PID %d, %s, %d conns)",
			killedStyle.Render(string(o.Status)), e.Socket.Port, e.Socket.PID, e.Verdict.Scope, e.Verdict.Established)
	case model.StatusFailed:
		return fmt.Sprintf("%s %d (PID %d: %s)",
			failedStyle.Render(string(o.Status)), e.Socket.Port, e.Socket.PID, o.Reason)
	default:
		return fmt.Sprintf("%s %d (PID %d, %s)",
			skippedStyle.Render(string(o.Status)), e.Socket.Port, e.Socket.PID, o.Reason)
	}
}
