package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/supratikpm/serverslayer/internal/proc"
	"github.com/supratikpm/serverslayer/internal/target"
	"github.com/supratikpm/serverslayer/pkg/model"
)

// Execute terminates the selected targets one by one. Vetoed candidates are
// reported as SKIPPED ahead of every target outcome, so a mixed selection is
// grouped rather than in scan order. A failure on one target never stops the
// rest.
func Execute(ctx context.Context, probe proc.Probe, sel target.Selection, force bool, log *slog.Logger) model.KillReport {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	report := skipped(sel.Vetoed)
	if len(sel.Targets) == 0 {
		report.NoTargets = true
		return report
	}

	for _, t := range sel.Targets {
		if t.Verdict.Protected {
			log.Warn("protected entry reached termination, skipping", "port", t.Socket.Port, "pid", t.Socket.PID)
			report.Outcomes = append(report.Outcomes, model.Outcome{
				Entry:  t,
				Status: model.StatusSkipped,
				Reason: "Protected: " + t.Verdict.ProtectionReason,
			})
			continue
		}

		report.Attempted++
		if err := probe.Terminate(ctx, t.Socket.PID, force); err != nil {
			log.Debug("termination failed", "port", t.Socket.Port, "pid", t.Socket.PID, "err", err)
			report.Outcomes = append(report.Outcomes, model.Outcome{Entry: t, Status: model.StatusFailed, Reason: err.Error()})
			continue
		}
		report.Killed++
		report.Outcomes = append(report.Outcomes, model.Outcome{Entry: t, Status: model.StatusKilled})
	}
	return report
}

// Decline reports every target as skipped after the user refused the kill.
func Decline(sel target.Selection) model.KillReport {
	report := skipped(sel.Vetoed)
	report.Aborted = true
	report.NoTargets = len(sel.Targets) == 0
	for _, t := range sel.Targets {
		report.Outcomes = append(report.Outcomes, model.Outcome{Entry: t, Status: model.StatusSkipped, Reason: "declined"})
	}
	return report
}

func skipped(vetoed []target.Veto) model.KillReport {
	var report model.KillReport
	for _, v := range vetoed {
		report.Outcomes = append(report.Outcomes, model.Outcome{Entry: v.Entry, Status: model.StatusSkipped, Reason: v.Reason})
	}
	return report
}
