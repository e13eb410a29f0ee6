// Package target chooses which scanned servers a kill action terminates.
package target

import (
	"fmt"

	"github.com/supratikpm/serverslayer/pkg/model"
)

// Request carries the caller's selection options. SpecificPort, when set,
// replaces scope and classification filtering. Force is carried through to
// termination and never influences selection.
type Request struct {
	Action       model.Action
	Scope        model.ScopeRequest
	IdleOnly     bool
	SpecificPort *int
	Force        bool
}

// Veto is a candidate that was dropped by protection or the idle filter.
type Veto struct {
	Entry  model.ReportEntry
	Reason string
}

// Selection is the outcome of Select. Targets and Vetoed preserve input order.
type Selection struct {
	Targets []model.ReportEntry
	Vetoed  []Veto
}

// UnknownProcessReason vetoes a socket whose owner could not be described.
// Its PID may already belong to another process.
const UnknownProcessReason = "Unknown process"

// Select applies, per entry and in order: specific-port override, the kill
// scope filter, the protection veto, the unknown-process veto and the idle
// filter. List and detect
// select nothing unless a specific port was requested.
func Select(entries []model.ReportEntry, req Request) Selection {
	var sel Selection
	for _, e := range entries {
		if !isCandidate(e, req) {
			continue
		}
		if e.Verdict.Protected {
			sel.Vetoed = append(sel.Vetoed, Veto{Entry: e, Reason: "Protected: " + e.Verdict.ProtectionReason})
			continue
		}
		if !e.Process.Resolved {
			sel.Vetoed = append(sel.Vetoed, Veto{Entry: e, Reason: UnknownProcessReason})
			continue
		}
		if req.IdleOnly && e.Verdict.Established > 0 {
			sel.Vetoed = append(sel.Vetoed, Veto{
				Entry:  e,
				Reason: fmt.Sprintf("Active: %d established connections", e.Verdict.Established),
			})
			continue
		}
		sel.Targets = append(sel.Targets, e)
	}
	return sel
}

func isCandidate(e model.ReportEntry, req Request) bool {
	if req.SpecificPort != nil {
		return e.Socket.Port == *req.SpecificPort
	}
	if req.Action != model.ActionKill || e.Verdict.Protected {
		return false
	}
	if req.Scope == model.ScopeRequestProject {
		return e.Verdict.Scope == model.ScopeProject
	}
	return e.Verdict.Framework != model.FrameworkUnknown || e.Verdict.Scope == model.ScopeProject
}
