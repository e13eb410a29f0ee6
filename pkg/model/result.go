package model

type Action string

const (
	ActionList   Action = "list"
	ActionDetect Action = "detect"
	ActionKill   Action = "kill"
)

// Actions lists the accepted actions in help order.
var Actions = []Action{ActionList, ActionDetect, ActionKill}

// ScopeRequest is the caller's requested kill scope. Any value other than
// ScopeRequestProject selects the system/chat branch of target selection.
type ScopeRequest string

const (
	ScopeRequestProject ScopeRequest = "project"
	ScopeRequestSystem  ScopeRequest = "system"
	ScopeRequestChat    ScopeRequest = "chat"
)

// ReportEntry is one listening socket with its owner and verdict.
type ReportEntry struct {
	Socket  ListeningSocket `json:"socket"`
	Process ProcessInfo     `json:"process"`
	Verdict Verdict         `json:"verdict"`
}

type OutcomeStatus string

const (
	StatusKilled  OutcomeStatus = "KILLED"
	StatusFailed  OutcomeStatus = "FAILED"
	StatusSkipped OutcomeStatus = "SKIPPED"
)

// Outcome records what happened to one entry during a kill.
type Outcome struct {
	Entry  ReportEntry   `json:"entry"`
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// KillReport is the result of a kill action. Outcomes lists the SKIPPED
// vetoed candidates first, then one outcome per target; each group keeps scan
// order. NoTargets is set when the selection produced nothing to terminate;
// Outcomes may still carry SKIPPED entries for vetoed candidates.
type KillReport struct {
	Outcomes  []Outcome `json:"outcomes"`
	Killed    int       `json:"killed"`
	Attempted int       `json:"attempted"`
	NoTargets bool      `json:"no_targets"`
	Aborted   bool      `json:"aborted,omitempty"`
}
