package model

type Framework string

// Frameworks in classification order. The first framework whose keyword
// matches a process wins.
const (
	FrameworkNode    Framework = "Node"
	FrameworkPython  Framework = "Python"
	FrameworkJava    Framework = "Java"
	FrameworkRuby    Framework = "Ruby"
	FrameworkGo      Framework = "Go"
	FrameworkPhp     Framework = "Php"
	FrameworkUnknown Framework = "Unknown"
)

type Scope string

const (
	ScopeProject  Scope = "Project"
	ScopeSystem   Scope = "System"
	ScopeExternal Scope = "External"
	ScopeUnknown  Scope = "Unknown"
)

// Verdict is everything derived about a single listening socket.
type Verdict struct {
	Protected        bool      `json:"protected"`
	ProtectionReason string    `json:"protection_reason,omitempty"`
	Framework        Framework `json:"framework"`
	Scope            Scope     `json:"scope"`
	Established      int       `json:"established"`
}
