package model

// UnknownProcessName is reported for processes that could not be described,
// usually because they exited between the socket scan and the lookup.
const UnknownProcessName = "Unknown"

// ProcessInfo is a best-effort description of the process owning a socket.
//
// Resolved is false when the process could not be described at all; Name is
// then UnknownProcessName and Cmdline is empty. HasCmdline and HasWorkingDir
// tell "not determined" apart from a determined, possibly empty, value.
type ProcessInfo struct {
	PID           int    `json:"pid"`
	Name          string `json:"name"`
	Cmdline       string `json:"cmdline"`
	HasCmdline    bool   `json:"has_cmdline"`
	Resolved      bool   `json:"resolved"`
	WorkingDir    string `json:"working_dir,omitempty"`
	HasWorkingDir bool   `json:"has_working_dir"`
}

// UnknownProcess returns the sentinel description for pid.
func UnknownProcess(pid int) ProcessInfo {
	return ProcessInfo{PID: pid, Name: UnknownProcessName}
}
