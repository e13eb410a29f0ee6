package app

import "fmt"

var (
	version   = ""
	commit    = ""
	buildDate = ""
)

// SetVersionBuildCommitString records the values injected at link time.
func SetVersionBuildCommitString(v, c, d string) {
	version, commit, buildDate = v, c, d
}

func versionString() string {
	v := version
	if v == "" {
		v = "dev"
	}
	if commit != "" {
		v += fmt.Sprintf(" (commit %s", commit)
		if buildDate != "" {
			v += ", built " + buildDate
		}
		v += ")"
	}
	return v
}
