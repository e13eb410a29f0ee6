// Package scope places a process relative to the caller's project tree and
// reports how busy its port is.
package scope

import (
	"strings"

	"github.com/supratikpm/serverslayer/pkg/model"
)

// systemPrefixes are the directories treated as system locations. Paths are
// compared after normalisation, so Windows entries are written with forward
// slashes and in lower case.
var systemPrefixes = []string{
	"/usr/bin",
	"/usr/sbin",
	"/usr/libexec",
	"/bin",
	"/sbin",
	"/system",
	"c:/windows/system32",
	"c:/windows/syswow64",
}

// Resolve classifies workingDir against callerCwd. ok=false means the working
// directory could not be determined.
func Resolve(workingDir string, ok bool, callerCwd string) model.Scope {
	if !ok || strings.TrimSpace(workingDir) == "" {
		return model.ScopeUnknown
	}

	dir := normalize(workingDir)
	if cwd := normalize(callerCwd); cwd != "" && within(dir, cwd) {
		return model.ScopeProject
	}
	for _, prefix := range systemPrefixes {
		if within(dir, prefix) {
			return model.ScopeSystem
		}
	}
	return model.ScopeExternal
}

// ActivityCount returns the number of established connections on port.
func ActivityCount(port int, counts map[int]int) int {
	return counts[port]
}

// within reports whether path equals root or lies below it.
func within(path, root string) bool {
	if path == root {
		return true
	}
	if strings.HasSuffix(root, "/") {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+"/")
}

func normalize(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	p = strings.ReplaceAll(p, `\`, "/")
	for len(p) > 1 && strings.HasSuffix(p, "/") && !strings.HasSuffix(p, ":/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
