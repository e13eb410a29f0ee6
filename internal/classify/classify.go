package classify

import (
	"fmt"
	"strings"

	"github.com/supratikpm/serverslayer/pkg/model"
)

// IsProtected reports whether the process bound to port must never be
// terminated. A protected port wins regardless of who owns it; otherwise the
// first protected keyword found in the name or command line supplies the
// reason.
func (kb *KnowledgeBase) IsProtected(p model.ProcessInfo, port int) (bool, string) {
	if _, ok := kb.protectedPorts[port]; ok {
		return true, fmt.Sprintf("Protected Port %d", port)
	}

	name := strings.ToLower(p.Name)
	cmdline := strings.ToLower(p.Cmdline)
	for _, kw := range kb.protectedKeywords {
		k := strings.ToLower(kw)
		if k == "" {
			continue
		}
		if strings.Contains(name, k) || strings.Contains(cmdline, k) {
			return true, "Protected Process Keyword: " + kw
		}
	}
	return false, ""
}

// Classify returns the first framework, in knowledge-base order, with a
// keyword contained in the process name or command line.
func (kb *KnowledgeBase) Classify(p model.ProcessInfo) model.Framework {
	name := strings.ToLower(p.Name)
	cmdline := strings.ToLower(p.Cmdline)
	for _, fw := range kb.frameworks {
		for _, kw := range fw.Keywords {
			k := strings.ToLower(kw)
			if k == "" {
				continue
			}
			if strings.Contains(name, k) || strings.Contains(cmdline, k) {
				return fw.Framework
			}
		}
	}
	return model.FrameworkUnknown
}
