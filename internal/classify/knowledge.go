// Package classify decides whether a process is protected from termination
// and which development framework it belongs to.
//
// All matching is case-insensitive substring matching against the process
// name and full command line. Substring matching is deliberately loose and
// known to produce false positives: "go" matches "mongo" and "django", "git"
// matches "github-actions-runner".
package classify

import "github.com/supratikpm/serverslayer/pkg/model"

// FrameworkRule maps a framework to the process keywords that identify it.
// DefaultPorts is informational and takes no part in classification.
type FrameworkRule struct {
	Framework    model.Framework
	Keywords     []string
	DefaultPorts []int
}

// KnowledgeBase is the immutable configuration driving protection and
// classification. Build one with Default or New and pass it explicitly.
type KnowledgeBase struct {
	protectedPorts    map[int]struct{}
	portOrder         []int
	protectedKeywords []string
	frameworks        []FrameworkRule
}

// New builds a knowledge base. Frameworks are matched in the given order.
func New(protectedPorts []int, protectedKeywords []string, frameworks []FrameworkRule) *KnowledgeBase {
	kb := &KnowledgeBase{
		protectedPorts: make(map[int]struct{}, len(protectedPorts)),
	}
	for _, p := range protectedPorts {
		if _, dup := kb.protectedPorts[p]; dup {
			continue
		}
		kb.protectedPorts[p] = struct{}{}
		kb.portOrder = append(kb.portOrder, p)
	}
	kb.protectedKeywords = append(kb.protectedKeywords, protectedKeywords...)
	for _, fw := range frameworks {
		kb.frameworks = append(kb.frameworks, FrameworkRule{
			Framework:    fw.Framework,
			Keywords:     append([]string(nil), fw.Keywords...),
			DefaultPorts: append([]int(nil), fw.DefaultPorts...),
		})
	}
	return kb
}

// Default returns the compiled-in knowledge base: common database and
// infrastructure ports, editors/IDEs/databases/tunnels by process keyword,
// and six frameworks in the order Node, Python, Java, Ruby, Go, Php.
func Default() *KnowledgeBase {
	return New(
		[]int{3306, 5432, 27017, 6379, 1433, 22},
		[]string{
			"antigravity", "gemini", "cursor", "vscode", "code", "jetbrains",
			"docker", "postgres", "mysqld", "mongod", "redis-server", "sqlservr",
			"ngrok", "ssh", "git",
		},
		[]FrameworkRule{
			{Framework: model.FrameworkNode, Keywords: []string{"node", "npm", "yarn", "bun"}, DefaultPorts: []int{3000, 3001, 8000, 8080}},
			{Framework: model.FrameworkPython, Keywords: []string{"python", "python3", "uvicorn", "gunicorn"}, DefaultPorts: []int{8000, 5000}},
			{Framework: model.FrameworkJava, Keywords: []string{"java", "mvn", "gradle", "tomcat"}, DefaultPorts: []int{8080}},
			{Framework: model.FrameworkRuby, Keywords: []string{"ruby", "rails", "puma"}, DefaultPorts: []int{3000}},
			{Framework: model.FrameworkGo, Keywords: []string{"go", "main", "exe"}, DefaultPorts: []int{8080}},
			{Framework: model.FrameworkPhp, Keywords: []string{"php", "apache2", "httpd", "nginx"}, DefaultPorts: []int{8000}},
		},
	)
}

// ProtectedPorts returns the protected ports in configuration order.
func (kb *KnowledgeBase) ProtectedPorts() []int {
	return append([]int(nil), kb.portOrder...)
}

// ProtectedKeywords returns the protected process keywords in match order.
func (kb *KnowledgeBase) ProtectedKeywords() []string {
	return append([]string(nil), kb.protectedKeywords...)
}

// Frameworks returns a copy of the framework rules in match order.
func (kb *KnowledgeBase) Frameworks() []FrameworkRule {
	out := make([]FrameworkRule, len(kb.frameworks))
	copy(out, kb.frameworks)
	return out
}
