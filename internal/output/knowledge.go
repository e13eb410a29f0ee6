package output

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/supratikpm/serverslayer/internal/classify"
)

// Knowledge is the serializable view of a knowledge base.
type Knowledge struct {
	ProtectedPorts    []int           `json:"protectedPorts"`
	ProtectedKeywords []string        `json:"protectedKeywords"`
	Frameworks        []FrameworkView `json:"frameworks"`
}

type FrameworkView struct {
	Framework    string   `json:"framework"`
	Keywords     []string `json:"keywords"`
	DefaultPorts []int    `json:"defaultPorts"`
}

func KnowledgeView(kb *classify.KnowledgeBase) Knowledge {
	k := Knowledge{
		ProtectedPorts:    kb.ProtectedPorts(),
		ProtectedKeywords: kb.ProtectedKeywords(),
	}
	for _, r := range kb.Frameworks() {
		k.Frameworks = append(k.Frameworks, FrameworkView{
			Framework:    string(r.Framework),
			Keywords:     r.Keywords,
			DefaultPorts: r.DefaultPorts,
		})
	}
	return k
}

// RenderKnowledge lists the protection rules, then the framework rules in
// matching order.
func RenderKnowledge(kb *classify.KnowledgeBase, markdown bool) string {
	k := KnowledgeView(kb)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Protected ports") + "\n")
	b.WriteString("  " + joinInts(k.ProtectedPorts) + "\n\n")
	b.WriteString(headerStyle.Render("Protected keywords") + "\n")
	b.WriteString("  " + strings.Join(k.ProtectedKeywords, ", ") + "\n\n")

	t := table.New().
		Headers("Framework", "Keywords", "Default ports").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if markdown {
		t = t.Border(lipgloss.MarkdownBorder()).BorderTop(false).BorderBottom(false)
	} else {
		t = t.Border(lipgloss.NormalBorder()).BorderStyle(borderStyle)
	}
	for _, f := range k.Frameworks {
		t.Row(f.Framework, strings.Join(f.Keywords, ", "), joinInts(f.DefaultPorts))
	}
	b.WriteString(t.String())
	return b.String()
}

func joinInts(vs []int) string {
	s := make([]string, len(vs))
	for i, v := range vs {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ", ")
}
