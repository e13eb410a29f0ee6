package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/truncate"

	"github.com/supratikpm/serverslayer/pkg/model"
)

// CommandWidth caps the Process column; longer commands end in "..".
const CommandWidth = 30

var columns = []string{"Port", "PID", "Type", "Protected", "Scope", "Conns", "Process"}

const colProtected = 3

// RenderTable renders one row per entry, in order. markdown switches to a
// pipe table suitable for pasting into chat or docs.
func RenderTable(entries []model.ReportEntry, markdown bool) string {
	t := table.New().
		Headers(columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == colProtected && row >= 0 && row < len(entries) && entries[row].Verdict.Protected {
				return cellStyle.Inherit(protectedStyle)
			}
			return cellStyle
		})

	if markdown {
		t = t.Border(lipgloss.MarkdownBorder()).BorderTop(false).BorderBottom(false)
	} else {
		t = t.Border(lipgloss.NormalBorder()).BorderStyle(borderStyle)
	}

	for _, e := range entries {
		t.Row(
			strconv.Itoa(e.Socket.Port),
			strconv.Itoa(e.Socket.PID),
			string(e.Verdict.Framework),
			protectedLabel(e.Verdict.Protected),
			string(e.Verdict.Scope),
			strconv.Itoa(e.Verdict.Established),
			TruncateCommand(displayCommand(e.Process)),
		)
	}

	out := t.String()
	if len(entries) == 0 {
		out += "\n" + dimStyle.Render("No listening servers found.")
	}
	return out
}

// RenderDetect renders the table followed by the reason behind every
// protected entry.
func RenderDetect(entries []model.ReportEntry, markdown bool) string {
	var b strings.Builder
	b.WriteString(RenderTable(entries, markdown))

	first := true
	for _, e := range entries {
		if !e.Verdict.Protected {
			continue
		}
		if first {
			b.WriteString("\n\n" + protectedStyle.Render("Protected") + "\n")
			first = false
		}
		fmt.Fprintf(&b, "  %d (PID %d, %s): %s\n", e.Socket.Port, e.Socket.PID, e.Process.Name, e.Verdict.ProtectionReason)
	}
	return strings.TrimRight(b.String(), "\n")
}

// TruncateCommand caps cmd at CommandWidth cells.
func TruncateCommand(cmd string) string {
	if lipgloss.Width(cmd) <= CommandWidth {
		return cmd
	}
	return truncate.String(cmd, CommandWidth) + ".."
}

func displayCommand(p model.ProcessInfo) string {
	if p.Cmdline != "" {
		return p.Cmdline
	}
	return p.Name
}

func protectedLabel(protected bool) string {
	if protected {
		return "YES"
	}
	return "No"
}
