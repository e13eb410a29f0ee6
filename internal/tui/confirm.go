// Package tui asks the user to confirm a kill before anything is terminated.
package tui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/supratikpm/serverslayer/pkg/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")). // White
			Background(lipgloss.Color("#7D56F4")). // Purple
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5f5fd7")). // Purple/Blue
				Bold(true).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("#585858")). // Dark Gray
				Padding(0, 1)

	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffaf5f")). // Orange-amber
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676")) // Dimmed Gray
)

const maxTableHeight = 15

// ConfirmModel lists the kill targets and waits for a yes or no.
type ConfirmModel struct {
	table     table.Model
	count     int
	force     bool
	confirmed bool
	done      bool
}

func NewConfirmModel(targets []model.ReportEntry, force bool) ConfirmModel {
	columns := []table.Column{
		{Title: "Port", Width: 6},
		{Title: "PID", Width: 8},
		{Title: "Type", Width: 8},
		{Title: "Scope", Width: 9},
		{Title: "Conns", Width: 6},
		{Title: "Process", Width: 40},
	}

	rows := make([]table.Row, 0, len(targets))
	for _, t := range targets {
		cmd := t.Process.Cmdline
		if cmd == "" {
			cmd = t.Process.Name
		}
		rows = append(rows, table.Row{
			strconv.Itoa(t.Socket.Port),
			strconv.Itoa(t.Socket.PID),
			string(t.Verdict.Framework),
			string(t.Verdict.Scope),
			strconv.Itoa(t.Verdict.Established),
			cmd,
		})
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
	)
	s := table.DefaultStyles()
	s.Header = tableHeaderStyle
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffaf")). // Light Yellow
		Background(lipgloss.Color("#5f00d7")). // Purple
		Bold(false)
	tbl.SetStyles(s)

	// Height counts the header, which is two lines with its border.
	tbl.SetHeight(min(len(rows)+2, maxTableHeight))

	return ConfirmModel{table: tbl, count: len(targets), force: force}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Confirm):
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, keys.Cancel):
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	verb := "Terminate"
	if m.force {
		verb = "Force-kill"
	}
	prompt := confirmStyle.Render(fmt.Sprintf("%s %d server(s)?", verb, m.count))
	help := helpStyle.Render(fmt.Sprintf("%s: %s • %s: %s",
		keys.Confirm.Help().Key, keys.Confirm.Help().Desc,
		keys.Cancel.Help().Key, keys.Cancel.Help().Desc))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("serverslayer"),
		"",
		m.table.View(),
		"",
		prompt,
		help,
	) + "\n"
}

// Confirmed reports whether the user accepted the kill.
func (m ConfirmModel) Confirmed() bool {
	return m.confirmed
}

// Confirm runs the prompt on in/out and reports the user's answer.
func Confirm(targets []model.ReportEntry, force bool, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(NewConfirmModel(targets, force), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running confirmation: %w", err)
	}
	m, ok := final.(ConfirmModel)
	return ok && m.Confirmed(), nil
}
