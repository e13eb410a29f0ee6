package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/supratikpm/serverslayer/internal/output"
)

func newKnowledgeCmd(d deps, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "knowledge",
		Short: "Show the protected ports, protected process keywords and framework rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), output.KnowledgeView(d.knowledge))
			}
			fmt.Fprintln(cmd.OutOrStdout(), output.RenderKnowledge(d.knowledge, opts.markdown))
			return nil
		},
	}
}
