// Package app wires the serverslayer command line.
package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/supratikpm/serverslayer/internal/classify"
	"github.com/supratikpm/serverslayer/internal/output"
	"github.com/supratikpm/serverslayer/internal/pipeline"
	"github.com/supratikpm/serverslayer/internal/proc"
	"github.com/supratikpm/serverslayer/internal/target"
	"github.com/supratikpm/serverslayer/internal/tui"
	"github.com/supratikpm/serverslayer/pkg/model"
)

// deps are the collaborators the command needs from the outside world.
type deps struct {
	newProbe  func(proc.Options) proc.Probe
	knowledge *classify.KnowledgeBase
	getwd     func() (string, error)
	confirm   func(targets []model.ReportEntry, force bool, in io.Reader, out io.Writer) (bool, error)
}

func defaultDeps() deps {
	return deps{
		newProbe:  proc.New,
		knowledge: classify.Default(),
		getwd:     os.Getwd,
		confirm:   tui.Confirm,
	}
}

type options struct {
	scope    string
	idleOnly bool
	force    bool
	port     int
	timeout  time.Duration
	json     bool
	markdown bool
	noColor  bool
	verbose  bool
	confirm  bool
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd(defaultDeps()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(d deps) *cobra.Command {
	opts := &options{}
	validArgs := make([]string, 0, len(model.Actions))
	for _, a := range model.Actions {
		validArgs = append(validArgs, string(a))
	}

	cmd := &cobra.Command{
		Use:   "serverslayer <list|detect|kill>",
		Short: "Find and stop stray development servers without touching databases, editors or system services",
		Long: `serverslayer inspects the ports this host is listening on, maps each to the
process that owns it and classifies that process by development framework.

  list    show every listening server
  detect  same as list, plus why each protected server is protected
  kill    terminate the servers selected by --scope, --idle-only and --port

Databases, editors, tunnels and other protected processes are never killed,
whatever flags are given.`,
		Example: `  serverslayer list
  serverslayer kill --scope project --idle-only
  serverslayer kill --port 3000 --force`,
		Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:     validArgs,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, d, opts, model.Action(args[0]))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.scope, "scope", string(model.ScopeRequestProject), "kill scope: project, system or chat")
	f.BoolVar(&opts.idleOnly, "idle-only", false, "only kill servers without established connections")
	f.BoolVar(&opts.force, "force", false, "terminate forcefully (SIGKILL / TerminateProcess)")
	f.IntVar(&opts.port, "port", 0, "target only the server listening on this port (0 means any)")
	f.BoolVarP(&opts.confirm, "confirm", "i", false, "ask before terminating anything")
	f.DurationVar(&opts.timeout, "timeout", proc.DefaultTimeout, "timeout for each system utility call")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log probe diagnostics to stderr")

	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	pf.BoolVar(&opts.markdown, "markdown", false, "print tables as markdown")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newKnowledgeCmd(d, opts))
	return cmd
}

func run(cmd *cobra.Command, d deps, opts *options, action model.Action) error {
	if opts.noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	if opts.port < 0 || opts.port > 65535 {
		return fmt.Errorf("invalid --port %d: must be between 0 and 65535", opts.port)
	}
	// Port 0 never listens, so --port 0 means no specific port.
	portSet := cmd.Flags().Changed("port") && opts.port != 0

	log := newLogger(cmd.ErrOrStderr(), opts.verbose)
	cwd, err := d.getwd()
	if err != nil {
		log.Warn("current directory unavailable, no server will be in project scope", "err", err)
	}

	probe := d.newProbe(proc.Options{Timeout: opts.timeout, Logger: log})
	ctx := cmd.Context()

	entries, err := pipeline.Scan(ctx, pipeline.ScanConfig{
		Probe:     probe,
		Knowledge: d.knowledge,
		CallerCwd: cwd,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if action != model.ActionKill {
		if opts.json {
			if entries == nil {
				entries = []model.ReportEntry{}
			}
			return writeJSON(out, entries)
		}
		if action == model.ActionDetect {
			fmt.Fprintln(out, output.RenderDetect(entries, opts.markdown))
		} else {
			fmt.Fprintln(out, output.RenderTable(entries, opts.markdown))
		}
		return nil
	}

	req := target.Request{
		Action:   action,
		Scope:    model.ScopeRequest(opts.scope),
		IdleOnly: opts.idleOnly,
		Force:    opts.force,
	}
	if portSet {
		port := opts.port
		req.SpecificPort = &port
	}
	sel := target.Select(entries, req)

	var report model.KillReport
	if opts.confirm && len(sel.Targets) > 0 {
		ok, err := d.confirm(sel.Targets, opts.force, cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if !ok {
			report = pipeline.Decline(sel)
		}
	}
	if !report.Aborted {
		report = pipeline.Execute(ctx, probe, sel, opts.force, log)
	}

	if opts.json {
		return writeJSON(out, report)
	}
	fmt.Fprintln(out, output.RenderKillReport(report))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := output.ToJSON(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(w, data)
	return nil
}
