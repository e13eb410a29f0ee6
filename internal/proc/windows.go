package proc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/supratikpm/serverslayer/pkg/model"
)

// Windows inspects the host with netstat, tasklist, wmic and taskkill.
type Windows struct {
	run    runner
	sys    sysTable
	signal func(pid int, force bool) error
	log    *slog.Logger
}

func NewWindows(opts Options) *Windows {
	opts = opts.withDefaults()
	return &Windows{
		run:    commandRunner(opts.Timeout),
		sys:    gopsutilTable{timeout: opts.Timeout},
		signal: signalProcess,
		log:    opts.Logger,
	}
}

func (w *Windows) ListListeningSockets(ctx context.Context) ([]model.ListeningSocket, error) {
	out, netstatErr := w.run(ctx, "netstat", "-ano")
	if netstatErr == nil {
		sockets, skipped := parseNetstatListening(string(out))
		if skipped > 0 {
			w.log.Debug("skipped malformed netstat lines", "count", skipped)
		}
		return sockets, nil
	}
	w.log.Debug("netstat unavailable, reading socket table", "err", netstatErr)

	sockets, sysErr := w.sys.Listening(ctx)
	if sysErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSocketSource, errors.Join(netstatErr, sysErr))
	}
	return sockets, nil
}

func (w *Windows) DescribeProcess(ctx context.Context, pid int) model.ProcessInfo {
	out, err := w.run(ctx, "tasklist", "/FI", fmt.Sprintf("PID eq %d", pid), "/FO", "CSV", "/NH")
	if err == nil {
		if name, ok := parseTasklist(string(out)); ok {
			info := model.ProcessInfo{PID: pid, Name: name, Resolved: true}
			info.Cmdline, info.HasCmdline = w.commandLine(ctx, pid)
			return info
		}
	}

	info, sysErr := w.sys.Describe(ctx, pid)
	if sysErr != nil {
		w.log.Debug("process vanished", "pid", pid, "err", errors.Join(err, sysErr))
		return model.UnknownProcess(pid)
	}
	return info
}

// commandLine asks wmic first and PowerShell's CIM cmdlets second, since
// wmic is absent on recent Windows releases. ok is false when neither
// answered.
func (w *Windows) commandLine(ctx context.Context, pid int) (string, bool) {
	out, err := w.run(ctx, "wmic", "process", "where", fmt.Sprintf("processid=%d", pid), "get", "CommandLine", "/format:list")
	if err == nil {
		if cmd := parseListValue(string(out), "CommandLine"); cmd != "" {
			return cmd, true
		}
	}

	query := fmt.Sprintf("(Get-CimInstance Win32_Process -Filter 'ProcessId=%d').CommandLine", pid)
	out, err = w.run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", query)
	if err != nil {
		w.log.Debug("command line unavailable", "pid", pid, "err", err)
		return "", false
	}
	return strings.TrimSpace(string(out)), true
}

// WorkingDirectory has no command-line equivalent on Windows; only the
// process table lookup is tried.
func (w *Windows) WorkingDirectory(ctx context.Context, pid int) (string, bool) {
	dir, err := w.sys.Cwd(ctx, pid)
	if err != nil || dir == "" {
		return "", false
	}
	return dir, true
}

func (w *Windows) EstablishedConnectionCounts(ctx context.Context) map[int]int {
	counts, sysErr := w.sys.Established(ctx)
	if sysErr == nil {
		return counts
	}

	out, err := w.run(ctx, "netstat", "-ano")
	if err != nil {
		w.log.Debug("established connections unavailable", "err", errors.Join(sysErr, err))
		return map[int]int{}
	}
	counts, skipped := parseNetstatEstablished(string(out))
	if skipped > 0 {
		w.log.Debug("skipped malformed netstat lines", "count", skipped)
	}
	return counts
}

// Terminate asks taskkill to close the process, or terminates it outright
// when force is set.
func (w *Windows) Terminate(ctx context.Context, pid int, force bool) error {
	if force {
		return w.signal(pid, true)
	}
	_, err := w.run(ctx, "taskkill", "/PID", strconv.Itoa(pid))
	if err != nil {
		// taskkill exits 128 when the PID does not exist.
		if exitCode(err) == 128 {
			return fmt.Errorf("pid %d: %w", pid, ErrProcessGone)
		}
		return fmt.Errorf("taskkill pid %d: %w", pid, err)
	}
	return nil
}
