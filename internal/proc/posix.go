package proc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/supratikpm/serverslayer/pkg/model"
)

// POSIX inspects Linux, macOS and the BSDs with lsof, ps and pwdx.
type POSIX struct {
	run    runner
	sys    sysTable
	signal func(pid int, force bool) error
	log    *slog.Logger
}

func NewPOSIX(opts Options) *POSIX {
	opts = opts.withDefaults()
	return &POSIX{
		run:    commandRunner(opts.Timeout),
		sys:    gopsutilTable{timeout: opts.Timeout},
		signal: signalProcess,
		log:    opts.Logger,
	}
}

// lsof treats exit status 1 with no output as "nothing matched".
func (p *POSIX) lsof(ctx context.Context, args ...string) (string, error) {
	out, err := p.run(ctx, "lsof", args...)
	if err != nil {
		if exitCode(err) == 1 && len(out) == 0 {
			return "", nil
		}
		return "", err
	}
	return string(out), nil
}

func (p *POSIX) ListListeningSockets(ctx context.Context) ([]model.ListeningSocket, error) {
	out, lsofErr := p.lsof(ctx, "-iTCP", "-sTCP:LISTEN", "-n", "-P")
	if lsofErr == nil {
		sockets, skipped := parseLsofListening(out)
		if skipped > 0 {
			p.log.Debug("skipped malformed lsof lines", "count", skipped)
		}
		return sockets, nil
	}
	p.log.Debug("lsof unavailable, reading socket table", "err", lsofErr)

	sockets, sysErr := p.sys.Listening(ctx)
	if sysErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSocketSource, errors.Join(lsofErr, sysErr))
	}
	return sockets, nil
}

func (p *POSIX) DescribeProcess(ctx context.Context, pid int) model.ProcessInfo {
	id := strconv.Itoa(pid)
	out, err := p.run(ctx, "ps", "-p", id, "-o", "comm=")
	if err == nil {
		if comm := parsePsValue(string(out)); comm != "" {
			info := model.ProcessInfo{PID: pid, Name: filepath.Base(comm), Resolved: true}
			if args, err := p.run(ctx, "ps", "-ww", "-p", id, "-o", "args="); err == nil {
				info.Cmdline, info.HasCmdline = parsePsValue(string(args)), true
			} else {
				p.log.Debug("ps args failed", "pid", pid, "err", err)
			}
			return info
		}
	}
	p.log.Debug("ps could not describe process", "pid", pid, "err", err)

	info, err := p.sys.Describe(ctx, pid)
	if err != nil {
		p.log.Debug("process vanished", "pid", pid, "err", err)
		return model.UnknownProcess(pid)
	}
	if !info.HasCmdline {
		p.log.Debug("command line unavailable", "pid", pid)
	}
	return info
}

func (p *POSIX) WorkingDirectory(ctx context.Context, pid int) (string, bool) {
	if dir, err := p.sys.Cwd(ctx, pid); err == nil && dir != "" {
		return dir, true
	}

	id := strconv.Itoa(pid)
	if out, err := p.run(ctx, "pwdx", id); err == nil {
		if dir, ok := parsePwdx(string(out)); ok {
			return dir, true
		}
	}
	if out, err := p.lsof(ctx, "-a", "-p", id, "-d", "cwd", "-F", "n"); err == nil {
		if dir, ok := parseLsofCwd(out); ok {
			return dir, true
		}
	}
	p.log.Debug("working directory not determined", "pid", pid)
	return "", false
}

func (p *POSIX) EstablishedConnectionCounts(ctx context.Context) map[int]int {
	counts, sysErr := p.sys.Established(ctx)
	if sysErr == nil {
		return counts
	}

	out, err := p.lsof(ctx, "-iTCP", "-sTCP:ESTABLISHED", "-n", "-P")
	if err != nil {
		p.log.Debug("established connections unavailable", "err", errors.Join(sysErr, err))
		return map[int]int{}
	}
	counts, skipped := parseLsofEstablished(out)
	if skipped > 0 {
		p.log.Debug("skipped malformed lsof lines", "count", skipped)
	}
	return counts
}

func (p *POSIX) Terminate(_ context.Context, pid int, force bool) error {
	return p.signal(pid, force)
}
