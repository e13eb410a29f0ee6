// Package proc enumerates listening sockets and inspects or terminates the
// processes that own them.
//
// Two Probe variants exist: POSIX, built on lsof, ps and pwdx, and Windows,
// built on netstat, tasklist, wmic and taskkill. Both fall back to an
// in-process view of the socket and process tables (gopsutil) when a
// utility is missing or fails. Individual failures never abort a scan.
package proc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/supratikpm/serverslayer/pkg/model"
)

var (
	// ErrNoSocketSource means no source of listening sockets could be used
	// at all, as opposed to a scan that found nothing.
	ErrNoSocketSource = errors.New("could not determine any listening sockets")

	// ErrProcessGone means the process exited before it could be terminated.
	ErrProcessGone = errors.New("process no longer exists")
)

// DefaultTimeout bounds every external command and system-table lookup.
const DefaultTimeout = 5 * time.Second

// Probe is the uniform view of the host used by the scan.
type Probe interface {
	// ListListeningSockets returns one entry per (pid, port) in listen
	// state. It fails only with ErrNoSocketSource.
	ListListeningSockets(ctx context.Context) ([]model.ListeningSocket, error)
	// DescribeProcess never fails; a vanished process yields
	// model.UnknownProcess.
	DescribeProcess(ctx context.Context, pid int) model.ProcessInfo
	// EstablishedConnectionCounts maps a local port to its number of
	// established TCP connections.
	EstablishedConnectionCounts(ctx context.Context) map[int]int
	// WorkingDirectory is best-effort; ok=false means it could not be
	// determined.
	WorkingDirectory(ctx context.Context, pid int) (dir string, ok bool)
	// Terminate stops pid, forcefully when force is set.
	Terminate(ctx context.Context, pid int, force bool) error
}

type Options struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// New returns the probe for the running platform.
func New(opts Options) Probe {
	return forOS(runtime.GOOS, opts)
}

func forOS(goos string, opts Options) Probe {
	if goos == "windows" {
		return NewWindows(opts)
	}
	return NewPOSIX(opts)
}
