package proc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	psnet "github.com/shirou/gopsutil/v4/net"
	psprocess "github.com/shirou/gopsutil/v4/process"

	"github.com/supratikpm/serverslayer/pkg/model"
)

// sysTable is the in-process view of the kernel socket and process tables
// consulted when the command-line utilities are unavailable.
type sysTable interface {
	Listening(ctx context.Context) ([]model.ListeningSocket, error)
	Established(ctx context.Context) (map[int]int, error)
	Describe(ctx context.Context, pid int) (model.ProcessInfo, error)
	Cwd(ctx context.Context, pid int) (string, error)
}

type gopsutilTable struct {
	timeout time.Duration
}

func (t gopsutilTable) connections(ctx context.Context) ([]psnet.ConnectionStat, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	conns, err := psnet.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return nil, fmt.Errorf("read connection table: %w", err)
	}
	return conns, nil
}

func (t gopsutilTable) Listening(ctx context.Context) ([]model.ListeningSocket, error) {
	conns, err := t.connections(ctx)
	if err != nil {
		return nil, err
	}

	var sockets []model.ListeningSocket
	seen := make(map[string]bool)
	for _, c := range conns {
		if c.Status != "LISTEN" || c.Pid <= 0 {
			continue
		}
		pid, port := int(c.Pid), int(c.Laddr.Port)
		key := strconv.Itoa(pid) + "|" + strconv.Itoa(port)
		if seen[key] {
			continue
		}
		seen[key] = true
		sockets = append(sockets, model.ListeningSocket{Port: port, PID: pid, Protocol: "TCP"})
	}
	return sockets, nil
}

func (t gopsutilTable) Established(ctx context.Context) (map[int]int, error) {
	conns, err := t.connections(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	for _, c := range conns {
		if c.Status == "ESTABLISHED" {
			counts[int(c.Laddr.Port)]++
		}
	}
	return counts, nil
}

// Describe fails only when the name cannot be read. An unreadable command
// line leaves HasCmdline unset.
func (t gopsutilTable) Describe(ctx context.Context, pid int) (model.ProcessInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	p, err := psprocess.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return model.ProcessInfo{}, fmt.Errorf("pid %d: %w", pid, err)
	}
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return model.ProcessInfo{}, fmt.Errorf("pid %d name: %w", pid, err)
	}

	info := model.ProcessInfo{PID: pid, Name: name, Resolved: true}
	if cmdline, err := p.CmdlineWithContext(ctx); err == nil {
		info.Cmdline, info.HasCmdline = cmdline, true
	}
	return info, nil
}

func (t gopsutilTable) Cwd(ctx context.Context, pid int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	p, err := psprocess.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return "", fmt.Errorf("pid %d: %w", pid, err)
	}
	cwd, err := p.CwdWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("pid %d cwd: %w", pid, err)
	}
	return cwd, nil
}
