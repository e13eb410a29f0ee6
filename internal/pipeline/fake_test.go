package pipeline

import (
	"context"
	"errors"

	"github.com/supratikpm/serverslayer/pkg/model"
)

// fakeProbe serves a synthetic host and records every call.
type fakeProbe struct {
	sockets     []model.ListeningSocket
	socketsErr  error
	processes   map[int]model.ProcessInfo
	cwds        map[int]string
	established map[int]int
	killErr     map[int]error

	described  []int
	cwdLookups []int
	terminated []int
	forced     []bool
}

func (f *fakeProbe) ListListeningSockets(context.Context) ([]model.ListeningSocket, error) {
	return f.sockets, f.socketsErr
}

func (f *fakeProbe) DescribeProcess(_ context.Context, pid int) model.ProcessInfo {
	f.described = append(f.described, pid)
	if p, ok := f.processes[pid]; ok {
		return p
	}
	return model.UnknownProcess(pid)
}

func (f *fakeProbe) EstablishedConnectionCounts(context.Context) map[int]int {
	return f.established
}

func (f *fakeProbe) WorkingDirectory(_ context.Context, pid int) (string, bool) {
	f.cwdLookups = append(f.cwdLookups, pid)
	d, ok := f.cwds[pid]
	return d, ok
}

func (f *fakeProbe) Terminate(_ context.Context, pid int, force bool) error {
	f.terminated = append(f.terminated, pid)
	f.forced = append(f.forced, force)
	return f.killErr[pid]
}

var errGone = errors.New("pid 200: process no longer exists")

func running(pid int, name, cmdline string) model.ProcessInfo {
	return model.ProcessInfo{PID: pid, Name: name, Cmdline: cmdline, HasCmdline: true, Resolved: true}
}
