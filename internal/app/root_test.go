package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/supratikpm/serverslayer/internal/classify"
	"github.com/supratikpm/serverslayer/internal/proc"
	"github.com/supratikpm/serverslayer/pkg/model"
)

type fakeProbe struct {
	sockets    []model.ListeningSocket
	socketsErr error
	processes  map[int]model.ProcessInfo
	cwds       map[int]string
	conns      map[int]int

	terminated []int
	forced     []bool
}

func (f *fakeProbe) ListListeningSockets(context.Context) ([]model.ListeningSocket, error) {
	return f.sockets, f.socketsErr
}

func (f *fakeProbe) DescribeProcess(_ context.Context, pid int) model.ProcessInfo {
	if p, ok := f.processes[pid]; ok {
		return p
	}
	return model.UnknownProcess(pid)
}

func (f *fakeProbe) EstablishedConnectionCounts(context.Context) map[int]int { return f.conns }

func (f *fakeProbe) WorkingDirectory(_ context.Context, pid int) (string, bool) {
	d, ok := f.cwds[pid]
	return d, ok
}

func (f *fakeProbe) Terminate(_ context.Context, pid int, force bool) error {
	f.terminated = append(f.terminated, pid)
	f.forced = append(f.forced, force)
	return nil
}

func devHost() *fakeProbe {
	return &fakeProbe{
		sockets: []model.ListeningSocket{
			{Port: 5432, PID: 100, Protocol: "TCP"},
			{Port: 3000, PID: 200, Protocol: "TCP"},
			{Port: 8080, PID: 300, Protocol: "TCP"},
		},
		processes: map[int]model.ProcessInfo{
			100: {PID: 100, Name: "postgres", Cmdline: "postgres -D /var/lib/postgresql", HasCmdline: true, Resolved: true},
			200: {PID: 200, Name: "node", Cmdline: "node server.js", HasCmdline: true, Resolved: true},
			300: {PID: 300, Name: "python3", Cmdline: "python3 -m http.server 8080", HasCmdline: true, Resolved: true},
		},
		cwds: map[int]string{
			200: "/home/dev/shop",
			300: "/srv/other",
		},
		conns: map[int]int{3000: 1},
	}
}

type result struct {
	out string
	err error
}

func execute(t *testing.T, probe *fakeProbe, confirm func([]model.ReportEntry, bool, io.Reader, io.Writer) (bool, error), args ...string) result {
	t.Helper()
	d := deps{
		newProbe:  func(proc.Options) proc.Probe { return probe },
		knowledge: classify.Default(),
		getwd:     func() (string, error) { return "/home/dev/shop", nil },
		confirm:   confirm,
	}
	if d.confirm == nil {
		d.confirm = func([]model.ReportEntry, bool, io.Reader, io.Writer) (bool, error) {
			t.Fatal("confirm called without --confirm")
			return false, nil
		}
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd(d)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return result{out: out.String(), err: err}
}

func TestList(t *testing.T) {
	res := execute(t, devHost(), nil, "list")
	if res.err != nil {
		t.Fatalf("list: %v", res.err)
	}
	for _, want := range []string{"5432", "YES", "Node", "Project", "Python", "External", "node server.js"} {
		if !strings.Contains(res.out, want) {
			t.Errorf("list output missing %q:\n%s", want, res.out)
		}
	}
}

func TestDetect_ShowsReasons(t *testing.T) {
	res := execute(t, devHost(), nil, "detect")
	if res.err != nil {
		t.Fatalf("detect: %v", res.err)
	}
	if !strings.Contains(res.out, "Protected Port 5432") {
		t.Errorf("detect output missing protection reason:\n%s", res.out)
	}
}

func TestList_JSON(t *testing.T) {
	res := execute(t, devHost(), nil, "list", "--json")
	if res.err != nil {
		t.Fatalf("list --json: %v", res.err)
	}
	var entries []model.ReportEntry
	if err := json.Unmarshal([]byte(res.out), &entries); err != nil {
		t.Fatalf("decode: %v\n%s", err, res.out)
	}
	if len(entries) != 3 || entries[1].Verdict.Framework != model.FrameworkNode {
		t.Errorf("entries = %+v", entries)
	}
}

func TestKill(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		terminated []int
		contains   []string
	}{
		{
			name:       "project scope",
			args:       []string{"kill"},
			terminated: []int{200},
			contains:   []string{"KILLED 3000 (PID 200, Project, 1 conns)", "1 of 1 terminated"},
		},
		{
			name:       "system scope",
			args:       []string{"kill", "--scope", "system"},
			terminated: []int{200, 300},
			contains:   []string{"KILLED 3000", "KILLED 8080", "2 of 2 terminated"},
		},
		{
			name:       "idle only",
			args:       []string{"kill", "--scope", "chat", "--idle-only"},
			terminated: []int{300},
			contains:   []string{"SKIPPED 3000", "KILLED 8080"},
		},
		{
			name:     "protected port",
			args:     []string{"kill", "--port", "5432"},
			contains: []string{"SKIPPED 5432", "No matching servers found to kill."},
		},
		{
			name:       "port zero falls back to scope",
			args:       []string{"kill", "--port", "0"},
			terminated: []int{200},
			contains:   []string{"KILLED 3000"},
		},
		{
			name:     "port without listener",
			args:     []string{"kill", "--port", "9999"},
			contains: []string{"No matching servers found to kill."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := devHost()
			res := execute(t, probe, nil, tt.args...)
			if res.err != nil {
				t.Fatalf("kill: %v", res.err)
			}
			if !reflect.DeepEqual(probe.terminated, tt.terminated) {
				t.Errorf("terminated = %v, want %v", probe.terminated, tt.terminated)
			}
			for _, want := range tt.contains {
				if !strings.Contains(res.out, want) {
					t.Errorf("output missing %q:\n%s", want, res.out)
				}
			}
		})
	}
}

func TestKill_ForcePassedThrough(t *testing.T) {
	probe := devHost()
	if res := execute(t, probe, nil, "kill", "--force"); res.err != nil {
		t.Fatalf("kill --force: %v", res.err)
	}
	if !reflect.DeepEqual(probe.forced, []bool{true}) {
		t.Errorf("forced = %v", probe.forced)
	}
}

func TestKill_ConfirmDeclined(t *testing.T) {
	probe := devHost()
	var asked []model.ReportEntry
	confirm := func(targets []model.ReportEntry, _ bool, _ io.Reader, _ io.Writer) (bool, error) {
		asked = targets
		return false, nil
	}
	res := execute(t, probe, confirm, "kill", "--confirm")
	if res.err != nil {
		t.Fatalf("kill --confirm: %v", res.err)
	}
	if len(asked) != 1 || asked[0].Socket.PID != 200 {
		t.Errorf("asked about %+v", asked)
	}
	if len(probe.terminated) != 0 {
		t.Errorf("terminated %v after decline", probe.terminated)
	}
	if !strings.Contains(res.out, "Aborted") {
		t.Errorf("output missing abort notice:\n%s", res.out)
	}
}

func TestKill_ConfirmAccepted(t *testing.T) {
	probe := devHost()
	confirm := func([]model.ReportEntry, bool, io.Reader, io.Writer) (bool, error) { return true, nil }
	if res := execute(t, probe, confirm, "kill", "--confirm"); res.err != nil {
		t.Fatalf("kill --confirm: %v", res.err)
	}
	if !reflect.DeepEqual(probe.terminated, []int{200}) {
		t.Errorf("terminated = %v", probe.terminated)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing action", nil},
		{"unknown action", []string{"restart"}},
		{"extra args", []string{"list", "kill"}},
		{"port out of range", []string{"kill", "--port", "70000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := execute(t, devHost(), nil, tt.args...); res.err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestNoSocketSourceIsFatal(t *testing.T) {
	probe := &fakeProbe{socketsErr: proc.ErrNoSocketSource}
	res := execute(t, probe, nil, "list")
	if !errors.Is(res.err, proc.ErrNoSocketSource) {
		t.Errorf("err = %v, want ErrNoSocketSource", res.err)
	}
}

func TestEmptyHost(t *testing.T) {
	res := execute(t, &fakeProbe{}, nil, "kill")
	if res.err != nil {
		t.Fatalf("kill: %v", res.err)
	}
	if !strings.Contains(res.out, "No matching servers found to kill.") {
		t.Errorf("output:\n%s", res.out)
	}
}

func TestKnowledgeCommand(t *testing.T) {
	res := execute(t, devHost(), nil, "knowledge")
	if res.err != nil {
		t.Fatalf("knowledge: %v", res.err)
	}
	if !strings.Contains(res.out, "redis-server") || !strings.Contains(res.out, "uvicorn") {
		t.Errorf("knowledge output:\n%s", res.out)
	}
}

func TestVersionString(t *testing.T) {
	t.Cleanup(func() { SetVersionBuildCommitString("", "", "") })

	if got := versionString(); got != "dev" {
		t.Errorf("unset version = %q", got)
	}
	SetVersionBuildCommitString("v1.2.0", "abc123", "2026-01-02")
	if got, want := versionString(), "v1.2.0 (commit abc123, built 2026-01-02)"; got != want {
		t.Errorf("versionString() = %q, want %q", got, want)
	}
}

func TestKill_PortOwnedByUndescribableProcess(t *testing.T) {
	probe := devHost()
	probe.sockets = append(probe.sockets, model.ListeningSocket{Port: 4000, PID: 700, Protocol: "TCP"})

	res := execute(t, probe, nil, "kill", "--port", "4000", "--force")
	if res.err != nil {
		t.Fatalf("kill --port 4000: %v", res.err)
	}
	if len(probe.terminated) != 0 {
		t.Errorf("terminated %v, want no terminate calls", probe.terminated)
	}
	for _, want := range []string{"SKIPPED 4000 (PID 700, Unknown process)", "No matching servers found to kill."} {
		if !strings.Contains(res.out, want) {
			t.Errorf("output missing %q:\n%s", want, res.out)
		}
	}
}
