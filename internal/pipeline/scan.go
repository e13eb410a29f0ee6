package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/supratikpm/serverslayer/internal/classify"
	"github.com/supratikpm/serverslayer/internal/proc"
	"github.com/supratikpm/serverslayer/internal/scope"
	"github.com/supratikpm/serverslayer/pkg/model"
)

type ScanConfig struct {
	Probe     proc.Probe
	Knowledge *classify.KnowledgeBase
	CallerCwd string
	Logger    *slog.Logger
}

// Scan enumerates listening sockets and builds one report entry per socket,
// in probe order. It fails only when no socket source could be used.
func Scan(ctx context.Context, cfg ScanConfig) ([]model.ReportEntry, error) {
	sockets, err := cfg.Probe.ListListeningSockets(ctx)
	if err != nil {
		return nil, err
	}
	if len(sockets) == 0 {
		return nil, nil
	}
	counts := cfg.Probe.EstablishedConnectionCounts(ctx)
	return Analyze(ctx, cfg, sockets, counts), nil
}

// Analyze enriches sockets with process details and verdicts. Each PID is
// described at most once, and its working directory is only looked up when
// one of its sockets is unprotected.
func Analyze(ctx context.Context, cfg ScanConfig, sockets []model.ListeningSocket, counts map[int]int) []model.ReportEntry {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	procs := make(map[int]model.ProcessInfo)
	cwdChecked := make(map[int]bool)
	entries := make([]model.ReportEntry, 0, len(sockets))

	for _, s := range sockets {
		info, ok := procs[s.PID]
		if !ok {
			info = cfg.Probe.DescribeProcess(ctx, s.PID)
			if !info.Resolved {
				log.Debug("owner of socket could not be described", "port", s.Port, "pid", s.PID)
			}
			procs[s.PID] = info
		}

		protected, reason := cfg.Knowledge.IsProtected(info, s.Port)
		verdict := model.Verdict{
			Protected:        protected,
			ProtectionReason: reason,
			Framework:        cfg.Knowledge.Classify(info),
			Scope:            model.ScopeUnknown,
			Established:      scope.ActivityCount(s.Port, counts),
		}

		if !protected {
			if info.Resolved && !cwdChecked[s.PID] {
				cwdChecked[s.PID] = true
				info.WorkingDir, info.HasWorkingDir = cfg.Probe.WorkingDirectory(ctx, s.PID)
				procs[s.PID] = info
			}
			verdict.Scope = scope.Resolve(info.WorkingDir, info.HasWorkingDir, cfg.CallerCwd)
		}

		entries = append(entries, model.ReportEntry{Socket: s, Process: info, Verdict: verdict})
	}
	return entries
}
