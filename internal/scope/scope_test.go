package scope

import (
	"testing"

	"github.com/supratikpm/serverslayer/pkg/model"
)

func TestResolve(t *testing.T) {
	const cwd = "/home/dev/Projects/shop"

	tests := []struct {
		name string
		dir  string
		ok   bool
		cwd  string
		want model.Scope
	}{
		{"not determined", "", false, cwd, model.ScopeUnknown},
		{"blank", "   ", true, cwd, model.ScopeUnknown},
		{"same dir", "/home/dev/Projects/shop", true, cwd, model.ScopeProject},
		{"descendant", "/home/dev/Projects/shop/apps/web", true, cwd, model.ScopeProject},
		{"case insensitive", "/HOME/dev/projects/SHOP/api", true, cwd, model.ScopeProject},
		{"trailing slash", "/home/dev/Projects/shop/", true, cwd + "/", model.ScopeProject},
		{"sibling with shared prefix", "/home/dev/Projects/shop-admin", true, cwd, model.ScopeExternal},
		{"system bin", "/usr/bin", true, cwd, model.ScopeSystem},
		{"system sbin child", "/sbin/init.d", true, cwd, model.ScopeSystem},
		{"windows system32", `C:\Windows\System32`, true, `C:\Users\dev\shop`, model.ScopeSystem},
		{"windows project", `C:\Users\dev\shop\frontend`, true, `c:\users\dev\shop`, model.ScopeProject},
		{"root is external", "/", true, cwd, model.ScopeExternal},
		{"elsewhere", "/opt/mystery", true, cwd, model.ScopeExternal},
		{"caller at root", "/srv/app", true, "/", model.ScopeProject},
		{"no caller cwd", "/srv/app", true, "", model.ScopeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.dir, tt.ok, tt.cwd); got != tt.want {
				t.Errorf("Resolve(%q, %v, %q) = %s, want %s", tt.dir, tt.ok, tt.cwd, got, tt.want)
			}
		})
	}
}

func TestActivityCount(t *testing.T) {
	counts := map[int]int{3000: 2}
	if got := ActivityCount(3000, counts); got != 2 {
		t.Errorf("ActivityCount(3000) = %d, want 2", got)
	}
	if got := ActivityCount(8080, counts); got != 0 {
		t.Errorf("ActivityCount(8080) = %d, want 0", got)
	}
	if got := ActivityCount(8080, nil); got != 0 {
		t.Errorf("ActivityCount with nil map = %d, want 0", got)
	}
}

func TestResolve_EverySystemPrefix(t *testing.T) {
	for _, prefix := range systemPrefixes {
		dir := prefix + "/sub"
		if got := Resolve(dir, true, "/home/dev/shop"); got != model.ScopeSystem {
			t.Errorf("Resolve(%q) = %s, want System", dir, got)
		}
	}
}
