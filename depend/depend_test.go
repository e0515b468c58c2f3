package depend

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func fakeBuildInfo() (*debug.BuildInfo, bool) {
	return &debug.BuildInfo{
		Main: debug.Module{Path: "example.com/app", Version: "v1.2.3"},
		Deps: []*debug.Module{
			{Path: "example.com/lib", Version: "v0.9.0"},
			{Path: "example.com/other", Version: "v2.0.1"},
		},
	}, true
}

func TestResolve_ModulePaths(t *testing.T) {
	r := BuildInfo{ReadBuildInfo: fakeBuildInfo}
	got, err := r.Resolve([]any{"example.com/lib", "example.com/app"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"example.com/app@v1.2.3", "example.com/lib@v0.9.0"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestResolve_OrderIndependent(t *testing.T) {
	r := BuildInfo{ReadBuildInfo: fakeBuildInfo}
	a, err := r.Resolve([]any{"example.com/lib", "example.com/other"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := r.Resolve([]any{"example.com/other", "example.com/lib"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if strings.Join(a, "|") != strings.Join(b, "|") {
		t.Fatalf("order leaked: %v vs %v", a, b)
	}
}

func TestResolve_Dedupes(t *testing.T) {
	r := BuildInfo{ReadBuildInfo: fakeBuildInfo}
	got, err := r.Resolve([]any{"example.com/lib", "example.com/lib"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("duplicate identifier not collapsed: %v", got)
	}
}

func TestResolve_UnknownModule(t *testing.T) {
	r := BuildInfo{ReadBuildInfo: fakeBuildInfo}
	got, err := r.Resolve([]any{"example.com/missing"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got[0] != "example.com/missing@"+UnknownVersion {
		t.Fatalf("got %v", got)
	}
}

func TestResolve_Builtins(t *testing.T) {
	r := BuildInfo{ReadBuildInfo: fakeBuildInfo}

	got, err := r.Resolve([]any{GoVersion})
	if err != nil {
		t.Fatalf("GoVersion: %v", err)
	}
	if got[0] != "go@"+runtime.Version() {
		t.Fatalf("got %v", got)
	}

	got, err = r.Resolve([]any{Platform})
	if err != nil {
		t.Fatalf("Platform: %v", err)
	}
	if !strings.Contains(got[0], runtime.GOOS) {
		t.Fatalf("got %v", got)
	}

	got, err = r.Resolve([]any{SelfVersion})
	if err != nil {
		t.Fatalf("SelfVersion: %v", err)
	}
	if got[0] != "example.com/app@v1.2.3" {
		t.Fatalf("got %v", got)
	}

	got, err = r.Resolve([]any{Environment})
	if err != nil {
		t.Fatalf("Environment: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("environment expansion: %v", got)
	}
}

func TestResolve_DevelVersionIsUnknown(t *testing.T) {
	r := BuildInfo{ReadBuildInfo: func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Path: "example.com/app", Version: "(devel)"}}, true
	}}
	got, err := r.Resolve([]any{SelfVersion})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got[0] != "example.com/app@"+UnknownVersion {
		t.Fatalf("got %v", got)
	}
}

func TestResolve_InvalidIdentifier(t *testing.T) {
	r := BuildInfo{ReadBuildInfo: fakeBuildInfo}
	if _, err := r.Resolve([]any{42}); !IsInvalidDependsOn(err) {
		t.Fatalf("int identifier: got %v", err)
	}
	if _, err := r.Resolve([]any{Builtin("bogus")}); !IsInvalidDependsOn(err) {
		t.Fatalf("bogus builtin: got %v", err)
	}
}
