// Package depend resolves dependency identifiers into stable strings that can
// be folded into a checksum. Identifiers are either module paths (resolved to
// path@version from the running binary's build info) or one of the Builtin
// sentinels for the runtime environment itself.
//
// Resolution is order-independent: the same identifiers presented in any
// order resolve to the same sorted list.
package depend

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
)

// UnknownVersion is used when a module path cannot be resolved from build
// info. Callers still get a deterministic string, so checksums remain stable
// for a given binary.
const UnknownVersion = "unknown"

// Builtin identifiers resolve pieces of the runtime environment rather than
// a single module.
type Builtin string

const (
	// GoVersion folds the Go toolchain version (runtime.Version).
	GoVersion Builtin = "go-version"
	// Platform folds GOOS/GOARCH.
	Platform Builtin = "platform"
	// Environment folds every module participating in the build.
	Environment Builtin = "environment"
	// SelfVersion folds the main module's path and version.
	SelfVersion Builtin = "self-version"
)

// Resolver turns a collection of dependency identifiers into stable,
// byte-encodable strings. Implementations must be deterministic and
// order-independent.
type Resolver interface {
	Resolve(ids []any) ([]string, error)
}

// BuildInfo resolves module identifiers against the running binary's
// embedded build information. The zero value is ready to use; ReadBuildInfo
// is overridable for tests.
type BuildInfo struct {
	ReadBuildInfo func() (*debug.BuildInfo, bool)
}

// Resolve implements Resolver. String identifiers are module paths resolved
// to "path@version"; Builtin identifiers expand per their documentation. Any
// other element type fails with ErrInvalidDependsOn.
func (r BuildInfo) Resolve(ids []any) ([]string, error) {
	read := r.ReadBuildInfo
	if read == nil {
		read = debug.ReadBuildInfo
	}

	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, id := range ids {
		switch v := id.(type) {
		case string:
			add(v + "@" + moduleVersion(read, v))
		case Builtin:
			switch v {
			case GoVersion:
				add("go@" + runtime.Version())
			case Platform:
				add("platform@" + runtime.GOOS + "/" + runtime.GOARCH)
			case SelfVersion:
				add(selfVersion(read))
			case Environment:
				for _, m := range environment(read) {
					add(m)
				}
			default:
				return nil, fmt.Errorf("%w: unknown builtin %q", ErrInvalidDependsOn, string(v))
			}
		default:
			return nil, fmt.Errorf("%w: %T", ErrInvalidDependsOn, id)
		}
	}

	sort.Strings(out)
	return out, nil
}

func moduleVersion(read func() (*debug.BuildInfo, bool), path string) string {
	bi, ok := read()
	if !ok {
		return UnknownVersion
	}
	if bi.Main.Path == path {
		return versionOrUnknown(bi.Main.Version)
	}
	for _, dep := range bi.Deps {
		if dep.Path == path {
			return versionOrUnknown(dep.Version)
		}
	}
	return UnknownVersion
}

func selfVersion(read func() (*debug.BuildInfo, bool)) string {
	bi, ok := read()
	if !ok {
		return "main@" + UnknownVersion
	}
	path := bi.Main.Path
	if path == "" {
		path = "main"
	}
	return path + "@" + versionOrUnknown(bi.Main.Version)
}

func environment(read func() (*debug.BuildInfo, bool)) []string {
	bi, ok := read()
	if !ok {
		return nil
	}
	mods := make([]string, 0, len(bi.Deps)+1)
	if bi.Main.Path != "" {
		mods = append(mods, bi.Main.Path+"@"+versionOrUnknown(bi.Main.Version))
	}
	for _, dep := range bi.Deps {
		mods = append(mods, dep.Path+"@"+versionOrUnknown(dep.Version))
	}
	return mods
}

func versionOrUnknown(v string) string {
	if v == "" || v == "(devel)" {
		return UnknownVersion
	}
	return v
}

// Resolve resolves identifiers with the default build-info resolver.
func Resolve(ids []any) ([]string, error) {
	return BuildInfo{}.Resolve(ids)
}
