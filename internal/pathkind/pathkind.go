// Package pathkind classifies a raw import specifier the same way
// node's own resolver does before any filesystem work happens, mirroring
// the prefix checks scattered through the teacher's resolveWithoutSymlinks
// (evanw-esbuild/internal/resolver/resolver.go) but gathered into one
// ordered classifier, since spec.md treats classification as its own
// module rather than inline branching.
package pathkind

// Kind tags a specifier's shape. Zero value is Empty.
type Kind uint8

const (
	Empty Kind = iota
	Relative
	AbsolutePosix
	AbsoluteWindows
	Internal
	BuiltinModule
	Normal
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Relative:
		return "relative"
	case AbsolutePosix:
		return "absolute-posix"
	case AbsoluteWindows:
		return "absolute-windows"
	case Internal:
		return "internal"
	case BuiltinModule:
		return "builtin-module"
	case Normal:
		return "normal"
	}
	return "unknown"
}

// Classify applies the classification rules in the order spec.md §4.1
// requires: empty, builtin, internal ("#..."), absolute-posix ("/..."),
// relative ("." / ".." / "./..." / "../..."), absolute-windows (a drive
// letter), and finally normal (a bare or scoped package specifier).
func Classify(target string) Kind {
	if target == "" {
		return Empty
	}
	if IsBuiltinModule(target) {
		return BuiltinModule
	}
	if target[0] == '#' {
		return Internal
	}
	if target[0] == '/' {
		return AbsolutePosix
	}
	if target == "." || target == ".." ||
		hasPrefix(target, "./") || hasPrefix(target, "../") {
		return Relative
	}
	if isWindowsDrivePath(target) {
		return AbsoluteWindows
	}
	return Normal
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// isWindowsDrivePath matches "C:" alone or "C:\..." / "C:/...".
func isWindowsDrivePath(s string) bool {
	if len(s) < 2 || !isDriveLetter(s[0]) || s[1] != ':' {
		return false
	}
	if len(s) == 2 {
		return true
	}
	return s[2] == '\\' || s[2] == '/'
}

func isDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// IsPackagePath reports whether target names a node_modules package
// rather than a relative/absolute filesystem path, matching the
// teacher's IsPackagePath in evanw-esbuild/internal/resolver/resolver.go.
func IsPackagePath(target string) bool {
	switch Classify(target) {
	case Relative, AbsolutePosix, AbsoluteWindows:
		return false
	default:
		return true
	}
}

// IsBuiltinModule reports whether name is one of node's built-in core
// modules. Any "node:"-prefixed name counts as builtin, whether or not
// the rest of it is in the table.
func IsBuiltinModule(name string) bool {
	if hasPrefix(name, "node:") {
		return true
	}
	return builtinModules[name]
}

// builtinModules is the fixed set of node core module names, as listed
// by the teacher's BuiltInNodeModules table.
var builtinModules = map[string]bool{
	"_http_agent": true, "_http_client": true, "_http_common": true,
	"_http_incoming": true, "_http_outgoing": true, "_http_server": true,
	"_stream_duplex": true, "_stream_passthrough": true, "_stream_readable": true,
	"_stream_transform": true, "_stream_wrap": true, "_stream_writable": true,
	"_tls_common": true, "_tls_wrap": true,
	"assert": true, "assert/strict": true, "async_hooks": true,
	"buffer": true, "child_process": true, "cluster": true, "console": true,
	"constants": true, "crypto": true, "dgram": true, "diagnostics_channel": true,
	"dns": true, "dns/promises": true, "domain": true, "events": true,
	"fs": true, "fs/promises": true, "http": true, "http2": true, "https": true,
	"inspector": true, "inspector/promises": true, "module": true, "net": true,
	"os": true, "path": true, "path/posix": true, "path/win32": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "readline/promises": true, "repl": true, "stream": true,
	"stream/consumers": true, "stream/promises": true, "stream/web": true,
	"string_decoder": true, "sys": true, "timers": true, "timers/promises": true,
	"tls": true, "trace_events": true, "tty": true, "url": true, "util": true,
	"util/types": true, "v8": true, "vm": true, "wasi": true,
	"worker_threads": true, "zlib": true,
}
