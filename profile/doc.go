// Package profile provides optional runtime profiling for blogmath.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//	blogmath --pprof-mode=cpu examples/hyp.bm
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op.
//
// Profiles are written to the given directory, by default the "pprof"
// directory under the user cache directory, and can be inspected with
//
//	go tool pprof -http=: cpu.pprof
//
// Builds with the tag also register the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
