package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/blogmath/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

var defaultDirMode os.FileMode = 0o700

// debugBinary matches the executable names produced by dlv.
var debugBinary = regexp.MustCompile(`^__debug_bin\d*$`)

// basePrefix names the per-user configuration and cache directories. It is
// the executable's base name without extension or leading dots, or
// [pkg.Name] under the debugger.
var basePrefix = sync.OnceValue(
	func() string {
		exe, err := os.Executable()
		if err != nil {
			exe = os.Args[0]
		}

		name := filepath.Base(exe)
		name = strings.TrimSuffix(name, filepath.Ext(name))
		name = strings.TrimLeft(name, ".")

		if name == "" || debugBinary.MatchString(name) {
			return pkg.Name
		}

		return name
	},
)

// userDir joins basePrefix to the directory returned by locate, falling back
// to dot under the home directory, then to the working directory.
func userDir(locate func() (string, error), dot string) string {
	dir, err := locate()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, dot)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
