package runtimeenv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tigerroll/launchpad/pkg/launch/support/util/exception"
)

// LookPath resolves name against the PATH found in environ rather than the
// launcher's own, so an executable inside the activated environment wins.
//
// A name containing a path separator is checked as is. The error wraps
// exception.ErrCommandNotFound when nothing matches and
// exception.ErrCommandNotExecutable when only non-executable files match.
func LookPath(name string, environ []string) (string, error) {
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return checkCandidates(name, candidates(name, environ))
	}

	path, _ := Getenv(environ, EnvPath)
	var all []string
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// POSIX treats an empty PATH entry as the current directory.
			dir = "."
		}
		all = append(all, candidates(filepath.Join(dir, name), environ)...)
	}
	return checkCandidates(name, all)
}

func checkCandidates(name string, paths []string) (string, error) {
	found := false
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		found = true
		if isExecutable(info) {
			return p, nil
		}
	}
	if found {
		return "", fmt.Errorf("%w: %s", exception.ErrCommandNotExecutable, name)
	}
	return "", fmt.Errorf("%w: %s", exception.ErrCommandNotFound, name)
}

// candidates expands p with PATHEXT on Windows.
func candidates(p string, environ []string) []string {
	if runtime.GOOS != "windows" || filepath.Ext(p) != "" {
		return []string{p}
	}
	exts, ok := Getenv(environ, "PATHEXT")
	if !ok || exts == "" {
		exts = ".com;.exe;.bat;.cmd"
	}
	var out []string
	for _, ext := range strings.Split(strings.ToLower(exts), ";") {
		if ext != "" {
			out = append(out, p+ext)
		}
	}
	return out
}

func isExecutable(info os.FileInfo) bool {
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
