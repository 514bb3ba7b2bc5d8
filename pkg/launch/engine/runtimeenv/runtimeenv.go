// Package runtimeenv activates an isolated Python runtime environment for a child
// process the same way sourcing venv/bin/activate does for a shell, and resolves
// commands against the activated PATH.
package runtimeenv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/tigerroll/launchpad/pkg/launch/support/util/exception"
)

const (
	EnvVirtualEnv       = "VIRTUAL_ENV"
	EnvVirtualEnvPrompt = "VIRTUAL_ENV_PROMPT"
	EnvPythonHome       = "PYTHONHOME"
	EnvPath             = "PATH"
)

// Environment is an activated runtime environment.
type Environment struct {
	// Root is the absolute path of the environment directory.
	Root string
	// BinDir holds the environment's executables.
	BinDir string
	// Vars is the complete environment for the child, in os.Environ form.
	Vars []string
}

// BinDirName returns the executables directory name for the current platform.
func BinDirName() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

// ActivationScript returns the path of the activation entry point inside dir.
func ActivationScript(dir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, BinDirName(), "activate.bat")
	}
	return filepath.Join(dir, BinDirName(), "activate")
}

// Activate derives the environment of a child process from environ with the runtime
// environment at dir activated.
//
// When dir has no activation entry point, the returned Environment carries environ
// unchanged and the error wraps exception.ErrRuntimeEnvMissing.
func Activate(dir string, environ []string) (*Environment, error) {
	unchanged := &Environment{Vars: append([]string(nil), environ...)}

	root, err := filepath.Abs(dir)
	if err != nil {
		return unchanged, fmt.Errorf("%w: %s: %v", exception.ErrRuntimeEnvMissing, dir, err)
	}
	script := ActivationScript(root)
	info, err := os.Stat(script)
	if err != nil {
		return unchanged, fmt.Errorf("%w: %s", exception.ErrRuntimeEnvMissing, script)
	}
	if info.IsDir() {
		return unchanged, fmt.Errorf("%w: %s is a directory", exception.ErrRuntimeEnvMissing, script)
	}

	bin := filepath.Join(root, BinDirName())
	vars := append([]string(nil), environ...)
	path, _ := Getenv(vars, EnvPath)
	if path == "" {
		path = bin
	} else {
		path = bin + string(os.PathListSeparator) + path
	}
	vars = Setenv(vars, EnvPath, path)
	vars = Setenv(vars, EnvVirtualEnv, root)
	vars = Setenv(vars, EnvVirtualEnvPrompt, filepath.Base(root))
	vars = Unsetenv(vars, EnvPythonHome)

	return &Environment{Root: root, BinDir: bin, Vars: vars}, nil
}

// Getenv returns the last value assigned to key in environ.
func Getenv(environ []string, key string) (string, bool) {
	for i := len(environ) - 1; i >= 0; i-- {
		k, v, ok := strings.Cut(environ[i], "=")
		if ok && sameKey(k, key) {
			return v, true
		}
	}
	return "", false
}

// Setenv returns environ with every assignment of key replaced by key=value.
func Setenv(environ []string, key, value string) []string {
	return append(Unsetenv(environ, key), key+"="+value)
}

// Unsetenv returns environ without any assignment of key.
func Unsetenv(environ []string, key string) []string {
	out := environ[:0:0]
	for _, kv := range environ {
		k, _, ok := strings.Cut(kv, "=")
		if ok && sameKey(k, key) {
			continue
		}
		out = append(out, kv)
	}
	return out
}

// Windows environment names are case-insensitive.
func sameKey(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
