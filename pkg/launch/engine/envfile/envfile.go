// Package envfile checks the configuration file the delegated application reads its
// secrets from. It only inspects key names: values are never logged or exported,
// and the file is not loaded into the launcher's environment.
package envfile

import (
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"github.com/tigerroll/launchpad/pkg/launch/support/util/exception"
)

// Report is the result of checking a present configuration file.
type Report struct {
	// Path is the checked file.
	Path string
	// Keys are the key names defined in the file, sorted.
	Keys []string
	// MissingKeys are required keys the file does not define or leaves empty.
	MissingKeys []string
	// ParseErr is set when the file exists but cannot be parsed. Keys and MissingKeys
	// are empty in that case.
	ParseErr error
}

// OK reports whether the file parsed and defines every required key.
func (r *Report) OK() bool {
	return r.ParseErr == nil && len(r.MissingKeys) == 0
}

// Exists reports whether path names a regular file, like the shell's [ -f path ].
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Check verifies that path is a regular file and lists its keys.
//
// An absent file, or a path that is not a regular file, returns an error wrapping
// exception.ErrEnvFileMissing. Parse errors and missing keys are reported in the
// Report and never turn into an error.
func Check(path string, requiredKeys []string) (*Report, error) {
	if !Exists(path) {
		return nil, fmt.Errorf("%w: %s", exception.ErrEnvFileMissing, path)
	}

	report := &Report{Path: path}
	values, err := godotenv.Read(path)
	if err != nil {
		report.ParseErr = err
		return report, nil
	}

	for k := range values {
		report.Keys = append(report.Keys, k)
	}
	sort.Strings(report.Keys)

	for _, k := range requiredKeys {
		if v, ok := values[k]; !ok || v == "" {
			report.MissingKeys = append(report.MissingKeys, k)
		}
	}
	return report, nil
}
