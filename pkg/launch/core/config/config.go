package config

// Package config provides the launcher's configuration structures and loading.

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
)

// EmbeddedConfig holds the content of the default configuration file compiled into the binary.
type EmbeddedConfig []byte

// LaunchConfig describes how the delegated application server is started.
type LaunchConfig struct {
	// WorkDir is the directory the relative paths below are resolved against and
	// the working directory of the server process.
	WorkDir string `yaml:"work_dir"`
	// VenvDir is the isolated runtime environment to activate.
	VenvDir string `yaml:"venv_dir"`
	// EnvFile is the configuration file that must exist before the server starts.
	EnvFile string `yaml:"env_file"`
	// RequiredKeys are keys the delegated application expects in EnvFile.
	// A missing key is reported as a warning only.
	RequiredKeys []string `yaml:"required_keys"`
	// Command is the application-serving command.
	Command string `yaml:"command"`
	// Args are passed to Command before EntryPoint.
	Args []string `yaml:"args"`
	// EntryPoint is the application file handed to the server.
	EntryPoint string `yaml:"entry_point"`
	// ServerURL is shown to the operator once the server is starting.
	ServerURL string `yaml:"server_url"`
	// StopGracePeriod is how long the server may take to exit after an interrupt before it is killed.
	// Zero kills it without an interrupt.
	StopGracePeriod time.Duration `yaml:"stop_grace_period"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the logging level (e.g., "INFO", "DEBUG").
	Level string `yaml:"level"`
}

// SystemConfig holds process-wide settings.
type SystemConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// MetricsConfig controls Prometheus exposition.
type MetricsConfig struct {
	// ListenAddress enables a /metrics listener (e.g., ":9464") while the server runs. Empty disables it.
	ListenAddress string `yaml:"listen_address"`
}

// TracingConfig controls OpenTelemetry export.
type TracingConfig struct {
	// Endpoint is an OTLP/HTTP traces URL (e.g., "http://localhost:4318/v1/traces"). Empty disables export.
	Endpoint string `yaml:"endpoint"`
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `yaml:"service_name"`
}

// LauncherConfig holds all configuration under the "launcher" top-level key.
type LauncherConfig struct {
	// AppName is the human readable name used in status messages.
	AppName string        `yaml:"app_name"`
	Launch  LaunchConfig  `yaml:"launch"`
	System  SystemConfig  `yaml:"system"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// Config is the root structure for the launcher configuration.
type Config struct {
	Launcher LauncherConfig `yaml:"launcher"`
}

// NewConfig returns a Config with the launcher's built-in defaults.
// The defaults reproduce the fixed startup behaviour: activate ./venv, require ./.env,
// run "streamlit run streamlit_app.py".
func NewConfig() *Config {
	return &Config{
		Launcher: LauncherConfig{
			AppName: "Finance Insights",
			Launch: LaunchConfig{
				WorkDir:         ".",
				VenvDir:         "venv",
				EnvFile:         ".env",
				RequiredKeys:    []string{"GROQ_API_KEY"},
				Command:         "streamlit",
				Args:            []string{"run"},
				EntryPoint:      "streamlit_app.py",
				ServerURL:       "http://localhost:8501",
				StopGracePeriod: 10 * time.Second,
			},
			System: SystemConfig{
				Logging: LoggingConfig{Level: "INFO"},
			},
			Tracing: TracingConfig{
				ServiceName: "finance-insights-launcher",
			},
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	l := c.Launcher.Launch
	if l.Command == "" {
		result = multierror.Append(result, fmt.Errorf("launcher.launch.command must not be empty"))
	}
	if l.EntryPoint == "" {
		result = multierror.Append(result, fmt.Errorf("launcher.launch.entry_point must not be empty"))
	}
	if l.EnvFile == "" {
		result = multierror.Append(result, fmt.Errorf("launcher.launch.env_file must not be empty"))
	}
	if l.StopGracePeriod < 0 {
		result = multierror.Append(result, fmt.Errorf("launcher.launch.stop_grace_period must not be negative, got %s", l.StopGracePeriod))
	}
	return result.ErrorOrNil()
}

// Resolve returns path relative to WorkDir unless it is already absolute.
func (l LaunchConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.WorkDir, path)
}

// CommandArgs returns the arguments passed to Command: Args followed by EntryPoint.
func (l LaunchConfig) CommandArgs() []string {
	args := make([]string, 0, len(l.Args)+1)
	args = append(args, l.Args...)
	return append(args, l.EntryPoint)
}
