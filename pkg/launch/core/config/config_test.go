package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/launchpad/pkg/launch/core/config"
	"github.com/tigerroll/launchpad/pkg/launch/support/util/exception"
)

const embeddedYAML = `
launcher:
  app_name: "Finance Insights"
  launch:
    env_file: ".env"
    command: "streamlit"
    args: ["run"]
    entry_point: "streamlit_app.py"
    stop_grace_period: 5s
`

// TestNewConfig_Defaults verifies the defaults reproduce the fixed startup behaviour.
func TestNewConfig_Defaults(t *testing.T) {
	cfg := config.NewConfig()
	l := cfg.Launcher.Launch

	assert.Equal(t, "venv", l.VenvDir)
	assert.Equal(t, ".env", l.EnvFile)
	assert.Equal(t, "streamlit", l.Command)
	assert.Equal(t, []string{"run", "streamlit_app.py"}, l.CommandArgs())
	assert.Equal(t, []string{"GROQ_API_KEY"}, l.RequiredKeys)
	assert.Equal(t, "INFO", cfg.Launcher.System.Logging.Level)
	assert.Empty(t, cfg.Launcher.Metrics.ListenAddress)
	assert.Empty(t, cfg.Launcher.Tracing.Endpoint)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EmbeddedYAMLAndExpansion(t *testing.T) {
	t.Setenv("TEST_LAUNCHER_LEVEL", "DEBUG")
	yamlWithPlaceholder := embeddedYAML + "  system:\n    logging:\n      level: \"${TEST_LAUNCHER_LEVEL}\"\n"

	cfg, err := config.LoadConfig(config.EmbeddedConfig(yamlWithPlaceholder))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Launcher.Launch.StopGracePeriod)
	assert.Equal(t, "DEBUG", cfg.Launcher.System.Logging.Level)
	assert.Equal(t, "venv", cfg.Launcher.Launch.VenvDir, "keys absent from YAML keep their defaults")
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LAUNCHER_LAUNCH_ENV_FILE", "secrets.env")
	t.Setenv("LAUNCHER_LAUNCH_ARGS", "run,--server.headless=true")
	t.Setenv("LAUNCHER_LAUNCH_STOP_GRACE_PERIOD", "2s")
	t.Setenv("LAUNCHER_METRICS_LISTEN_ADDRESS", ":9464")
	t.Setenv("LAUNCHER_APP_NAME", "Budget Board")

	cfg, err := config.LoadConfig(config.EmbeddedConfig(embeddedYAML))
	require.NoError(t, err)

	assert.Equal(t, "secrets.env", cfg.Launcher.Launch.EnvFile)
	assert.Equal(t, []string{"run", "--server.headless=true", "streamlit_app.py"}, cfg.Launcher.Launch.CommandArgs())
	assert.Equal(t, 2*time.Second, cfg.Launcher.Launch.StopGracePeriod)
	assert.Equal(t, ":9464", cfg.Launcher.Metrics.ListenAddress)
	assert.Equal(t, "Budget Board", cfg.Launcher.AppName)
}

func TestLoadConfig_ConfigFileLayer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launcher.yaml")
	require.NoError(t, os.WriteFile(path, []byte("launcher:\n  launch:\n    venv_dir: .venv\n"), 0o600))
	t.Setenv(config.ConfigFileEnv, path)
	t.Setenv("LAUNCHER_LAUNCH_VENV_DIR", "")

	cfg, err := config.LoadConfig(config.EmbeddedConfig(embeddedYAML))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Launcher.Launch.VenvDir, "an explicitly set environment variable wins over the file")

	os.Unsetenv("LAUNCHER_LAUNCH_VENV_DIR")
	cfg, err = config.LoadConfig(config.EmbeddedConfig(embeddedYAML))
	require.NoError(t, err)
	assert.Equal(t, ".venv", cfg.Launcher.Launch.VenvDir)
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.LoadConfig(config.EmbeddedConfig(embeddedYAML))
	require.Error(t, err)
	assert.True(t, exception.IsLaunchError(err))
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("LAUNCHER_LAUNCH_COMMAND", "")
	t.Setenv("LAUNCHER_LAUNCH_ENTRY_POINT", "")

	_, err := config.LoadConfig(config.EmbeddedConfig(embeddedYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launcher.launch.command")
	assert.Contains(t, err.Error(), "launcher.launch.entry_point")
}

func TestLaunchConfig_Resolve(t *testing.T) {
	l := config.LaunchConfig{WorkDir: "/srv/app"}

	assert.Equal(t, filepath.Join("/srv/app", ".env"), l.Resolve(".env"))
	abs := filepath.Join(t.TempDir(), "venv")
	assert.Equal(t, abs, l.Resolve(abs))
	assert.Equal(t, "", l.Resolve(""))
}
