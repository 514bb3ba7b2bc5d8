package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tigerroll/launchpad/pkg/launch/support/util/configbinder"
	"github.com/tigerroll/launchpad/pkg/launch/support/util/exception"
	"github.com/tigerroll/launchpad/pkg/launch/support/util/logger"
)

const moduleName = "config"

const (
	// ConfigFileEnv names an optional YAML file layered over the embedded defaults.
	ConfigFileEnv = "LAUNCHER_CONFIG"
	// EnvPrefix prefixes every environment override, e.g. LAUNCHER_LAUNCH_ENV_FILE.
	EnvPrefix = "LAUNCHER_"
)

// LoadConfig builds the configuration in four layers, later layers winning:
//  1. NewConfig defaults
//  2. the embedded YAML
//  3. the YAML file named by LAUNCHER_CONFIG, if set
//  4. LAUNCHER_* environment variables
//
// ${VAR} placeholders in both YAML sources are expanded from the environment.
// The result is validated before it is returned.
func LoadConfig(embeddedConfig EmbeddedConfig) (*Config, error) {
	return loadConfig(embeddedConfig, NewOsEnvironmentExpander(), os.Environ())
}

func loadConfig(embeddedConfig EmbeddedConfig, expander EnvironmentExpander, environ []string) (*Config, error) {
	cfg := NewConfig()

	if err := unmarshalInto(cfg, embeddedConfig, expander); err != nil {
		return nil, exception.NewLaunchError(moduleName, "failed to unmarshal embedded config", err, exception.ExitFailure)
	}

	if path := lookupEnv(environ, ConfigFileEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, exception.NewLaunchError(moduleName, fmt.Sprintf("failed to read config file %s", path), err, exception.ExitFailure)
		}
		if err := unmarshalInto(cfg, data, expander); err != nil {
			return nil, exception.NewLaunchError(moduleName, fmt.Sprintf("failed to unmarshal config file %s", path), err, exception.ExitFailure)
		}
		logger.Debugf("Configuration file %s applied.", path)
	}

	props := make(map[string]interface{})
	collectEnvOverrides(reflect.TypeOf(cfg.Launcher), EnvPrefix, environ, props)
	if err := configbinder.BindProperties(props, &cfg.Launcher); err != nil {
		return nil, exception.NewLaunchError(moduleName, "failed to load config from environment variables", err, exception.ExitFailure)
	}

	if err := cfg.Validate(); err != nil {
		return nil, exception.NewLaunchError(moduleName, "invalid configuration", err, exception.ExitFailure)
	}
	return cfg, nil
}

// unmarshalInto decodes YAML over cfg. Keys missing from data keep their current values.
func unmarshalInto(cfg *Config, data []byte, expander EnvironmentExpander) error {
	if len(data) == 0 {
		return nil
	}
	expanded, err := expander.Expand(data)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(expanded, cfg)
}

// collectEnvOverrides walks typ by its yaml tags and copies every matching
// environment variable into props, nested the same way the YAML is.
// LauncherConfig.Launch.EnvFile is read from LAUNCHER_LAUNCH_ENV_FILE.
func collectEnvOverrides(typ reflect.Type, prefix string, environ []string, props map[string]interface{}) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		envName := prefix + strings.ToUpper(tag)

		if field.Type.Kind() == reflect.Struct {
			nested := make(map[string]interface{})
			collectEnvOverrides(field.Type, envName+"_", environ, nested)
			if len(nested) > 0 {
				props[tag] = nested
			}
			continue
		}

		if value, ok := lookupEnvOK(environ, envName); ok {
			props[tag] = value
		}
	}
}

func lookupEnv(environ []string, key string) string {
	v, _ := lookupEnvOK(environ, key)
	return v
}

// lookupEnvOK returns the last assignment of key in environ, matching os.Getenv.
func lookupEnvOK(environ []string, key string) (string, bool) {
	value, found := "", false
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			value, found = v, true
		}
	}
	return value, found
}
