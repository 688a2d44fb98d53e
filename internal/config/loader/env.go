package loader

import (
	"os"
	"strings"
)

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	mapping map[string]string // env var -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates an environment loader for the given mapping of
// variable names to dot-separated config paths.
func NewEnvLoader(mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		mapping: mapping,
		lookup:  os.LookupEnv,
	}
}

// Load reads the mapped variables that are set and returns a configuration
// map of raw strings. Empty values count as set. Conversion is left to the
// consumer, which knows the type of each setting.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			setByPath(config, path, val)
		}
	}
	return config, nil
}

// AddMapping adds an environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}
