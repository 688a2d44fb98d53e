// Package config loads undoredo settings.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. built-in defaults
//  2. a TOML or YAML file (optional)
//  3. UNDOREDO_* environment variables
package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/dshills/undoredo/internal/config/loader"
)

// Log levels and formats accepted by the logging section.
var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"console", "json"}
)

// EnvMapping maps environment variables to setting paths.
var EnvMapping = map[string]string{
	"UNDOREDO_LOG_LEVEL":      "logging.level",
	"UNDOREDO_LOG_FORMAT":     "logging.format",
	"UNDOREDO_LANGUAGE":       "history.language",
	"UNDOREDO_LEVELS_OF_UNDO": "history.levelsOfUndo",
}

// Config holds all undoredo settings.
type Config struct {
	Logging LoggingConfig
	History HistoryConfig
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string // debug, info, warn or error
	Format string // console or json
}

// HistoryConfig configures the undo manager.
type HistoryConfig struct {
	// LevelsOfUndo caps the undo history; 0 means unlimited.
	LevelsOfUndo int
	// Language is a BCP 47 tag selecting the menu title language.
	Language string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		History: HistoryConfig{
			LevelsOfUndo: 0,
			Language:     "en",
		},
	}
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path skips the file layer; a missing file is not an
// error.
func Load(path string) (*Config, error) {
	return LoadWithFS(loader.DefaultFS(), path)
}

// LoadWithFS is Load reading the file from fsys.
func LoadWithFS(fsys loader.FileSystem, path string) (*Config, error) {
	var sources []loader.Loader
	if path != "" {
		l, err := loader.ForFile(fsys, path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, l)
	}
	sources = append(sources, loader.NewEnvLoader(EnvMapping))

	merged := make(map[string]any)
	for _, src := range sources {
		data, err := src.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply copies recognised settings out of data, converting each value to the
// setting's type. Unknown keys are ignored.
func (c *Config) apply(data map[string]any) error {
	if section, ok := data["logging"].(map[string]any); ok {
		if err := setString(section, "level", "logging.level", &c.Logging.Level); err != nil {
			return err
		}
		if err := setString(section, "format", "logging.format", &c.Logging.Format); err != nil {
			return err
		}
	}
	if section, ok := data["history"].(map[string]any); ok {
		if err := setInt(section, "levelsOfUndo", "history.levelsOfUndo", &c.History.LevelsOfUndo); err != nil {
			return err
		}
		if err := setString(section, "language", "history.language", &c.History.Language); err != nil {
			return err
		}
	}
	return nil
}

func setString(section map[string]any, key, path string, dst *string) error {
	v, ok := section[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return &SettingError{Path: path, Value: v, Err: ErrTypeMismatch}
	}
	*dst = s
	return nil
}

func setInt(section map[string]any, key, path string, dst *int) error {
	v, ok := section[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	case uint64:
		*dst = int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return &SettingError{Path: path, Value: v, Err: ErrTypeMismatch}
		}
		*dst = i
	case float64:
		if n != float64(int(n)) {
			return &SettingError{Path: path, Value: v, Err: ErrTypeMismatch}
		}
		*dst = int(n)
	default:
		return &SettingError{Path: path, Value: v, Err: ErrTypeMismatch}
	}
	return nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if !slices.Contains(LogLevels, c.Logging.Level) {
		return &SettingError{Path: "logging.level", Value: c.Logging.Level, Err: ErrValidationFailed}
	}
	if !slices.Contains(LogFormats, c.Logging.Format) {
		return &SettingError{Path: "logging.format", Value: c.Logging.Format, Err: ErrValidationFailed}
	}
	if c.History.LevelsOfUndo < 0 {
		return &SettingError{Path: "history.levelsOfUndo", Value: c.History.LevelsOfUndo, Err: ErrValidationFailed}
	}
	if _, err := language.Parse(c.History.Language); err != nil {
		return &SettingError{Path: "history.language", Value: c.History.Language, Err: fmt.Errorf("%w: %v", ErrValidationFailed, err)}
	}
	return nil
}

// LanguageTag returns the parsed history language, English if unset or
// invalid.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.History.Language)
	if err != nil {
		return language.English
	}
	return tag
}
