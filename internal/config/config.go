package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"cuekit/internal/fileutil"
	"cuekit/internal/normalize"
)

//go:embed sample_config.toml
var sampleConfig string

// Pauses controls how recovered pauses are rendered in plain text.
type Pauses struct {
	ShowDescriptors       bool `toml:"show_descriptors"`
	DescriptorThresholdMs int  `toml:"descriptor_threshold_ms"`
}

// Text controls keyword artifact cleanup in plain text.
type Text struct {
	// KeepProseKeywords only removes keywords that are also ordinary words
	// ("rate", "time") when the text shows other markup leakage.
	KeepProseKeywords bool `toml:"keep_prose_keywords"`
}

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Cache contains configuration for the parsed caption track cache.
type Cache struct {
	Enabled    bool `toml:"enabled"`
	MaxEntries int  `toml:"max_entries"`
}

// Batch contains configuration for bulk caption cleaning.
type Batch struct {
	MaxConcurrent       int  `toml:"max_concurrent"`
	StripAdvertisements bool `toml:"strip_advertisements"`
}

// Synth configures the external speech synthesizer command.
type Synth struct {
	Command        string   `toml:"command"`
	Args           []string `toml:"args"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	CaptionFormat  string   `toml:"caption_format"`
	// RequestsPerMinute caps synthesizer invocations; zero means unlimited.
	RequestsPerMinute int `toml:"requests_per_minute"`
	// MinAgreement is the text similarity below which returned captions are
	// reported as diverging from the requested markup.
	MinAgreement float64 `toml:"min_agreement"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// MCP contains the identity advertised by the MCP tool server.
type MCP struct {
	ServerName    string `toml:"server_name"`
	ServerVersion string `toml:"server_version"`
}

// Config encapsulates all configuration values for cuekit.
//
// Configuration sections by subsystem:
//   - Pauses: pause descriptor rendering for plain text
//   - Text: keyword artifact cleanup
//   - Paths: cache and log directories
//   - Cache: parsed caption track cache
//   - Batch: bulk caption cleaning
//   - Synth: external synthesizer command
//   - Logging: log format and level
//   - MCP: tool server identity
type Config struct {
	Pauses  Pauses  `toml:"pauses"`
	Text    Text    `toml:"text"`
	Paths   Paths   `toml:"paths"`
	Cache   Cache   `toml:"cache"`
	Batch   Batch   `toml:"batch"`
	Synth   Synth   `toml:"synth"`
	Logging Logging `toml:"logging"`
	MCP     MCP     `toml:"mcp"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cuekit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and environment overrides applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cuekit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// LoadDotEnv loads environment files into the process environment. Missing
// files are skipped and variables that are already set win. With no paths it
// looks for .env in the working directory.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, path := range paths {
		expanded, err := expandPath(path)
		if err != nil {
			return err
		}
		if info, err := os.Stat(expanded); err == nil && !info.IsDir() {
			existing = append(existing, expanded)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// EnsureDirectories creates the cache and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TrackStorePath returns the SQLite database backing the track cache.
func (c *Config) TrackStorePath() string {
	return filepath.Join(c.Paths.CacheDir, "tracks.db")
}

// NormalizeConfig returns the settings in the form the normalizer takes.
func (c *Config) NormalizeConfig() normalize.Config {
	return normalize.Config{
		ShowDescriptors:   c.Pauses.ShowDescriptors,
		ThresholdMs:       uint32(c.Pauses.DescriptorThresholdMs),
		KeepProseKeywords: c.Text.KeepProseKeywords,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "cuekit")
	}
	return defaultCacheDirFallback
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
