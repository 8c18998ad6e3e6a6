// Package config loads bpkit settings from a TOML file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
	defaultCompressionLevel = 1
	defaultOutDir           = "."
	defaultIndent           = 2

	maxIndent = 8

	// logLevelEnv overrides logging.level when set.
	logLevelEnv = "BPKIT_LOG_LEVEL"
)

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Codec contains configuration for blueprint string encoding.
type Codec struct {
	CompressionLevel int `toml:"compression_level"`
}

// Save contains configuration for writing books to disk.
type Save struct {
	OutDir string `toml:"out_dir"`
	Indent int    `toml:"indent"`
}

// Config is the full bpkit configuration.
type Config struct {
	Logging Logging `toml:"logging"`
	Codec   Codec   `toml:"codec"`
	Save    Save    `toml:"save"`
}

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Logging: Logging{Level: defaultLogLevel, Format: defaultLogFormat},
		Codec:   Codec{CompressionLevel: defaultCompressionLevel},
		Save:    Save{OutDir: defaultOutDir, Indent: defaultIndent},
	}
}

// DefaultConfigPath is where Load looks when no path is given.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/bpkit/config.toml")
}

// Load reads the configuration at path, or the default locations when path
// is empty. It returns the resolved path and whether a file was found;
// a missing file yields the defaults.
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
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
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
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
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
	projectPath, err := filepath.Abs("bpkit.toml")
	if err != nil {
		return "", false, err
	}

	for _, candidate := range []string{projectPath, defaultPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	if level, ok := os.LookupEnv(logLevelEnv); ok && strings.TrimSpace(level) != "" {
		c.Logging.Level = level
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}

	if strings.TrimSpace(c.Save.OutDir) == "" {
		c.Save.OutDir = defaultOutDir
	}
	var err error
	if c.Save.OutDir, err = ExpandPath(c.Save.OutDir); err != nil {
		return fmt.Errorf("save.out_dir: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Codec.CompressionLevel < -1 || c.Codec.CompressionLevel > 9 {
		return fmt.Errorf("codec.compression_level: %d is outside -1..9", c.Codec.CompressionLevel)
	}
	if c.Save.Indent < 0 || c.Save.Indent > maxIndent {
		return fmt.Errorf("save.indent: %d is outside 0..%d", c.Save.Indent, maxIndent)
	}
	return nil
}

// IndentString renders Save.Indent as spaces.
func (c *Config) IndentString() string {
	return strings.Repeat(" ", c.Save.Indent)
}

// CreateSample writes a commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading "~" to the home directory.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
