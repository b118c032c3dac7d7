package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the toolchain's persisted configuration.
type Config struct {
	// Preprocessor settings
	Preprocessor struct {
		SearchPath      []string `toml:"search_path"`
		MaxIncludeDepth int      `toml:"max_include_depth"`
		MaxCallDepth    int      `toml:"max_call_depth"`
		WarnExtraTokens bool     `toml:"warn_extra_tokens"`
	} `toml:"preprocessor"`

	// Codegen settings
	Codegen struct {
		EmitAssembly bool `toml:"emit_assembly"`
		RunAsmfmt    bool `toml:"run_asmfmt"`
		RunLint      bool `toml:"run_lint"`
		RunXref      bool `toml:"run_xref"`
	} `toml:"codegen"`

	// API settings
	API struct {
		Addr           string `toml:"addr"`
		MaxSessionSize int    `toml:"max_session_size"`
		EventBufSize   int    `toml:"event_buf_size"`
	} `toml:"api"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Preprocessor.SearchPath = nil
	cfg.Preprocessor.MaxIncludeDepth = 32
	cfg.Preprocessor.MaxCallDepth = 256
	cfg.Preprocessor.WarnExtraTokens = true

	cfg.Codegen.EmitAssembly = true
	cfg.Codegen.RunAsmfmt = true
	cfg.Codegen.RunLint = true
	cfg.Codegen.RunXref = false

	cfg.API.Addr = ":8080"
	cfg.API.MaxSessionSize = 1 << 20
	cfg.API.EventBufSize = 256

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "rucc")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "rucc")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, falling back
// to defaults if the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
