package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/stdfkit/pkg/codec"
	"github.com/ssargent/stdfkit/pkg/cursor"
)

// Config represents the stdf tool configuration
type Config struct {
	Codec   Codec   `yaml:"codec"`
	Reader  Reader  `yaml:"reader"`
	Index   Index   `yaml:"index"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

// Codec holds the wire settings of the byte cursor and the record codec
type Codec struct {
	ByteOrder      string `yaml:"byte_order"`      // little | big
	StringEncoding string `yaml:"string_encoding"` // IANA charset name
	BoolCoding     string `yaml:"bool_coding"`     // nonzero | ascii
	TimeCoding     string `yaml:"time_coding"`     // utc | local
	AllowTruncated bool   `yaml:"allow_truncated"`
}

// Reader contains file reading options
type Reader struct {
	DetectByteOrder bool `yaml:"detect_byte_order"`
	SkipMalformed   bool `yaml:"skip_malformed"`
}

// Index contains record index options
type Index struct {
	Dir string `yaml:"dir"`
}

// Server contains HTTP service options
type Server struct {
	Bind        string   `yaml:"bind"`
	Port        int      `yaml:"port"`
	APIKey      string   `yaml:"api_key"`
	MaxBodySize int64    `yaml:"max_body_size"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Codec: Codec{
			ByteOrder:      "little",
			StringEncoding: "ISO-8859-1",
			BoolCoding:     "nonzero",
			TimeCoding:     "utc",
		},
		Reader: Reader{
			DetectByteOrder: true,
		},
		Index: Index{
			Dir: "./index",
		},
		Server: Server{
			Bind:        "127.0.0.1",
			Port:        8080,
			MaxBodySize: 64 << 20,
			CORSOrigins: []string{"*"},
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Newf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "invalid config path")
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// Write with secure permissions (0600), the file may hold an API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if _, err := c.Codec.CursorConfig(); err != nil {
		return errors.Wrap(err, "codec")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrap(err, "logging")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Newf("server: invalid port %d", c.Server.Port)
	}
	return nil
}

// CursorConfig translates the codec section into a cursor configuration.
func (c Codec) CursorConfig() (cursor.Config, error) {
	order, err := cursor.ParseByteOrder(c.ByteOrder)
	if err != nil {
		return cursor.Config{}, err
	}
	boolCoding, err := cursor.ParseBoolCoding(c.BoolCoding)
	if err != nil {
		return cursor.Config{}, err
	}
	timeCoding, err := cursor.ParseTimeCoding(c.TimeCoding)
	if err != nil {
		return cursor.Config{}, err
	}
	cfg := cursor.Config{
		ByteOrder:      order,
		StringEncoding: c.StringEncoding,
		BoolCoding:     boolCoding,
		TimeCoding:     timeCoding,
	}
	if _, err := cfg.Encoding(); err != nil {
		return cursor.Config{}, err
	}
	return cfg, nil
}

// Options returns the record codec options.
func (c Codec) Options() codec.Options {
	return codec.Options{AllowTruncated: c.AllowTruncated}
}

// NewLogger builds a zap logger at the configured level. verbose selects the
// development encoder at debug level.
func (l Logging) NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	level, err := zap.ParseAtomicLevel(l.Level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	return cfg.Build()
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "failed to generate secure key")
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a default configuration with a generated API key.
func BootstrapConfig(configPath string, indexDir string) (*Config, error) {
	config := DefaultConfig()
	if indexDir != "" {
		config.Index.Dir = indexDir
	}

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, err
	}
	config.Server.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, errors.Wrap(err, "failed to save bootstrap config")
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./stdf.yaml"
	}

	// For Linux/macOS, use ~/.config/stdf/config.yaml
	return filepath.Join(homeDir, ".config", "stdf", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
