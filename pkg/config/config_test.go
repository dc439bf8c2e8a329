package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/stdfkit/pkg/cursor"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "little", config.Codec.ByteOrder)
	assert.Equal(t, "ISO-8859-1", config.Codec.StringEncoding)
	assert.True(t, config.Reader.DetectByteOrder)
	assert.False(t, config.Reader.SkipMalformed)
	assert.Equal(t, "./index", config.Index.Dir)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Bind)
	assert.Empty(t, config.Server.APIKey)
	assert.Equal(t, "info", config.Logging.Level)
	require.NoError(t, config.Validate())

	cfg, err := config.Codec.CursorConfig()
	require.NoError(t, err)
	assert.Equal(t, cursor.DefaultConfig(), cfg)
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64) // 32 bytes = 64 hex characters

		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		expectedConfig := DefaultConfig()
		expectedConfig.Codec.ByteOrder = "big"
		expectedConfig.Codec.TimeCoding = "local"
		expectedConfig.Reader.SkipMalformed = true
		expectedConfig.Server.Port = 9000
		expectedConfig.Server.APIKey = "test-api-key"
		expectedConfig.Logging.Level = "debug"

		err := SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing keys keep defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "partial.yaml")
		err := os.WriteFile(configPath, []byte("codec:\n  byte_order: big\n"), 0600)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "big", loadedConfig.Codec.ByteOrder)
		assert.Equal(t, "ISO-8859-1", loadedConfig.Codec.StringEncoding)
		assert.Equal(t, 8080, loadedConfig.Server.Port)

		cfg, err := loadedConfig.Codec.CursorConfig()
		require.NoError(t, err)
		assert.Equal(t, cursor.BigEndian, cfg.ByteOrder)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0600)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("load invalid setting", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		err := os.WriteFile(configPath, []byte("codec:\n  byte_order: middle\n"), 0600)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), `unknown byte order "middle"`)
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"bool coding", func(c *Config) { c.Codec.BoolCoding = "yes-no" }, "unknown boolean coding"},
		{"time coding", func(c *Config) { c.Codec.TimeCoding = "tai" }, "unknown datetime coding"},
		{"string encoding", func(c *Config) { c.Codec.StringEncoding = "klingon" }, "klingon"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "invalid port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestCodec_Options(t *testing.T) {
	config := DefaultConfig()
	assert.False(t, config.Codec.Options().AllowTruncated)

	config.Codec.AllowTruncated = true
	assert.True(t, config.Codec.Options().AllowTruncated)
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	config := DefaultConfig()

	err := SaveConfig(config, configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestBootstrapConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	indexDir := "/custom/index/dir"

	config, err := BootstrapConfig(configPath, indexDir)
	require.NoError(t, err)

	assert.Equal(t, indexDir, config.Index.Dir)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "info", config.Logging.Level)

	// Key is generated and valid hex
	assert.Len(t, config.Server.APIKey, 64)
	_, err = hex.DecodeString(config.Server.APIKey)
	assert.NoError(t, err)

	assert.True(t, ConfigExists(configPath))

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestLogging_NewLogger(t *testing.T) {
	logger, err := Logging{Level: "warn"}.NewLogger(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1)) // debug
	assert.True(t, logger.Core().Enabled(1))   // warn

	logger, err = Logging{Level: "info"}.NewLogger(true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = Logging{Level: "loud"}.NewLogger(false)
	assert.Error(t, err)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "stdf")
	assert.Contains(t, path, "config.yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	err := os.WriteFile(existingPath, []byte("test"), 0600)
	require.NoError(t, err)

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}

func TestSaveConfigErrorHandling(t *testing.T) {
	config := DefaultConfig()

	// a regular file where a parent directory is expected
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))
	invalidPath := filepath.Join(blocker, "sub", "config.yaml")

	err := SaveConfig(config, invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
