package format

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".kieli-format.yml")

	config := &Config{IndentSize: 4, AlignFields: false}
	require.NoError(t, SaveConfig(configPath, config))

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.IndentSize, loaded.IndentSize)
	assert.Equal(t, config.AlignFields, loaded.AlignFields)
}

func TestLoadConfigMissingFileReturnsDefault(t *testing.T) {
	loaded, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 2, cfg.IndentSize)
	assert.True(t, cfg.AlignFields)
}
