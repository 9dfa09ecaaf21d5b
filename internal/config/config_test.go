package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	configContent := `port: 9090
upload_path: /data/uploads`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/data/uploads", cfg.UploadPath)

	assert.Equal(t, "./photos.json", cfg.DBPath)
	assert.Equal(t, "./license.key", cfg.LicensePath)
	assert.Equal(t, "./first_launch.txt", cfg.FirstLaunchPath)
	assert.Equal(t, 10.0, cfg.MaxSize)
	assert.Equal(t, 50, cfg.MaxFiles)
	assert.Equal(t, "http://localhost:8080/", cfg.BaseURL)
	assert.False(t, cfg.DevMode)
}

func TestLoadConfigWithEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfigWithNonExistentFile(t *testing.T) {
	cfg, err := LoadConfig("/non/existent/path.yaml")

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfigWithInvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("port: [not a number"), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "./uploads", cfg.UploadPath)
	assert.Equal(t, "./photos.json", cfg.DBPath)
	assert.Equal(t, 10.0, cfg.MaxSize)
	assert.Equal(t, 50, cfg.MaxFiles)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("UPLOAD_DIR", "/data/uploads")
	t.Setenv("DB_PATH", "/data/photos.json")
	t.Setenv("LICENSE_PATH", "/data/license.key")
	t.Setenv("FIRST_LAUNCH_PATH", "/data/first_launch.txt")
	t.Setenv("DEV_MODE", "true")

	cfg := Default()

	assert.Equal(t, "/data/uploads", cfg.UploadPath)
	assert.Equal(t, "/data/photos.json", cfg.DBPath)
	assert.Equal(t, "/data/license.key", cfg.LicensePath)
	assert.Equal(t, "/data/first_launch.txt", cfg.FirstLaunchPath)
	assert.True(t, cfg.DevMode)
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("upload_path: ./from-file"), 0644)
	require.NoError(t, err)

	t.Setenv("UPLOAD_DIR", "/from-env")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/from-env", cfg.UploadPath)
}

func TestMaxSizeToBytes(t *testing.T) {
	cfg := &Config{MaxSize: 10.0}
	assert.Equal(t, int64(10*1024*1024), cfg.MaxSizeToBytes())

	cfg = &Config{MaxSize: 0.5}
	assert.Equal(t, int64(512*1024), cfg.MaxSizeToBytes())
}
