package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFiles_Precedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"app_env": "staging", "listen_port": 8081, "log_level": "warn"}`)
	yamlPath := writeFile(t, dir, "app.yaml", "listen_port: 9090\nlisten_host: 127.0.0.1\nnested:\n  ignored: true\n")
	envPath := writeFile(t, dir, ".env", "# comment\nLOG_LEVEL='error'\nbroken line\n")

	require.NoError(t, loadFromFiles(jsonPath, yamlPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles("", "", "") })

	assert.Equal(t, "staging", get("APP_ENV", ""))
	assert.Equal(t, "127.0.0.1", get("LISTEN_HOST", ""))
	assert.Equal(t, "9090", get("LISTEN_PORT", ""))
	assert.Equal(t, "error", get("LOG_LEVEL", ""))
	assert.Empty(t, get("NESTED", ""))
}

func TestLoadFromFiles_MissingFilesKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(
		filepath.Join(dir, "nope.json"),
		filepath.Join(dir, "nope.yaml"),
		filepath.Join(dir, "nope.env"),
	))

	assert.Equal(t, defaultAppEnv, get("APP_ENV", "x"))
	assert.Equal(t, "0", get("LISTEN_PORT", "x"))
}

func TestLoadFromFiles_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "app.yaml", "listen_port: [unterminated\n")

	err := loadFromFiles(filepath.Join(dir, "nope.json"), yamlPath, filepath.Join(dir, "nope.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestLoadFromFiles_EnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "LISTEN_HOST=0.0.0.0\n")
	t.Cleanup(func() { _ = loadFromFiles("", "", "") })
	t.Setenv("LISTEN_HOST", "::1")

	require.NoError(t, loadFromFiles(filepath.Join(dir, "a.json"), filepath.Join(dir, "a.yaml"), envPath))

	assert.Equal(t, "::1", get("LISTEN_HOST", ""))
}

func TestListenPort_Invalid(t *testing.T) {
	_ = Load()

	mu.Lock()
	prev := values["LISTEN_PORT"]
	values["LISTEN_PORT"] = "not-a-port"
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		values["LISTEN_PORT"] = prev
		mu.Unlock()
	})

	assert.Equal(t, 0, ListenPort())
}
