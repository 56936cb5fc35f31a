package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "peneira.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
mode: strict
mongo:
  uri: mongodb://localhost:27017
  database: app
postgres:
  dsn: postgres://localhost:5432/app
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ModeStrict, config.Mode)
	assert.Equal(t, "mongodb://localhost:27017", config.Mongo.URI)
	assert.Equal(t, "app", config.Mongo.Database)
	assert.Equal(t, "postgres://localhost:5432/app", config.Postgres.DSN)
}

func TestLoadConfigDefaultsToLenient(t *testing.T) {
	path := writeConfigFile(t, `
mongo:
  uri: mongodb://localhost:27017
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ModeLenient, config.Mode)
}

func TestLoadConfigRejectsUnknownMode(t *testing.T) {
	path := writeConfigFile(t, "mode: permissive\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfigFile(t, `
mode: lenient
mongo:
  uri: mongodb://file:27017
`)

	t.Setenv("PENEIRA_MODE", "strict")
	t.Setenv("PENEIRA_MONGO_URI", "mongodb://env:27017")
	t.Setenv("PENEIRA_POSTGRES_DSN", "postgres://env:5432/app")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ModeStrict, config.Mode)
	assert.Equal(t, "mongodb://env:27017", config.Mongo.URI)
	assert.Equal(t, "postgres://env:5432/app", config.Postgres.DSN)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
