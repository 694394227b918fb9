package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
db_username: app
db_password: secret
db_host: localhost
db_port: "5432"
db_name: attendance
face_service_url: http://localhost:5000
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerPort)
	assert.Equal(t, "./private.pem", cfg.JWTKeyPath)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "09:00:00", cfg.OnTimeDeadline)
	assert.Equal(t, 90*time.Second, cfg.FaceTimeout())
}

func TestNewConfig_ExplicitValues(t *testing.T) {
	path := writeConfig(t, `
db_username: app
db_password: secret
db_host: localhost
db_port: "5432"
db_name: attendance
face_service_url: http://faces:5000
face_timeout_seconds: 30
timezone: Asia/Tokyo
on_time_deadline: "09:30:00"
server_port: ":9090"
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerPort)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, "09:30:00", cfg.OnTimeDeadline)
	assert.Equal(t, 30*time.Second, cfg.FaceTimeout())
}

func TestNewConfig_MissingFaceService(t *testing.T) {
	path := writeConfig(t, `
db_username: app
db_password: secret
db_host: localhost
db_port: "5432"
db_name: attendance
`)

	_, err := NewConfig(path)
	assert.Error(t, err)
}

func TestNewConfig_MissingDatabase(t *testing.T) {
	path := writeConfig(t, `
face_service_url: http://localhost:5000
`)

	_, err := NewConfig(path)
	assert.Error(t, err)
}

func TestNewConfig_MissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
