package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnv(t *testing.T) {
	t.Setenv("TRIPDESK_TEST_DB", "crm")

	in := []byte("dbname: ${TRIPDESK_TEST_DB}\nhost: ${TRIPDESK_TEST_HOST:localhost}\n")
	out := string(resolveEnv(in))

	assert.Contains(t, out, "dbname: crm")
	assert.Contains(t, out, "host: localhost")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apiserver.yaml")
	content := `
server:
  port: 8080
database:
  type: sqlite
  dbname: ":memory:"
jwt:
  secret_key: ${TRIPDESK_TEST_SECRET:0123456789abcdef0123456789abcdef}
  duration: 24h
storage:
  root: ./uploads
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, cfgPath, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, path, cfgPath)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Len(t, cfg.JWT.SecretKey, 32)
	assert.Equal(t, "24h0m0s", cfg.JWT.Duration.String())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	pg := &DatabaseConfig{Type: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", DBName: "crm", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/crm?sslmode=disable", pg.GetDSN())

	my := &DatabaseConfig{Type: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", DBName: "crm"}
	assert.Equal(t, "u:p@tcp(db:3306)/crm?charset=utf8mb4&parseTime=True&loc=Local", my.GetDSN())

	lite := &DatabaseConfig{Type: "sqlite", DBName: ":memory:"}
	assert.Equal(t, ":memory:", lite.GetDSN())

	assert.Equal(t, "", (&DatabaseConfig{Type: "oracle"}).GetDSN())
}
