package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCfgPathAbsolute(t *testing.T) {
	assert.Equal(t, "/tmp/apiserver.yaml", GetCfgPath("/tmp/apiserver.yaml"))
}

func TestGetCfgPathFallback(t *testing.T) {
	got := GetCfgPath("nonexistent-file.yaml")
	assert.Equal(t, filepath.Join("/etc/tripdesk", "nonexistent-file.yaml"), got)
}

func TestGetCfgPathCurrentDir(t *testing.T) {
	dir := t.TempDir()
	name := "apiserver.yaml"
	assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("logger: {}"), 0644))

	wd, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	got := GetCfgPath(name)
	assert.Equal(t, name, filepath.Base(got))
}

func TestGetCfgPathEmptyPanics(t *testing.T) {
	assert.Panics(t, func() { GetCfgPath("") })
}
