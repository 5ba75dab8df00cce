package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourceLive, cfg.Source)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.Equal(t, []string{"disk"}, cfg.DiskTypes)
	assert.Equal(t, "mermaid", cfg.Render.Format)
	assert.True(t, cfg.RenderMountpoints())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.ByteSizes)
}

func TestLoadFromHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	dir := filepath.Join(home, ".config", "lvmgraph")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("render:\n  format: table\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Render.Format)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
fixture_dir: /srv/fixtures/host1
command_timeout: 5s
byte_sizes: true
disk_types: [disk, loop]
render:
  format: json
  template_dir: /usr/share/lvmgraph/templates
  mountpoints: false
log:
  level: debug
  json: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourceFixture, cfg.Source, "fixture_dir implies fixture mode")
	assert.Equal(t, "/srv/fixtures/host1", cfg.FixtureDir)
	assert.Equal(t, 5*time.Second, cfg.CommandTimeout)
	assert.True(t, cfg.ByteSizes)
	assert.Equal(t, []string{"disk", "loop"}, cfg.DiskTypes)
	assert.Equal(t, "json", cfg.Render.Format)
	assert.Equal(t, "/usr/share/lvmgraph/templates", cfg.Render.TemplateDir)
	assert.False(t, cfg.RenderMountpoints())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "byte_sizes: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.ByteSizes)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.Equal(t, []string{"disk"}, cfg.DiskTypes)
	assert.Equal(t, "mermaid", cfg.Render.Format)
	assert.True(t, cfg.RenderMountpoints())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid yaml", "render: [unclosed\n"},
		{"bad duration", "command_timeout: soon\n"},
		{"negative timeout", "command_timeout: -1s\n"},
		{"unknown source", "source: nfs\n"},
		{"fixture without dir", "source: fixture\n"},
		{"unknown log level", "log:\n  level: verbose\n"},
		{"misspelled log level", "log:\n  level: debgu\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDoesNotShareDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: warn\n"))
	require.NoError(t, err)
	cfg.DiskTypes[0] = "loop"

	again, err := Load(writeConfig(t, "log:\n  level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"disk"}, again.DiskTypes)
}

func TestExplicitLiveSourceWithFixtureDir(t *testing.T) {
	cfg, err := Load(writeConfig(t, "source: live\nfixture_dir: /tmp/x\n"))
	require.NoError(t, err)
	assert.Equal(t, SourceLive, cfg.SourceMode())
}

func TestLoadAcceptsWarningAlias(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: warning\n"))
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.Log.Level)
}

// chdir is a stand-in for testing.T.Chdir (Go 1.24+): it changes the working
// directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
