package configcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/bibweb/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range envVars {
		t.Setenv(v, "")
	}
}

func TestRunShow_WithConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIBWEB_STYLESHEET", "env.css")
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := &config.Config{
		Author:   "Ada Lovelace",
		MaxDepth: 30,
		Macros:   map[string]string{"intro": "<h2>Notes</h2>"},
	}
	require.NoError(t, cfg.Save(path))

	var buf bytes.Buffer
	require.NoError(t, runShow(path, true, &buf))

	out := buf.String()
	assert.Contains(t, out, "Ada Lovelace  (source: config)")
	assert.Contains(t, out, "env.css  (source: BIBWEB_STYLESHEET)")
	assert.Contains(t, out, "html  (default)")
	assert.Contains(t, out, "30  (source: config)")
	assert.Contains(t, out, "100000  (default)")
	assert.Contains(t, out, `\intro = <h2>Notes</h2>`)
	assert.NotContains(t, out, "(file not found)")
}

func TestRunShow_NoConfigFile(t *testing.T) {
	clearEnv(t)
	var buf bytes.Buffer

	require.NoError(t, runShow(filepath.Join(t.TempDir(), "config.yml"), true, &buf))
	assert.Contains(t, buf.String(), "Unknown Author  (default)")
	assert.Contains(t, buf.String(), "(file not found)")
}

func TestRunTest(t *testing.T) {
	clearEnv(t)

	t.Run("good macros", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		cfg := &config.Config{Author: "Ada", Macros: map[string]string{"sig": `\textbf{\author}`}}
		require.NoError(t, cfg.Save(path))

		var buf bytes.Buffer
		require.NoError(t, runTest(path, true, &buf))
		assert.Contains(t, buf.String(), "✓ Configuration is valid")
		assert.Contains(t, buf.String(), "✓ 2 macro definitions expanded")
	})

	t.Run("broken macro", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		cfg := &config.Config{Macros: map[string]string{"loop": `\loop`}}
		require.NoError(t, cfg.Save(path))

		var buf bytes.Buffer
		err := runTest(path, true, &buf)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 macro definition failed to expand")
		assert.Contains(t, buf.String(), `✗ \loop:`)
	})

	t.Run("invalid config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("output_format: pdf\n"), 0644))

		var buf bytes.Buffer
		require.Error(t, runTest(path, true, &buf))
		assert.Contains(t, buf.String(), "bibweb init")
	})
}

func TestRunClear(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{Author: "x"}).Save(path))

	var buf bytes.Buffer
	require.NoError(t, runClear(path, true, &buf))
	assert.Contains(t, buf.String(), "Configuration cleared from "+path)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	buf.Reset()
	t.Setenv("BIBWEB_AUTHOR", "Ada")
	require.NoError(t, runClear(path, true, &buf))
	assert.Contains(t, buf.String(), "No config file to remove")
	assert.Contains(t, buf.String(), "BIBWEB_AUTHOR")
}

func TestNewCmdConfig(t *testing.T) {
	cmd := NewCmdConfig()
	assert.Len(t, cmd.Commands(), 3)
}
