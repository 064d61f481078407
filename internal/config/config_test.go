package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty config uses defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "valid config",
			config: Config{
				Author:        "Ada Lovelace",
				OutputFormat:  "markdown",
				MaxDepth:      30,
				MaxExpansions: 5000,
				Macros:        map[string]string{"banner": "<h1>Papers</h1>"},
			},
			wantErr: false,
		},
		{
			name:    "unknown output format",
			config:  Config{OutputFormat: "pdf"},
			wantErr: true,
			errMsg:  "output_format must be one of html, markdown",
		},
		{
			name:    "negative depth",
			config:  Config{MaxDepth: -1},
			wantErr: true,
			errMsg:  "max_depth must be positive",
		},
		{
			name:    "negative expansions",
			config:  Config{MaxExpansions: -5},
			wantErr: true,
			errMsg:  "max_expansions must be positive",
		},
		{
			name:    "macro name with space",
			config:  Config{Macros: map[string]string{"my macro": "x"}},
			wantErr: true,
			errMsg:  `invalid macro name "my macro"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Run("loads all env vars", func(t *testing.T) {
		t.Setenv("BIBWEB_AUTHOR", "Grace Hopper")
		t.Setenv("BIBWEB_STYLESHEET", "hopper.css")
		t.Setenv("BIBWEB_OUTPUT_FORMAT", "markdown")
		t.Setenv("BIBWEB_MAX_DEPTH", "12")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, "Grace Hopper", cfg.Author)
		assert.Equal(t, "hopper.css", cfg.Stylesheet)
		assert.Equal(t, "markdown", cfg.OutputFormat)
		assert.Equal(t, 12, cfg.MaxDepth)
	})

	t.Run("empty env vars keep existing values", func(t *testing.T) {
		t.Setenv("BIBWEB_AUTHOR", "")
		t.Setenv("BIBWEB_STYLESHEET", "")
		t.Setenv("BIBWEB_OUTPUT_FORMAT", "")
		t.Setenv("BIBWEB_MAX_DEPTH", "deep")

		cfg := &Config{Author: "Ada Lovelace", MaxDepth: 20}
		cfg.LoadFromEnv()

		assert.Equal(t, "Ada Lovelace", cfg.Author)
		assert.Equal(t, 20, cfg.MaxDepth)
	})
}

func TestConfig_SeedMacros(t *testing.T) {
	cfg := &Config{
		Author: "Ada Lovelace",
		Macros: map[string]string{"banner": "<h1>Notes</h1>", "author": "overridden"},
	}

	seeds := cfg.SeedMacros()
	assert.Equal(t, map[string]string{
		"banner": "<h1>Notes</h1>",
		"author": "Ada Lovelace",
	}, seeds)
	assert.Equal(t, "overridden", cfg.Macros["author"])

	assert.Empty(t, (&Config{}).SeedMacros())
}

func TestDefaultConfigPath(t *testing.T) {
	t.Run("XDG_CONFIG_HOME", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		assert.Equal(t, filepath.Join(dir, "bibweb", "config.yml"), DefaultConfigPath())
	})

	t.Run("home directory", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		path := DefaultConfigPath()

		home, err := os.UserHomeDir()
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(path, home))
		assert.Contains(t, path, "bibweb")
		assert.Equal(t, ".yml", filepath.Ext(path))
	})
}

func TestConfig_Save_and_Load(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yml")

	original := Config{
		Author:             "Ada Lovelace",
		Stylesheet:         "notes.css",
		OutputFormat:       "html",
		MaxDepth:           25,
		MaxExpansions:      1000,
		SentenceCaseTitles: true,
		Macros:             map[string]string{"intro": "<h2>Notes</h2>"},
	}

	err := original.Save(configPath)
	require.NoError(t, err)

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	require.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("BIBWEB_AUTHOR", "")
	t.Setenv("BIBWEB_STYLESHEET", "")
	t.Setenv("BIBWEB_OUTPUT_FORMAT", "markdown")
	t.Setenv("BIBWEB_MAX_DEPTH", "")

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "config.yml"))
		require.NoError(t, err)
		assert.Equal(t, "markdown", cfg.OutputFormat)
	})

	t.Run("file and env", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("author: Ada Lovelace\noutput_format: html\n"), 0644))

		cfg, err := LoadWithEnv(path)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", cfg.Author)
		assert.Equal(t, "markdown", cfg.OutputFormat)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("max_depth: [1, 2\n"), 0644))

		_, err := LoadWithEnv(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestResolve(t *testing.T) {
	for _, v := range []string{"BIBWEB_AUTHOR", "BIBWEB_STYLESHEET", "BIBWEB_OUTPUT_FORMAT", "BIBWEB_MAX_DEPTH"} {
		t.Setenv(v, "")
	}

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yml")
	require.NoError(t, os.WriteFile(good, []byte("author: Ada Lovelace\nmax_depth: 5\n"), 0644))
	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("output_format: pdf\n"), 0644))

	cfg, err := Resolve(good)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxDepth)

	_, err = Resolve(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err = Resolve("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, *cfg)
}

func TestConfig_NewConverter(t *testing.T) {
	cfg := &Config{
		Author: "Ada Lovelace",
		Macros: map[string]string{"greet": "Hello, #1!"},
	}
	conv := cfg.NewConverter()

	out, err := conv.Convert(`\greet{\author}`, false)
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada Lovelace!", out)
}
