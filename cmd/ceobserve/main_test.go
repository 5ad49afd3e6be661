package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/ceobserve/dom"
	"github.com/iw2rmb/ceobserve/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "ceobserve version test-version-1.0.0")
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"demo", "watch", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCmd_BadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644))
	defer func() { configPath = "" }()

	_, err := execute(t, "version", "--config", path)
	assert.Error(t, err)
}

func TestWatchCmd_RequiresURL(t *testing.T) {
	_, err := execute(t, "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url")
}

func TestWatchSettings_FlagsOverrideConfig(t *testing.T) {
	cfg, err := config.Parse([]byte("browser:\n  url: http://a.test/\n  control_url: ws://a\n"))
	require.NoError(t, err)
	logger = slog.Default()

	sc, selector, err := watchSettings(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://a.test/", sc.URL)
	assert.Equal(t, "ws://a", sc.ControlURL)
	assert.Equal(t, ".ve-ce-documentNode", selector)

	watchURL, watchSelector = "http://b.test/", "#editor"
	defer func() { watchURL, watchSelector = "", "" }()
	sc, selector, err = watchSettings(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://b.test/", sc.URL)
	assert.Equal(t, "#editor", selector)
}

func TestLoadDocument(t *testing.T) {
	logger = slog.Default()

	t.Run("built-in document", func(t *testing.T) {
		d, err := loadDocument("")
		require.NoError(t, err)
		assert.NotNil(t, d.Find("intro"))
		assert.NotEmpty(t, d.TextNodes())
	})

	t.Run("file without document node", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "plain.html")
		require.NoError(t, os.WriteFile(path, []byte("<p>plain</p>"), 0o644))
		_, err := loadDocument(path)
		assert.ErrorIs(t, err, dom.ErrNoDocumentNode)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadDocument(filepath.Join(t.TempDir(), "missing.html"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestNewLogger_VerboseEnablesDebug(t *testing.T) {
	buf := new(bytes.Buffer)
	newLogger(buf, slog.LevelWarn, false).Info("hidden")
	assert.Empty(t, buf.String())

	newLogger(buf, slog.LevelWarn, true).Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
}
