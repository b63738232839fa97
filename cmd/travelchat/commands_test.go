package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"travelchat/internal/app"
	"travelchat/internal/config"
	"travelchat/internal/domain"
)

// setupTestApp swaps in an offline application with the built-in corpus.
func setupTestApp(t *testing.T) {
	t.Helper()
	orig := newApp
	newApp = func(ctx context.Context, adjust func(*config.LoggingConfig)) (*app.App, error) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		cfg.Documents.Path = filepath.Join(t.TempDir(), "none.json")
		cfg.Chat.Enabled = false
		if adjust != nil {
			adjust(&cfg.Logging)
		}
		return app.New(ctx, cfg, arbor.NewNoOpLogger())
	}
	t.Cleanup(func() {
		newApp = orig
		askJSON, docsJSON = false, false
		rootCmd.SetArgs(nil)
	})
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "chat", "ask", "docs"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestAskCmd_RequiresMessage(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, "ask")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestAskCmd_PrintsFallbackReply(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, "ask", "hello")

	require.NoError(t, err)
	assert.Contains(t, out, "AtithiBot")
	assert.Contains(t, out, "(offline answer)")
	assert.Contains(t, out, "[4]")
}

func TestAskCmd_JSON(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, "ask", "--json", "tell", "me", "about", "goa", "budget", "trip")

	require.NoError(t, err)
	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.AIPowered)
	assert.Contains(t, resp.Response, "Goa")
	assert.Len(t, resp.Suggestions, 4)
}

func TestAskCmd_BlankMessageFails(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, "ask", "   ")

	assert.Error(t, err)
}

func TestDocsCmd_ListsCorpus(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, "docs")

	require.NoError(t, err)
	assert.Contains(t, out, "6 documents (search: keyword)")
	assert.Contains(t, out, "[1] Taj Mahal - Agra, Uttar Pradesh")
}

func TestDocsCmd_JSON(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, "docs", "--json")

	require.NoError(t, err)
	var docs []domain.TravelDocument
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	assert.Len(t, docs, 6)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chat:\n  model: mistral\n"), 0o644))
	t.Setenv(config.EnvOllamaChatModel, "")
	orig := cfgPath
	cfgPath = path
	defer func() { cfgPath = orig }()

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.Chat.Model)
}

func TestQuietLogging(t *testing.T) {
	l := config.LoggingConfig{Level: "info"}
	quietLogging(&l)
	assert.Equal(t, "warn", l.Level)

	l = config.LoggingConfig{Level: "error"}
	quietLogging(&l)
	assert.Equal(t, "error", l.Level)
}

func TestFileOnlyLogging(t *testing.T) {
	l := config.LoggingConfig{Output: []string{"console"}}

	fileOnlyLogging(&l)

	assert.Equal(t, []string{"file"}, l.Output)
	assert.NotEmpty(t, l.File)
}
