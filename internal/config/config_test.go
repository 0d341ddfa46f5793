package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyplay/internal/knowledge"
	"github.com/abhisek/studyplay/internal/priority"
	"github.com/abhisek/studyplay/internal/selection"
	"github.com/abhisek/studyplay/internal/study"
	"github.com/abhisek/studyplay/internal/tokenizer"
)

// isolate points config lookup at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	want := study.DefaultConfig()
	assert.Equal(t, want.Frequency, cfg.Study.Frequency)
	assert.Equal(t, want.LineSelection, cfg.Study.LineSelection)
	assert.Equal(t, want.Intensity, cfg.Study.Intensity)
	assert.Equal(t, want.RateLimitSeconds, cfg.Study.RateLimitSeconds)
	assert.True(t, cfg.Study.Enabled)
	assert.Empty(t, cfg.Study.Decks)
	assert.Equal(t, tokenizer.DefaultConfig(), cfg.Tokenizer)
	assert.Equal(t, knowledge.DefaultAnkiConfig(), cfg.Anki)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.DB.Path)
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[study]
line_selection = "prioritize_unknown"
token_selection = "knowledge"
intensity = "high"
focus_mode = "weak"
max_blanks = 2

[[study.decks]]
name = "Core 2k"
enabled = true

[[study.decks]]
name = "Kanji"
enabled = false

[tokenizer]
backend = "kagome-uni"

[anki]
timeout = "5s"
field = "Expression"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, selection.LineSelectionPrioritizeUnknown, cfg.Study.LineSelection)
	assert.Equal(t, selection.TokenKnowledge, cfg.Study.TokenSelection)
	assert.Equal(t, priority.IntensityHigh, cfg.Study.Intensity)
	assert.Equal(t, priority.FocusWeak, cfg.Study.FocusMode)
	assert.Equal(t, 2, cfg.Study.MaxBlanks)
	assert.Equal(t, []knowledge.DeckConfig{
		{Name: "Core 2k", Enabled: true},
		{Name: "Kanji", Enabled: false},
	}, cfg.Study.Decks)
	assert.Equal(t, tokenizer.BackendKagomeUni, cfg.Tokenizer.Backend)
	assert.Equal(t, 5*time.Second, cfg.Anki.Timeout)
	assert.Equal(t, "Expression", cfg.Anki.Field)
	// Untouched keys keep their defaults.
	assert.Equal(t, 10, cfg.Study.Frequency)
}

func TestLoadDiscoversConfigDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "studyplay"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "studyplay", "studyplay.yaml"),
		[]byte("study:\n  frequency: 3\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Study.Frequency)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("STUDYPLAY_STUDY_FREQUENCY", "7")
	t.Setenv("STUDYPLAY_STUDY_ENABLED", "false")
	t.Setenv("STUDYPLAY_LOG_LEVEL", "debug")
	t.Setenv("STUDYPLAY_DB_PATH", "/tmp/x.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Study.Frequency)
	assert.False(t, cfg.Study.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/x.db", cfg.DB.Path)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Study.Frequency = 0
	cfg.Tokenizer.Backend = "mecab"
	cfg.Log.Format = "xml"

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, tokenizer.ErrUnknownBackend)
	assert.Contains(t, err.Error(), "study: ")
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}
