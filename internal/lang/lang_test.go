package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	content := `// comment
"greeting" = "Hello"
"escaped" = "Line\nbreak \"quoted\""

"long" = """
First line
Second line
"""
"fancy" = "Wait… it’s here"
`
	got, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"greeting": "Hello",
		"escaped":  "Line\nbreak \"quoted\"",
		"long":     "First line\nSecond line",
		"fancy":    "Wait... it's here",
	}, got)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
	}{
		{"missing equals", `"key" "value"`, 1},
		{"unterminated", "\n\"key\" = \"value", 2},
		{"unterminated multiline", `"key" = """` + "\nnever closed", 1},
		{"bare word", `key = "value"`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestBuiltInTablesParse(t *testing.T) {
	names, err := defaultTables.ReadDir("defaults")
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for _, n := range names {
		data, err := defaultTables.ReadFile("defaults/" + n.Name())
		require.NoError(t, err)
		_, err = Parse(string(data))
		assert.NoError(t, err, n.Name())
	}
}

func TestFallbacks(t *testing.T) {
	it := Default(Italian)
	assert.Equal(t, "Riprendi", it.Localized("menu.resume"))
	assert.Equal(t, "Slash", it.Localized("species.slash"), "falls back to English")
	assert.Equal(t, "no.such.key", it.Localized("no.such.key"), "falls back to the key")

	_, ok := it.Lookup("no.such.key")
	assert.False(t, ok)
	assert.Equal(t, []string{English, Italian}, it.Languages())
}

func TestMobileVariant(t *testing.T) {
	s := Default(English)
	assert.Equal(t, "Press Enter to try again", s.Localized("death_screen.subtitle"))

	s.SetMobile(true)
	assert.Equal(t, "Tap to try again", s.Localized("death_screen.subtitle"))
	assert.Equal(t, "Resume", s.Localized("menu.resume"), "keys without a variant are unchanged")
}

func TestFormatLocalizesArgs(t *testing.T) {
	s := Default(English)
	assert.Equal(t, "Got Bundle of Kunai", s.Format("item.collected", "species.kunai_bundle"))
	assert.Equal(t, "Player 2 won!", s.Format("death_screen.player_won", "Player 2"))
	assert.Equal(t, "Got %s", s.Format("item.collected"))
}

func TestLoadLayersDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.stringx"), []byte(`"menu.resume" = "Keep playing"`), 0o644))

	s, err := Load(dir, English)
	require.NoError(t, err)
	assert.Equal(t, "Keep playing", s.Localized("menu.resume"))
	assert.Equal(t, "Cancel", s.Localized("menu.cancel"))
}

func TestLoadMissingDirectory(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing"), English)
	require.NoError(t, err)
	assert.Equal(t, English, s.Language())
}

func TestLoadRejectsBrokenTable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.stringx"), []byte(`"broken`), 0o644))

	_, err := Load(dir, English)
	assert.Error(t, err)
}
