package styles_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/assetdeploy/pkg/ui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	expected := []string{
		"Header", "DryRunBanner", "Success", "Error", "Warning", "Muted", "Bold",
		"Category", "Path", "ErrorCode",
		"StatusCopied", "StatusUnchanged", "StatusPlanned", "StatusFailed",
	}

	for _, name := range expected {
		t.Run(name, func(t *testing.T) {
			_, exists := styles.StyleRegistry[name]
			assert.True(t, exists, "style %s should be registered", name)
		})
	}
}

func TestGetStyle(t *testing.T) {
	assert.True(t, styles.GetStyle("Error").GetBold())
	assert.False(t, styles.GetStyle("NoSuchStyle").GetBold())
	assert.IsType(t, lipgloss.Style{}, styles.GetStyle("Path"))
	assert.Contains(t, styles.Render("NoSuchStyle", "plain"), "plain")
}

func TestLoadStyles(t *testing.T) {
	t.Cleanup(func() {
		// restore the embedded definitions for other tests
		data, err := os.ReadFile("styles.yaml")
		require.NoError(t, err)
		require.NoError(t, styles.LoadStylesFromData(data))
	})

	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
colors:
  pink: {light: "#ff00ff", dark: "#ff87ff"}
styles:
  Loud: {bold: true, underline: true, foreground: pink}
  Ghost: {foreground: missing}
`), 0644))

	require.NoError(t, styles.LoadStyles(path))
	assert.Len(t, styles.StyleRegistry, 2)
	assert.True(t, styles.GetStyle("Loud").GetUnderline())

	assert.Error(t, styles.LoadStyles(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, styles.LoadStylesFromData([]byte("colors: [")))
}
