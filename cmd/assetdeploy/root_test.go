package assetdeploy

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/assetdeploy/internal/version"
	"github.com/arthur-debert/assetdeploy/pkg/ui"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ASSETDEPLOY_STATE_DIR", t.TempDir())

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func findCommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestRootCommand_Structure(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"deploy", "verify", "plan", "version", "completion", "help"} {
		assert.NotNil(t, findCommand(root, name), "missing command %s", name)
	}

	for _, flag := range []string{"verbose", "root", "mapping", "source", "dest", "layout", "format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing global flag --%s", flag)
	}

	deploy := findCommand(root, "deploy")
	require.NotNil(t, deploy)
	for _, flag := range []string{"dry-run", "fail-fast", "verify", "watch"} {
		assert.NotNil(t, deploy.Flags().Lookup(flag), "missing deploy flag --%s", flag)
	}
	assert.Equal(t, "core", deploy.GroupID)
}

func TestRootCommand_NoSubcommand(t *testing.T) {
	_, err := run(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), MsgErrNoCommand)
	assert.NotErrorIs(t, err, ErrReported)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "assetdeploy version "+version.Version)
	assert.Contains(t, out, "commit: "+version.Commit)
}

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "assetdeploy"},
		{"zsh", "#compdef assetdeploy"},
		{"fish", "complete -c assetdeploy"},
		{"powershell", "assetdeploy"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, err := run(t, "completion", tt.shell)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	t.Run("unknown shell", func(t *testing.T) {
		_, err := run(t, "completion", "tcsh")
		assert.Error(t, err)
	})
}

func TestHelpTopics(t *testing.T) {
	out, err := run(t, "help", "topics")
	require.NoError(t, err)

	assert.Contains(t, out, "Available help topics:")
	for _, topic := range []string{"mapping-format", "layouts", "configuration", "errors"} {
		assert.Contains(t, out, topic)
	}
	assert.Contains(t, out, "--dry-run")
}

func TestHelpTopic(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"help", "mapping-format"}, "source"},
		{[]string{"help", "errors"}, "MISSING_SOURCE_ASSET"},
		{[]string{"help", "watch"}, "debounce"},
		{[]string{"help", "deploy"}, "--fail-fast"},
	}

	for _, tt := range tests {
		t.Run(tt.args[len(tt.args)-1], func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestFormatFlagCompletion(t *testing.T) {
	out, err := run(t, cobra.ShellCompRequestCmd, "deploy", "--format", "")
	require.NoError(t, err)
	for _, name := range ui.Names() {
		assert.Contains(t, out, name+"\n")
	}
}
