package assetdeploy

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arthur-debert/assetdeploy/pkg/display"
	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/testutil"
	"github.com/arthur-debert/assetdeploy/pkg/ui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16"><rect width="16" height="16"/></svg>`

const mappingFile = "assets/generate/asset-mappings.yaml"

// newProject lays out an asset tree using the default config locations
func newProject(t *testing.T, mappingYAML string) *testutil.AssetTree {
	t.Helper()
	t.Setenv("ASSETDEPLOY_STATE_DIR", t.TempDir())
	t.Setenv("ASSETDEPLOY_ROOT", "")

	tree := testutil.NewAssetTree(t)
	tree.WriteFile(mappingFile, mappingYAML)
	return tree
}

func execute(t *testing.T, tree *testutil.AssetTree, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--root", tree.Root}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestDeployCommand(t *testing.T) {
	tree := newProject(t, `
icons:
  - source: logo.svg
    dest: icons/logo.svg
badges:
  - source: ok.svg
    dest: img/badges/ok.svg
`)
	tree.AddSource("icons", "logo.svg", validSVG)
	tree.AddSource("badges", "ok.svg", validSVG)

	out, err := execute(t, tree, "deploy", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "icons/logo.svg")
	assert.Contains(t, out, "2 copied")
	testutil.AssertDestFiles(t, tree, "icons/logo.svg", "img/badges/ok.svg")
	testutil.AssertFileContent(t, tree.FS, tree.DestPath("icons/logo.svg"), validSVG)
}

func TestDeployCommand_MissingSource(t *testing.T) {
	tree := newProject(t, `
icons:
  - source: gone.svg
    dest: icons/gone.svg
  - source: logo.svg
    dest: icons/logo.svg
`)
	tree.AddSource("icons", "logo.svg", validSVG)

	out, err := execute(t, tree, "deploy", "--format", "text")
	require.Error(t, err)

	assert.True(t, stderrors.Is(err, ErrReported), "deploy failures are rendered by the command")
	testutil.AssertErrorCode(t, err, errors.ErrMissingSourceAsset)
	assert.Contains(t, out, "MISSING_SOURCE_ASSET")
	testutil.AssertDestFiles(t, tree, "icons/logo.svg")
}

func TestDeployCommand_DryRun(t *testing.T) {
	tree := newProject(t, `
icons:
  - source: logo.svg
    dest: icons/logo.svg
`)
	tree.AddSource("icons", "logo.svg", validSVG)

	out, err := execute(t, tree, "deploy", "--dry-run", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "dry run")
	assert.Contains(t, out, "1 planned")
	testutil.AssertNotExists(t, tree.FS, tree.DestRoot)
}

func TestDeployCommand_Verify(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{name: "valid svg", content: validSVG},
		{name: "no viewBox", content: `<svg xmlns="http://www.w3.org/2000/svg"></svg>`, code: errors.ErrSVGViewBox},
		{name: "not svg", content: `<html></html>`, code: errors.ErrSVGRoot},
		{name: "broken xml", content: `<svg viewBox="0 0 1 1"`, code: errors.ErrSVGMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newProject(t, `
icons:
  - source: logo.svg
    dest: icons/logo.svg
`)
			tree.AddSource("icons", "logo.svg", tt.content)

			out, err := execute(t, tree, "deploy", "--verify", "--format", "text")
			assert.Contains(t, out, "Verify")
			if tt.code == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			testutil.AssertErrorCode(t, err, tt.code)
			testutil.AssertDestFiles(t, tree, "icons/logo.svg")
		})
	}
}

func TestDeployCommand_FailFast(t *testing.T) {
	tree := newProject(t, `
icons:
  - source: gone.svg
    dest: icons/gone.svg
  - source: logo.svg
    dest: icons/logo.svg
`)
	tree.AddSource("icons", "logo.svg", validSVG)

	_, err := execute(t, tree, "deploy", "--fail-fast", "--format", "text")
	require.Error(t, err)
	testutil.AssertNotExists(t, tree.FS, tree.DestPath("icons/logo.svg"))
}

func TestDeployCommand_JSON(t *testing.T) {
	tree := newProject(t, `
icons:
  - source: gone.svg
    dest: icons/gone.svg
`)

	out, err := execute(t, tree, "deploy", "--format", "json")
	require.Error(t, err)

	var envelope struct {
		Command string `json:"command"`
		OK      bool   `json:"ok"`
		Errors  []struct {
			Code    string                 `json:"code"`
			Details map[string]interface{} `json:"details"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope), out)

	assert.Equal(t, "deploy", envelope.Command)
	assert.False(t, envelope.OK)
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, string(errors.ErrMissingSourceAsset), envelope.Errors[0].Code)
	assert.Equal(t, "icons", envelope.Errors[0].Details[errors.DetailCategory])
	assert.Equal(t, "gone.svg", envelope.Errors[0].Details[errors.DetailSource])
}

func TestDeployCommand_FlagOverrides(t *testing.T) {
	tree := newProject(t, "")
	other := filepath.Join(tree.Root, "elsewhere")
	tree.WriteFile("custom.yaml", `
icons:
  - source: logo.svg
    dest: logo.svg
`)
	tree.WriteFile("build/icons/logo.svg", validSVG)

	_, err := execute(t, tree, "deploy", "--format", "text",
		"--mapping", filepath.Join(tree.Root, "custom.yaml"),
		"--source", filepath.Join(tree.Root, "build"),
		"--dest", other,
	)
	require.NoError(t, err)
	testutil.AssertFileContent(t, tree.FS, filepath.Join(other, "logo.svg"), validSVG)
}

func TestDeployCommand_FlatLayout(t *testing.T) {
	tree := newProject(t, `
icons:
  - source: logo.svg
    dest: logo.svg
`)
	tree.WriteFile("assets/generate/output/logo.svg", validSVG)

	_, err := execute(t, tree, "deploy", "--layout", "flat", "--format", "text")
	require.NoError(t, err)
	testutil.AssertDestFiles(t, tree, "logo.svg")
}

func TestDeployCommand_ConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(tree *testutil.AssetTree)
		args  []string
		code  errors.ErrorCode
	}{
		{
			name: "unknown layout",
			args: []string{"--layout", "nested"},
			code: errors.ErrConfigValid,
		},
		{
			name: "missing mapping file",
			args: []string{"--mapping", "/nonexistent/mapping.yaml"},
			code: errors.ErrMappingLoad,
		},
		{
			name: "malformed mapping",
			setup: func(tree *testutil.AssetTree) {
				tree.WriteFile(mappingFile, "icons:\n  - source: logo.svg\n")
			},
			code: errors.ErrMalformedMappingEntry,
		},
		{
			name: "bad config file",
			setup: func(tree *testutil.AssetTree) {
				tree.WriteFile(".assetdeploy.toml", "[deploy\n")
			},
			code: errors.ErrConfigLoad,
		},
		{
			name: "unknown format",
			args: []string{"--format", "xml"},
			code: errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newProject(t, "icons: []\n")
			if tt.setup != nil {
				tt.setup(tree)
			}

			args := append([]string{"deploy"}, tt.args...)
			_, err := execute(t, tree, args...)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, ErrReported))
			testutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

func TestDeployCommand_ConfigFile(t *testing.T) {
	tree := newProject(t, "")
	tree.WriteFile(".assetdeploy.yaml", `
mapping:
  file: mappings.yaml
source:
  root: svg
destination:
  root: site/static
`)
	tree.WriteFile("mappings.yaml", `
icons:
  - source: logo.svg
    dest: logo.svg
`)
	tree.WriteFile("svg/icons/logo.svg", validSVG)

	_, err := execute(t, tree, "deploy", "--format", "text")
	require.NoError(t, err)
	testutil.AssertFileContent(t, tree.FS, filepath.Join(tree.Root, "site", "static", "logo.svg"), validSVG)
}

func TestVerifyCommand(t *testing.T) {
	tree := newProject(t, `
icons:
  - source: logo.svg
    dest: icons/logo.svg
`)
	tree.AddSource("icons", "logo.svg", validSVG)

	_, err := execute(t, tree, "verify", "--format", "text")
	require.Error(t, err, "nothing deployed yet")
	testutil.AssertErrorCode(t, err, errors.ErrAssetMissing)

	_, err = execute(t, tree, "deploy", "--format", "text")
	require.NoError(t, err)

	out, err := execute(t, tree, "verify", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed")

	tree.AddSource("icons", "logo.svg", validSVG+"\n")
	_, err = execute(t, tree, "verify", "--format", "text")
	require.Error(t, err)
	testutil.AssertErrorCode(t, err, errors.ErrAssetStale)
}

func TestPlanCommand(t *testing.T) {
	tree := newProject(t, `
icons:
  - source: logo.svg
    dest: icons/logo.svg
`)

	out, err := execute(t, tree, "plan", "--format", "json")
	require.NoError(t, err)

	var envelope struct {
		Command string `json:"command"`
		OK      bool   `json:"ok"`
		Result  []struct {
			Category       string `json:"category"`
			ResolvedSource string `json:"resolvedSource"`
			ResolvedDest   string `json:"resolvedDest"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope), out)
	assert.Equal(t, "plan", envelope.Command)
	require.Len(t, envelope.Result, 1)
	assert.Equal(t, tree.SourcePath("icons", "logo.svg"), envelope.Result[0].ResolvedSource)
	assert.Equal(t, tree.DestPath("icons/logo.svg"), envelope.Result[0].ResolvedDest)

	_, statErr := os.Stat(tree.DestRoot)
	assert.True(t, os.IsNotExist(statErr), "plan must not touch the destination")
}

func TestRunWatch_StopsOnCancel(t *testing.T) {
	tests := []struct {
		name       string
		initialErr error
		code       errors.ErrorCode
	}{
		{name: "last deploy succeeded"},
		{
			name:       "last deploy failed",
			initialErr: errors.New(errors.ErrMissingSourceAsset, "source asset gone.svg not found"),
			code:       errors.ErrMissingSourceAsset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := newProject(t, `
icons:
  - source: logo.svg
    dest: icons/logo.svg
`)
			tree.AddSource("icons", "logo.svg", validSVG)

			cmd := NewRootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			opts := &globalOptions{root: tree.Root, format: "text"}

			proj, err := opts.loadProject(cmd)
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err = runWatch(ctx, cmd, opts, proj, &deployFlags{}, newRenderer(cmd, proj.format), tt.initialErr)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, ErrReported), "the failure was rendered when it happened")
			testutil.AssertErrorCode(t, err, tt.code)
		})
	}
}

// failingRenderer renders everything as text except errors, which it
// cannot write
type failingRenderer struct {
	display.Renderer
	errorCalls atomic.Int32
}

func (f *failingRenderer) RenderError(err error) error {
	f.errorCalls.Add(1)
	return stderrors.New("output closed")
}

func TestRunWatch_BrokenMappingOnReload(t *testing.T) {
	tree := newProject(t, `
icons:
  - source: logo.svg
    dest: icons/logo.svg
`)
	tree.AddSource("icons", "logo.svg", validSVG)
	tree.WriteFile(".assetdeploy.yaml", "watch:\n  debounce: 20ms\n")

	var logs bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&logs)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	opts := &globalOptions{root: tree.Root, format: "text"}
	proj, err := opts.loadProject(cmd)
	require.NoError(t, err)

	r := &failingRenderer{Renderer: display.New(ui.FormatText, &out)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, cmd, opts, proj, &deployFlags{}, r, nil) }()

	// give the watcher time to register its watches
	time.Sleep(50 * time.Millisecond)
	tree.WriteFile(mappingFile, "icons: [\n")
	assert.Eventually(t, func() bool { return r.errorCalls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	err = <-done
	require.Error(t, err, "the last reload failed")
	assert.True(t, stderrors.Is(err, ErrReported))
	testutil.AssertErrorCode(t, err, errors.ErrMappingParse)
	assert.Contains(t, logs.String(), "Cannot render mapping error")
	assert.Contains(t, logs.String(), "output closed")
}
