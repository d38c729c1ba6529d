package display_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/assetdeploy/pkg/display"
	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/types"
	"github.com/arthur-debert/assetdeploy/pkg/ui"
	"github.com/arthur-debert/assetdeploy/pkg/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(category, source, dest string) types.ResolvedEntry {
	return types.ResolvedEntry{
		Category:       category,
		Entry:          types.Entry{Source: source, Dest: dest},
		ResolvedSource: "/src/" + category + "/" + source,
		ResolvedDest:   "/public/" + dest,
	}
}

func sampleResult() (*types.DeployResult, error) {
	missing := errors.New(errors.ErrMissingSourceAsset, "source asset /src/favicon/missing.svg not found")
	var errs errors.List
	errs.Append(missing)

	return &types.DeployResult{
		RunID: "run-1",
		Entries: []types.EntryResult{
			{ResolvedEntry: entry("wordmark", "logo.svg", "logos/logo.svg"), Status: types.EntryCopied, Bytes: 10},
			{ResolvedEntry: entry("wordmark", "dark.svg", "logos/dark.svg"), Status: types.EntryUnchanged},
			{ResolvedEntry: entry("favicon", "missing.svg", "icons/missing.svg"), Status: types.EntryFailed,
				Error: missing, ErrorText: missing.Error()},
		},
	}, errs.ErrOrNil()
}

func sampleReport() (*verify.Report, error) {
	stale := errors.New(errors.ErrAssetStale, "/public/icon.svg differs from /src/favicon/icon.svg")
	return &verify.Report{Entries: []verify.EntryReport{
		{ResolvedEntry: entry("favicon", "icon.svg", "icon.svg"), OK: false, Errors: []error{stale}, Problems: []string{stale.Error()}},
		{ResolvedEntry: entry("wordmark", "logo.svg", "logo.svg"), OK: true},
	}}, stale
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &display.JSONRenderer{}, display.New(ui.FormatJSON, &buf))
	assert.IsType(t, &display.RichRenderer{}, display.New(ui.FormatTerminal, &buf))
	assert.IsType(t, &display.TextRenderer{}, display.New(ui.FormatText, &buf))
	assert.IsType(t, &display.TextRenderer{}, display.New(ui.FormatAuto, &buf))
}

func TestTextRenderer_Deploy(t *testing.T) {
	var buf bytes.Buffer
	result, err := sampleResult()
	require.NoError(t, display.NewTextRenderer(&buf).RenderDeploy(result, err))

	out := buf.String()
	assert.Contains(t, out, "Deploy\n")
	assert.Contains(t, out, "copied    wordmark/logo.svg -> logos/logo.svg")
	assert.Contains(t, out, "failed    favicon/missing.svg -> icons/missing.svg")
	assert.Contains(t, out, "[MISSING_SOURCE_ASSET]")
	assert.Contains(t, out, "3 entries: 1 copied, 1 unchanged, 1 failed")
}

func TestTextRenderer_DryRunAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, display.NewTextRenderer(&buf).RenderDeploy(&types.DeployResult{DryRun: true}, nil))
	assert.Contains(t, buf.String(), "Deploy (dry run)")
	assert.Contains(t, buf.String(), "nothing to deploy")
	assert.Contains(t, buf.String(), "0 entries: 0 failed")
}

func TestTextRenderer_Verify(t *testing.T) {
	var buf bytes.Buffer
	report, err := sampleReport()
	require.NoError(t, display.NewTextRenderer(&buf).RenderVerify(report, err))

	out := buf.String()
	assert.Contains(t, out, "FAIL favicon/icon.svg -> icon.svg")
	assert.Contains(t, out, "ok   wordmark/logo.svg -> logo.svg")
	assert.Contains(t, out, "[ASSET_STALE]")
	assert.Contains(t, out, "2 entries: 1 passed, 1 failed")
}

func TestTextRenderer_PlanAndError(t *testing.T) {
	var buf bytes.Buffer
	r := display.NewTextRenderer(&buf)

	require.NoError(t, r.RenderPlan([]types.ResolvedEntry{entry("favicon", "icon.svg", "icons/favicon.svg")}))
	assert.Contains(t, buf.String(), "/src/favicon/icon.svg")
	assert.Contains(t, buf.String(), "-> /public/icons/favicon.svg")
	assert.Contains(t, buf.String(), "1 entry\n")

	buf.Reset()
	var errs errors.List
	errs.Append(errors.New(errors.ErrMalformedMappingEntry, "first"))
	errs.Append(errors.New(errors.ErrMalformedMappingEntry, "second"))
	require.NoError(t, r.RenderError(errs.ErrOrNil()))
	assert.Equal(t,
		"error: [MALFORMED_MAPPING_ENTRY] first\nerror: [MALFORMED_MAPPING_ENTRY] second\n",
		buf.String())

	buf.Reset()
	require.NoError(t, r.RenderDeploy(nil, errors.New(errors.ErrMappingLoad, "no file")))
	assert.Contains(t, buf.String(), "error: [MAPPING_LOAD] no file")
}

func TestRichRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := display.NewRichRenderer(&buf)

	result, err := sampleResult()
	require.NoError(t, r.RenderDeploy(result, err))
	out := buf.String()
	assert.Contains(t, out, "Deploy")
	assert.Contains(t, out, "logos/logo.svg")
	assert.Contains(t, out, "MISSING_SOURCE_ASSET")
	assert.Contains(t, out, "3 entries")

	buf.Reset()
	report, verr := sampleReport()
	require.NoError(t, r.RenderVerify(report, verr))
	assert.Contains(t, buf.String(), "ASSET_STALE")
	assert.Contains(t, buf.String(), "1 passed")

	buf.Reset()
	require.NoError(t, r.RenderPlan(nil))
	assert.Contains(t, buf.String(), "0 entries")

	buf.Reset()
	require.NoError(t, r.RenderDeploy(&types.DeployResult{DryRun: true}, nil))
	assert.Contains(t, buf.String(), "dry run")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := display.NewJSONRenderer(&buf)

	result, err := sampleResult()
	require.NoError(t, r.RenderDeploy(result, err))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "deploy", doc["command"])
	assert.Equal(t, false, doc["ok"])
	assert.Len(t, doc["errors"], 1)

	entries := doc["result"].(map[string]interface{})["entries"].([]interface{})
	require.Len(t, entries, 3)
	failed := entries[2].(map[string]interface{})
	assert.Equal(t, "failed", failed["status"])
	assert.Contains(t, failed["error"], "MISSING_SOURCE_ASSET")

	buf.Reset()
	require.NoError(t, r.RenderPlan(nil))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []interface{}{}, doc["result"])
}
