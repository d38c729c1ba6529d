package json_test

import (
	"bytes"
	stdjson "encoding/json"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/ui/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderResult(t *testing.T) {
	var list errors.List
	list.Append(errors.New(errors.ErrMissingSourceAsset, "gone").WithDetail(errors.DetailCategory, "favicon"))
	list.Append(stderrors.New("plain"))

	var buf bytes.Buffer
	require.NoError(t, json.New(&buf).RenderResult("deploy", map[string]int{"entries": 2}, list.ErrOrNil()))

	var got struct {
		Command string
		OK      bool
		Result  map[string]int
		Errors  []struct {
			Code    string
			Message string
			Details map[string]interface{}
		}
	}
	require.NoError(t, stdjson.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "deploy", got.Command)
	assert.False(t, got.OK)
	assert.Equal(t, 2, got.Result["entries"])
	require.Len(t, got.Errors, 2)
	assert.Equal(t, "MISSING_SOURCE_ASSET", got.Errors[0].Code)
	assert.Equal(t, "favicon", got.Errors[0].Details["category"])
	assert.Equal(t, "UNKNOWN", got.Errors[1].Code)
	assert.Nil(t, got.Errors[1].Details)
}

func TestRenderResult_Success(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, json.New(&buf).RenderResult("plan", []string{"a"}, nil))
	assert.Contains(t, buf.String(), `"ok": true`)
	assert.NotContains(t, buf.String(), `"errors"`)
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, json.New(&buf).RenderError(errors.New(errors.ErrConfigValid, "bad")))
	assert.Contains(t, buf.String(), `"code": "CONFIG_INVALID"`)
}
