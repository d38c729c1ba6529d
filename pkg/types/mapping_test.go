package types_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/assetdeploy/pkg/types"
	"github.com/stretchr/testify/assert"
)

func sampleMapping() *types.Mapping {
	return &types.Mapping{Categories: []types.Category{
		{Name: "wordmark", Entries: []types.Entry{
			{Source: "logo.svg", Dest: "logo.svg"},
			{Source: "logo-dark.svg", Dest: "logo-dark.svg"},
		}},
		{Name: "favicon", Entries: []types.Entry{
			{Source: "icon.svg", Dest: "icons/favicon.svg"},
		}},
	}}
}

func TestMapping_Helpers(t *testing.T) {
	m := sampleMapping()

	assert.Equal(t, types.LayoutCategorized, m.EffectiveLayout())
	assert.Equal(t, []string{"wordmark", "favicon"}, m.CategoryNames())
	assert.Equal(t, 3, m.EntryCount())

	c, ok := m.Category("favicon")
	assert.True(t, ok)
	assert.Len(t, c.Entries, 1)

	_, ok = m.Category("missing")
	assert.False(t, ok)
}

func TestMapping_Each(t *testing.T) {
	m := sampleMapping()

	var visited []string
	m.Each(func(category string, index int, e types.Entry) bool {
		visited = append(visited, category+":"+e.Source)
		return true
	})
	assert.Equal(t, []string{"wordmark:logo.svg", "wordmark:logo-dark.svg", "favicon:icon.svg"}, visited)

	count := 0
	m.Each(func(string, int, types.Entry) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestMapping_SourceDir(t *testing.T) {
	m := sampleMapping()
	assert.Equal(t, filepath.Join("out", "favicon"), m.SourceDir("out", "favicon"))

	m.Layout = types.LayoutFlat
	assert.Equal(t, "out", m.SourceDir("out", "favicon"))

	assert.True(t, types.LayoutFlat.Valid())
	assert.False(t, types.Layout("nested").Valid())
}

func TestDeployResult_Counts(t *testing.T) {
	r := &types.DeployResult{Entries: []types.EntryResult{
		{Status: types.EntryCopied},
		{Status: types.EntryUnchanged},
		{Status: types.EntryFailed},
		{Status: types.EntryCopied},
	}}

	assert.Equal(t, 2, r.Count(types.EntryCopied))
	assert.Len(t, r.Failed(), 1)
	assert.False(t, r.Succeeded())

	r.Entries = r.Entries[:2]
	assert.True(t, r.Succeeded())
}
