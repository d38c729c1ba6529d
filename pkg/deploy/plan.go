package deploy

import (
	"path/filepath"

	"github.com/arthur-debert/assetdeploy/pkg/types"
)

// Plan resolves every entry of m against the two roots without touching the
// filesystem. Entries are returned in mapping order.
func Plan(m *types.Mapping, sourceRoot, destinationRoot string) []types.ResolvedEntry {
	if m == nil {
		return nil
	}

	resolved := make([]types.ResolvedEntry, 0, m.EntryCount())
	m.Each(func(category string, index int, e types.Entry) bool {
		resolved = append(resolved, Resolve(m, sourceRoot, destinationRoot, category, index, e))
		return true
	})
	return resolved
}

// Resolve computes the source and destination paths of a single entry
func Resolve(m *types.Mapping, sourceRoot, destinationRoot, category string, index int, e types.Entry) types.ResolvedEntry {
	return types.ResolvedEntry{
		Category:       category,
		Index:          index,
		Entry:          e,
		ResolvedSource: filepath.Join(m.SourceDir(sourceRoot, category), e.Source),
		ResolvedDest:   filepath.Join(destinationRoot, filepath.FromSlash(e.Dest)),
	}
}

// DuplicateDestinations groups entries that resolve to the same destination
// path. Only destinations claimed by more than one entry are returned.
func DuplicateDestinations(plan []types.ResolvedEntry) map[string][]types.ResolvedEntry {
	byDest := make(map[string][]types.ResolvedEntry)
	for _, e := range plan {
		byDest[e.ResolvedDest] = append(byDest[e.ResolvedDest], e)
	}
	for dest, entries := range byDest {
		if len(entries) < 2 {
			delete(byDest, dest)
		}
	}
	return byDest
}
