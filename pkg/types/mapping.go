package types

import (
	"path/filepath"
)

// Layout selects how an entry's source filename resolves under the source root
type Layout string

const (
	// LayoutCategorized resolves sources under <source_root>/<category>/
	LayoutCategorized Layout = "categorized"

	// LayoutFlat is the legacy shape: sources sit directly in <source_root>
	// and category names only group entries.
	LayoutFlat Layout = "flat"
)

// Valid reports whether l is a known layout
func (l Layout) Valid() bool {
	return l == LayoutCategorized || l == LayoutFlat
}

// Entry declares one source file and where it is deployed to
type Entry struct {
	// Source is a bare filename inside the category's source directory
	Source string `json:"source" yaml:"source" toml:"source"`

	// Dest is a path relative to the destination root
	Dest string `json:"dest" yaml:"dest" toml:"dest"`
}

// Category is a named, ordered group of entries. The name doubles as the
// subdirectory of the source root holding the category's files.
type Category struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Mapping is the ordered category -> entries structure loaded from a
// mapping file. It is built once per invocation and treated as read-only.
type Mapping struct {
	Categories []Category `json:"categories"`
	Layout     Layout     `json:"layout"`
}

// EffectiveLayout returns the layout, defaulting to LayoutCategorized
func (m *Mapping) EffectiveLayout() Layout {
	if m == nil || m.Layout == "" {
		return LayoutCategorized
	}
	return m.Layout
}

// Category returns the category with the given name
func (m *Mapping) Category(name string) (*Category, bool) {
	for i := range m.Categories {
		if m.Categories[i].Name == name {
			return &m.Categories[i], true
		}
	}
	return nil, false
}

// CategoryNames returns the category names in mapping order
func (m *Mapping) CategoryNames() []string {
	names := make([]string, 0, len(m.Categories))
	for _, c := range m.Categories {
		names = append(names, c.Name)
	}
	return names
}

// EntryCount returns the total number of entries across all categories
func (m *Mapping) EntryCount() int {
	n := 0
	for _, c := range m.Categories {
		n += len(c.Entries)
	}
	return n
}

// SourceDir returns the directory a category's sources live in
func (m *Mapping) SourceDir(sourceRoot, category string) string {
	if m.EffectiveLayout() == LayoutFlat {
		return sourceRoot
	}
	return filepath.Join(sourceRoot, category)
}

// ResolvedEntry is an entry with its source and destination paths resolved
// against concrete roots.
type ResolvedEntry struct {
	Category       string `json:"category"`
	Index          int    `json:"index"`
	Entry          Entry  `json:"entry"`
	ResolvedSource string `json:"resolvedSource"`
	ResolvedDest   string `json:"resolvedDest"`
}

// Each calls fn for every entry in mapping order: category order, then
// entry order within the category. Iteration stops when fn returns false.
func (m *Mapping) Each(fn func(category string, index int, entry Entry) bool) {
	for _, c := range m.Categories {
		for i, e := range c.Entries {
			if !fn(c.Name, i, e) {
				return
			}
		}
	}
}
