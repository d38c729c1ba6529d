package testutil

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"testing"

	"github.com/arthur-debert/assetdeploy/pkg/filesystem"
	"github.com/arthur-debert/assetdeploy/pkg/types"
	"github.com/stretchr/testify/require"
)

// AssetTree is a throwaway project layout:
//
//	<Root>/
//	  assets/generate/output/<category>/<source>   (SourceRoot)
//	  public/                                       (DestRoot)
type AssetTree struct {
	t          *testing.T
	FS         types.FS
	Root       string
	SourceRoot string
	DestRoot   string
}

// NewAssetTree creates an asset tree on the real filesystem
func NewAssetTree(t *testing.T) *AssetTree {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return newAssetTree(t, filesystem.NewOS(), root)
}

// NewMemoryAssetTree creates an asset tree on an in-memory filesystem
func NewMemoryAssetTree(t *testing.T) *AssetTree {
	t.Helper()
	return newAssetTree(t, filesystem.NewMemory(), "/project")
}

func newAssetTree(t *testing.T, fsys types.FS, root string) *AssetTree {
	a := &AssetTree{
		t:          t,
		FS:         fsys,
		Root:       root,
		SourceRoot: filepath.Join(root, "assets", "generate", "output"),
		DestRoot:   filepath.Join(root, "public"),
	}
	require.NoError(t, fsys.MkdirAll(a.SourceRoot, 0755))
	return a
}

// SourcePath returns the path of a source asset inside a category
func (a *AssetTree) SourcePath(category, name string) string {
	return filepath.Join(a.SourceRoot, category, name)
}

// DestPath returns the path of a destination-relative path
func (a *AssetTree) DestPath(rel string) string {
	return filepath.Join(a.DestRoot, filepath.FromSlash(rel))
}

// AddSource writes a source asset and returns its path
func (a *AssetTree) AddSource(category, name, content string) string {
	a.t.Helper()
	return a.write(a.SourcePath(category, name), content)
}

// AddDest writes a file under the destination root and returns its path
func (a *AssetTree) AddDest(rel, content string) string {
	a.t.Helper()
	return a.write(a.DestPath(rel), content)
}

// WriteFile writes a file relative to the project root
func (a *AssetTree) WriteFile(rel, content string) string {
	a.t.Helper()
	return a.write(filepath.Join(a.Root, filepath.FromSlash(rel)), content)
}

func (a *AssetTree) write(p, content string) string {
	a.t.Helper()
	require.NoError(a.t, a.FS.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(a.t, a.FS.WriteFile(p, []byte(content), 0644))
	return p
}

// DestFiles lists every regular file under the destination root as sorted
// slash-separated relative paths. A missing destination root lists nothing.
func (a *AssetTree) DestFiles() []string {
	a.t.Helper()
	return ListFiles(a.t, a.FS, a.DestRoot)
}

// ListFiles lists every regular file under root as sorted slash-separated
// relative paths
func ListFiles(t *testing.T, fsys types.FS, root string) []string {
	t.Helper()

	var files []string
	var walk func(dir, rel string)
	walk = func(dir, rel string) {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			if !isNotExist(err) {
				require.NoError(t, err)
			}
			return
		}
		for _, e := range entries {
			childRel := path.Join(rel, e.Name())
			if e.IsDir() {
				walk(filepath.Join(dir, e.Name()), childRel)
				continue
			}
			files = append(files, childRel)
		}
	}
	walk(root, "")
	sort.Strings(files)
	return files
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
