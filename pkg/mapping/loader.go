package mapping

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/filesystem"
	"github.com/arthur-debert/assetdeploy/pkg/logging"
	"github.com/arthur-debert/assetdeploy/pkg/types"
)

// Load reads and parses the mapping file at path from the OS filesystem
func Load(path string, layout types.Layout) (*types.Mapping, error) {
	return LoadFS(filesystem.NewOS(), path, layout)
}

// LoadFS reads and parses the mapping file at path. The parser is chosen by
// extension: .toml uses TOML, anything else is read as YAML. The returned
// mapping carries the given layout (empty means categorized).
func LoadFS(fsys types.FS, path string, layout types.Layout) (*types.Mapping, error) {
	logger := logging.GetLogger("mapping").With().Str("path", path).Str("layout", string(layout)).Logger()

	if layout == "" {
		layout = types.LayoutCategorized
	}
	if !layout.Valid() {
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown mapping layout %q", layout)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMappingLoad, "failed to read mapping file %s", path).
			WithDetail(errors.DetailPath, path)
	}

	var m *types.Mapping
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		m, err = ParseTOML(data)
	default:
		m, err = Parse(data)
	}
	if err != nil {
		logger.Debug().Err(err).Msg("Mapping file rejected")
		return nil, err
	}

	m.Layout = layout
	logger.Debug().
		Int("categories", len(m.Categories)).
		Int("entries", m.EntryCount()).
		Msg("Mapping loaded")
	return m, nil
}
