package mapping

import (
	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

// ParseTOML parses a TOML mapping document where each category is an
// array of tables:
//
//	[[favicon]]
//	source = "icon.svg"
//	dest = "icons/favicon.svg"
func ParseTOML(data []byte) (*types.Mapping, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrMappingParse, "invalid mapping TOML")
	}
	if len(raw) == 0 {
		return &types.Mapping{Layout: types.LayoutCategorized}, nil
	}
	return FromValue(raw)
}
