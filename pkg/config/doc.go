// Package config loads assetdeploy settings.
//
// Values are layered, later sources winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the first project file found in the project root: .assetdeploy.toml,
//     assetdeploy.toml, .assetdeploy.yaml, assetdeploy.yaml
//  3. ASSETDEPLOY_* environment variables, "__" separating nested keys
//     (ASSETDEPLOY_SOURCE__ROOT sets source.root)
//  4. explicit overrides, usually from command-line flags
//
// Relative paths in the result are resolved against the project root.
package config
