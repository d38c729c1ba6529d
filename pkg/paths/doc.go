// Package paths provides centralized path handling for assetdeploy.
//
// It locates the project root that relative configuration paths resolve
// against, and places the log file under the XDG state directory.
package paths
