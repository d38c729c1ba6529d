// Package filesystem provides filesystem implementations for assetdeploy.
//
// This package contains implementations of the types.FS interface:
// the standard OS filesystem used by the CLI, and an afero-backed
// filesystem used to run deployments against an in-memory tree.
package filesystem
