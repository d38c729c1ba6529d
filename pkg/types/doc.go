// Package types defines the core types and interfaces used throughout
// assetdeploy. This includes the typed mapping model (Mapping, Category,
// Entry), the per-entry deployment results, and the FS interface that the
// deployer and verifier perform all file access through.
package types
