// Package testutil provides fixtures and assertions shared by the package
// tests.
//
// Key components:
//   - AssetTree: a project with a source root and a destination root, on the
//     real filesystem (NewAssetTree) or in memory (NewMemoryAssetTree)
//   - FaultFS: a types.FS wrapper that injects errors for chosen paths
//   - Assert* helpers for file contents, trees and structured error codes
//
// Test data is defined inline; every tree lives under t.TempDir() or its own
// in-memory filesystem so tests never share state.
package testutil
