// Package hashutil computes the content checksums recorded in deploy
// results and verify reports.
package hashutil

import (
	"crypto/sha256"
	"fmt"

	"github.com/arthur-debert/assetdeploy/pkg/types"
)

// Checksum returns the SHA256 checksum of data as "sha256:<hex>"
func Checksum(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// FileChecksum calculates the checksum of the file at path in fsys
func FileChecksum(fsys types.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Checksum(data), nil
}
