package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/assetdeploy/cmd/assetdeploy"
	"github.com/arthur-debert/assetdeploy/internal/version"
)

func main() {
	rootCmd := assetdeploy.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "ASSETDEPLOY",
		Section: "1",
		Source:  "assetdeploy " + version.Version,
		Manual:  "assetdeploy manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
