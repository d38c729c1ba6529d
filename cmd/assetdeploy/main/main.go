package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/arthur-debert/assetdeploy/cmd/assetdeploy"
	"github.com/arthur-debert/assetdeploy/pkg/ui/styles"
)

func main() {
	rootCmd := assetdeploy.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Failures rendered by the command only need the exit status
		if !stderrors.Is(err, assetdeploy.ErrReported) {
			errorStyle := styles.GetStyle("Error")
			fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		}
		os.Exit(1)
	}
}
