// Command mlstage runs one pipeline stage against a configuration file.
//
// Usage:
//
//	mlstage <config_file> <stage_id>
//
// Stages communicate only through the artifact store under the configured
// output path; run them in pipeline order.
package main

import (
	"fmt"
	"os"
	"strings"

	"mlpipeline/pkg/stage"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <config_file> <stage_id>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Stages: %s\n", strings.Join(stage.IDs(), ", "))
		os.Exit(1)
	}
	s, ok := stage.ByID(os.Args[2])
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown stage %q; stages: %s\n", os.Args[2], strings.Join(stage.IDs(), ", "))
		os.Exit(1)
	}
	os.Exit(stage.NewRunner(s).Run(os.Args[1]))
}
