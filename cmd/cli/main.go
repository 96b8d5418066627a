// Overrun - Job Duration Monitoring Tool
//
// Overrun is a batch log checker that flags jobs running past their
// duration thresholds. It pairs START and END events per job and
// reports every job that took too long.
package main

import (
	"os"

	"github.com/stillriver/overrun/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
