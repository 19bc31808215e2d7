// Command selfcheck runs the engine's own specifications through the specrun
// CLI.
package main

import (
	"os"

	"github.com/abdul-hamid-achik/specrun/apps/cli/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	os.Exit(cmd.Execute(Universe(), version, buildTime))
}
