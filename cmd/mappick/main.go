// Command mappick picks maps for local game nights.
package main

import (
	"os"

	"github.com/xtding233/maprotation/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
