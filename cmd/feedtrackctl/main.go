// Command feedtrackctl is the FeedTrack command-line client.
package main

import (
	"os"

	"github.com/equipe-feedtrack/feedtrack/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
