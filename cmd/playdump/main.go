// Command playdump decodes a local media file through the scheduler's
// Player and prints its presentation timeline, exercising the
// library's public facade end to end without a rendering host.
package main

import (
	"fmt"
	"os"

	"github.com/playvdk/vdk/cmd/playdump/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
