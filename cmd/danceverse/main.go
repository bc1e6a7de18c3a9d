// Command danceverse is the DanceVerse client: the feed, auth, upload, and
// leaderboard screens as subcommands.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	root, e := newRootCmd()
	if err := execute(context.Background(), root, e); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
