// launch-notifier posts the next SpaceX launch from a configured site to a Meshtastic mesh.
//
// Usage:
//
//	launch-notifier [--config=<file>] [--env-file=<file>] [--dry-run] [--log-level=<level>]
//	launch-notifier preview [flags]
package main

import (
	"fmt"
	"os"

	"launch_notifier"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(launch_notifier.ExitCode(err))
	}
}
