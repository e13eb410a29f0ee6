//go:build !unix && !windows

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(
		os.Stderr,
		"serverslayer is only supported on Linux, macOS, the BSDs and Windows.\n\nIf you are seeing this message, you are attempting to build or run serverslayer on a platform where listening ports cannot be inspected.",
	)
	os.Exit(1)
}
