// Command xt translates a serialized input stream between JSON, YAML,
// TOML, and MessagePack. It is a thin collaborator around the xt package:
// it only resolves flags and files to readers/writers and constructs a
// Translator.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		dieln("%v", err)
	}
}

// dieln prints a message to stderr in the "xt error: ..." form and exits 1.
func dieln(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "xt error: "+format+"\n", args...)
	os.Exit(1)
}

// dieInPath prints a message to stderr in the "xt error in <path>: ..." form
// and exits 1.
func dieInPath(path, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "xt error in %s: "+format+"\n", append([]any{path}, args...)...)
	os.Exit(1)
}
