package main

import "os"

// main hands over to the cobra command tree. Wiring lives in serve.go and
// business logic in the internal packages.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
