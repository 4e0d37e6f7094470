// Command storefront is the Forest Plant Store client: it keeps the shopper's
// session and cart, talks to the storefront backend and serves the shell.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
