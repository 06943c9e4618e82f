package main

import (
	"os"

	"github.com/newsgraph/newsgraph/cmd/newsgraph"
)

func main() {
	if err := newsgraph.Execute(); err != nil {
		os.Exit(1)
	}
}
