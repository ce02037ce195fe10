package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		var noMatches ErrNoMatches
		if errors.As(err, &noMatches) {
			return 1
		}
		fmt.Fprintln(os.Stderr, "structgrep:", err)
		return 2
	}
	return 0
}
