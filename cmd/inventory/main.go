// Command inventory runs the Vivita inventory web app and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	_ "time/tzdata"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
