package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spindle-io/spindle/chandump"
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: chandump <channel file>")
		os.Exit(2)
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chandump: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File      = %v\n", path)
	if err := chandump.Dump(data, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "chandump: %v\n", err)
		os.Exit(1)
	}
}
