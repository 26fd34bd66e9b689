package main

import (
	"fmt"
	"os"

	"lsmkv/cli"
	"lsmkv/store"
)

func main() {
	s, err := store.Open("lsm.db")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open store:", err)
		os.Exit(1)
	}
	defer s.Close()

	if err := cli.Run(s, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "cli error:", err)
		os.Exit(1)
	}
}
