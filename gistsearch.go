package main

import (
	"fmt"
	"github.com/gistsearch/gistsearch/internal/cli"
	"os"
)

func main() {
	if err := cli.App(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
