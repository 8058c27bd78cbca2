package main

import (
	"fmt"
	"os"

	"github.com/feyyazcankose/render-api-docs/internal/cli"
)

func main() {
	cmd := cli.RootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
