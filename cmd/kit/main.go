package main

import (
	"os"

	"github.com/grovetools/kit/cli"
	"github.com/grovetools/kit/cmd"
)

func main() {
	root := cmd.NewRootCmd()
	if err := root.Execute(); err != nil {
		verbose, _ := root.PersistentFlags().GetBool("verbose")
		cli.NewErrorHandler(verbose).Handle(err)
		os.Exit(1)
	}
}
