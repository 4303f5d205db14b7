package main

import (
	"fmt"
)

var (
	version = "dev"
	build   = "unknown"
)

type CmdVersion struct{}

func (c *CmdVersion) Execute(args []string) error {
	fmt.Fprintf(defaultOutput, "wpress (%s) - build %s\n", version, build)
	return nil
}
