package main

import (
	"github.com/meigma/wpress"
)

type CmdExtract struct {
	cmd
	Target struct {
		File string `positional-arg-name:"file" required:"true" description:"name or path of the file to extract."`
		Path string `positional-arg-name:"target" description:"target directory."`
	} `positional-args:"yes"`
}

func (c *CmdExtract) Execute(args []string) error {
	if err := c.validate(); err != nil {
		return err
	}
	if c.Target.Path == "" {
		c.Target.Path = "."
	}

	r, err := wpress.Open(c.Args.File, c.readerOptions()...)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.ExtractFile(c.Target.File, c.Target.Path)
}
