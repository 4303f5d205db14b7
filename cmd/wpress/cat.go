package main

import (
	"fmt"
	"io"

	"github.com/meigma/wpress"
)

type CmdCat struct {
	cmd
	Target struct {
		File string `positional-arg-name:"file" required:"true" description:"name or path of the file to print."`
	} `positional-args:"yes"`
}

func (c *CmdCat) Execute(args []string) error {
	if err := c.validate(); err != nil {
		return err
	}

	r, err := wpress.Open(c.Args.File, wpress.WithLogger(c.logger()))
	if err != nil {
		return err
	}
	defer r.Close()

	rd, h, err := r.OpenFile(c.Target.File)
	if err != nil {
		return err
	}
	if _, err := io.Copy(defaultOutput, rd); err != nil {
		return fmt.Errorf("read %s: %w", h.Path(), err)
	}
	return nil
}
