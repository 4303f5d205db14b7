package main

import (
	"github.com/dustin/go-humanize"

	"github.com/meigma/wpress"
)

type CmdUnpack struct {
	cmd
	Output struct {
		Path string `positional-arg-name:"target" description:"target directory."`
	} `positional-args:"yes"`
}

func (c *CmdUnpack) Execute(args []string) error {
	if err := c.validate(); err != nil {
		return err
	}
	if c.Output.Path == "" {
		c.Output.Path = "."
	}

	r, err := wpress.Open(c.Args.File, c.readerOptions()...)
	if err != nil {
		return err
	}
	defer r.Close()

	return r.ExtractTo(c.Output.Path)
}

// readerOptions prints every extracted file with its size in verbose mode.
func (c *cmd) readerOptions() []wpress.ReaderOption {
	var bytesDone uint64
	return []wpress.ReaderOption{
		wpress.WithLogger(c.logger()),
		wpress.WithProgress(func(e wpress.ProgressEvent) {
			if e.Stage != wpress.StageExtracting {
				return
			}
			c.println(e.Path, humanize.Bytes(e.BytesDone-bytesDone))
			bytesDone = e.BytesDone
		}),
	}
}
