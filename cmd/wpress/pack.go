package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/meigma/wpress"
)

type CmdPack struct {
	cmd
	MaxFiles int `long:"max-files" default:"200000" description:"Maximum number of files to collect (0 disables the limit)"`
	Input    struct {
		Files []string `positional-arg-name:"input" description:"files or directories to be added to the archive."`
	} `positional-args:"yes"`
}

func (c *CmdPack) Execute(args []string) error {
	if err := c.validate(); err != nil {
		return err
	}

	if err := c.do(); err != nil {
		if rerr := os.Remove(c.Args.File); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

func (c *CmdPack) validate() error {
	if err := c.cmd.validate(); err != nil {
		return err
	}
	if len(c.Input.Files) == 0 {
		return errors.New("invalid input count, please add one or more input files/dirs")
	}
	for _, file := range c.Input.Files {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("invalid input file/dir %q: %w", file, err)
		}
	}
	return nil
}

func (c *CmdPack) do() error {
	var bytesDone uint64
	w, err := wpress.Create(c.Args.File,
		wpress.WriteWithLogger(c.logger()),
		wpress.WriteWithMaxFiles(c.MaxFiles),
		wpress.WriteWithProgress(func(e wpress.ProgressEvent) {
			if e.Stage != wpress.StageWriting {
				return
			}
			c.println(e.Path, humanize.Bytes(e.BytesDone-bytesDone))
			bytesDone = e.BytesDone
		}),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	for _, file := range c.Input.Files {
		if err := w.Add(file); err != nil {
			return fmt.Errorf("add %s: %w", file, err)
		}
	}

	if err := w.Write(); err != nil {
		return err
	}
	c.println(fmt.Sprintf("%d files, %s", w.FilesCount(), humanize.Bytes(bytesDone)))
	return nil
}
