package main

import (
	_ "crypto/sha256" // registers digest.Canonical
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/opencontainers/go-digest"

	"github.com/meigma/wpress"
)

type CmdList struct {
	cmd
	Digest bool `long:"digest" description:"Print the sha256 digest of every file"`
}

func (c *CmdList) Execute(args []string) error {
	if err := c.validate(); err != nil {
		return err
	}

	r, err := wpress.Open(c.Args.File, wpress.WithLogger(c.logger()))
	if err != nil {
		return fmt.Errorf("error reading index: %w", err)
	}
	defer r.Close()

	return c.listArchive(r)
}

// listArchive prints one line per entry. Entries are opened by position,
// so duplicate paths each get their own digest.
func (c *CmdList) listArchive(r *wpress.Reader) error {
	for i := range r.FilesCount() {
		rd, h, err := r.OpenEntry(i)
		if err != nil {
			return err
		}

		sum := ""
		if c.Digest {
			d, err := digest.Canonical.FromReader(rd)
			if err != nil {
				return fmt.Errorf("digest %s: %w", h.Path(), err)
			}
			sum = d.String() + " "
		}

		fmt.Fprintf(defaultOutput, "%s % 6s %s%s\n",
			h.ModTime().UTC().Format("Jan 02 15:04"),
			humanize.Bytes(h.Size),
			sum,
			h.Path(),
		)
	}
	return nil
}
