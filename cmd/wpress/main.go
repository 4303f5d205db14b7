// Command wpress packs, lists and unpacks wpress archives.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
)

var (
	defaultOutput io.Writer = os.Stdout
	defaultLog    io.Writer = os.Stderr
)

func main() {
	parser := newParser()
	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrCommandRequired {
			parser.WriteHelp(os.Stdout)
		}
		os.Exit(1)
	}
}

func newParser() *flags.Parser {
	parser := flags.NewNamedParser("wpress", flags.Default)
	parser.AddCommand("pack", "Create a new archive containing the specified items.", "", &CmdPack{})
	parser.AddCommand("unpack", "Extract every file in the archive to disk.", "", &CmdUnpack{})
	parser.AddCommand("extract", "Extract a single file from the archive to disk.", "", &CmdExtract{})
	parser.AddCommand("list", "List the files contained in the archive.", "", &CmdList{})
	parser.AddCommand("cat", "Write the content of a single file to stdout.", "", &CmdCat{})
	parser.AddCommand("version", "Show the version information.", "", &CmdVersion{})
	return parser
}

type cmd struct {
	Verbose bool `short:"v" long:"verbose" description:"Activates the verbose mode"`
	Args    struct {
		File string `positional-arg-name:"archive" required:"true" description:"wpress archive."`
	} `positional-args:"yes"`
}

func (c *cmd) validate() error {
	if c.Args.File == "" {
		return errors.New("missing archive file, please provide a valid one")
	}
	return nil
}

// logger logs warnings by default and everything in verbose mode.
func (c *cmd) logger() *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(defaultLog, &slog.HandlerOptions{Level: level}))
}

func (c *cmd) println(a ...any) {
	if !c.Verbose {
		return
	}
	fmt.Fprintln(defaultOutput, a...)
}
