package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sicxe/assembler/internal/asm"
	"github.com/sicxe/assembler/internal/cli"
	"github.com/sicxe/assembler/internal/listing"
	"github.com/sicxe/assembler/internal/log"
)

// Assembler is the command that translates SIC/XE source into object code and a listing.
//
//	sicasm asm -o a.obj FILE.asm
func Assembler() cli.Command {
	return new(assembler)
}

type assembler struct {
	debug   bool
	output  string
	listing string
}

func (assembler) Description() string {
	return "assemble source code into object code"
}

func (assembler) Usage(out io.Writer) error {
	var err error
	_, err = fmt.Fprintln(out, `asm [-o file.obj] [-l file.lst] file.asm

Assemble source into object code.`)

	return err
}

func (a *assembler) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)
	fs.BoolVar(&a.debug, "debug", false, "enable debug logging")
	fs.StringVar(&a.output, "o", "a.obj", "object `filename`")
	fs.StringVar(&a.listing, "l", "", "listing `filename` (default: none)")

	return fs
}

// Run assembles the single source file named in args, writing diagnostics to stderr via logger and
// the object code and, if requested, a listing to the configured output files.
func (a *assembler) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if a.debug {
		log.LogLevel.Set(log.Debug)
	}

	if len(args) != 1 {
		logger.Error("asm requires exactly one source file")
		return 1
	}

	src, err := os.Open(args[0])
	if err != nil {
		logger.Error("open failed", "file", args[0], "err", err)
		return 1
	}
	defer src.Close()

	prog, err := asm.Assemble(src, logger)
	if err != nil {
		logger.Error("assemble failed", "err", err)
		return 1
	}

	for _, e := range prog.Errors {
		logger.Error("assembly error", "err", e)
	}

	if a.listing != "" {
		if err := writeFile(a.listing, func(out io.Writer) error {
			return listing.Write(out, prog.Instructions)
		}); err != nil {
			logger.Error("listing write failed", "file", a.listing, "err", err)
			return 1
		}
	}

	if err := writeFile(a.output, prog.WriteObject); err != nil {
		logger.Error("object write failed", "file", a.output, "err", err)
		return 1
	}

	logger.Debug("assembled program",
		"name", prog.Name,
		"start", prog.StartAddress,
		"length", prog.Length,
		"symbols", prog.Symbols.Count(),
		"errors", len(prog.Errors),
	)

	return 0
}

func writeFile(name string, write func(io.Writer) error) error {
	out, err := os.Create(name)
	if err != nil {
		return err
	}
	defer out.Close()

	return write(out)
}
