// sicasm is the command-line interface to the SIC/XE assembler.
package main

import (
	"context"
	"os"

	"github.com/sicxe/assembler/internal/cli"
	"github.com/sicxe/assembler/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Assembler(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
