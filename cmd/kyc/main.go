// Command kyc loads a KYC bytecode artifact and runs it.
//
// Usage:
//
//	kyc [--debug] [--disassemble] <path-to-bytecode-file>
//
// Exit code 0 means the root frame returned normally (or, under
// --disassemble, the listing was printed). Exit code 1 means the root frame
// unwound with an uncaught exception (its traceback printed to stderr) or
// the artifact could not be opened or loaded (a diagnostic printed to
// stderr, the interpreter never entered). Exit code 2 means no file
// argument was given.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/brindor/kyc/pkg/loader"
	"github.com/brindor/kyc/pkg/object"
	"github.com/brindor/kyc/pkg/vm"
)

func main() {
	app := &cli.App{
		Name:      "kyc",
		Usage:     "run a KYC bytecode artifact",
		ArgsUsage: "<file.kyc>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "emit per-instruction debug logging"},
			&cli.BoolFlag{Name: "disassemble", Usage: "print disassembly of the loaded code object and exit"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if c.Bool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	runID := uuid.New()
	logger := log.With().Str("run_id", runID.String()).Logger()
	log.Logger = logger

	path := c.Args().First()
	if path == "" {
		return cli.Exit("usage: kyc [--debug] <file.kyc>", 2)
	}

	f, err := os.Open(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("kyc: %v", err), 1)
	}
	defer f.Close()

	module, err := loader.Decode(f)
	if err != nil {
		return cli.Exit(fmt.Sprintf("kyc: failed to load %s: %v", path, err), 1)
	}
	log.Debug().Str("file", path).Int("comment_len", len(module.Comment)).Msg("loaded module")

	if c.Bool("disassemble") {
		fmt.Print(loader.Disassemble(module.Code))
		return nil
	}

	globals := make(map[string]object.Value)
	frame := vm.NewFrame(module.Code, globals, nil)
	result := frame.Run()
	if result.IsError() {
		fmt.Fprintln(os.Stderr, result.Exception.FormatTraceback())
		return cli.Exit("", 1)
	}
	return nil
}
