// Command g26asm assembles a g26 source file into a ROM image of W-bit
// ASCII binary words, one per line.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fcamaggi/g26asm/asm"
	"github.com/fcamaggi/g26asm/board"
	"github.com/fcamaggi/g26asm/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		output       string
		setup        string
		verbose      bool
		debug        bool
		programBoard bool
		port         string
		loadData     bool
	)

	cmd := &cobra.Command{
		Use:   "g26asm <input>",
		Short: "Assemble a g26 source file into a ROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(args[0], output, setup, verbose, programBoard, port, loadData); err != nil {
				fmt.Fprintln(os.Stderr, err)
				if debug {
					panic(err)
				}
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&output, "output", "o", "output.txt", "output file path")
	cmd.Flags().StringVarP(&setup, "setup", "s", "utils/setup.json", "instruction-set JSON config path")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a per-word trace during assembly")
	cmd.Flags().BoolVar(&debug, "debug", false, "re-raise the original error after printing it")
	cmd.Flags().BoolVar(&programBoard, "program-board", false, "write the ROM image to the board after assembly")
	cmd.Flags().StringVar(&port, "port", "", "serial port path for --program-board")

	cmd.Flags().BoolVar(&loadData, "load-data", false, "prepend synthetic MOV pairs that initialize DATA cells")

	return cmd
}

func run(inputPath, outputPath, setupPath string, verbose, programBoard bool, port string, loadData bool) error {
	cfg, err := config.Load(setupPath)
	if err != nil {
		return errors.Wrapf(err, "loading setup file %q", setupPath)
	}

	source, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrapf(err, "reading source file %q", inputPath)
	}

	a := asm.New(cfg)
	result, err := a.Assemble(string(source), asm.Options{Verbose: verbose, LoadData: loadData})
	if err != nil {
		return errors.Wrapf(err, "assembling %q", inputPath)
	}

	if verbose {
		for _, line := range result.Trace {
			fmt.Println(asm.FormatTrace(line))
		}
	}

	if err := writeOutput(outputPath, result.Binary); err != nil {
		return errors.Wrapf(err, "writing output file %q", outputPath)
	}

	if programBoard {
		if port == "" {
			return errors.New("--program-board requires --port")
		}
		if err := programBoardWith(port, result.Binary, cfg.WordBits); err != nil {
			return errors.Wrapf(err, "programming board on port %q", port)
		}
	}

	return nil
}

func writeOutput(path string, binary []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, w := range binary {
		if _, err := fmt.Fprintln(f, w); err != nil {
			return err
		}
	}
	return nil
}

func programBoardWith(port string, binary []string, wordBits int) error {
	conn, err := os.OpenFile(port, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	prog := board.NewSerialProgrammer(conn)
	return board.Program(prog, binary, wordBits)
}
