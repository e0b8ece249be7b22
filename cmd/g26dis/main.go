// Command g26dis reads a g26asm output file (one ASCII binary word per
// line) and prints the trace decode of each word: a read-only companion
// to the assembler, not a new pipeline stage. It performs no execution or
// simulation of the decoded program.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fcamaggi/g26asm/config"
	"github.com/fcamaggi/g26asm/trace"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var setup string

	cmd := &cobra.Command{
		Use:   "g26dis <rom-image>",
		Short: "Disassemble a g26asm ROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(args[0], setup); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&setup, "setup", "s", "utils/setup.json", "instruction-set JSON config path")
	return cmd
}

func run(imagePath, setupPath string) error {
	cfg, err := config.Load(setupPath)
	if err != nil {
		return errors.Wrapf(err, "loading setup file %q", setupPath)
	}

	words, err := readWords(imagePath)
	if err != nil {
		return errors.Wrapf(err, "reading ROM image %q", imagePath)
	}

	lines, err := trace.DecodeAll(words, cfg)
	if err != nil {
		return errors.Wrapf(err, "decoding %q", imagePath)
	}

	for i, l := range lines {
		fmt.Printf("%04d  %s  %s\n", i, l.Word, l.String())
	}
	return nil
}

func readWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
