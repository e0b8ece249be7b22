// Package asm implements the two-pass assembly pipeline: source parsing,
// data-memory layout, label resolution, and bit-exact instruction encoding
// against a configuration-driven instruction set.
package asm

import (
	"fmt"

	"github.com/fcamaggi/g26asm/config"
)

// Result is everything a successful assembly run produces.
type Result struct {
	Binary []string
	Trace  []TraceLine
	// DataLayout mirrors Memory's declarations, in declaration order, for
	// callers that need to inspect the data section without reaching into
	// an unexported Memory instance.
	DataLayout []DataEntry
}

// Options controls optional assembly behavior beyond the pipeline itself.
type Options struct {
	// Verbose requests a TraceLine per emitted word.
	Verbose bool
	// LoadData, when true, prepends synthesized MOV pairs ("MOV A,<v>";
	// "MOV (addr),A") that initialize every DATA cell before the code
	// section's own instructions run. These are ordinary instructions:
	// they are counted, shift every label's machine address, and can
	// themselves be the target of a jump.
	LoadData bool
}

// Assembler wires FileProcessor, Memory, LabelManager, InstructionProcessor,
// and BinaryGenerator into the full pipeline described by spec §2. It is a
// thin orchestrator: every actual algorithm lives in one of those
// components.
type Assembler struct {
	cfg *config.Config
}

// New returns an Assembler bound to cfg. A fresh Assembler, Memory, and
// LabelManager must be used per run; none of the three retain state that
// would make concurrent independent assemblies unsafe to run in parallel.
func New(cfg *config.Config) *Assembler {
	return &Assembler{cfg: cfg}
}

// Assemble runs the full pipeline over source and returns the emitted
// binary (and, if requested, a verbose trace).
func (a *Assembler) Assemble(source string, opts Options) (*Result, error) {
	fp := NewFileProcessor()
	_, dataEntries, codeEntries, err := fp.Process(source)
	if err != nil {
		return nil, err
	}

	mem := NewMemory()
	if err := processDataEntries(dataEntries, mem); err != nil {
		return nil, err
	}

	if opts.LoadData {
		codeEntries = prependLoadDataInstructions(codeEntries, mem)
	}

	lm := NewLabelManager()
	if err := lm.Plan(codeEntries); err != nil {
		return nil, err
	}

	bg := NewBinaryGenerator(a.cfg)
	binary, trace, err := bg.Generate(codeEntries, lm, mem, opts.Verbose)
	if err != nil {
		return nil, err
	}

	layout := make([]DataEntry, 0, len(mem.Names()))
	for _, name := range mem.Names() {
		e, _ := mem.Entry(name)
		layout = append(layout, e)
	}

	return &Result{Binary: binary, Trace: trace, DataLayout: layout}, nil
}

// prependLoadDataInstructions synthesizes a "MOV A,<v>" / "MOV (addr),A"
// pair for every stored data cell, in address order, and prepends them to
// the code stream. Synthetic lines carry line number 0: they don't
// originate from the source file, so errors raised for them carry Line 0
// and are printed without a line number rather than a misleading one.
func prependLoadDataInstructions(code []Entry, mem *Memory) []Entry {
	var synth []Entry
	for addr := 0; addr < mem.Len(); addr++ {
		v := mem.CellAt(addr)
		synth = append(synth,
			Entry{Line: fmt.Sprintf("MOV A,%d", v), LineNo: 0},
			Entry{Line: fmt.Sprintf("MOV (%d),A", addr), LineNo: 0},
		)
	}
	return append(synth, code...)
}
