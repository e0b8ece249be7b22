package asm

import (
	"fmt"

	"github.com/fcamaggi/g26asm/config"
	"github.com/fcamaggi/g26asm/trace"
)

// TraceLine pairs a decoded word with the machine index and original
// source line it came from, produced only when verbose mode is requested.
type TraceLine struct {
	MachineIndex int
	Source       string
	trace.Line
}

// BinaryGenerator drives InstructionProcessor over the code stream and
// performs the label fix-up pass once every label address is known.
type BinaryGenerator struct {
	cfg *config.Config
	ip  *InstructionProcessor
}

// NewBinaryGenerator returns a generator bound to cfg, with its own encoder.
func NewBinaryGenerator(cfg *config.Config) *BinaryGenerator {
	return &BinaryGenerator{cfg: cfg, ip: NewInstructionProcessor(cfg)}
}

// Generate walks code in order, encoding each instruction and skipping
// section markers and label lines (re-confirming, as defense in depth,
// that each label's planned address matches the machine index it's
// actually emitted at). It then runs the fix-up pass against lm's
// unresolved-reference list and returns the finished binary.
func (bg *BinaryGenerator) Generate(code []Entry, lm *LabelManager, mem *Memory, verbose bool) ([]string, []TraceLine, error) {
	var binary []string
	var lines []TraceLine

	for _, e := range code {
		if isSectionMarker(e.Line) {
			continue
		}
		if name, ok := isLabelLine(e.Line); ok {
			want, _ := lm.AddressOf(name)
			if want != len(binary) {
				return nil, nil, labelErr(e.LineNo, "internal error: label %q planned at %d but emitted at %d", name, want, len(binary))
			}
			continue
		}

		words, err := bg.ip.Encode(e, len(binary), lm, mem)
		if err != nil {
			return nil, nil, err
		}
		for _, w := range words {
			if verbose {
				decoded, err := trace.Decode(w, bg.cfg)
				if err != nil {
					return nil, nil, newErr(KindInvalidInstruction, e.LineNo, "%s", err)
				}
				lines = append(lines, TraceLine{MachineIndex: len(binary), Source: e.Line, Line: decoded})
			}
			binary = append(binary, w)
		}
	}

	if err := bg.fixup(binary, lm); err != nil {
		return nil, nil, err
	}

	return binary, lines, nil
}

// fixup patches every unresolved jump reference's low L bits in place,
// once BinaryGenerator's emit pass has produced the full binary and every
// label's final address is known. It preserves the opcode and
// operand-type fields, touching only the literal field — structural field
// replacement, never a raw string slice on the opcode prefix.
func (bg *BinaryGenerator) fixup(binary []string, lm *LabelManager) error {
	for _, ref := range lm.Unresolved() {
		addr, ok := lm.AddressOf(ref.LabelName)
		if !ok {
			return labelErr(0, "undefined label referenced: %q", ref.LabelName)
		}
		if ref.InstructionIndex < 0 || ref.InstructionIndex >= len(binary) {
			return labelErr(0, "internal error: unresolved reference to %q has out-of-range index %d", ref.LabelName, ref.InstructionIndex)
		}
		if err := checkLiteralRange(addr, bg.cfg, 0); err != nil {
			return err
		}
		word := binary[ref.InstructionIndex]
		prefixLen := bg.cfg.WordBits - bg.cfg.LiteralBits
		binary[ref.InstructionIndex] = word[:prefixLen] + formatBits(addr, bg.cfg.LiteralBits)
	}
	return nil
}

// FormatTrace renders a TraceLine the way spec.md §4.5 describes verbose
// output: one line per word, source alongside its decode.
func FormatTrace(t TraceLine) string {
	return fmt.Sprintf("%04d  %s  %s ; %s", t.MachineIndex, t.Word, t.Line.String(), t.Source)
}
