// Package trace decodes an emitted machine word back into a mnemonic and
// its operand-type names, the same information BinaryGenerator's verbose
// mode prints and the g26dis command renders for an already-assembled ROM
// image. Keeping decode in its own package means both callers share one
// implementation instead of drifting apart.
package trace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fcamaggi/g26asm/config"
)

// Line is one decoded machine word.
type Line struct {
	Word     string
	Mnemonic string
	// Operands holds the resolved operand-type names in field order
	// (destination, source), omitting any trailing unused slot.
	Operands []string
	Literal  int
}

// String renders a Line the way spec.md §4.5 describes verbose tracing:
// opcode resolved to its mnemonic, each operand-type code resolved to its
// name, and the literal field as a decimal.
func (l Line) String() string {
	if len(l.Operands) == 0 {
		return fmt.Sprintf("%s lit=%d", l.Mnemonic, l.Literal)
	}
	return fmt.Sprintf("%s %s lit=%d", l.Mnemonic, strings.Join(l.Operands, ","), l.Literal)
}

// Decode splits a W-bit word into its opcode, operand-type, and literal
// fields per cfg, resolving the opcode to a mnemonic name (via the same
// table InstructionProcessor encodes from, run in reverse) and each 3-bit
// operand-type slot to its configured name.
func Decode(word string, cfg *config.Config) (Line, error) {
	if len(word) != cfg.WordBits {
		return Line{}, fmt.Errorf("trace: word has length %d, want %d", len(word), cfg.WordBits)
	}

	opcode := word[:cfg.OpcodeBits]
	typeField := word[cfg.OpcodeBits : cfg.OpcodeBits+cfg.TypeBits]
	litField := word[cfg.OpcodeBits+cfg.TypeBits:]

	mnemonic := "???"
	for name, def := range cfg.Mnemonics {
		if def.Opcode == opcode {
			mnemonic = name
			break
		}
	}

	var operands []string
	for i := 0; i+3 <= len(typeField); i += 3 {
		code := typeField[i : i+3]
		if code == "000" {
			continue
		}
		if name, ok := cfg.TypesInverse[code]; ok {
			operands = append(operands, name)
		}
	}

	lit, err := strconv.ParseInt(litField, 2, 64)
	if err != nil {
		return Line{}, fmt.Errorf("trace: malformed literal field %q: %w", litField, err)
	}

	return Line{Word: word, Mnemonic: mnemonic, Operands: operands, Literal: int(lit)}, nil
}

// DecodeAll decodes a full ROM image, one Line per word, in machine-address
// order. A malformed word aborts with the index it occurred at.
func DecodeAll(words []string, cfg *config.Config) ([]Line, error) {
	out := make([]Line, 0, len(words))
	for i, w := range words {
		l, err := Decode(w, cfg)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
		out = append(out, l)
	}
	return out, nil
}
