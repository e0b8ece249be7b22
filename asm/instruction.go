package asm

import (
	"strings"

	"github.com/fcamaggi/g26asm/config"
)

// InstructionProcessor encodes a single source instruction into one or two
// W-bit words, consulting Config, the label table, and Memory. It holds no
// state beyond the shared Config, so one instance is safely reused across
// an entire assembly run.
type InstructionProcessor struct {
	cfg *config.Config
}

// NewInstructionProcessor returns an encoder bound to cfg.
func NewInstructionProcessor(cfg *config.Config) *InstructionProcessor {
	return &InstructionProcessor{cfg: cfg}
}

// resolver supplies the label addresses the encoder needs for jump targets
// and the unresolved-reference sink for targets not in the label table.
// LabelManager implements it; BinaryGenerator passes it in together with
// the current machine index of the instruction being encoded.
type resolver interface {
	AddressOf(name string) (int, bool)
	AddUnresolved(name string, instructionIndex int)
}

// Encode returns the one or two machine words for entry, given the machine
// index the instruction starts at (needed for the unresolved-reference
// bookkeeping of jump targets).
func (ip *InstructionProcessor) Encode(e Entry, machineIndex int, lm resolver, mem *Memory) ([]string, error) {
	mnemonic, rest := splitMnemonic(e.Line)
	operands := splitOperands(rest)

	if config.IsExpanding(mnemonic) {
		first, second, _ := config.ExpansionOf(mnemonic)
		return ip.encodeExpanding(mnemonic, first, second, operands, e.LineNo)
	}

	word, err := ip.encodeOne(mnemonic, operands, e.LineNo, machineIndex, lm, mem)
	if err != nil {
		return nil, err
	}
	return []string{word}, nil
}

func (ip *InstructionProcessor) encodeExpanding(mnemonic, first, second string, operands []string, line int) ([]string, error) {
	switch mnemonic {
	case "POP":
		if len(operands) != 1 || !isRegister(operands[0]) {
			return nil, invalidOperandErr(line, "POP requires exactly one operand, A or B")
		}
		w1, err := ip.encodeSingleNoLiteral(first, operands[0], line)
		if err != nil {
			return nil, err
		}
		w2, err := ip.encodeSingleNoLiteral(second, operands[0], line)
		if err != nil {
			return nil, err
		}
		return []string{w1, w2}, nil
	case "RET":
		if len(operands) != 0 {
			return nil, invalidOperandErr(line, "RET takes no operand")
		}
		w1, err := ip.encodeNoOperand(first, line)
		if err != nil {
			return nil, err
		}
		w2, err := ip.encodeNoOperand(second, line)
		if err != nil {
			return nil, err
		}
		return []string{w1, w2}, nil
	}
	return nil, invalidInstructionErr(line, "unknown expanding mnemonic %q", mnemonic)
}

func (ip *InstructionProcessor) encodeOne(mnemonic string, operands []string, line int, machineIndex int, lm resolver, mem *Memory) (string, error) {
	def, known := ip.cfg.Mnemonics[mnemonic]
	if !known {
		return "", invalidInstructionErr(line, "unknown mnemonic: %q", mnemonic)
	}
	if !def.AllowsOperandCount(len(operands)) {
		return "", invalidInstructionErr(line, "%s does not accept %d operand(s)", mnemonic, len(operands))
	}

	switch config.ClassOf(mnemonic) {
	case config.ClassNoOperand:
		return ip.encodeNoOperand(mnemonic, line)
	case config.ClassJump:
		return ip.encodeJump(mnemonic, operands, line, machineIndex, lm)
	case config.ClassSingle:
		return ip.encodeSingle(mnemonic, operands, line, mem)
	case config.ClassFlexible:
		return ip.encodeFlexibleOrBinary(mnemonic, operands, line, mem, true)
	default:
		return ip.encodeFlexibleOrBinary(mnemonic, operands, line, mem, false)
	}
}

func (ip *InstructionProcessor) encodeNoOperand(mnemonic string, line int) (string, error) {
	def, ok := ip.cfg.Mnemonics[mnemonic]
	if !ok {
		return "", invalidInstructionErr(line, "unknown mnemonic: %q", mnemonic)
	}
	word := def.Opcode + strings.Repeat("0", ip.cfg.WordBits-len(def.Opcode))
	return ip.checkedWord(word, line)
}

func (ip *InstructionProcessor) encodeJump(mnemonic string, operands []string, line int, machineIndex int, lm resolver) (string, error) {
	if len(operands) != 1 {
		return "", invalidOperandErr(line, "%s requires exactly one operand", mnemonic)
	}
	target := operands[0]
	def := ip.cfg.Mnemonics[mnemonic]

	var addr int
	if a, ok := lm.AddressOf(target); ok {
		addr = a
	} else if isNumeric(target) {
		v, err := parseNumeric(target, line)
		if err != nil {
			return "", err
		}
		addr = v
	} else {
		// Target is not in the label table. The planning pass has already
		// registered every label, so emit a zero placeholder and record
		// the reference; BinaryGenerator's fix-up pass reports it as an
		// undefined label.
		lm.AddUnresolved(target, machineIndex)
		addr = 0
	}
	if err := checkLiteralRange(addr, ip.cfg, line); err != nil {
		return "", err
	}

	word := def.Opcode + strings.Repeat("0", ip.cfg.TypeBits) + formatBits(addr, ip.cfg.LiteralBits)
	return ip.checkedWord(word, line)
}

func (ip *InstructionProcessor) encodeSingle(mnemonic string, operands []string, line int, mem *Memory) (string, error) {
	if len(operands) != 1 {
		return "", invalidOperandErr(line, "%s requires exactly one operand", mnemonic)
	}
	op := operands[0]

	switch mnemonic {
	case "DEC":
		if op != "A" {
			return "", invalidOperandErr(line, "DEC only accepts the A register")
		}
	case "INC":
		kind, err := incOperandKind(op, line)
		if err != nil {
			return "", err
		}
		if !ip.cfg.IncOperandKinds[kind] {
			return "", invalidOperandErr(line, "invalid operand for INC: %q", op)
		}
	}

	def := ip.cfg.Mnemonics[mnemonic]
	typeName, err := operandTypeName(op, line)
	if err != nil {
		return "", err
	}
	code, err := typeCode(ip.cfg, typeName, op, line)
	if err != nil {
		return "", err
	}

	lit, err := ip.singleOperandLiteral(mnemonic, op, mem, line)
	if err != nil {
		return "", err
	}
	if err := checkLiteralRange(lit, ip.cfg, line); err != nil {
		return "", err
	}

	word := def.Opcode + padTo(code, ip.cfg.TypeBits) + formatBits(lit, ip.cfg.LiteralBits)
	return ip.checkedWord(word, line)
}

// encodeSingleNoLiteral is the stripped-down single-operand encoder used
// for the two machine words POP expands into: same operand-type field as a
// normal single-operand instruction, literal field always zero.
func (ip *InstructionProcessor) encodeSingleNoLiteral(mnemonic, reg string, line int) (string, error) {
	def, ok := ip.cfg.Mnemonics[mnemonic]
	if !ok {
		return "", invalidInstructionErr(line, "unknown mnemonic: %q", mnemonic)
	}
	code, err := typeCode(ip.cfg, reg, reg, line)
	if err != nil {
		return "", err
	}
	word := def.Opcode + padTo(code, ip.cfg.TypeBits) + strings.Repeat("0", ip.cfg.LiteralBits)
	return ip.checkedWord(word, line)
}

// singleOperandLiteral implements literal-slot rules 2, 4, and 5 for the
// single-operand class: INC/DEC of A injects the step value 1; a
// direct-addressed operand resolves via literalSlot; anything else is zero.
func (ip *InstructionProcessor) singleOperandLiteral(mnemonic, op string, mem *Memory, line int) (int, error) {
	if (mnemonic == "INC" || mnemonic == "DEC") && op == "A" {
		return 1, nil
	}
	if _, ok := isParenthesized(op); ok {
		return literalSlot(op, mem, line)
	}
	if isNumeric(op) {
		return parseNumeric(op, line)
	}
	return 0, nil
}

// incOperandKind reduces an INC operand to the key used by
// Config.IncOperandKinds: "A", "B", "(A)", "(B)", or "(dir)". "(A)" is not
// among the accepted keys, so INC (A) is rejected.
func incOperandKind(op string, line int) (string, error) {
	if op == "A" || op == "B" {
		return op, nil
	}
	if inner, ok := isParenthesized(op); ok {
		if inner == "A" || inner == "B" {
			return "(" + inner + ")", nil
		}
		if inner != "" {
			return "(dir)", nil
		}
	}
	return "", invalidOperandErr(line, "invalid operand for INC: %q", op)
}

// encodeFlexibleOrBinary handles the Flexible class (NOT, SHL, SHR; one or
// two operands) and the Binary class (ADD, SUB, AND, OR, XOR, MOV, CMP, …;
// normally two operands, with a single-operand direct-addressing shorthand
// for mnemonics whose declared formats allow a 1-operand shape).
func (ip *InstructionProcessor) encodeFlexibleOrBinary(mnemonic string, operands []string, line int, mem *Memory, flexible bool) (string, error) {
	def := ip.cfg.Mnemonics[mnemonic]

	switch len(operands) {
	case 1:
		op := operands[0]
		if !flexible {
			if _, ok := isParenthesized(op); !ok {
				return "", invalidOperandErr(line, "%s with a single operand requires direct addressing, e.g. (%s)", mnemonic, op)
			}
		}
		typeName, err := operandTypeName(op, line)
		if err != nil {
			return "", err
		}
		code, err := typeCode(ip.cfg, typeName, op, line)
		if err != nil {
			return "", err
		}
		lit, err := literalSlot(op, mem, line)
		if err != nil {
			return "", err
		}
		if err := checkLiteralRange(lit, ip.cfg, line); err != nil {
			return "", err
		}
		word := def.Opcode + padTo(code, ip.cfg.TypeBits) + formatBits(lit, ip.cfg.LiteralBits)
		return ip.checkedWord(word, line)

	case 2:
		dst, src := operands[0], operands[1]
		dstType, err := operandTypeName(dst, line)
		if err != nil {
			return "", err
		}
		srcType, err := operandTypeName(src, line)
		if err != nil {
			return "", err
		}
		dstCode, err := typeCode(ip.cfg, dstType, dst, line)
		if err != nil {
			return "", err
		}
		srcCode, err := typeCode(ip.cfg, srcType, src, line)
		if err != nil {
			return "", err
		}

		// Flexible (NOT/SHL/SHR) and Binary (ADD.../MOV/CMP) disagree on
		// which operand feeds the literal field in the two-operand case:
		// Flexible looks at the destination (only when direct-addressed),
		// Binary looks at the source (direct-addressed or a bare numeric),
		// falling back to a direct-addressed destination such as the
		// "(addr)" in "MOV (addr),A".
		var lit int
		if flexible {
			if _, ok := isParenthesized(dst); ok {
				lit, err = literalSlot(dst, mem, line)
				if err != nil {
					return "", err
				}
			}
		} else if _, ok := isParenthesized(src); ok || isNumeric(src) {
			lit, err = literalSlot(src, mem, line)
			if err != nil {
				return "", err
			}
		} else if _, ok := isParenthesized(dst); ok {
			lit, err = literalSlot(dst, mem, line)
			if err != nil {
				return "", err
			}
		}
		if err := checkLiteralRange(lit, ip.cfg, line); err != nil {
			return "", err
		}

		typeField := padTo(dstCode[:3]+srcCode[:3], ip.cfg.TypeBits)
		word := def.Opcode + typeField + formatBits(lit, ip.cfg.LiteralBits)
		return ip.checkedWord(word, line)

	default:
		return "", invalidInstructionErr(line, "%s requires one or two operands", mnemonic)
	}
}

// padTo right-pads a bit string with zeros to width, used for the
// operand-type field when fewer than its full width of codes is supplied.
func padTo(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat("0", width-len(s))
}

func (ip *InstructionProcessor) checkedWord(word string, line int) (string, error) {
	if len(word) != ip.cfg.WordBits {
		return "", newErr(KindInvalidInstruction, line, "internal error: encoded word has length %d, want %d", len(word), ip.cfg.WordBits)
	}
	return word, nil
}
