package asm

import (
	"strings"

	"github.com/fcamaggi/g26asm/config"
)

// splitOperands splits the operand portion of an instruction on commas,
// ignoring commas nested inside parentheses, and trims each result.
func splitOperands(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	var cur strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
			cur.WriteRune(r)
		case ')':
			depth--
			cur.WriteRune(r)
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(cur.String()))
				cur.Reset()
				continue
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		out = append(out, strings.TrimSpace(cur.String()))
	}
	return out
}

// splitMnemonic separates the leading mnemonic token from its operand text.
func splitMnemonic(line string) (mnemonic string, rest string) {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// isRegister reports whether op is the bare register name A or B.
func isRegister(op string) bool { return op == "A" || op == "B" }

// isParenthesized reports whether op has the form "(...)" and returns the
// inner token.
func isParenthesized(op string) (inner string, ok bool) {
	if len(op) >= 2 && strings.HasPrefix(op, "(") && strings.HasSuffix(op, ")") {
		return strings.TrimSpace(op[1 : len(op)-1]), true
	}
	return "", false
}

// operandTypeName classifies op into one of the six Config-declared operand
// type names: A, B, (A), (B), (dir), lit.
func operandTypeName(op string, line int) (string, error) {
	if isRegister(op) {
		return op, nil
	}
	if inner, ok := isParenthesized(op); ok {
		if isRegister(inner) {
			return "(" + inner + ")", nil
		}
		return "(dir)", nil
	}
	if isNumeric(op) {
		return "lit", nil
	}
	// A bare identifier: either a DATA name (direct addressing without
	// explicit parens is not legal syntax, so this must be an error) or,
	// at the top-level operand position, a label is never expected here.
	return "", invalidOperandErr(line, "unrecognized operand: %q", op)
}

// typeCode looks up the 3-bit code for an operand via Config, given its
// already-classified type name.
func typeCode(cfg *config.Config, typeName string, op string, line int) (string, error) {
	code, ok := cfg.Types[typeName]
	if !ok {
		return "", invalidOperandErr(line, "no operand-type code configured for %q (operand %q)", typeName, op)
	}
	return code, nil
}

// literalSlot computes the value to place in the low L bits of a word for
// a non-jump operand, per spec.md §4.4 literal-slot population rules 2-3, 5.
// It returns the resolved value, or an InvalidOperand error when a
// direct-addressed name is neither a DATA name nor a numeric literal.
func literalSlot(op string, mem *Memory, line int) (int, error) {
	if inner, ok := isParenthesized(op); ok {
		if isRegister(inner) {
			return 0, nil
		}
		if addr, ok := mem.AddressOf(inner); ok {
			return addr, nil
		}
		if isNumeric(inner) {
			return parseNumeric(inner, line)
		}
		return 0, invalidOperandErr(line, "undefined variable in direct address: %q", inner)
	}
	if isNumeric(op) {
		return parseNumeric(op, line)
	}
	return 0, nil
}

func checkLiteralRange(v int, cfg *config.Config, line int) error {
	if v < 0 || v > cfg.MaxLiteral() {
		return invalidOperandErr(line, "value %d out of range for a %d-bit literal field", v, cfg.LiteralBits)
	}
	return nil
}
