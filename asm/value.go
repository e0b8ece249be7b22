package asm

import (
	"strconv"
	"strings"
)

// isDigits reports whether s is non-empty and consists only of '0'-'9'.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isBinaryDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '0' && r != '1' {
			return false
		}
	}
	return true
}

func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// isCharLiteral reports whether s is a three-character 'X' literal.
func isCharLiteral(s string) bool {
	return len(s) == 3 && s[0] == '\'' && s[2] == '\''
}

// isStringLiteral reports whether s is a "..." literal.
func isStringLiteral(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)
}

// isNumeric classifies a token per spec.md §4.4's numeric-literal table:
// a bare decimal run, a 'd'/'h'/'b' suffixed run matching its base's
// alphabet, or a single-character literal.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || isStringLiteral(s) {
		return false
	}
	if isCharLiteral(s) {
		return true
	}
	switch {
	case strings.HasSuffix(s, "d"):
		return isDigits(s[:len(s)-1])
	case strings.HasSuffix(s, "b"):
		return isBinaryDigits(s[:len(s)-1])
	case strings.HasSuffix(s, "h"):
		return isHexDigits(s[:len(s)-1])
	default:
		return isDigits(s)
	}
}

// parseNumeric converts a numeric token to its integer value, per the
// base table in spec.md §4.4. line is used only to annotate errors.
func parseNumeric(s string, line int) (int, error) {
	s = strings.TrimSpace(s)
	if isCharLiteral(s) {
		return int(s[1]), nil
	}
	switch {
	case strings.HasSuffix(s, "d"):
		v, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
		if err != nil {
			return 0, invalidOperandErr(line, "invalid decimal literal: %s", s)
		}
		return int(v), nil
	case strings.HasSuffix(s, "b"):
		v, err := strconv.ParseInt(s[:len(s)-1], 2, 64)
		if err != nil {
			return 0, invalidOperandErr(line, "invalid binary literal: %s", s)
		}
		return int(v), nil
	case strings.HasSuffix(s, "h"):
		v, err := strconv.ParseInt(s[:len(s)-1], 16, 64)
		if err != nil {
			return 0, invalidOperandErr(line, "invalid hexadecimal literal: %s", s)
		}
		return int(v), nil
	default:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, invalidOperandErr(line, "invalid numeric literal: %s", s)
		}
		return int(v), nil
	}
}

// formatBits renders v as a zero-padded binary string of the given width.
// Used for every literal field the encoder emits.
func formatBits(v int, width int) string {
	s := strconv.FormatInt(int64(v), 2)
	if len(s) >= width {
		return s[len(s)-width:]
	}
	return strings.Repeat("0", width-len(s)) + s
}

// parseBits parses a binary string back to an integer (used by the tests
// to read back an encoded field).
func parseBits(s string) int {
	v, _ := strconv.ParseInt(s, 2, 64)
	return int(v)
}
