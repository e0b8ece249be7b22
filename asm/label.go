package asm

import (
	"regexp"
	"strings"

	"github.com/fcamaggi/g26asm/config"
)

var labelNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// UnresolvedReference is a jump literal whose target label wasn't yet
// known at the point the instruction was planned or encoded.
type UnresolvedReference struct {
	LabelName        string
	InstructionIndex int
}

// LabelManager computes the machine address of every label in a single
// planning pass over the code stream (spec.md §4.3), accounting for
// mnemonics that expand to two machine words, and records forward jump
// references (targets not yet defined at the jump) for BinaryGenerator to
// patch during fix-up.
type LabelManager struct {
	labels     map[string]int
	order      []string
	unresolved []UnresolvedReference
}

// NewLabelManager returns an empty LabelManager.
func NewLabelManager() *LabelManager {
	return &LabelManager{labels: make(map[string]int)}
}

// AddressOf returns the machine address of a previously planned label.
func (lm *LabelManager) AddressOf(name string) (int, bool) {
	a, ok := lm.labels[name]
	return a, ok
}

// Names returns label names in definition order.
func (lm *LabelManager) Names() []string {
	out := make([]string, len(lm.order))
	copy(out, lm.order)
	return out
}

// isLabelLine reports whether line is "name:" with a legal label name, and
// returns the bare name.
func isLabelLine(line string) (string, bool) {
	if !strings.HasSuffix(line, ":") {
		return "", false
	}
	name := strings.TrimSuffix(line, ":")
	if !labelNameRE.MatchString(name) {
		return "", false
	}
	return name, true
}

func isSectionMarker(line string) bool {
	return line == "DATA:" || line == "CODE:"
}

// Plan walks code in order, assigning a machine address to every label and
// collecting unresolved jump references. It is the sole source of truth for
// where each source instruction lands, shared with BinaryGenerator via the
// config.IsExpanding predicate so both passes agree on instruction widths.
func (lm *LabelManager) Plan(code []Entry) error {
	pos := 0
	for _, e := range code {
		if isSectionMarker(e.Line) {
			continue
		}
		if name, ok := isLabelLine(e.Line); ok {
			if _, exists := lm.labels[name]; exists {
				return labelErr(e.LineNo, "label %q already defined", name)
			}
			lm.labels[name] = pos
			lm.order = append(lm.order, name)
			continue
		}

		mnemonic := firstToken(e.Line)
		if config.ClassOf(mnemonic) == config.ClassJump {
			target := jumpTarget(e.Line)
			if target != "" && !isNumeric(target) {
				if _, already := lm.labels[target]; !already {
					lm.unresolved = append(lm.unresolved, UnresolvedReference{
						LabelName: target, InstructionIndex: pos,
					})
				}
			}
		}

		if config.IsExpanding(mnemonic) {
			pos += 2
		} else {
			pos++
		}
	}
	return nil
}

// Unresolved returns the references accumulated so far. The encoder may
// append more during the emit pass (for jump targets missing from the label
// table), so BinaryGenerator reads this only after emission, in fix-up.
func (lm *LabelManager) Unresolved() []UnresolvedReference {
	return lm.unresolved
}

// AddUnresolved records an additional reference discovered during encoding.
func (lm *LabelManager) AddUnresolved(name string, instructionIndex int) {
	lm.unresolved = append(lm.unresolved, UnresolvedReference{LabelName: name, InstructionIndex: instructionIndex})
}

func firstToken(line string) string {
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		return line[:idx]
	}
	return line
}

func jumpTarget(line string) string {
	parts := strings.SplitN(line, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
