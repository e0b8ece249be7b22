package asm

import (
	"testing"

	"github.com/fcamaggi/g26asm/config"
)

func flexibleTestConfig(t *testing.T) *config.Config {
	t.Helper()
	raw := `{
		"config": {
			"tamañoPalabra": 18,
			"instrucciones": { "bits": 6 },
			"tipos": { "bits": 6 },
			"literals": { "bits": 6 }
		},
		"instrucciones": {
			"SHL": { "opcode": "010010", "formato": ["op", "dst,src"] },
			"ADD": { "opcode": "010100", "formato": ["(dir)", "dst,src"] },
			"DEC": { "opcode": "001110", "formato": ["A"] },
			"INC": { "opcode": "001101", "formato": ["op"] }
		},
		"tipos": {
			"A": "001", "B": "010", "(A)": "111", "(B)": "100",
			"(dir)": "011", "lit": "110"
		}
	}`
	cfg, err := config.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	return cfg
}

// Flexible instructions take their literal from the destination operand
// when it's direct-addressed; a numeric source does not contribute one.
func TestFlexibleTwoOperandLiteralComesFromDest(t *testing.T) {
	cfg := flexibleTestConfig(t)
	res := assemble(t, cfg, "DATA:\nbuf 0\nCODE:\nSHL (buf),A\n")
	want := "010010" + "011001" + formatBits(0, 6)
	if res.Binary[0] != want {
		t.Errorf("binary[0] = %s, want %s", res.Binary[0], want)
	}
}

func TestFlexibleTwoOperandBareDestHasZeroLiteral(t *testing.T) {
	cfg := flexibleTestConfig(t)
	res := assemble(t, cfg, "CODE:\nSHL A,B\n")
	want := "010010" + "001010" + formatBits(0, 6)
	if res.Binary[0] != want {
		t.Errorf("binary[0] = %s, want %s", res.Binary[0], want)
	}
}

// Binary (arithmetic) instructions, by contrast, take their literal from
// the source operand.
func TestBinaryTwoOperandLiteralComesFromSource(t *testing.T) {
	cfg := flexibleTestConfig(t)
	res := assemble(t, cfg, "DATA:\nbuf 0\nCODE:\nADD A,(buf)\n")
	want := "010100" + "001011" + formatBits(0, 6)
	if res.Binary[0] != want {
		t.Errorf("binary[0] = %s, want %s", res.Binary[0], want)
	}
}

func TestDecOfARegisterInjectsStepLiteral(t *testing.T) {
	cfg := flexibleTestConfig(t)
	res := assemble(t, cfg, "CODE:\nDEC A\n")
	want := "001110" + "001000" + formatBits(1, 6)
	if res.Binary[0] != want {
		t.Errorf("binary[0] = %s, want %s", res.Binary[0], want)
	}
}

func TestDecRejectsNonARegister(t *testing.T) {
	cfg := flexibleTestConfig(t)
	_, err := New(cfg).Assemble("CODE:\nDEC B\n", Options{})
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != KindInvalidOperand {
		t.Fatalf("err = %v, want an InvalidOperand error", err)
	}
}

func TestIncOfDirectAddress(t *testing.T) {
	cfg := flexibleTestConfig(t)
	res := assemble(t, cfg, "DATA:\ncounter 0\nCODE:\nINC (counter)\n")
	want := "001101" + "011000" + formatBits(0, 6)
	if res.Binary[0] != want {
		t.Errorf("binary[0] = %s, want %s", res.Binary[0], want)
	}
}
