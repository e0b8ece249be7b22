package trace

import (
	"testing"

	"github.com/fcamaggi/g26asm/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	raw := `{
		"config": {
			"tamañoPalabra": 36,
			"instrucciones": { "bits": 6 },
			"tipos": { "bits": 6 },
			"literals": { "bits": 24 }
		},
		"instrucciones": {
			"NOP": { "opcode": "000000", "formato": ["none"] },
			"MOV": { "opcode": "000001", "formato": ["dst,src"] }
		},
		"tipos": {
			"A": "001", "B": "010", "(A)": "111", "(B)": "110",
			"(dir)": "011", "lit": "100"
		}
	}`
	cfg, err := config.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	return cfg
}

func TestDecodeMovLiteral(t *testing.T) {
	cfg := testConfig(t)
	word := "000001" + "001100" + "000000000000000000000101"
	line, err := Decode(word, cfg)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if line.Mnemonic != "MOV" {
		t.Errorf("Mnemonic = %q, want MOV", line.Mnemonic)
	}
	if line.Literal != 5 {
		t.Errorf("Literal = %d, want 5", line.Literal)
	}
	wantOps := []string{"A", "lit"}
	if len(line.Operands) != 2 || line.Operands[0] != wantOps[0] || line.Operands[1] != wantOps[1] {
		t.Errorf("Operands = %v, want %v", line.Operands, wantOps)
	}
}

func TestDecodeRejectsWrongWidth(t *testing.T) {
	cfg := testConfig(t)
	if _, err := Decode("0001", cfg); err == nil {
		t.Fatal("expected an error for a word of the wrong width")
	}
}

func TestDecodeAll(t *testing.T) {
	cfg := testConfig(t)
	nop := "000000" + "000000" + "000000000000000000000000"
	lines, err := DecodeAll([]string{nop, nop}, cfg)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(lines) != 2 || lines[0].Mnemonic != "NOP" {
		t.Errorf("lines = %+v", lines)
	}
}
