package asm

import "testing"

func TestLabelMonotonicityAndExpansion(t *testing.T) {
	code := []Entry{
		{Line: "start:", LineNo: 1},
		{Line: "POP A", LineNo: 2},
		{Line: "mid:", LineNo: 3},
		{Line: "NOP", LineNo: 4},
		{Line: "end:", LineNo: 5},
		{Line: "JMP start", LineNo: 6},
	}
	lm := NewLabelManager()
	if err := lm.Plan(code); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	start, _ := lm.AddressOf("start")
	mid, _ := lm.AddressOf("mid")
	end, _ := lm.AddressOf("end")
	if start != 0 {
		t.Errorf("start = %d, want 0", start)
	}
	if mid != 2 {
		t.Errorf("mid = %d, want 2 (after POP's two words)", mid)
	}
	if end != 3 {
		t.Errorf("end = %d, want 3", end)
	}
	if start > mid || mid > end {
		t.Errorf("labels not monotonic: start=%d mid=%d end=%d", start, mid, end)
	}
}

func TestDuplicateLabelError(t *testing.T) {
	code := []Entry{
		{Line: "l:", LineNo: 1},
		{Line: "NOP", LineNo: 2},
		{Line: "l:", LineNo: 3},
	}
	lm := NewLabelManager()
	err := lm.Plan(code)
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != KindLabel {
		t.Fatalf("err = %v, want a LabelError", err)
	}
	if asmErr.Line != 3 {
		t.Errorf("error line = %d, want 3", asmErr.Line)
	}
}

func TestIsLabelLineRejectsBadNames(t *testing.T) {
	if _, ok := isLabelLine("1start:"); ok {
		t.Error("a digit-leading name should not be accepted as a label")
	}
	if name, ok := isLabelLine("loop_2:"); !ok || name != "loop_2" {
		t.Errorf("isLabelLine(loop_2:) = %q, %v, want loop_2, true", name, ok)
	}
}
