package asm

import "testing"

func TestScalarCharStringArray(t *testing.T) {
	entries := []Entry{
		{Line: "count 5", LineNo: 1},
		{Line: `letter 'Q'`, LineNo: 2},
		{Line: `greeting "hi"`, LineNo: 3},
		{Line: "table 1", LineNo: 4},
		{Line: "2", LineNo: 5},
		{Line: "3", LineNo: 6},
	}
	mem := NewMemory()
	if err := processDataEntries(entries, mem); err != nil {
		t.Fatalf("processDataEntries: %v", err)
	}

	count, _ := mem.Entry("count")
	if count.Kind != KindScalar || count.Length != 1 {
		t.Errorf("count entry = %+v, want scalar of length 1", count)
	}

	letter, _ := mem.Entry("letter")
	if letter.Kind != KindChar {
		t.Errorf("letter entry kind = %v, want KindChar", letter.Kind)
	}
	if mem.CellAt(letter.BaseAddress) != int('Q') {
		t.Errorf("letter cell = %d, want %d", mem.CellAt(letter.BaseAddress), int('Q'))
	}

	greeting, _ := mem.Entry("greeting")
	if greeting.Kind != KindString || greeting.Length != 3 {
		t.Errorf("greeting entry = %+v, want string of length 3 (2 chars + null)", greeting)
	}

	table, _ := mem.Entry("table")
	if table.Kind != KindArray || table.Length != 3 {
		t.Errorf("table entry = %+v, want array of length 3", table)
	}
	for i, want := range []int{1, 2, 3} {
		if got := mem.CellAt(table.BaseAddress + i); got != want {
			t.Errorf("table[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestDuplicateDataNameIsMemoryError(t *testing.T) {
	entries := []Entry{
		{Line: "v 1", LineNo: 1},
		{Line: "v 2", LineNo: 2},
	}
	mem := NewMemory()
	err := processDataEntries(entries, mem)
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != KindMemory {
		t.Fatalf("err = %v, want a MemoryError", err)
	}
}

func TestLeadingSingleTokenLineIsMemoryError(t *testing.T) {
	entries := []Entry{
		{Line: "5", LineNo: 1},
	}
	mem := NewMemory()
	err := processDataEntries(entries, mem)
	asmErr, ok := err.(*Error)
	if !ok || asmErr.Kind != KindMemory {
		t.Fatalf("err = %v, want a MemoryError for a leading single-token line", err)
	}
}

func TestAddressesAreContiguousFromZero(t *testing.T) {
	entries := []Entry{
		{Line: "a 1", LineNo: 1},
		{Line: "b 2", LineNo: 2},
	}
	mem := NewMemory()
	if err := processDataEntries(entries, mem); err != nil {
		t.Fatalf("processDataEntries: %v", err)
	}
	addrA, _ := mem.AddressOf("a")
	addrB, _ := mem.AddressOf("b")
	if addrA != 0 || addrB != 1 {
		t.Errorf("addresses = %d, %d, want 0, 1", addrA, addrB)
	}
}
