package asm

import "strings"

// DataKind distinguishes the four value shapes the data section supports.
type DataKind int

const (
	KindScalar DataKind = iota
	KindChar
	KindString
	KindArray
)

// DataEntry describes one named data-section declaration.
type DataEntry struct {
	Name        string
	Kind        DataKind
	BaseAddress int
	Length      int
}

// Memory holds the data-section address space: one MemoryCell per word,
// assigned contiguously in source order starting at address 0.
type Memory struct {
	cells   []int
	entries map[string]DataEntry
	order   []string
}

// NewMemory returns an empty Memory ready to accept data-section entries.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]DataEntry)}
}

// AddressOf returns the base address of a previously stored name.
func (m *Memory) AddressOf(name string) (int, bool) {
	e, ok := m.entries[name]
	if !ok {
		return 0, false
	}
	return e.BaseAddress, true
}

// Entry returns the DataEntry recorded for name.
func (m *Memory) Entry(name string) (DataEntry, bool) {
	e, ok := m.entries[name]
	return e, ok
}

// Has reports whether name was declared in the data section.
func (m *Memory) Has(name string) bool {
	_, ok := m.entries[name]
	return ok
}

// CellAt returns the stored word value at address.
func (m *Memory) CellAt(address int) int {
	return m.cells[address]
}

// Len returns the number of words currently stored.
func (m *Memory) Len() int { return len(m.cells) }

// Names returns declared data names in declaration order, for diagnostics.
func (m *Memory) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *Memory) nextAddress() int { return len(m.cells) }

func (m *Memory) push(v int) {
	m.cells = append(m.cells, v)
}

func (m *Memory) declare(name string, kind DataKind, base, length int) {
	m.entries[name] = DataEntry{Name: name, Kind: kind, BaseAddress: base, Length: length}
	m.order = append(m.order, name)
}

// storeScalar records a single numeric cell.
func (m *Memory) storeScalar(name string, value int, line int) error {
	if m.Has(name) {
		return memoryErr(line, "variable %q already defined", name)
	}
	base := m.nextAddress()
	m.push(value)
	m.declare(name, KindScalar, base, 1)
	return nil
}

// storeChar records a single ASCII cell from a 'X' literal.
func (m *Memory) storeChar(name string, ascii int, line int) error {
	if m.Has(name) {
		return memoryErr(line, "variable %q already defined", name)
	}
	base := m.nextAddress()
	m.push(ascii)
	m.declare(name, KindChar, base, 1)
	return nil
}

// storeString records one cell per character plus a null terminator cell.
func (m *Memory) storeString(name string, s string, line int) error {
	if m.Has(name) {
		return memoryErr(line, "variable %q already defined", name)
	}
	base := m.nextAddress()
	for _, r := range s {
		m.push(int(r))
	}
	m.push(0)
	m.declare(name, KindString, base, len(s)+1)
	return nil
}

// storeArray records one cell per element, in order.
func (m *Memory) storeArray(name string, values []int, line int) error {
	if m.Has(name) {
		return memoryErr(line, "variable %q already defined", name)
	}
	base := m.nextAddress()
	for _, v := range values {
		m.push(v)
	}
	m.declare(name, KindArray, base, len(values))
	return nil
}

// processDataEntries consumes the raw DATA: entry stream and populates mem,
// implementing the scalar/char/string/array shapes and the array
// continuation rule of spec.md §4.2.
func processDataEntries(entries []Entry, mem *Memory) error {
	var arrayName string
	var arrayValues []int
	var arrayLine int
	inArray := false

	flush := func() error {
		if !inArray {
			return nil
		}
		var err error
		if len(arrayValues) == 1 {
			// A single "name value" line with no continuation is a scalar,
			// not a one-element array; same storage, different Kind tag.
			err = mem.storeScalar(arrayName, arrayValues[0], arrayLine)
		} else {
			err = mem.storeArray(arrayName, arrayValues, arrayLine)
		}
		inArray = false
		arrayName = ""
		arrayValues = nil
		return err
	}

	for _, e := range entries {
		fields := splitDataLine(e.Line)

		if len(fields) == 1 {
			if !inArray {
				return memoryErr(e.LineNo, "data line has a single token with no preceding array: %q", e.Line)
			}
			v, err := dataToken(fields[0], e.LineNo)
			if err != nil {
				return err
			}
			arrayValues = append(arrayValues, v)
			continue
		}

		if len(fields) != 2 {
			return memoryErr(e.LineNo, "invalid data line: %q", e.Line)
		}

		if err := flush(); err != nil {
			return err
		}

		name, value := fields[0], fields[1]
		if mem.Has(name) {
			return memoryErr(e.LineNo, "variable %q already defined", name)
		}

		switch {
		case isStringLiteral(value):
			if err := mem.storeString(name, value[1:len(value)-1], e.LineNo); err != nil {
				return err
			}
		case isCharLiteral(value):
			if err := mem.storeChar(name, int(value[1]), e.LineNo); err != nil {
				return err
			}
		default:
			// Might be a scalar, or the first element of an array that
			// continues on subsequent single-token lines.
			v, err := dataToken(value, e.LineNo)
			if err != nil {
				return err
			}
			inArray = true
			arrayName = name
			arrayValues = []int{v}
			arrayLine = e.LineNo
		}
	}

	return flush()
}

// dataToken parses a bare numeric or char-literal data token.
func dataToken(tok string, line int) (int, error) {
	if isCharLiteral(tok) {
		return int(tok[1]), nil
	}
	if !isNumeric(tok) {
		return 0, memoryErr(line, "invalid data value: %q", tok)
	}
	return parseNumeric(tok, line)
}

// splitDataLine splits a data-section line on whitespace into at most two
// fields: the name and the (possibly multi-word, for strings) value.
func splitDataLine(line string) []string {
	line = strings.TrimSpace(line)
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return []string{line}
	}
	name := line[:idx]
	rest := strings.TrimSpace(line[idx:])
	if rest == "" {
		return []string{name}
	}
	return []string{name, rest}
}
