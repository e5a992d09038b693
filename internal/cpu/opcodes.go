package cpu

// initInstructions builds the 256-entry opcode table. Undefined opcodes
// alias to a 1-byte/2-cycle NOP so PC never desynchronizes.
func (c *CPU) initInstructions() {
	nop := Instruction{"NOP", 1, 2, Implied}
	for i := range c.instructions {
		c.instructions[i] = nop
	}

	set := func(op uint8, name string, bytes, cycles uint8, mode AddressingMode) {
		c.instructions[op] = Instruction{name, bytes, cycles, mode}
	}

	// Official opcodes.
	set(0x00, "BRK", 1, 7, Implied)
	set(0x01, "ORA", 2, 6, IndexedIndirect)
	set(0x05, "ORA", 2, 3, ZeroPage)
	set(0x06, "ASL", 2, 5, ZeroPage)
	set(0x08, "PHP", 1, 3, Implied)
	set(0x09, "ORA", 2, 2, Immediate)
	set(0x0A, "ASL", 1, 2, Accumulator)
	set(0x0D, "ORA", 3, 4, Absolute)
	set(0x0E, "ASL", 3, 6, Absolute)
	set(0x10, "BPL", 2, 2, Relative)
	set(0x11, "ORA", 2, 5, IndirectIndexed)
	set(0x15, "ORA", 2, 4, ZeroPageX)
	set(0x16, "ASL", 2, 6, ZeroPageX)
	set(0x18, "CLC", 1, 2, Implied)
	set(0x19, "ORA", 3, 4, AbsoluteY)
	set(0x1D, "ORA", 3, 4, AbsoluteX)
	set(0x1E, "ASL", 3, 7, AbsoluteX)
	set(0x20, "JSR", 3, 6, Absolute)
	set(0x21, "AND", 2, 6, IndexedIndirect)
	set(0x24, "BIT", 2, 3, ZeroPage)
	set(0x25, "AND", 2, 3, ZeroPage)
	set(0x26, "ROL", 2, 5, ZeroPage)
	set(0x28, "PLP", 1, 4, Implied)
	set(0x29, "AND", 2, 2, Immediate)
	set(0x2A, "ROL", 1, 2, Accumulator)
	set(0x2C, "BIT", 3, 4, Absolute)
	set(0x2D, "AND", 3, 4, Absolute)
	set(0x2E, "ROL", 3, 6, Absolute)
	set(0x30, "BMI", 2, 2, Relative)
	set(0x31, "AND", 2, 5, IndirectIndexed)
	set(0x35, "AND", 2, 4, ZeroPageX)
	set(0x36, "ROL", 2, 6, ZeroPageX)
	set(0x38, "SEC", 1, 2, Implied)
	set(0x39, "AND", 3, 4, AbsoluteY)
	set(0x3D, "AND", 3, 4, AbsoluteX)
	set(0x3E, "ROL", 3, 7, AbsoluteX)
	set(0x40, "RTI", 1, 6, Implied)
	set(0x41, "EOR", 2, 6, IndexedIndirect)
	set(0x45, "EOR", 2, 3, ZeroPage)
	set(0x46, "LSR", 2, 5, ZeroPage)
	set(0x48, "PHA", 1, 3, Implied)
	set(0x49, "EOR", 2, 2, Immediate)
	set(0x4A, "LSR", 1, 2, Accumulator)
	set(0x4C, "JMP", 3, 3, Absolute)
	set(0x4D, "EOR", 3, 4, Absolute)
	set(0x4E, "LSR", 3, 6, Absolute)
	set(0x50, "BVC", 2, 2, Relative)
	set(0x51, "EOR", 2, 5, IndirectIndexed)
	set(0x55, "EOR", 2, 4, ZeroPageX)
	set(0x56, "LSR", 2, 6, ZeroPageX)
	set(0x58, "CLI", 1, 2, Implied)
	set(0x59, "EOR", 3, 4, AbsoluteY)
	set(0x5D, "EOR", 3, 4, AbsoluteX)
	set(0x5E, "LSR", 3, 7, AbsoluteX)
	set(0x60, "RTS", 1, 6, Implied)
	set(0x61, "ADC", 2, 6, IndexedIndirect)
	set(0x65, "ADC", 2, 3, ZeroPage)
	set(0x66, "ROR", 2, 5, ZeroPage)
	set(0x68, "PLA", 1, 4, Implied)
	set(0x69, "ADC", 2, 2, Immediate)
	set(0x6A, "ROR", 1, 2, Accumulator)
	set(0x6C, "JMP", 3, 5, Indirect)
	set(0x6D, "ADC", 3, 4, Absolute)
	set(0x6E, "ROR", 3, 6, Absolute)
	set(0x70, "BVS", 2, 2, Relative)
	set(0x71, "ADC", 2, 5, IndirectIndexed)
	set(0x75, "ADC", 2, 4, ZeroPageX)
	set(0x76, "ROR", 2, 6, ZeroPageX)
	set(0x78, "SEI", 1, 2, Implied)
	set(0x79, "ADC", 3, 4, AbsoluteY)
	set(0x7D, "ADC", 3, 4, AbsoluteX)
	set(0x7E, "ROR", 3, 7, AbsoluteX)
	set(0x81, "STA", 2, 6, IndexedIndirect)
	set(0x84, "STY", 2, 3, ZeroPage)
	set(0x85, "STA", 2, 3, ZeroPage)
	set(0x86, "STX", 2, 3, ZeroPage)
	set(0x88, "DEY", 1, 2, Implied)
	set(0x8A, "TXA", 1, 2, Implied)
	set(0x8C, "STY", 3, 4, Absolute)
	set(0x8D, "STA", 3, 4, Absolute)
	set(0x8E, "STX", 3, 4, Absolute)
	set(0x90, "BCC", 2, 2, Relative)
	set(0x91, "STA", 2, 6, IndirectIndexed)
	set(0x94, "STY", 2, 4, ZeroPageX)
	set(0x95, "STA", 2, 4, ZeroPageX)
	set(0x96, "STX", 2, 4, ZeroPageY)
	set(0x98, "TYA", 1, 2, Implied)
	set(0x99, "STA", 3, 5, AbsoluteY)
	set(0x9A, "TXS", 1, 2, Implied)
	set(0x9D, "STA", 3, 5, AbsoluteX)
	set(0xA0, "LDY", 2, 2, Immediate)
	set(0xA1, "LDA", 2, 6, IndexedIndirect)
	set(0xA2, "LDX", 2, 2, Immediate)
	set(0xA4, "LDY", 2, 3, ZeroPage)
	set(0xA5, "LDA", 2, 3, ZeroPage)
	set(0xA6, "LDX", 2, 3, ZeroPage)
	set(0xA8, "TAY", 1, 2, Implied)
	set(0xA9, "LDA", 2, 2, Immediate)
	set(0xAA, "TAX", 1, 2, Implied)
	set(0xAC, "LDY", 3, 4, Absolute)
	set(0xAD, "LDA", 3, 4, Absolute)
	set(0xAE, "LDX", 3, 4, Absolute)
	set(0xB0, "BCS", 2, 2, Relative)
	set(0xB1, "LDA", 2, 5, IndirectIndexed)
	set(0xB4, "LDY", 2, 4, ZeroPageX)
	set(0xB5, "LDA", 2, 4, ZeroPageX)
	set(0xB6, "LDX", 2, 4, ZeroPageY)
	set(0xB8, "CLV", 1, 2, Implied)
	set(0xB9, "LDA", 3, 4, AbsoluteY)
	set(0xBA, "TSX", 1, 2, Implied)
	set(0xBC, "LDY", 3, 4, AbsoluteX)
	set(0xBD, "LDA", 3, 4, AbsoluteX)
	set(0xBE, "LDX", 3, 4, AbsoluteY)
	set(0xC0, "CPY", 2, 2, Immediate)
	set(0xC1, "CMP", 2, 6, IndexedIndirect)
	set(0xC4, "CPY", 2, 3, ZeroPage)
	set(0xC5, "CMP", 2, 3, ZeroPage)
	set(0xC6, "DEC", 2, 5, ZeroPage)
	set(0xC8, "INY", 1, 2, Implied)
	set(0xC9, "CMP", 2, 2, Immediate)
	set(0xCA, "DEX", 1, 2, Implied)
	set(0xCC, "CPY", 3, 4, Absolute)
	set(0xCD, "CMP", 3, 4, Absolute)
	set(0xCE, "DEC", 3, 6, Absolute)
	set(0xD0, "BNE", 2, 2, Relative)
	set(0xD1, "CMP", 2, 5, IndirectIndexed)
	set(0xD5, "CMP", 2, 4, ZeroPageX)
	set(0xD6, "DEC", 2, 6, ZeroPageX)
	set(0xD8, "CLD", 1, 2, Implied)
	set(0xD9, "CMP", 3, 4, AbsoluteY)
	set(0xDD, "CMP", 3, 4, AbsoluteX)
	set(0xDE, "DEC", 3, 7, AbsoluteX)
	set(0xE0, "CPX", 2, 2, Immediate)
	set(0xE1, "SBC", 2, 6, IndexedIndirect)
	set(0xE4, "CPX", 2, 3, ZeroPage)
	set(0xE5, "SBC", 2, 3, ZeroPage)
	set(0xE6, "INC", 2, 5, ZeroPage)
	set(0xE8, "INX", 1, 2, Implied)
	set(0xE9, "SBC", 2, 2, Immediate)
	set(0xEA, "NOP", 1, 2, Implied)
	set(0xEC, "CPX", 3, 4, Absolute)
	set(0xED, "SBC", 3, 4, Absolute)
	set(0xEE, "INC", 3, 6, Absolute)
	set(0xF0, "BEQ", 2, 2, Relative)
	set(0xF1, "SBC", 2, 5, IndirectIndexed)
	set(0xF5, "SBC", 2, 4, ZeroPageX)
	set(0xF6, "INC", 2, 6, ZeroPageX)
	set(0xF8, "SED", 1, 2, Implied)
	set(0xF9, "SBC", 3, 4, AbsoluteY)
	set(0xFD, "SBC", 3, 4, AbsoluteX)
	set(0xFE, "INC", 3, 7, AbsoluteX)

	// Illegal opcodes.
	set(0x03, "SLO", 2, 8, IndexedIndirect)
	set(0x07, "SLO", 2, 5, ZeroPage)
	set(0x0F, "SLO", 3, 6, Absolute)
	set(0x13, "SLO", 2, 8, IndirectIndexed)
	set(0x17, "SLO", 2, 6, ZeroPageX)
	set(0x1B, "SLO", 3, 7, AbsoluteY)
	set(0x1F, "SLO", 3, 7, AbsoluteX)

	set(0x23, "RLA", 2, 8, IndexedIndirect)
	set(0x27, "RLA", 2, 5, ZeroPage)
	set(0x2F, "RLA", 3, 6, Absolute)
	set(0x33, "RLA", 2, 8, IndirectIndexed)
	set(0x37, "RLA", 2, 6, ZeroPageX)
	set(0x3B, "RLA", 3, 7, AbsoluteY)
	set(0x3F, "RLA", 3, 7, AbsoluteX)

	set(0x43, "SRE", 2, 8, IndexedIndirect)
	set(0x47, "SRE", 2, 5, ZeroPage)
	set(0x4F, "SRE", 3, 6, Absolute)
	set(0x53, "SRE", 2, 8, IndirectIndexed)
	set(0x57, "SRE", 2, 6, ZeroPageX)
	set(0x5B, "SRE", 3, 7, AbsoluteY)
	set(0x5F, "SRE", 3, 7, AbsoluteX)

	set(0x63, "RRA", 2, 8, IndexedIndirect)
	set(0x67, "RRA", 2, 5, ZeroPage)
	set(0x6F, "RRA", 3, 6, Absolute)
	set(0x73, "RRA", 2, 8, IndirectIndexed)
	set(0x77, "RRA", 2, 6, ZeroPageX)
	set(0x7B, "RRA", 3, 7, AbsoluteY)
	set(0x7F, "RRA", 3, 7, AbsoluteX)

	set(0x83, "SAX", 2, 6, IndexedIndirect)
	set(0x87, "SAX", 2, 3, ZeroPage)
	set(0x8F, "SAX", 3, 4, Absolute)
	set(0x97, "SAX", 2, 4, ZeroPageY)

	set(0xA3, "LAX", 2, 6, IndexedIndirect)
	set(0xA7, "LAX", 2, 3, ZeroPage)
	set(0xAF, "LAX", 3, 4, Absolute)
	set(0xB3, "LAX", 2, 5, IndirectIndexed)
	set(0xB7, "LAX", 2, 4, ZeroPageY)
	set(0xBF, "LAX", 3, 4, AbsoluteY)

	set(0xC3, "DCP", 2, 8, IndexedIndirect)
	set(0xC7, "DCP", 2, 5, ZeroPage)
	set(0xCF, "DCP", 3, 6, Absolute)
	set(0xD3, "DCP", 2, 8, IndirectIndexed)
	set(0xD7, "DCP", 2, 6, ZeroPageX)
	set(0xDB, "DCP", 3, 7, AbsoluteY)
	set(0xDF, "DCP", 3, 7, AbsoluteX)

	set(0xE3, "ISC", 2, 8, IndexedIndirect)
	set(0xE7, "ISC", 2, 5, ZeroPage)
	set(0xEF, "ISC", 3, 6, Absolute)
	set(0xF3, "ISC", 2, 8, IndirectIndexed)
	set(0xF7, "ISC", 2, 6, ZeroPageX)
	set(0xFB, "ISC", 3, 7, AbsoluteY)
	set(0xFF, "ISC", 3, 7, AbsoluteX)

	set(0x0B, "ANC", 2, 2, Immediate)
	set(0x2B, "ANC", 2, 2, Immediate)
	set(0x4B, "ALR", 2, 2, Immediate)
	set(0x6B, "ARR", 2, 2, Immediate)
	set(0xCB, "AXS", 2, 2, Immediate)
	set(0xEB, "SBC", 2, 2, Immediate) // USBC, identical to 0xE9

	// Multi-byte/read-cycle NOPs.
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, "NOP", 1, 2, Implied)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, "NOP", 2, 3, ZeroPage)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, "NOP", 2, 4, ZeroPageX)
	}
	set(0x80, "NOP", 2, 2, Immediate)
	set(0x82, "NOP", 2, 2, Immediate)
	set(0x89, "NOP", 2, 2, Immediate)
	set(0xC2, "NOP", 2, 2, Immediate)
	set(0xE2, "NOP", 2, 2, Immediate)
	for _, op := range []uint8{0x0C} {
		set(op, "NOP", 3, 4, Absolute)
	}
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, "NOP", 3, 4, AbsoluteX)
	}
}
