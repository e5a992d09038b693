package cpu

// execute performs the instruction at opcode using the effective address
// already computed by operandAddress, returning the extra cycles of a
// taken branch (1, or 2 when it crosses a page; 0 for every other
// instruction — extra cycles from page-crossing reads are added by the
// caller).
func (c *CPU) execute(opcode uint8, addr uint16, pageCrossed bool) uint8 {
	switch c.instructions[opcode].Mode {
	case Accumulator:
		c.executeAccumulator(opcode)
		return 0
	case Implied:
		c.executeImplied(opcode)
		return 0
	}

	switch opcode {
	// Loads.
	case 0xA9, 0xA5, 0xB5, 0xAD, 0xBD, 0xB9, 0xA1, 0xB1:
		c.A = c.read(addr)
		c.setZN(c.A)
	case 0xA2, 0xA6, 0xB6, 0xAE, 0xBE:
		c.X = c.read(addr)
		c.setZN(c.X)
	case 0xA0, 0xA4, 0xB4, 0xAC, 0xBC:
		c.Y = c.read(addr)
		c.setZN(c.Y)
	case 0xA3, 0xA7, 0xB7, 0xAF, 0xBF, 0xB3:
		v := c.read(addr)
		c.A, c.X = v, v
		c.setZN(v)

	// Stores.
	case 0x85, 0x95, 0x8D, 0x9D, 0x99, 0x81, 0x91:
		c.write(addr, c.A)
	case 0x86, 0x96, 0x8E:
		c.write(addr, c.X)
	case 0x84, 0x94, 0x8C:
		c.write(addr, c.Y)
	case 0x87, 0x97, 0x8F:
		c.write(addr, c.A&c.X)

	// Arithmetic.
	case 0x69, 0x65, 0x75, 0x6D, 0x7D, 0x79, 0x61, 0x71:
		c.adc(c.read(addr))
	case 0xE9, 0xEB, 0xE5, 0xF5, 0xED, 0xFD, 0xF9, 0xE1, 0xF1:
		c.sbc(c.read(addr))
	case 0xC9, 0xC5, 0xD5, 0xCD, 0xDD, 0xD9, 0xC1, 0xD1:
		c.compare(c.A, c.read(addr))
	case 0xE0, 0xE4, 0xEC:
		c.compare(c.X, c.read(addr))
	case 0xC0, 0xC4, 0xCC:
		c.compare(c.Y, c.read(addr))

	// Logic.
	case 0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31:
		c.A &= c.read(addr)
		c.setZN(c.A)
	case 0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11:
		c.A |= c.read(addr)
		c.setZN(c.A)
	case 0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51:
		c.A ^= c.read(addr)
		c.setZN(c.A)
	case 0x24, 0x2C:
		v := c.read(addr)
		c.Z = (c.A & v) == 0
		c.V = v&vFlagMask != 0
		c.N = v&nFlagMask != 0

	// Read-modify-write.
	case 0x06, 0x16, 0x0E, 0x1E:
		c.rmw(addr, c.asl)
	case 0x26, 0x36, 0x2E, 0x3E:
		c.rmw(addr, c.rol)
	case 0x46, 0x56, 0x4E, 0x5E:
		c.rmw(addr, c.lsr)
	case 0x66, 0x76, 0x6E, 0x7E:
		c.rmw(addr, c.ror)
	case 0xE6, 0xF6, 0xEE, 0xFE:
		c.rmw(addr, func(v uint8) uint8 { v++; c.setZN(v); return v })
	case 0xC6, 0xD6, 0xCE, 0xDE:
		c.rmw(addr, func(v uint8) uint8 { v--; c.setZN(v); return v })

	// Illegal RMW combos.
	case 0x03, 0x07, 0x0F, 0x13, 0x17, 0x1B, 0x1F: // SLO
		c.rmw(addr, func(v uint8) uint8 {
			c.C = v&0x80 != 0
			v <<= 1
			c.A |= v
			c.setZN(c.A)
			return v
		})
	case 0x23, 0x27, 0x2F, 0x33, 0x37, 0x3B, 0x3F: // RLA
		c.rmw(addr, func(v uint8) uint8 {
			oldC := c.C
			c.C = v&0x80 != 0
			v <<= 1
			if oldC {
				v |= 1
			}
			c.A &= v
			c.setZN(c.A)
			return v
		})
	case 0x43, 0x47, 0x4F, 0x53, 0x57, 0x5B, 0x5F: // SRE
		c.rmw(addr, func(v uint8) uint8 {
			c.C = v&1 != 0
			v >>= 1
			c.A ^= v
			c.setZN(c.A)
			return v
		})
	case 0x63, 0x67, 0x6F, 0x73, 0x77, 0x7B, 0x7F: // RRA
		c.rmw(addr, func(v uint8) uint8 {
			oldC := c.C
			c.C = v&1 != 0
			v >>= 1
			if oldC {
				v |= 0x80
			}
			c.adc(v)
			return v
		})
	case 0xC3, 0xC7, 0xCF, 0xD3, 0xD7, 0xDB, 0xDF: // DCP
		c.rmw(addr, func(v uint8) uint8 {
			v--
			c.compare(c.A, v)
			return v
		})
	case 0xE3, 0xE7, 0xEF, 0xF3, 0xF7, 0xFB, 0xFF: // ISC
		c.rmw(addr, func(v uint8) uint8 {
			v++
			c.sbc(v)
			return v
		})

	case 0x0B, 0x2B: // ANC
		c.A &= c.read(addr)
		c.setZN(c.A)
		c.C = c.N
	case 0x4B: // ALR
		c.A &= c.read(addr)
		c.C = c.A&1 != 0
		c.A >>= 1
		c.setZN(c.A)
	case 0x6B: // ARR
		c.A &= c.read(addr)
		carry := c.C
		c.A >>= 1
		if carry {
			c.A |= 0x80
		}
		c.setZN(c.A)
		c.C = c.A&0x40 != 0
		c.V = (c.A&0x40 != 0) != (c.A&0x20 != 0)
	case 0xCB: // AXS
		v := c.read(addr)
		t := uint16(c.A&c.X) - uint16(v)
		c.C = t < 0x100
		c.X = uint8(t)
		c.setZN(c.X)

	// Control flow.
	case 0x4C, 0x6C:
		c.PC = addr
	case 0x20: // JSR
		c.pushWord(c.PC - 1)
		c.PC = addr
	case 0x10:
		return c.branch(!c.N, addr, pageCrossed)
	case 0x30:
		return c.branch(c.N, addr, pageCrossed)
	case 0x50:
		return c.branch(!c.V, addr, pageCrossed)
	case 0x70:
		return c.branch(c.V, addr, pageCrossed)
	case 0x90:
		return c.branch(!c.C, addr, pageCrossed)
	case 0xB0:
		return c.branch(c.C, addr, pageCrossed)
	case 0xD0:
		return c.branch(!c.Z, addr, pageCrossed)
	case 0xF0:
		return c.branch(c.Z, addr, pageCrossed)

	// NOP addressing modes that still perform the dummy read.
	default:
		if c.instructions[opcode].Name == "NOP" && addr != 0 {
			c.read(addr)
		}
	}
	return 0
}

// branch takes the branch if taken, returning the extra cycles incurred:
// +1 for a taken branch, +1 more if it crosses a page boundary.
func (c *CPU) branch(taken bool, target uint16, pageCrossed bool) uint8 {
	if !taken {
		return 0
	}
	c.PC = target
	if pageCrossed {
		return 2
	}
	return 1
}

func (c *CPU) rmw(addr uint16, f func(uint8) uint8) {
	v := c.read(addr)
	c.write(addr, v) // dummy write of the original value
	result := f(v)
	c.write(addr, result)
}

func (c *CPU) asl(v uint8) uint8 {
	c.C = v&0x80 != 0
	v <<= 1
	c.setZN(v)
	return v
}

func (c *CPU) lsr(v uint8) uint8 {
	c.C = v&1 != 0
	v >>= 1
	c.setZN(v)
	return v
}

func (c *CPU) rol(v uint8) uint8 {
	carry := c.C
	c.C = v&0x80 != 0
	v <<= 1
	if carry {
		v |= 1
	}
	c.setZN(v)
	return v
}

func (c *CPU) ror(v uint8) uint8 {
	carry := c.C
	c.C = v&1 != 0
	v >>= 1
	if carry {
		v |= 0x80
	}
	c.setZN(v)
	return v
}

func (c *CPU) adc(v uint8) {
	sum := uint16(c.A) + uint16(v)
	if c.C {
		sum++
	}
	result := uint8(sum)
	c.V = (c.A^v)&0x80 == 0 && (c.A^result)&0x80 != 0
	c.C = sum > 0xFF
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) sbc(v uint8) {
	c.adc(^v)
}

func (c *CPU) compare(reg, v uint8) {
	c.C = reg >= v
	c.setZN(reg - v)
}

func (c *CPU) executeAccumulator(opcode uint8) {
	switch opcode {
	case 0x0A:
		c.A = c.asl(c.A)
	case 0x2A:
		c.A = c.rol(c.A)
	case 0x4A:
		c.A = c.lsr(c.A)
	case 0x6A:
		c.A = c.ror(c.A)
	}
}

func (c *CPU) executeImplied(opcode uint8) {
	switch opcode {
	case 0x00: // BRK
		c.PC++ // BRK is a 2-byte instruction; the second byte is a padding byte.
		c.pushWord(c.PC)
		c.push(c.statusByte(true))
		c.I = true
		lo := uint16(c.read(irqVector))
		hi := uint16(c.read(irqVector + 1))
		c.PC = (hi << 8) | lo
	case 0x40: // RTI
		c.setStatusByte(c.pop())
		c.PC = c.popWord()
	case 0x60: // RTS
		c.PC = c.popWord() + 1
	case 0x08: // PHP
		c.push(c.statusByte(true))
	case 0x28: // PLP
		c.setStatusByte(c.pop())
	case 0x48: // PHA
		c.push(c.A)
	case 0x68: // PLA
		c.A = c.pop()
		c.setZN(c.A)
	case 0x18:
		c.C = false
	case 0x38:
		c.C = true
	case 0x58:
		c.I = false
	case 0x78:
		c.I = true
	case 0xB8:
		c.V = false
	case 0xD8:
		c.D = false
	case 0xF8:
		c.D = true
	case 0xAA:
		c.X = c.A
		c.setZN(c.X)
	case 0x8A:
		c.A = c.X
		c.setZN(c.A)
	case 0xA8:
		c.Y = c.A
		c.setZN(c.Y)
	case 0x98:
		c.A = c.Y
		c.setZN(c.A)
	case 0xBA:
		c.X = c.SP
		c.setZN(c.X)
	case 0x9A:
		c.SP = c.X
	case 0xE8:
		c.X++
		c.setZN(c.X)
	case 0xCA:
		c.X--
		c.setZN(c.X)
	case 0xC8:
		c.Y++
		c.setZN(c.Y)
	case 0x88:
		c.Y--
		c.setZN(c.Y)
	case 0xEA:
		// NOP
	default:
		// Unofficial single-byte NOP variants (0x1A/0x3A/...)
	}
}
