// Package cpu implements the 6502/2A03 CPU used by the NES, including the
// well-known illegal opcodes, open-bus data latch, and interrupt sequencing.
package cpu

// AddressingMode identifies how an instruction's operand address is formed.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

const (
	stackBase = 0x0100

	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01

	zeroPageMask = 0xFF
	pageMask     = 0xFF00

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// IRQSource identifies a device asserting the level-triggered IRQ line.
// Several sources can assert at once; the line stays active until all
// of them deassert.
type IRQSource int

const (
	IRQFrameCounter IRQSource = iota
	IRQDMC
	IRQMapper
	irqSourceCount
)

// Instruction describes one entry of the 256-slot opcode table.
type Instruction struct {
	Name   string
	Bytes  uint8
	Cycles uint8
	Mode   AddressingMode
}

// Memory is the narrow bus interface the CPU drives. Bus implementations
// are responsible for routing reads/writes to RAM/PPU/APU/mapper; this
// module's bus advances the PPU/APU only after a whole instruction has
// executed, not before each access returns.
type Memory interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU is the 6502-family interpreter at the core of the emulator.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	C, Z, I, D, B, V, N bool

	mem Memory

	Cycles uint64

	instructions [256]Instruction

	nmiPrevious bool
	nmiPending  bool
	irqLines    [irqSourceCount]bool

	// openBus is the last byte driven on the CPU's data bus; unmapped or
	// partially-defined reads return it for their undefined bits.
	openBus uint8

	// stallCycles counts remaining cycles owed to OAM DMA or DMC DMA;
	// Step() consumes one per call without executing an instruction.
	stallCycles int
}

// New creates a CPU wired to the given bus.
func New(mem Memory) *CPU {
	c := &CPU{mem: mem, SP: 0xFD}
	c.initInstructions()
	return c
}

// Reset performs the 6502 reset sequence: seven bus cycles culminating in
// loading PC from the reset vector. Unlike power-on, SP/flags are not
// fully re-initialized on real hardware, but NES software relies only on
// the documented subset below.
func (c *CPU) Reset() {
	c.SP -= 3
	c.I = true
	for i := 0; i < 5; i++ {
		c.mem.Read(c.PC)
		c.Cycles++
	}
	lo := uint16(c.mem.Read(resetVector))
	hi := uint16(c.mem.Read(resetVector + 1))
	c.PC = (hi << 8) | lo
	c.Cycles += 2
	c.stallCycles = 0
}

// PowerOn initializes every register to the documented 2A03 power-up state
// and then runs the reset sequence.
func (c *CPU) PowerOn() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.C, c.Z, c.D, c.V, c.N = false, false, false, false, false
	c.I = true
	c.B = true
	c.openBus = 0
	c.nmiPrevious = false
	c.nmiPending = false
	for i := range c.irqLines {
		c.irqLines[i] = false
	}
	c.Reset()
}

// RequestIRQ asserts the IRQ line on behalf of source. The line stays
// asserted until ClearIRQ(source) is called by the same device.
func (c *CPU) RequestIRQ(source IRQSource) { c.irqLines[source] = true }

// ClearIRQ deasserts the IRQ line on behalf of source.
func (c *CPU) ClearIRQ(source IRQSource) { c.irqLines[source] = false }

func (c *CPU) irqAsserted() bool {
	for _, v := range c.irqLines {
		if v {
			return true
		}
	}
	return false
}

// SetNMI tracks the PPU's NMI output line. asserted true represents the
// line going active; the CPU latches a pending NMI on that rising edge.
func (c *CPU) SetNMI(asserted bool) {
	if asserted && !c.nmiPrevious {
		c.nmiPending = true
	}
	c.nmiPrevious = asserted
}

// StealCycles adds n cycles of DMA/DMC stall that Step will consume before
// executing further instructions.
func (c *CPU) StealCycles(n int) { c.stallCycles += n }

func (c *CPU) read(addr uint16) uint8 {
	v := c.mem.Read(addr)
	c.openBus = v
	return v
}

func (c *CPU) write(addr uint16, v uint8) {
	c.mem.Write(addr, v)
	c.openBus = v
}

// Step executes one instruction (or consumes one stalled cycle) and
// returns the number of CPU cycles it advanced.
func (c *CPU) Step() uint64 {
	if c.stallCycles > 0 {
		c.stallCycles--
		c.Cycles++
		return 1
	}

	if taken := c.pollInterrupt(); taken > 0 {
		return taken
	}

	opcode := c.read(c.PC)
	inst := &c.instructions[opcode]

	addr, pageCrossed := c.operandAddress(inst.Mode)
	extra := c.execute(opcode, addr, pageCrossed)

	if pageCrossed && readsOnPageCross(opcode) {
		extra++
	}

	total := uint64(inst.Cycles) + uint64(extra)
	c.Cycles += total
	return total
}

// pollInterrupt services a pending NMI or asserted IRQ at an instruction
// boundary, in RESET > NMI > IRQ priority (RESET is handled by the
// orchestrator calling Reset() directly, so here it is NMI > IRQ).
func (c *CPU) pollInterrupt() uint64 {
	if c.nmiPending {
		c.nmiPending = false
		c.serviceInterrupt(nmiVector, false)
		return 7
	}
	if c.irqAsserted() && !c.I {
		c.serviceInterrupt(irqVector, false)
		return 7
	}
	return 0
}

func (c *CPU) serviceInterrupt(vector uint16, brk bool) {
	c.pushWord(c.PC)
	status := c.statusByte(brk)
	c.push(status)
	c.I = true
	lo := uint16(c.read(vector))
	hi := uint16(c.read(vector + 1))
	c.PC = (hi << 8) | lo
}

func readsOnPageCross(opcode uint8) bool {
	switch opcode {
	case 0xBD, 0xB9, 0xB1, 0xBE, 0xBC, 0x7D, 0x79, 0x71, 0x3D, 0x39, 0x31,
		0x1D, 0x19, 0x11, 0x5D, 0x59, 0x51, 0xDD, 0xD9, 0xD1,
		0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC,
		0xBF, 0xB3: // LAX absolute,Y / indirect,Y
		return true
	}
	return false
}

func (c *CPU) operandAddress(mode AddressingMode) (uint16, bool) {
	switch mode {
	case Implied, Accumulator:
		c.PC++
		return 0, false

	case Immediate:
		addr := c.PC + 1
		c.PC += 2
		return addr, false

	case ZeroPage:
		addr := uint16(c.read(c.PC + 1))
		c.PC += 2
		return addr, false

	case ZeroPageX:
		base := c.read(c.PC + 1)
		addr := uint16((base + c.X) & zeroPageMask)
		c.PC += 2
		return addr, false

	case ZeroPageY:
		base := c.read(c.PC + 1)
		addr := uint16((base + c.Y) & zeroPageMask)
		c.PC += 2
		return addr, false

	case Relative:
		offset := int8(c.read(c.PC + 1))
		base := c.PC + 2
		target := uint16(int32(base) + int32(offset))
		c.PC = base
		return target, (base & pageMask) != (target & pageMask)

	case Absolute:
		lo := uint16(c.read(c.PC + 1))
		hi := uint16(c.read(c.PC + 2))
		c.PC += 3
		return (hi << 8) | lo, false

	case AbsoluteX:
		lo := uint16(c.read(c.PC + 1))
		hi := uint16(c.read(c.PC + 2))
		base := (hi << 8) | lo
		addr := base + uint16(c.X)
		c.PC += 3
		return addr, (base & pageMask) != (addr & pageMask)

	case AbsoluteY:
		lo := uint16(c.read(c.PC + 1))
		hi := uint16(c.read(c.PC + 2))
		base := (hi << 8) | lo
		addr := base + uint16(c.Y)
		c.PC += 3
		return addr, (base & pageMask) != (addr & pageMask)

	case Indirect:
		loPtr := uint16(c.read(c.PC + 1))
		hiPtr := uint16(c.read(c.PC + 2))
		ptr := (hiPtr << 8) | loPtr
		var addr uint16
		if ptr&zeroPageMask == zeroPageMask {
			lo := uint16(c.read(ptr))
			hi := uint16(c.read(ptr & pageMask))
			addr = (hi << 8) | lo
		} else {
			lo := uint16(c.read(ptr))
			hi := uint16(c.read(ptr + 1))
			addr = (hi << 8) | lo
		}
		c.PC += 3
		return addr, false

	case IndexedIndirect:
		base := c.read(c.PC + 1)
		ptr := (base + c.X) & zeroPageMask
		lo := uint16(c.read(uint16(ptr)))
		hi := uint16(c.read(uint16((ptr + 1) & zeroPageMask)))
		c.PC += 2
		return (hi << 8) | lo, false

	case IndirectIndexed:
		ptr := uint16(c.read(c.PC + 1))
		lo := uint16(c.read(ptr))
		hi := uint16(c.read((ptr + 1) & zeroPageMask))
		base := (hi << 8) | lo
		addr := base + uint16(c.Y)
		c.PC += 2
		return addr, (base & pageMask) != (addr & pageMask)

	default:
		return 0, false
	}
}

func (c *CPU) push(v uint8) {
	c.write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(stackBase + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return (hi << 8) | lo
}

func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&nFlagMask != 0
}

func (c *CPU) statusByte(brk bool) uint8 {
	var s uint8
	if c.C {
		s |= cFlagMask
	}
	if c.Z {
		s |= zFlagMask
	}
	if c.I {
		s |= iFlagMask
	}
	if c.D {
		s |= dFlagMask
	}
	if brk {
		s |= bFlagMask
	}
	s |= unusedMask
	if c.V {
		s |= vFlagMask
	}
	if c.N {
		s |= nFlagMask
	}
	return s
}

func (c *CPU) setStatusByte(s uint8) {
	c.C = s&cFlagMask != 0
	c.Z = s&zFlagMask != 0
	c.I = s&iFlagMask != 0
	c.D = s&dFlagMask != 0
	c.V = s&vFlagMask != 0
	c.N = s&nFlagMask != 0
}

// CPUState is the explicit, versioned snapshot of CPU-owned state.
type CPUState struct {
	Version                int
	A, X, Y, SP             uint8
	PC                      uint16
	C, Z, I, D, B, V, N     bool
	Cycles                  uint64
	OpenBus                 uint8
	NMIPrevious, NMIPending bool
	IRQLines                [irqSourceCount]bool
	StallCycles             int
}

const cpuStateVersion = 1

// Snapshot captures CPU state for save-states.
func (c *CPU) Snapshot() CPUState {
	return CPUState{
		Version: cpuStateVersion,
		A:       c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC,
		C: c.C, Z: c.Z, I: c.I, D: c.D, B: c.B, V: c.V, N: c.N,
		Cycles: c.Cycles, OpenBus: c.openBus,
		NMIPrevious: c.nmiPrevious, NMIPending: c.nmiPending,
		IRQLines: c.irqLines, StallCycles: c.stallCycles,
	}
}

// Restore replaces CPU state from a prior Snapshot.
func (c *CPU) Restore(s CPUState) {
	c.A, c.X, c.Y, c.SP, c.PC = s.A, s.X, s.Y, s.SP, s.PC
	c.C, c.Z, c.I, c.D, c.B, c.V, c.N = s.C, s.Z, s.I, s.D, s.B, s.V, s.N
	c.Cycles, c.openBus = s.Cycles, s.OpenBus
	c.nmiPrevious, c.nmiPending = s.NMIPrevious, s.NMIPending
	c.irqLines = s.IRQLines
	c.stallCycles = s.StallCycles
}

// OpenBus returns the current data-bus latch value.
func (c *CPU) OpenBus() uint8 { return c.openBus }
