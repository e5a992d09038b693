// Package bus implements the NES system bus: CPU address decoding, OAM
// and DMC DMA, and the PPU/APU catch-up discipline that keeps every
// component's clock in lockstep with the CPU's.
package bus

import (
	"bytes"

	"nescore/internal/apu"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/mapper"
	"nescore/internal/ppu"
)

// Bus connects the CPU to RAM, the PPU/APU register windows, the
// cartridge mapper, and the controller ports, and drives the PPU/APU
// catch-up clocking on every CPU cycle.
type Bus struct {
	CPU *cpu.CPU
	PPU *ppu.PPU
	APU *apu.APU

	Controller1 input.Controller
	Controller2 input.Controller
	Zapper      *input.Zapper

	mapper mapper.Mapper
	ram    [0x0800]uint8

	cpuCycles uint64
	frameCount uint64

	oamDMAActive bool
	oamDMAPage   uint8
	oamDMACursor int

	openBus uint8
}

// New constructs a bus with no cartridge inserted; InsertCartridge must
// be called before PowerOn.
func New() *Bus {
	b := &Bus{Zapper: input.NewZapper()}
	b.PPU = ppu.New(nil)
	b.CPU = cpu.New(b)
	b.APU = apu.New(b, b.CPU)
	b.PPU.NMI = b.CPU.SetNMI
	b.PPU.FrameReady = func() { b.frameCount++ }
	return b
}

// InsertCartridge loads an iNES image and wires its mapper into the
// PPU and bus address decoding.
func (b *Bus) InsertCartridge(rom []byte) (*cartridge.Cartridge, error) {
	cart, err := cartridge.LoadFromReader(bytes.NewReader(rom))
	if err != nil {
		return nil, err
	}
	m, err := mapper.New(cart)
	if err != nil {
		return nil, err
	}
	b.mapper = m
	b.PPU.SetMapper(m)
	return cart, nil
}

// PowerOn resets CPU, PPU, APU, and DMA state to power-up values.
func (b *Bus) PowerOn() {
	b.ram = [0x0800]uint8{}
	b.oamDMAActive = false
	b.oamDMACursor = 0
	b.cpuCycles = 0
	b.frameCount = 0
	b.PPU.PowerOn()
	b.APU.PowerOn()
	b.CPU.PowerOn()
}

// Reset pulses the CPU reset line without reinitializing RAM, mirroring
// the NES RESET button.
func (b *Bus) Reset() {
	b.CPU.Reset()
}

// Read implements cpu.Memory, decoding the full $0000-$FFFF CPU map.
func (b *Bus) Read(addr uint16) uint8 {
	var v uint8
	switch {
	case addr < 0x2000:
		v = b.ram[addr&0x07FF]
	case addr < 0x4000:
		v = b.PPU.Read(addr)
	case addr == 0x4015:
		v = b.APU.Read(addr)
	case addr == 0x4016:
		v = b.Controller1.Read() | (b.openBus & 0xE0)
	case addr == 0x4017:
		v = b.Controller2.Read() | b.Zapper.Read() | (b.openBus & 0xE0)
	case addr < 0x4020:
		v = b.openBus
	default:
		if b.mapper != nil {
			v = b.mapper.CPURead(addr)
		}
	}
	b.openBus = v
	return v
}

// Write implements cpu.Memory.
func (b *Bus) Write(addr uint16, v uint8) {
	b.openBus = v
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = v
	case addr < 0x4000:
		b.PPU.Write(addr, v)
	case addr == 0x4014:
		b.startOAMDMA(v)
	case addr == 0x4016:
		b.Controller1.Strobe(v&0x01 != 0)
		b.Controller2.Strobe(v&0x01 != 0)
	case addr < 0x4020:
		b.APU.Write(addr, v)
	default:
		if b.mapper != nil {
			b.mapper.CPUWrite(addr, v)
		}
	}
}

func (b *Bus) startOAMDMA(page uint8) {
	b.oamDMAActive = true
	b.oamDMAPage = page
	b.oamDMACursor = 0
	extra := 0
	if b.cpuCycles%2 == 1 {
		extra = 1
	}
	b.CPU.StealCycles(513 + extra)
}

// Step runs one CPU instruction (or one stall cycle) to completion and
// then advances the PPU by 3 dots and the APU by one step for each CPU
// cycle it took, keeping them at exactly 3x and 1x the CPU rate between
// instructions. PPU/APU register accesses made during the instruction
// see those components as they stood at the end of the previous one.
func (b *Bus) Step() uint64 {
	cycles := b.CPU.Step()
	for i := uint64(0); i < cycles; i++ {
		b.cpuCycles++
		for n := 0; n < 3; n++ {
			b.PPU.Tick()
		}
		b.APU.Step()
		b.runOAMDMAStep()
		if b.mapper != nil {
			b.mapper.OnCPUCycle()
			if src, ok := b.mapper.(mapper.IRQSource); ok {
				if src.IRQPending() {
					b.CPU.RequestIRQ(cpu.IRQMapper)
				} else {
					b.CPU.ClearIRQ(cpu.IRQMapper)
				}
			}
		}
	}
	return cycles
}

// runOAMDMAStep performs one byte of the OAM DMA copy per CPU cycle,
// starting with the cycles of the instruction that wrote $4014 and with
// no alignment delay; the exact
// cycle a real 2A03 lands the copy on is not externally observable, so
// the bus performs it eagerly while cycles are stolen.
func (b *Bus) runOAMDMAStep() {
	if !b.oamDMAActive {
		return
	}
	if b.oamDMACursor >= 256 {
		b.oamDMAActive = false
		return
	}
	src := uint16(b.oamDMAPage)<<8 + uint16(b.oamDMACursor)
	b.PPU.WriteOAMByte(b.Read(src))
	b.oamDMACursor++
}

// StealCycles lets the APU's DMC channel stall the CPU for sample
// fetches via the same mechanism OAM DMA uses.
func (b *Bus) StealCycles(n int) { b.CPU.StealCycles(n) }

// RunFrame runs CPU/PPU/APU until the PPU completes one full frame.
func (b *Bus) RunFrame() {
	target := b.frameCount + 1
	for b.frameCount < target {
		b.Step()
	}
}

// FrameCount returns the number of frames completed since power-on.
func (b *Bus) FrameCount() uint64 { return b.frameCount }
