// Package ppu implements the NES 2C02 Picture Processing Unit: the
// scanline/dot scheduler, background and sprite pipelines, OAM
// evaluation, the loopy v/t/x/w scroll-address state machine, and the
// $2000-$2007 register interface.
package ppu

import "nescore/internal/mapper"

const (
	// Visible output geometry.
	Width  = 256
	Height = 240

	dotsPerScanline     = 341
	scanlinesPerFrame   = 262
	preRenderScanline   = 261
	postRenderScanline  = 240
	vblankStartScanline = 241
)

// CTRL bits.
const (
	ctrlNametableMask  = 0x03
	ctrlIncrement32    = 0x04
	ctrlSpritePattern  = 0x08
	ctrlBGPattern      = 0x10
	ctrlSpriteSize8x16 = 0x20
	ctrlMasterSlave    = 0x40
	ctrlNMIEnable      = 0x80
)

// MASK bits.
const (
	maskGrayscale      = 0x01
	maskShowBGLeft     = 0x02
	maskShowSpriteLeft = 0x04
	maskShowBG         = 0x08
	maskShowSprites    = 0x10
	maskEmphasizeRed   = 0x20
	maskEmphasizeGreen = 0x40
	maskEmphasizeBlue  = 0x80
)

// STATUS bits.
const (
	statusOverflow  = 0x20
	statusSprite0   = 0x40
	statusVBlank    = 0x80
)

// sprite holds evaluated secondary-OAM state for the current scanline.
type sprite struct {
	x         uint8
	y         uint8
	tileLo    uint8
	tileHi    uint8
	attr      uint8
	isSprite0 bool
}

// PPU is the 2C02 emulation core.
type PPU struct {
	mapper mapper.Mapper

	// Registers.
	ctrl, mask, status, oamAddr uint8

	// Loopy scroll state.
	v, t uint16
	x    uint8 // fine X, 3 bits
	w    bool  // write toggle

	openBus      uint8
	readBuffer   uint8

	oam          [256]uint8
	secondaryOAM [32]uint8
	secondaryLen int

	nametables [2048]uint8
	palette    [32]uint8

	scanline int
	dot      int
	oddFrame bool

	frame [Width * Height]uint32

	// Background pipeline.
	ntByte, atByte, patLo, patHi uint8
	bgShiftPatLo, bgShiftPatHi   uint16
	bgShiftAttrLo, bgShiftAttrHi uint16

	sprites      [8]sprite
	spriteCount  int
	spriteZeroOnLine bool
	spriteZeroHitFlagArmed bool

	prevA12 bool

	// scanlineNotifier is the mapper's ScanlineNotifier capability, cached
	// at mapper-bind time; nil for mappers that don't implement it (the
	// common case). notifiedScanline dedupes the call to once per
	// scanline since Tick runs once per dot.
	scanlineNotifier mapper.ScanlineNotifier
	notifiedScanline int

	// NMI is invoked whenever the NMI output line changes state; wired
	// by the orchestrator to CPU.SetNMI.
	NMI func(asserted bool)

	FrameReady func()
}

// New constructs a PPU wired to the given mapper.
func New(m mapper.Mapper) *PPU {
	p := &PPU{notifiedScanline: -1}
	p.SetMapper(m)
	return p
}

// SetMapper rebinds the PPU to a newly-inserted cartridge's mapper.
func (p *PPU) SetMapper(m mapper.Mapper) {
	p.mapper = m
	p.scanlineNotifier, _ = m.(mapper.ScanlineNotifier)
}

// PowerOn resets all PPU state to its documented power-up values.
func (p *PPU) PowerOn() {
	*p = PPU{
		mapper: p.mapper, scanlineNotifier: p.scanlineNotifier,
		notifiedScanline: -1, NMI: p.NMI, FrameReady: p.FrameReady,
	}
	p.status = 0xA0
}

// FrameBuffer returns the packed-ARGB 256x240 framebuffer for the most
// recently completed frame.
func (p *PPU) FrameBuffer() []uint32 { return p.frame[:] }

// Read services a CPU read of $2000-$2007 (mirrored every 8 bytes).
func (p *PPU) Read(reg uint16) uint8 {
	switch reg & 7 {
	case 2: // PPUSTATUS
		v := (p.status & 0xE0) | (p.openBus & 0x1F)
		p.status &^= statusVBlank
		p.w = false
		p.openBus = v
		return v
	case 4: // OAMDATA
		v := p.oam[p.oamAddr]
		p.openBus = v
		return v
	case 7: // PPUDATA
		return p.readData()
	default:
		return p.openBus
	}
}

func (p *PPU) readData() uint8 {
	addr := p.v & 0x3FFF
	var v uint8
	if addr >= 0x3F00 {
		v = p.readPalette(addr)
		p.readBuffer = p.vramRead(addr - 0x1000)
	} else {
		v = p.readBuffer
		p.readBuffer = p.vramRead(addr)
	}
	p.incrementAddr()
	p.openBus = v
	return v
}

// Write services a CPU write of $2000-$2007.
func (p *PPU) Write(reg uint16, v uint8) {
	p.openBus = v
	switch reg & 7 {
	case 0: // PPUCTRL
		prevNMI := p.ctrl&ctrlNMIEnable != 0
		p.ctrl = v
		p.t = (p.t &^ 0x0C00) | uint16(v&ctrlNametableMask)<<10
		if !prevNMI && p.ctrl&ctrlNMIEnable != 0 && p.status&statusVBlank != 0 {
			p.setNMI(true)
		}
	case 1: // PPUMASK
		p.mask = v
	case 3: // OAMADDR
		p.oamAddr = v
	case 4: // OAMDATA
		p.oam[p.oamAddr] = v
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.w {
			p.t = (p.t &^ 0x001F) | uint16(v>>3)
			p.x = v & 0x07
		} else {
			p.t = (p.t &^ 0x73E0) | (uint16(v&0x07)<<12 | uint16(v&0xF8)<<2)
		}
		p.w = !p.w
	case 6: // PPUADDR
		if !p.w {
			p.t = (p.t &^ 0x7F00) | uint16(v&0x3F)<<8
		} else {
			p.t = (p.t &^ 0x00FF) | uint16(v)
			p.v = p.t
		}
		p.w = !p.w
	case 7: // PPUDATA
		p.writeData(v)
	}
}

func (p *PPU) writeData(v uint8) {
	addr := p.v & 0x3FFF
	if addr >= 0x3F00 {
		p.writePalette(addr, v)
	} else {
		p.vramWrite(addr, v)
	}
	p.incrementAddr()
}

func (p *PPU) incrementAddr() {
	if p.ctrl&ctrlIncrement32 != 0 {
		p.v += 32
	} else {
		p.v++
	}
}

// WriteOAMByte is used by OAM DMA to deposit all 256 bytes starting at
// the current OAMADDR, wrapping within the 256-byte table.
func (p *PPU) WriteOAMByte(v uint8) {
	p.oam[p.oamAddr] = v
	p.oamAddr++
}

func (p *PPU) setNMI(asserted bool) {
	if p.NMI != nil {
		p.NMI(asserted)
	}
}

// paletteIndex applies the $3F10/$14/$18/$1C mirroring law.
func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1F
	if idx >= 0x10 && idx%4 == 0 {
		idx -= 0x10
	}
	return idx
}

func (p *PPU) readPalette(addr uint16) uint8 {
	v := p.palette[paletteIndex(addr)]
	if p.mask&maskGrayscale != 0 {
		v &= 0x30
	}
	return v
}

func (p *PPU) writePalette(addr uint16, v uint8) {
	p.palette[paletteIndex(addr)] = v & 0x3F
}

// vramRead/vramWrite dispatch pattern-table addresses to the mapper and
// nametable addresses through the current mirroring mode (or a mapper
// nametable override, consulted first).
func (p *PPU) vramRead(addr uint16) uint8 {
	addr &= 0x3FFF
	if addr < 0x2000 {
		return p.mapper.PPURead(addr)
	}
	if addr < 0x3F00 {
		ntAddr := addr & 0x2FFF
		if v, ok := p.mapper.NametableOverride(ntAddr); ok {
			return v
		}
		return p.nametables[p.mirrorIndex(ntAddr)]
	}
	return p.readPalette(addr)
}

func (p *PPU) vramWrite(addr uint16, v uint8) {
	addr &= 0x3FFF
	if addr < 0x2000 {
		p.mapper.PPUWrite(addr, v)
		return
	}
	if addr < 0x3F00 {
		ntAddr := addr & 0x2FFF
		p.nametables[p.mirrorIndex(ntAddr)] = v
		return
	}
	p.writePalette(addr, v)
}

func (p *PPU) mirrorIndex(addr uint16) uint16 {
	table := (addr - 0x2000) / 0x400
	offset := addr & 0x3FF
	switch p.mapper.Mirror() {
	case 0: // MirrorHorizontal: NT0=NT1, NT2=NT3
		if table == 0 || table == 1 {
			return offset
		}
		return 0x400 + offset
	case 1: // MirrorVertical: NT0=NT2, NT1=NT3
		if table == 0 || table == 2 {
			return offset
		}
		return 0x400 + offset
	case 2: // SingleScreen0
		return offset
	case 3: // SingleScreen1
		return 0x400 + offset
	default: // FourScreen: no mapper here supplies the extra 2 KiB, so the
		// four tables fold onto the internal 2 KiB as with vertical mirroring.
		return (table%2)*0x400 + offset
	}
}

// OpenBus returns the PPU's own data-bus latch (distinct from the CPU's).
func (p *PPU) OpenBus() uint8 { return p.openBus }
