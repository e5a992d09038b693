// Package mapper implements the cartridge mapper framework: a small
// polymorphic interface plus concrete mappers translating CPU/PPU bus
// accesses into PRG/CHR bank offsets, mirroring changes, and IRQs.
package mapper

import (
	"errors"

	"nescore/internal/cartridge"
)

// ErrUnsupported is returned by New when no mapper implementation exists
// for the cartridge's header-declared mapper number.
var ErrUnsupported = errors.New("mapper: unsupported mapper id")

// Mapper is the capability set the PPU/bus dispatch through. Nil return
// from NametableOverride means "use the PPU's own mirroring logic".
type Mapper interface {
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, v uint8)
	PPURead(addr uint16) uint8
	PPUWrite(addr uint16, v uint8)

	// Mirror reports the current nametable mirroring mode; mappers with
	// a mirroring register return the live value instead of the header
	// default.
	Mirror() cartridge.MirrorMode

	// OnA12Rising is called by the PPU on every detected low-to-high
	// transition of PPU address bit 12 during pattern fetches.
	OnA12Rising()

	// OnCPUCycle is called once per CPU cycle for mappers whose IRQ
	// counters are clocked by CPU time rather than A12 edges (VRC4).
	OnCPUCycle()

	// NametableOverride lets a mapper supply a byte for a nametable
	// fetch before the PPU's own mirroring table is consulted (MMC5
	// uses this to serve ExRAM as the nametable when $5104 selects
	// mode 1).
	NametableOverride(addr uint16) (uint8, bool)

	// Snapshot/Restore capture the mapper's private register state for
	// save-states; the concrete type is mapper-specific.
	Snapshot() any
	Restore(any)
}

// IRQSource is implemented by mappers with their own scanline/cycle IRQ
// counter (MMC3, VRC4, FME-7); the bus polls IRQPending once per CPU
// cycle and forwards it to the CPU's mapper IRQ line.
type IRQSource interface {
	IRQPending() bool
}

// ScanlineNotifier is implemented by mappers whose IRQ logic tracks
// scanlines directly rather than by snooping A12 (MMC5, which counts
// PPU nametable fetches instead). The PPU calls NotifyScanline once at
// the start of the pre-render scanline and once at the start of each
// visible scanline.
type ScanlineNotifier interface {
	NotifyScanline(preRender bool)
}

// New constructs the concrete mapper for cart's header-declared mapper
// number, wiring it to cart's PRG/CHR/PRG-RAM storage.
func New(cart *cartridge.Cartridge) (Mapper, error) {
	switch cart.MapperID {
	case 0:
		return newNROM(cart), nil
	case 1:
		return newMMC1(cart), nil
	case 2:
		return newUxROM(cart), nil
	case 3:
		return newCNROM(cart), nil
	case 4, 206:
		return newMMC3(cart), nil
	case 5:
		return newMMC5(cart), nil
	case 7:
		return newAxROM(cart), nil
	case 9:
		return newMMC2(cart), nil
	case 11:
		return newColorDreams(cart), nil
	case 21, 22, 23, 25:
		return newVRC4(cart), nil
	case 34:
		return newBNROM(cart), nil
	case 66:
		return newGxROM(cart), nil
	case 69:
		return newFME7(cart), nil
	case 79:
		return newNINA03(cart), nil
	default:
		return nil, ErrUnsupported
	}
}

// prgBanker maps 8 KiB PRG-ROM slots #0-#3 (covering $8000-$FFFF) to
// fixed offsets into a cartridge's linear PRG-ROM array.
type prgBanker struct {
	rom   []uint8
	banks int // number of 8 KiB banks available
}

func newPRGBanker(rom []uint8) prgBanker {
	return prgBanker{rom: rom, banks: len(rom) / 0x2000}
}

func (b prgBanker) bank(n int) []uint8 {
	if b.banks&(b.banks-1) == 0 {
		n = n & (b.banks - 1)
	} else {
		n = n % b.banks
		if n < 0 {
			n += b.banks
		}
	}
	start := n * 0x2000
	return b.rom[start : start+0x2000]
}

func (b prgBanker) last() int { return b.banks - 1 }

// chrBanker maps 1 KiB CHR slots #0-#7 (covering $0000-$1FFF) to fixed
// offsets into a cartridge's linear CHR array (ROM or RAM).
type chrBanker struct {
	mem   []uint8
	banks int // number of 1 KiB banks available
}

func newCHRBanker(mem []uint8) chrBanker {
	return chrBanker{mem: mem, banks: len(mem) / 0x0400}
}

func (b chrBanker) bank(n int) []uint8 {
	if b.banks == 0 {
		return nil
	}
	n = n % b.banks
	if n < 0 {
		n += b.banks
	}
	start := n * 0x0400
	return b.mem[start : start+0x0400]
}

// headerMirror returns the cartridge header's mirroring mode, for the
// simple mappers that only ever honor the header.
func headerMirror(cart *cartridge.Cartridge) cartridge.MirrorMode { return cart.Mirror }
