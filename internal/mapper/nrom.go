package mapper

import "nescore/internal/cartridge"

// nrom (mapper 0) has no bank switching: 16 KiB PRG ROM mirrors to fill
// the 32 KiB window, CHR is fixed (ROM or RAM), PRG-RAM occupies
// $6000-$7FFF.
type nrom struct {
	cart     *cartridge.Cartridge
	prgBanks int
}

func newNROM(cart *cartridge.Cartridge) *nrom {
	return &nrom{cart: cart, prgBanks: len(cart.PRGROM) / 0x4000}
}

func (m *nrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		offset := addr - 0x8000
		if m.prgBanks == 1 {
			offset &= 0x3FFF
		}
		if int(offset) < len(m.cart.PRGROM) {
			return m.cart.PRGROM[offset]
		}
		return 0
	case addr >= 0x6000:
		return m.cart.PRGRAM[addr-0x6000]
	default:
		return 0
	}
}

func (m *nrom) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.cart.PRGRAM[addr-0x6000] = v
	}
}

func (m *nrom) PPURead(addr uint16) uint8 {
	if addr < 0x2000 && int(addr) < len(m.cart.CHRROM) {
		return m.cart.CHRROM[addr]
	}
	return 0
}

func (m *nrom) PPUWrite(addr uint16, v uint8) {
	if addr < 0x2000 && m.cart.HasCHRRAM && int(addr) < len(m.cart.CHRROM) {
		m.cart.CHRROM[addr] = v
	}
}

func (m *nrom) Mirror() cartridge.MirrorMode           { return headerMirror(m.cart) }
func (m *nrom) OnA12Rising()                           {}
func (m *nrom) OnCPUCycle()                            {}
func (m *nrom) NametableOverride(uint16) (uint8, bool) { return 0, false }
func (m *nrom) Snapshot() any                          { return struct{}{} }
func (m *nrom) Restore(any)                            {}
