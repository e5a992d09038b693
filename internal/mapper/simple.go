package mapper

import "nescore/internal/cartridge"

// uxrom (mapper 2 / UNROM): 16 KiB PRG bank switched into $8000-$BFFF,
// the last 16 KiB bank fixed at $C000-$FFFF. CHR is always RAM.
type uxrom struct {
	cart    *cartridge.Cartridge
	banks16 int
	bank    int
}

func newUxROM(cart *cartridge.Cartridge) *uxrom {
	return &uxrom{cart: cart, banks16: len(cart.PRGROM) / 0x4000}
}

func (m *uxrom) prg16(n int) []uint8 {
	n = n % m.banks16
	if n < 0 {
		n += m.banks16
	}
	start := n * 0x4000
	return m.cart.PRGROM[start : start+0x4000]
}

func (m *uxrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0xC000:
		return m.prg16(m.banks16 - 1)[addr&0x3FFF]
	case addr >= 0x8000:
		return m.prg16(m.bank)[addr&0x3FFF]
	case addr >= 0x6000:
		return m.cart.PRGRAM[addr-0x6000]
	default:
		return 0
	}
}

func (m *uxrom) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x8000:
		m.bank = int(v)
	case addr >= 0x6000:
		m.cart.PRGRAM[addr-0x6000] = v
	}
}

func (m *uxrom) PPURead(addr uint16) uint8 {
	if addr < 0x2000 {
		return m.cart.CHRROM[addr]
	}
	return 0
}

func (m *uxrom) PPUWrite(addr uint16, v uint8) {
	if addr < 0x2000 {
		m.cart.CHRROM[addr] = v
	}
}

func (m *uxrom) Mirror() cartridge.MirrorMode           { return headerMirror(m.cart) }
func (m *uxrom) OnA12Rising()                           {}
func (m *uxrom) OnCPUCycle()                            {}
func (m *uxrom) NametableOverride(uint16) (uint8, bool) { return 0, false }
func (m *uxrom) Snapshot() any                          { return m.bank }
func (m *uxrom) Restore(s any)                          { m.bank = s.(int) }

// cnrom (mapper 3): fixed PRG (NROM-style), 8 KiB CHR bank switch.
type cnrom struct {
	cart     *cartridge.Cartridge
	chr      chrBanker
	prgBanks int
	bank     int
}

func newCNROM(cart *cartridge.Cartridge) *cnrom {
	return &cnrom{cart: cart, chr: newCHRBanker(cart.CHRROM), prgBanks: len(cart.PRGROM) / 0x4000}
}

func (m *cnrom) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		offset := addr - 0x8000
		if m.prgBanks == 1 {
			offset &= 0x3FFF
		}
		return m.cart.PRGROM[offset]
	case addr >= 0x6000:
		return m.cart.PRGRAM[addr-0x6000]
	default:
		return 0
	}
}

func (m *cnrom) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x8000:
		m.bank = int(v) // real hardware bus-conflicts this AND against the ROM byte; games avoid relying on it
	case addr >= 0x6000:
		m.cart.PRGRAM[addr-0x6000] = v
	}
}

func (m *cnrom) PPURead(addr uint16) uint8 {
	if addr >= 0x2000 {
		return 0
	}
	bankIdx := (int(addr) / 0x0400) + m.bank*8
	return m.chr.bank(bankIdx)[addr%0x0400]
}

func (m *cnrom) PPUWrite(addr uint16, v uint8) {
	if addr < 0x2000 && m.cart.HasCHRRAM {
		m.cart.CHRROM[addr] = v
	}
}

func (m *cnrom) Mirror() cartridge.MirrorMode           { return headerMirror(m.cart) }
func (m *cnrom) OnA12Rising()                           {}
func (m *cnrom) OnCPUCycle()                            {}
func (m *cnrom) NametableOverride(uint16) (uint8, bool) { return 0, false }
func (m *cnrom) Snapshot() any                          { return m.bank }
func (m *cnrom) Restore(s any)                          { m.bank = s.(int) }

// axrom (mapper 7): 32 KiB PRG bank switch, single-screen mirroring
// selected by bit 4 of the bank register, CHR-RAM.
type axrom struct {
	cart   *cartridge.Cartridge
	bank   int
	screen cartridge.MirrorMode
}

func newAxROM(cart *cartridge.Cartridge) *axrom {
	return &axrom{cart: cart, screen: cartridge.MirrorSingleScreen0}
}

func (m *axrom) prg32() []uint8 {
	banks := len(m.cart.PRGROM) / 0x8000
	if banks == 0 {
		banks = 1
	}
	n := m.bank % banks
	start := n * 0x8000
	end := start + 0x8000
	if end > len(m.cart.PRGROM) {
		end = len(m.cart.PRGROM)
	}
	return m.cart.PRGROM[start:end]
}

func (m *axrom) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		bank := m.prg32()
		off := int(addr - 0x8000)
		if off < len(bank) {
			return bank[off]
		}
	}
	return 0
}

func (m *axrom) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.bank = int(v & 0x07)
		if v&0x10 != 0 {
			m.screen = cartridge.MirrorSingleScreen1
		} else {
			m.screen = cartridge.MirrorSingleScreen0
		}
	}
}

func (m *axrom) PPURead(addr uint16) uint8 {
	if addr < 0x2000 {
		return m.cart.CHRROM[addr]
	}
	return 0
}

func (m *axrom) PPUWrite(addr uint16, v uint8) {
	if addr < 0x2000 {
		m.cart.CHRROM[addr] = v
	}
}

func (m *axrom) Mirror() cartridge.MirrorMode           { return m.screen }
func (m *axrom) OnA12Rising()                           {}
func (m *axrom) OnCPUCycle()                            {}
func (m *axrom) NametableOverride(uint16) (uint8, bool) { return 0, false }
func (m *axrom) Snapshot() any                          { return [2]int{m.bank, int(m.screen)} }
func (m *axrom) Restore(s any) {
	a := s.([2]int)
	m.bank, m.screen = a[0], cartridge.MirrorMode(a[1])
}

// bnrom (mapper 34): 32 KiB PRG bank switch, no CHR banking (CHR-RAM).
type bnrom struct {
	cart *cartridge.Cartridge
	bank int
}

func newBNROM(cart *cartridge.Cartridge) *bnrom { return &bnrom{cart: cart} }

func (m *bnrom) prg32() []uint8 {
	banks := len(m.cart.PRGROM) / 0x8000
	if banks == 0 {
		banks = 1
	}
	n := m.bank % banks
	start := n * 0x8000
	return m.cart.PRGROM[start : start+0x8000]
}

func (m *bnrom) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		return m.prg32()[addr-0x8000]
	}
	return 0
}
func (m *bnrom) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.bank = int(v)
	}
}
func (m *bnrom) PPURead(addr uint16) uint8 {
	if addr < 0x2000 {
		return m.cart.CHRROM[addr]
	}
	return 0
}
func (m *bnrom) PPUWrite(addr uint16, v uint8) {
	if addr < 0x2000 {
		m.cart.CHRROM[addr] = v
	}
}
func (m *bnrom) Mirror() cartridge.MirrorMode           { return headerMirror(m.cart) }
func (m *bnrom) OnA12Rising()                           {}
func (m *bnrom) OnCPUCycle()                            {}
func (m *bnrom) NametableOverride(uint16) (uint8, bool) { return 0, false }
func (m *bnrom) Snapshot() any                          { return m.bank }
func (m *bnrom) Restore(s any)                          { m.bank = s.(int) }

// nina03 (mapper 79 / NINA-03/06): any cartridge-space write whose
// address has bit 8 set selects both an 8 KiB CHR bank (bits 0-2) and a
// 32 KiB PRG bank (bit 3) from one register byte.
type nina03 struct {
	cart    *cartridge.Cartridge
	prgBank int
	chrBank int
}

func newNINA03(cart *cartridge.Cartridge) *nina03 { return &nina03{cart: cart} }

func (m *nina03) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		banks := len(m.cart.PRGROM) / 0x8000
		if banks == 0 {
			banks = 1
		}
		n := m.prgBank % banks
		return m.cart.PRGROM[n*0x8000+int(addr-0x8000)]
	}
	return 0
}

func (m *nina03) CPUWrite(addr uint16, v uint8) {
	if addr&0x100 != 0 {
		m.prgBank = int(v>>3) & 0x01
		m.chrBank = int(v) & 0x07
	}
}

func (m *nina03) PPURead(addr uint16) uint8 {
	if addr >= 0x2000 {
		return 0
	}
	banks := len(m.cart.CHRROM) / 0x2000
	if banks == 0 {
		return 0
	}
	n := m.chrBank % banks
	return m.cart.CHRROM[n*0x2000+int(addr)]
}
func (m *nina03) PPUWrite(uint16, uint8)                 {}
func (m *nina03) Mirror() cartridge.MirrorMode           { return headerMirror(m.cart) }
func (m *nina03) OnA12Rising()                           {}
func (m *nina03) OnCPUCycle()                            {}
func (m *nina03) NametableOverride(uint16) (uint8, bool) { return 0, false }
func (m *nina03) Snapshot() any                          { return [2]int{m.prgBank, m.chrBank} }
func (m *nina03) Restore(s any) {
	a := s.([2]int)
	m.prgBank, m.chrBank = a[0], a[1]
}

// colorDreams (mapper 11): PRG 32 KiB select in the low two bits, CHR 8 KiB
// select in high nibble, one register at $8000-$FFFF.
type colorDreams struct {
	cart    *cartridge.Cartridge
	prgBank int
	chrBank int
}

func newColorDreams(cart *cartridge.Cartridge) *colorDreams { return &colorDreams{cart: cart} }

func (m *colorDreams) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		banks := len(m.cart.PRGROM) / 0x8000
		if banks == 0 {
			banks = 1
		}
		n := m.prgBank % banks
		return m.cart.PRGROM[n*0x8000+int(addr-0x8000)]
	}
	return 0
}
func (m *colorDreams) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.prgBank = int(v) & 0x03
		m.chrBank = int(v>>4) & 0x0F
	}
}
func (m *colorDreams) PPURead(addr uint16) uint8 {
	if addr >= 0x2000 {
		return 0
	}
	banks := len(m.cart.CHRROM) / 0x2000
	if banks == 0 {
		return 0
	}
	n := m.chrBank % banks
	return m.cart.CHRROM[n*0x2000+int(addr)]
}
func (m *colorDreams) PPUWrite(uint16, uint8)                 {}
func (m *colorDreams) Mirror() cartridge.MirrorMode           { return headerMirror(m.cart) }
func (m *colorDreams) OnA12Rising()                           {}
func (m *colorDreams) OnCPUCycle()                            {}
func (m *colorDreams) NametableOverride(uint16) (uint8, bool) { return 0, false }
func (m *colorDreams) Snapshot() any                          { return [2]int{m.prgBank, m.chrBank} }
func (m *colorDreams) Restore(s any) {
	a := s.([2]int)
	m.prgBank, m.chrBank = a[0], a[1]
}

// gxrom (mapper 66 / GNROM): PRG 32 KiB select in bits 4-5, CHR 8 KiB
// select in bits 0-1, one register at $8000-$FFFF.
type gxrom struct {
	cart    *cartridge.Cartridge
	prgBank int
	chrBank int
}

func newGxROM(cart *cartridge.Cartridge) *gxrom { return &gxrom{cart: cart} }

func (m *gxrom) CPURead(addr uint16) uint8 {
	if addr >= 0x8000 {
		banks := len(m.cart.PRGROM) / 0x8000
		if banks == 0 {
			banks = 1
		}
		n := m.prgBank % banks
		return m.cart.PRGROM[n*0x8000+int(addr-0x8000)]
	}
	return 0
}
func (m *gxrom) CPUWrite(addr uint16, v uint8) {
	if addr >= 0x8000 {
		m.chrBank = int(v) & 0x03
		m.prgBank = int(v>>4) & 0x03
	}
}
func (m *gxrom) PPURead(addr uint16) uint8 {
	if addr >= 0x2000 {
		return 0
	}
	banks := len(m.cart.CHRROM) / 0x2000
	if banks == 0 {
		return 0
	}
	n := m.chrBank % banks
	return m.cart.CHRROM[n*0x2000+int(addr)]
}
func (m *gxrom) PPUWrite(uint16, uint8)                 {}
func (m *gxrom) Mirror() cartridge.MirrorMode           { return headerMirror(m.cart) }
func (m *gxrom) OnA12Rising()                           {}
func (m *gxrom) OnCPUCycle()                            {}
func (m *gxrom) NametableOverride(uint16) (uint8, bool) { return 0, false }
func (m *gxrom) Snapshot() any                          { return [2]int{m.prgBank, m.chrBank} }
func (m *gxrom) Restore(s any) {
	a := s.([2]int)
	m.prgBank, m.chrBank = a[0], a[1]
}
