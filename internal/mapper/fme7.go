package mapper

import "nescore/internal/cartridge"

// fme7 (mapper 69, Sunsoft FME-7): an address/data register pair at
// $8000/$A000 selects among eight 1 KiB CHR bank registers (0-7), four
// 8 KiB PRG-ROM bank registers for $8000-$FFFF (8-B; $6000-$7FFF is always
// the cartridge's PRG-RAM, and the RAM-select/enable bits of register 8
// are not decoded), a mirroring register, and a
// 16-bit down-counting IRQ with an enable bit independent of the A12
// signal (it is a pure CPU-cycle counter).
type fme7 struct {
	cart *cartridge.Cartridge

	addrReg uint8
	chr     [8]uint8
	prg     [4]uint8 // ROM bank numbers for the four 8 KiB slots at $8000-$FFFF
	mirror  uint8

	irqEnabled  bool
	irqCounting bool
	irqCounter  uint16
	irqAsserted bool

	prgBanks8K int
	chrBanks8K int
}

func newFME7(cart *cartridge.Cartridge) *fme7 {
	m := &fme7{cart: cart, prgBanks8K: len(cart.PRGROM) / 0x2000}
	m.chrBanks8K = len(cart.CHRROM) / 0x0400
	if m.chrBanks8K == 0 {
		m.chrBanks8K = 8
	}
	m.prg[3] = 0x3F // default: last bank fixed at $E000
	return m
}

func (m *fme7) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.PRGRAM[addr-0x6000]
	case addr >= 0x8000:
		slot := (addr - 0x8000) / 0x2000
		bank := int(m.prg[slot]) % m.prgBanks8K
		return m.cart.PRGROM[bank*0x2000+int(addr&0x1FFF)]
	default:
		return 0
	}
}

func (m *fme7) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.PRGRAM[addr-0x6000] = v
	case addr >= 0x8000 && addr < 0xA000:
		m.addrReg = v & 0x0F
	case addr >= 0xA000 && addr < 0xC000:
		m.writeData(v)
	}
}

func (m *fme7) writeData(v uint8) {
	switch {
	case m.addrReg <= 0x07:
		m.chr[m.addrReg] = v
	case m.addrReg >= 0x08 && m.addrReg <= 0x0B:
		m.prg[m.addrReg-0x08] = v
	case m.addrReg == 0x0C:
		m.mirror = v & 0x03
	case m.addrReg == 0x0D:
		m.irqEnabled = v&0x01 != 0
		m.irqCounting = v&0x80 != 0
		m.irqAsserted = false
	case m.addrReg == 0x0E:
		m.irqCounter = (m.irqCounter & 0xFF00) | uint16(v)
	case m.addrReg == 0x0F:
		m.irqCounter = (m.irqCounter & 0x00FF) | uint16(v)<<8
	}
}

func (m *fme7) PPURead(addr uint16) uint8 {
	if addr >= 0x2000 {
		return 0
	}
	bank := int(m.chr[addr/0x0400]) % m.chrBanks8K
	off := bank*0x0400 + int(addr&0x03FF)
	if off < len(m.cart.CHRROM) {
		return m.cart.CHRROM[off]
	}
	return 0
}

func (m *fme7) PPUWrite(addr uint16, v uint8) {
	if addr >= 0x2000 || !m.cart.HasCHRRAM {
		return
	}
	bank := int(m.chr[addr/0x0400]) % m.chrBanks8K
	off := bank*0x0400 + int(addr&0x03FF)
	if off < len(m.cart.CHRROM) {
		m.cart.CHRROM[off] = v
	}
}

func (m *fme7) OnA12Rising() {}

// OnCPUCycle decrements the free-running IRQ counter once per CPU cycle
// when counting is enabled, asserting IRQ on underflow through zero.
func (m *fme7) OnCPUCycle() {
	if !m.irqCounting {
		return
	}
	if m.irqCounter == 0 {
		m.irqCounter = 0xFFFF
		if m.irqEnabled {
			m.irqAsserted = true
		}
		return
	}
	m.irqCounter--
}

func (m *fme7) IRQPending() bool { return m.irqAsserted }

func (m *fme7) Mirror() cartridge.MirrorMode {
	switch m.mirror & 0x03 {
	case 0:
		return cartridge.MirrorVertical
	case 1:
		return cartridge.MirrorHorizontal
	case 2:
		return cartridge.MirrorSingleScreen0
	default:
		return cartridge.MirrorSingleScreen1
	}
}

func (m *fme7) NametableOverride(uint16) (uint8, bool) { return 0, false }

type fme7State struct {
	AddrReg                           uint8
	CHR                               [8]uint8
	PRG                               [4]uint8
	Mirror                            uint8
	IRQEnabled, IRQCounting, IRQAsserted bool
	IRQCounter                        uint16
}

func (m *fme7) Snapshot() any {
	return fme7State{
		AddrReg: m.addrReg, CHR: m.chr, PRG: m.prg, Mirror: m.mirror,
		IRQEnabled: m.irqEnabled, IRQCounting: m.irqCounting, IRQAsserted: m.irqAsserted,
		IRQCounter: m.irqCounter,
	}
}

func (m *fme7) Restore(s any) {
	st := s.(fme7State)
	m.addrReg, m.chr, m.prg, m.mirror = st.AddrReg, st.CHR, st.PRG, st.Mirror
	m.irqEnabled, m.irqCounting, m.irqAsserted = st.IRQEnabled, st.IRQCounting, st.IRQAsserted
	m.irqCounter = st.IRQCounter
}
