package mapper

import "nescore/internal/cartridge"

// mmc2 (mapper 9, PxROM — Punch-Out!!): 8 KiB PRG bank switch at $8000,
// fixed last three 8 KiB banks; two independently-latched 4 KiB CHR
// banks per half (FD/FE latch set by reading specific tile addresses)
// used for Punch-Out!!'s mid-scanline CHR swap.
type mmc2 struct {
	cart *cartridge.Cartridge

	prgBank        uint8
	chrFD0, chrFE0 uint8
	chrFD1, chrFE1 uint8
	latch0, latch1 uint8 // 0 = FD selected, 1 = FE selected
	mirror         uint8

	prgBanks8K int
}

func newMMC2(cart *cartridge.Cartridge) *mmc2 {
	return &mmc2{cart: cart, prgBanks8K: len(cart.PRGROM) / 0x2000}
}

func (m *mmc2) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return m.cart.PRGRAM[addr-0x6000]
	case addr >= 0x8000 && addr < 0xA000:
		n := int(m.prgBank) % m.prgBanks8K
		return m.cart.PRGROM[n*0x2000+int(addr-0x8000)]
	case addr >= 0xA000:
		// Fixed last three 8 KiB banks.
		n := m.prgBanks8K - 3 + int((addr-0xA000)/0x2000)
		if n < 0 {
			n = 0
		}
		return m.cart.PRGROM[n*0x2000+int(addr&0x1FFF)]
	default:
		return 0
	}
}

func (m *mmc2) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.PRGRAM[addr-0x6000] = v
	case addr >= 0xA000 && addr < 0xB000:
		m.prgBank = v & 0x0F
	case addr >= 0xB000 && addr < 0xC000:
		m.chrFD0 = v & 0x1F
	case addr >= 0xC000 && addr < 0xD000:
		m.chrFE0 = v & 0x1F
	case addr >= 0xD000 && addr < 0xE000:
		m.chrFD1 = v & 0x1F
	case addr >= 0xE000 && addr < 0xF000:
		m.chrFE1 = v & 0x1F
	case addr >= 0xF000:
		m.mirror = v & 1
	}
}

func (m *mmc2) PPURead(addr uint16) uint8 {
	if addr >= 0x2000 {
		return 0
	}
	var bank uint8
	if addr < 0x1000 {
		if m.latch0 == 0 {
			bank = m.chrFD0
		} else {
			bank = m.chrFE0
		}
		if addr == 0x0FD8 {
			m.latch0 = 0
		} else if addr == 0x0FE8 {
			m.latch0 = 1
		}
	} else {
		if m.latch1 == 0 {
			bank = m.chrFD1
		} else {
			bank = m.chrFE1
		}
		if addr >= 0x1FD8 && addr <= 0x1FDF {
			m.latch1 = 0
		} else if addr >= 0x1FE8 && addr <= 0x1FEF {
			m.latch1 = 1
		}
	}
	banks := len(m.cart.CHRROM) / 0x1000
	if banks == 0 {
		return 0
	}
	n := int(bank) % banks
	return m.cart.CHRROM[n*0x1000+int(addr&0x0FFF)]
}

func (m *mmc2) PPUWrite(uint16, uint8) {}

func (m *mmc2) Mirror() cartridge.MirrorMode {
	if m.mirror&1 != 0 {
		return cartridge.MirrorHorizontal
	}
	return cartridge.MirrorVertical
}
func (m *mmc2) OnA12Rising()                           {}
func (m *mmc2) OnCPUCycle()                            {}
func (m *mmc2) NametableOverride(uint16) (uint8, bool) { return 0, false }

type mmc2State struct {
	PRGBank                        uint8
	ChrFD0, ChrFE0, ChrFD1, ChrFE1 uint8
	Latch0, Latch1, Mirror         uint8
}

func (m *mmc2) Snapshot() any {
	return mmc2State{m.prgBank, m.chrFD0, m.chrFE0, m.chrFD1, m.chrFE1, m.latch0, m.latch1, m.mirror}
}

func (m *mmc2) Restore(s any) {
	st := s.(mmc2State)
	m.prgBank, m.chrFD0, m.chrFE0, m.chrFD1, m.chrFE1 = st.PRGBank, st.ChrFD0, st.ChrFE0, st.ChrFD1, st.ChrFE1
	m.latch0, m.latch1, m.mirror = st.Latch0, st.Latch1, st.Mirror
}
