package mapper

import "nescore/internal/cartridge"

// mmc5 (mapper 5, ExROM): the most elaborate board in the NES library.
// This implementation covers its four PRG banking modes, CPU access to
// ExRAM at $5C00-$5FFF (writable in every $5104 mode except 3), the
// scanline IRQ (clocked by the PPU telling the mapper "a visible
// scanline just started rendering" via NotifyScanline, since MMC5's real
// in-frame detection counts PPU fetches rather than watching A12), and
// the $5205/$5206 8x8 unsigned multiplier. CHR is always read as four
// 1 KiB background banks ($5128-$512B) repeated across $0000-$1FFF: the
// $5101 CHR mode is stored but not applied. In ExRAM mode 1 every
// nametable fetch returns the ExRAM byte; the extended-attribute
// interpretation, the $5106/$5107 fill-mode nametable (stored only) and
// per-nametable $5105 mapping (only nametable 0's selector is used) are
// not modeled, nor are the vertical-split renderer and MMC5's extra
// pulse/PCM audio channels.
type mmc5 struct {
	cart *cartridge.Cartridge

	prgMode uint8
	chrMode uint8
	prgRAMProtect1, prgRAMProtect2 uint8

	prgBanks [5]uint8 // $5113-$5117, bank 4 always PRG-ROM (last)
	// chrBanksSprite holds the 8x8/8x16-sprite bank regs ($5120-$5127);
	// the shared Mapper.PPURead interface doesn't tell a mapper whether a
	// pattern fetch is for a sprite or the background, so only the
	// background bank set below is ever consulted.
	chrBanksSprite [8]uint8
	chrBanksBG     [4]uint8
	chrHighBits    uint8

	exRAM     [1024]uint8
	exRAMMode uint8
	mirror    [4]uint8 // per-nametable source selector ($5105)

	fillTile  uint8
	fillAttr  uint8

	multiplicand, multiplier uint8

	irqScanline   uint8
	irqEnabled    bool
	inFrame       bool
	scanlineCount uint8
	irqPending    bool

	prgBanks8K int
	chrBanks1K int
}

func newMMC5(cart *cartridge.Cartridge) *mmc5 {
	m := &mmc5{cart: cart, prgBanks8K: len(cart.PRGROM) / 0x2000}
	m.chrBanks1K = len(cart.CHRROM) / 0x0400
	if m.chrBanks1K == 0 {
		m.chrBanks1K = 8
	}
	return m
}

func (m *mmc5) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x5204:
		if addr == 0x5204 {
			v := uint8(0)
			if m.inFrame {
				v |= 0x40
			}
			if m.irqPending {
				v |= 0x80
			}
			m.irqPending = false
			return v
		}
		if addr == 0x5205 {
			return uint8((uint16(m.multiplicand) * uint16(m.multiplier)) & 0xFF)
		}
		if addr == 0x5206 {
			return uint8((uint16(m.multiplicand) * uint16(m.multiplier)) >> 8)
		}
		if addr >= 0x5C00 && addr < 0x6000 {
			return m.exRAM[addr-0x5C00]
		}
		if addr >= 0x6000 && addr < 0x8000 {
			return m.cart.PRGRAM[addr-0x6000]
		}
		if addr >= 0x8000 {
			if addr == 0xFFFA {
				// Reading the NMI vector means the CPU is entering the
				// NMI handler, which always runs after rendering for the
				// frame has finished; real MMC5 boards clear their
				// in-frame latch here rather than waiting for the next
				// pre-render NotifyScanline.
				m.inFrame = false
			}
			return m.readPRG(addr)
		}
		return 0
	case addr >= 0x6000:
		return m.cart.PRGRAM[addr-0x6000]
	default:
		return 0
	}
}

// readPRG resolves a CPU address in $8000-$FFFF to a PRG-ROM byte per
// the $5100 PRG mode: 32 KiB (0), 16+16 KiB (1), 16+8+8 KiB (2), or the
// common 8 KiB x4 mode (3). $5113 banks PRG-RAM at $6000-$7FFF and is
// not consulted here; $5114-$5117 bank the $8000-$FFFF window.
func (m *mmc5) readPRG(addr uint16) uint8 {
	if m.prgBanks8K == 0 {
		return 0
	}
	bank := m.prgBank8K(addr)
	bank = ((bank % m.prgBanks8K) + m.prgBanks8K) % m.prgBanks8K
	return m.cart.PRGROM[bank*0x2000+int(addr&0x1FFF)]
}

func (m *mmc5) prgBank8K(addr uint16) int {
	slot := int((addr - 0x8000) / 0x2000) // 0-3, one per 8 KiB window
	switch m.prgMode {
	case 0: // 32 KiB: $5117 selects the bank, low 2 bits ignored
		return int(m.prgBanks[4]&^0x03) + slot
	case 1: // 16 KiB + 16 KiB: $5115 / $5117, low bit ignored
		if slot < 2 {
			return int(m.prgBanks[2]&^0x01) + slot
		}
		return int(m.prgBanks[4]&^0x01) + (slot - 2)
	case 2: // 16 KiB + 8 KiB + 8 KiB: $5115 / $5116 / $5117
		switch slot {
		case 0, 1:
			return int(m.prgBanks[2]&^0x01) + slot
		case 2:
			return int(m.prgBanks[3])
		default:
			return int(m.prgBanks[4])
		}
	default: // 3: 8 KiB x 4, one register per window: $5114-$5117
		return int(m.prgBanks[1+slot])
	}
}

func (m *mmc5) CPUWrite(addr uint16, v uint8) {
	switch {
	case addr == 0x5100:
		m.prgMode = v & 0x03
	case addr == 0x5101:
		m.chrMode = v & 0x03
	case addr == 0x5102:
		m.prgRAMProtect1 = v & 0x03
	case addr == 0x5103:
		m.prgRAMProtect2 = v & 0x03
	case addr == 0x5104:
		m.exRAMMode = v & 0x03
	case addr == 0x5105:
		for i := 0; i < 4; i++ {
			m.mirror[i] = (v >> uint(i*2)) & 0x03
		}
	case addr == 0x5106:
		m.fillTile = v
	case addr == 0x5107:
		m.fillAttr = v & 0x03
	case addr >= 0x5113 && addr <= 0x5117:
		m.prgBanks[addr-0x5113] = v
	case addr >= 0x5120 && addr <= 0x5127:
		m.chrBanksSprite[addr-0x5120] = v
	case addr >= 0x5128 && addr <= 0x512B:
		m.chrBanksBG[addr-0x5128] = v
	case addr == 0x5130:
		m.chrHighBits = v & 0x03
	case addr == 0x5203:
		m.irqScanline = v
	case addr == 0x5204:
		m.irqEnabled = v&0x80 != 0
	case addr == 0x5205:
		m.multiplicand = v
	case addr == 0x5206:
		m.multiplier = v
	case addr >= 0x5C00 && addr < 0x6000:
		if m.exRAMMode != 3 {
			m.exRAM[addr-0x5C00] = v
		}
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.PRGRAM[addr-0x6000] = v
	}
}

func (m *mmc5) PPURead(addr uint16) uint8 {
	if addr >= 0x2000 {
		return 0
	}
	bank := int(m.chrBanksBG[addr/0x0400%4]) % m.chrBanks1K
	off := bank*0x0400 + int(addr&0x03FF)
	if off >= 0 && off < len(m.cart.CHRROM) {
		return m.cart.CHRROM[off]
	}
	return 0
}

func (m *mmc5) PPUWrite(addr uint16, v uint8) {
	if addr >= 0x2000 || !m.cart.HasCHRRAM {
		return
	}
	bank := int(m.chrBanksBG[addr/0x0400%4]) % m.chrBanks1K
	off := bank*0x0400 + int(addr&0x03FF)
	if off >= 0 && off < len(m.cart.CHRROM) {
		m.cart.CHRROM[off] = v
	}
}

// NotifyScanline is called by the PPU at the start of the pre-render
// scanline (which clears the in-frame state and the scanline count) and
// of each visible scanline; it drives MMC5's in-frame scanline IRQ, which real hardware derives
// from counting nametable fetches rather than from A12.
func (m *mmc5) NotifyScanline(preRender bool) {
	if preRender {
		m.inFrame = false
		m.scanlineCount = 0
		return
	}
	m.inFrame = true
	m.scanlineCount++
	if m.scanlineCount == m.irqScanline {
		m.irqPending = true
	}
}

func (m *mmc5) OnA12Rising() {}
func (m *mmc5) OnCPUCycle()  {}
func (m *mmc5) IRQPending() bool { return m.irqPending && m.irqEnabled }

func (m *mmc5) Mirror() cartridge.MirrorMode {
	switch m.mirror[0] {
	case 0:
		return cartridge.MirrorSingleScreen0
	case 1:
		return cartridge.MirrorSingleScreen1
	default:
		return cartridge.MirrorVertical
	}
}

func (m *mmc5) NametableOverride(addr uint16) (uint8, bool) {
	if m.exRAMMode == 1 {
		idx := (addr - 0x2000) % 0x400
		return m.exRAM[idx], true
	}
	return 0, false
}

type mmc5State struct {
	PRGMode, CHRMode                 uint8
	PRGRAMProtect1, PRGRAMProtect2   uint8
	PRGBanks                         [5]uint8
	CHRBanksSprite                   [8]uint8
	CHRBanksBG                       [4]uint8
	CHRHighBits                      uint8
	ExRAM                            [1024]uint8
	ExRAMMode                        uint8
	Mirror                           [4]uint8
	FillTile, FillAttr               uint8
	Multiplicand, Multiplier         uint8
	IRQScanline                      uint8
	IRQEnabled, InFrame, IRQPending  bool
	ScanlineCount                    uint8
}

func (m *mmc5) Snapshot() any {
	return mmc5State{
		PRGMode: m.prgMode, CHRMode: m.chrMode,
		PRGRAMProtect1: m.prgRAMProtect1, PRGRAMProtect2: m.prgRAMProtect2,
		PRGBanks: m.prgBanks, CHRBanksSprite: m.chrBanksSprite, CHRBanksBG: m.chrBanksBG,
		CHRHighBits: m.chrHighBits, ExRAM: m.exRAM, ExRAMMode: m.exRAMMode, Mirror: m.mirror,
		FillTile: m.fillTile, FillAttr: m.fillAttr,
		Multiplicand: m.multiplicand, Multiplier: m.multiplier,
		IRQScanline: m.irqScanline, IRQEnabled: m.irqEnabled, InFrame: m.inFrame,
		IRQPending: m.irqPending, ScanlineCount: m.scanlineCount,
	}
}

func (m *mmc5) Restore(s any) {
	st := s.(mmc5State)
	m.prgMode, m.chrMode = st.PRGMode, st.CHRMode
	m.prgRAMProtect1, m.prgRAMProtect2 = st.PRGRAMProtect1, st.PRGRAMProtect2
	m.prgBanks, m.chrBanksSprite, m.chrBanksBG = st.PRGBanks, st.CHRBanksSprite, st.CHRBanksBG
	m.chrHighBits, m.exRAM, m.exRAMMode, m.mirror = st.CHRHighBits, st.ExRAM, st.ExRAMMode, st.Mirror
	m.fillTile, m.fillAttr = st.FillTile, st.FillAttr
	m.multiplicand, m.multiplier = st.Multiplicand, st.Multiplier
	m.irqScanline, m.irqEnabled, m.inFrame = st.IRQScanline, st.IRQEnabled, st.InFrame
	m.irqPending, m.scanlineCount = st.IRQPending, st.ScanlineCount
}
