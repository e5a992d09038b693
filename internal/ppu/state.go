package ppu

const ppuStateVersion = 1

// State is the explicit, versioned snapshot of PPU-owned memory and
// register state (mapper state is captured separately).
type State struct {
	Version int

	Ctrl, Mask, Status, OAMAddr uint8
	V, T                        uint16
	X                           uint8
	W                           bool

	OpenBus, ReadBuffer uint8

	OAM          [256]uint8
	Nametables   [2048]uint8
	Palette      [32]uint8

	Scanline, Dot int
	OddFrame      bool

	PrevA12 bool
}

// Snapshot captures PPU register and memory state.
func (p *PPU) Snapshot() State {
	return State{
		Version: ppuStateVersion,
		Ctrl: p.ctrl, Mask: p.mask, Status: p.status, OAMAddr: p.oamAddr,
		V: p.v, T: p.t, X: p.x, W: p.w,
		OpenBus: p.openBus, ReadBuffer: p.readBuffer,
		OAM: p.oam, Nametables: p.nametables, Palette: p.palette,
		Scanline: p.scanline, Dot: p.dot, OddFrame: p.oddFrame,
		PrevA12: p.prevA12,
	}
}

// Restore replaces PPU register and memory state from a prior Snapshot.
// The background/sprite pipeline latches are not part of State and keep
// their current values; they resynchronize within one scanline of
// emulation.
func (p *PPU) Restore(s State) {
	p.ctrl, p.mask, p.status, p.oamAddr = s.Ctrl, s.Mask, s.Status, s.OAMAddr
	p.v, p.t, p.x, p.w = s.V, s.T, s.X, s.W
	p.openBus, p.readBuffer = s.OpenBus, s.ReadBuffer
	p.oam, p.nametables, p.palette = s.OAM, s.Nametables, s.Palette
	p.scanline, p.dot, p.oddFrame = s.Scanline, s.Dot, s.OddFrame
	p.prevA12 = s.PrevA12
}
