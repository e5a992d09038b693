package bus

const busStateVersion = 1

// State is the explicit, versioned snapshot of bus-owned state not
// already covered by the CPU/PPU/APU/mapper/controller snapshots: work
// RAM, DMA progress, and the cycle/frame counters.
type State struct {
	Version int

	RAM [0x0800]uint8

	CPUCycles  uint64
	FrameCount uint64

	OAMDMAActive bool
	OAMDMAPage   uint8
	OAMDMACursor int

	OpenBus uint8
}

// Snapshot captures bus-owned state.
func (b *Bus) Snapshot() State {
	return State{
		Version:      busStateVersion,
		RAM:          b.ram,
		CPUCycles:    b.cpuCycles,
		FrameCount:   b.frameCount,
		OAMDMAActive: b.oamDMAActive,
		OAMDMAPage:   b.oamDMAPage,
		OAMDMACursor: b.oamDMACursor,
		OpenBus:      b.openBus,
	}
}

// Restore replaces bus-owned state.
func (b *Bus) Restore(s State) {
	b.ram = s.RAM
	b.cpuCycles = s.CPUCycles
	b.frameCount = s.FrameCount
	b.oamDMAActive = s.OAMDMAActive
	b.oamDMAPage = s.OAMDMAPage
	b.oamDMACursor = s.OAMDMACursor
	b.openBus = s.OpenBus
}

// MapperSnapshot captures the inserted mapper's private register
// state, or nil if no cartridge is inserted.
func (b *Bus) MapperSnapshot() any {
	if b.mapper == nil {
		return nil
	}
	return b.mapper.Snapshot()
}

// MapperRestore replaces the inserted mapper's private register state.
func (b *Bus) MapperRestore(s any) {
	if b.mapper != nil {
		b.mapper.Restore(s)
	}
}
