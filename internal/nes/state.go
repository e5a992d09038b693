package nes

import (
	"nescore/internal/apu"
	"nescore/internal/bus"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/ppu"
)

const stateVersion = 1

// State is the explicit, versioned save-state schema for a whole
// console: every component snapshots its own state independently, and
// the mapper's opaque state is carried alongside its type so Restore
// can hand it back without the orchestrator needing to know the
// concrete mapper type.
type State struct {
	Version int

	CPU cpu.CPUState
	PPU ppu.State
	APU apu.State
	Bus bus.State

	Controller1, Controller2 input.State

	MapperState any

	// CartridgeCRC32 lets a frontend refuse to restore a save against
	// the wrong ROM.
	CartridgeCRC32 uint32
}

// Snapshot captures the entire console's state.
func (c *Console) Snapshot() State {
	return State{
		Version:        stateVersion,
		CPU:            c.bus.CPU.Snapshot(),
		PPU:            c.bus.PPU.Snapshot(),
		APU:            c.bus.APU.Snapshot(),
		Bus:            c.bus.Snapshot(),
		Controller1:    c.bus.Controller1.Snapshot(),
		Controller2:    c.bus.Controller2.Snapshot(),
		MapperState:    c.bus.MapperSnapshot(),
		CartridgeCRC32: c.CartridgeCRC32(),
	}
}

// Restore replaces the entire console's state from a prior Snapshot.
// ErrCartridgeMismatch is returned (without mutating state) if s was
// captured against a different cartridge.
func (c *Console) Restore(s State) error {
	if c.cart != nil && s.CartridgeCRC32 != 0 && s.CartridgeCRC32 != c.cart.CRC32 {
		return ErrCartridgeMismatch
	}
	c.bus.CPU.Restore(s.CPU)
	c.bus.PPU.Restore(s.PPU)
	c.bus.APU.Restore(s.APU)
	c.bus.Restore(s.Bus)
	c.bus.Controller1.Restore(s.Controller1)
	c.bus.Controller2.Restore(s.Controller2)
	if s.MapperState != nil {
		c.bus.MapperRestore(s.MapperState)
	}
	return nil
}

// ErrCartridgeMismatch is returned by Restore when a save-state's
// cartridge CRC32 does not match the currently-inserted cartridge.
var ErrCartridgeMismatch = errBadCartridge{}

type errBadCartridge struct{}

func (errBadCartridge) Error() string { return "nes: save state does not match inserted cartridge" }
