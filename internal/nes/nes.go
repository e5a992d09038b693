// Package nes wires the CPU, PPU, APU, mapper, and controllers
// together behind a small orchestration API for frontends: power on a
// cartridge, run frames, feed input, and save/load state.
package nes

import (
	"errors"

	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/input"
)

// Console is a complete NES system: one cartridge slot, two controller
// ports, and an optional Zapper on port 2.
type Console struct {
	bus  *bus.Bus
	cart *cartridge.Cartridge
}

// New constructs a powered-off console with no cartridge inserted.
func New() *Console {
	return &Console{bus: bus.New()}
}

// ErrNoCartridge is returned by operations that require a cartridge
// when none has been inserted.
var ErrNoCartridge = errors.New("nes: no cartridge inserted")

// InsertCartridge loads an iNES ROM image and powers on the system with
// it. Any previously-loaded cartridge's battery RAM is discarded; call
// BatteryRAM before replacing a cartridge if it should be persisted.
func (c *Console) InsertCartridge(rom []byte) error {
	cart, err := c.bus.InsertCartridge(rom)
	if err != nil {
		return err
	}
	c.cart = cart
	c.bus.PowerOn()
	return nil
}

// LoadBatterySave restores a previously-saved battery RAM image into
// the currently-inserted cartridge. The caller is responsible for
// matching the save to the cartridge (see BatteryRAM/CartridgeCRC32).
func (c *Console) LoadBatterySave(data []byte) error {
	if c.cart == nil {
		return ErrNoCartridge
	}
	c.cart.LoadBatteryRAM(data)
	return nil
}

// BatteryRAM returns the inserted cartridge's battery-backed PRG-RAM
// for persistence, or nil if the cartridge has no battery.
func (c *Console) BatteryRAM() []byte {
	if c.cart == nil {
		return nil
	}
	return c.cart.BatteryRAM()
}

// CartridgeCRC32 identifies the inserted cartridge for save-matching.
func (c *Console) CartridgeCRC32() uint32 {
	if c.cart == nil {
		return 0
	}
	return c.cart.CRC32
}

// PowerOn performs a full power-cycle reset of CPU/PPU/APU state.
func (c *Console) PowerOn() { c.bus.PowerOn() }

// Reset pulses the CPU reset line (the NES RESET button).
func (c *Console) Reset() { c.bus.Reset() }

// RunFrame runs the system until one full video frame has been
// produced (the PPU wrapping from the pre-render scanline back to
// scanline 0).
func (c *Console) RunFrame() { c.bus.RunFrame() }

// FrameBuffer returns the most recently completed frame as packed-ARGB
// pixels, 256x240.
func (c *Console) FrameBuffer() []uint32 { return c.bus.PPU.FrameBuffer() }

// AudioSamples drains and returns the audio samples generated since the
// last call, at the APU's configured sample rate.
func (c *Console) AudioSamples() []float32 { return c.bus.APU.DrainSamples() }

// ButtonDown presses button on the given controller port (0 or 1).
func (c *Console) ButtonDown(port int, b input.Button) {
	c.controller(port).ButtonDown(b)
}

// ButtonUp releases button on the given controller port (0 or 1).
func (c *Console) ButtonUp(port int, b input.Button) {
	c.controller(port).ButtonUp(b)
}

func (c *Console) controller(port int) *input.Controller {
	if port == 1 {
		return &c.bus.Controller2
	}
	return &c.bus.Controller1
}

// EnableZapper arms or disarms the light gun on controller port 2.
func (c *Console) EnableZapper(enabled bool) { c.bus.Zapper.Enabled = enabled }

// AimZapper records the light gun's screen position and trigger state
// for the next frame's sampling. x/y are in framebuffer pixel
// coordinates (0-255, 0-239).
func (c *Console) AimZapper(x, y int, trigger bool) { c.bus.Zapper.Aim(x, y, trigger) }

// SetZapperSampler wires the Zapper's light sensor to a framebuffer
// brightness callback; frontends normally call this once at startup
// with a sampler backed by FrameBuffer().
func (c *Console) SetZapperSampler(sample func(x, y int) uint32) {
	c.bus.Zapper.SetSampler(sample)
}
