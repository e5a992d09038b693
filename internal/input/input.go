// Package input implements the NES controller serial shift-register
// protocol and an optional Zapper light-gun peripheral.
package input

// Button identifies one of the eight standard-controller buttons, in
// the hardware's shift order (A first, Right last).
type Button int

const (
	ButtonA Button = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	buttonCount
)

// Controller models one standard NES joypad: an 8-bit latched state, a
// strobe line, and a shift index for $4016/$4017 reads.
type Controller struct {
	current uint8
	strobed uint8
	strobe  bool
	index   uint8
}

// ButtonDown sets button, enforcing mutual exclusion between opposing
// D-pad directions (real hardware's pinout permits both being held at
// once, but the wiring most games rely on treats it as undefined; this
// core resolves it deterministically in the most recent press's favor).
func (c *Controller) ButtonDown(b Button) {
	c.current |= 1 << uint(b)
	switch b {
	case ButtonUp:
		c.current &^= 1 << uint(ButtonDown)
	case ButtonDown:
		c.current &^= 1 << uint(ButtonUp)
	case ButtonLeft:
		c.current &^= 1 << uint(ButtonRight)
	case ButtonRight:
		c.current &^= 1 << uint(ButtonLeft)
	}
}

// ButtonUp clears button.
func (c *Controller) ButtonUp(b Button) {
	c.current &^= 1 << uint(b)
}

// Strobe latches current into strobed on every write while state is
// true, and resets the shift index to 0 on the high-to-low edge (the
// serial protocol treats the falling edge as the actual latch point).
func (c *Controller) Strobe(state bool) {
	if state {
		c.strobed = c.current
		c.index = 0
	} else if c.strobe {
		c.strobed = c.current
		c.index = 0
	}
	c.strobe = state
}

// Read returns the next bit of the latched button state. After the
// eighth read, further reads return 1 in bit 0 (open bus for a
// disconnected 9th+ shift position on real controllers).
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.current & 0x01
	}
	if c.index >= 8 {
		return 0x01
	}
	bit := (c.strobed >> c.index) & 0x01
	c.index++
	return bit
}

// State is an explicit snapshot of one controller's latch state.
type State struct {
	Current, Strobed, Index uint8
	Strobe                  bool
}

func (c *Controller) Snapshot() State {
	return State{c.current, c.strobed, c.index, c.strobe}
}

func (c *Controller) Restore(s State) {
	c.current, c.strobed, c.index, c.strobe = s.Current, s.Strobed, s.Index, s.Strobe
}
