package input

// brightnessSampler lets the Zapper ask its host PPU for the luminance
// near the light sensor without importing the ppu package directly.
type brightnessSampler func(x, y int) uint32

// Zapper models the light-gun peripheral read on $4017 bits 3-4. It is
// an optional peripheral gated behind EnableZapper, since real hardware
// derives the light sensor from a thin timing window relative to the
// PPU's beam position and this core instead samples the rendered
// framebuffer around the aimed position.
type Zapper struct {
	Enabled bool

	x, y    int
	trigger bool

	sample brightnessSampler
}

// NewZapper constructs a disabled Zapper; call SetSampler to wire it to
// the PPU framebuffer before enabling.
func NewZapper() *Zapper { return &Zapper{} }

// SetSampler installs the brightness-sampling callback.
func (z *Zapper) SetSampler(s brightnessSampler) { z.sample = s }

// Aim records the beam position and trigger state for the next read.
func (z *Zapper) Aim(x, y int, trigger bool) {
	z.x, z.y = x, y
	z.trigger = trigger
}

const lightThreshold = 0x50

// Read returns $4017 bits 3-4: bit 4 clear while triggered (active low),
// bit 3 clear when the sensor is over a bright pixel.
func (z *Zapper) Read() uint8 {
	var v uint8
	if !z.trigger {
		v |= 0x10
	}
	if !z.isLit() {
		v |= 0x08
	}
	return v
}

func (z *Zapper) isLit() bool {
	if !z.Enabled || z.sample == nil {
		return false
	}
	const radius = 2
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			px, py := z.x+dx, z.y+dy
			if px < 0 || py < 0 {
				continue
			}
			c := z.sample(px, py)
			r := (c >> 16) & 0xFF
			g := (c >> 8) & 0xFF
			b := c & 0xFF
			if r+g+b > lightThreshold*3 {
				return true
			}
		}
	}
	return false
}
