package apu

// pulseTable and tndTable are the canonical nonlinear NES APU mixer
// lookup tables. The two pulse channels sum into a single 5-bit index
// (0-30); the triangle/noise/DMC channels sum with triangle weighted
// three times and noise twice into a single index (0-202). Both formulas come from
// the 2A03's measured analog mixer response.
var (
	pulseTable [31]float32
	tndTable   [203]float32
)

func init() {
	for n := range pulseTable {
		if n == 0 {
			continue
		}
		pulseTable[n] = float32(95.52 / (8128.0/float64(n) + 100.0))
	}
	for n := range tndTable {
		if n == 0 {
			continue
		}
		tndTable[n] = float32(163.67 / (24329.0/float64(n) + 100.0))
	}
}

// mixSample combines the five channel outputs through the two mixer
// lookup tables into a single normalized sample in [-1, 1].
func (a *APU) mixSample() float32 {
	p1 := a.pulse1.output()
	p2 := a.pulse2.output()
	t := a.triangle.output()
	n := a.noise.output()
	d := a.dmc.output()

	pulseOut := pulseTable[p1+p2]
	tndOut := tndTable[3*t+2*n+d]

	return (pulseOut + tndOut) * 2 - 1
}
