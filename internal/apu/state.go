package apu

const apuStateVersion = 1

// pulseState, triangleState, noiseState, and dmcState are explicit,
// versioned snapshots of each channel's internal state.
type pulseState struct {
	Enabled                                        bool
	DutyMode, DutyStep                             uint8
	TimerPeriod, TimerCounter                       uint16
	LengthCounter                                   uint8
	LengthHalt                                      bool
	EnvelopeStart                                   bool
	EnvelopeDecay, EnvelopeDivider, EnvelopeVolume  uint8
	EnvelopeConstant, EnvelopeLoop                  bool
	SweepEnabled                                    bool
	SweepPeriod, SweepDivider, SweepShift           uint8
	SweepNegate, SweepReload, OnesComplement        bool
}

func (p *pulseChannel) snapshot() pulseState {
	return pulseState{
		p.enabled, p.dutyMode, p.dutyStep, p.timerPeriod, p.timerCounter,
		p.lengthCounter, p.lengthHalt, p.envelopeStart, p.envelopeDecay,
		p.envelopeDivider, p.envelopeVolume, p.envelopeConstant, p.envelopeLoop,
		p.sweepEnabled, p.sweepPeriod, p.sweepDivider, p.sweepShift,
		p.sweepNegate, p.sweepReload, p.onesComplement,
	}
}

func (p *pulseChannel) restore(s pulseState) {
	p.enabled, p.dutyMode, p.dutyStep = s.Enabled, s.DutyMode, s.DutyStep
	p.timerPeriod, p.timerCounter = s.TimerPeriod, s.TimerCounter
	p.lengthCounter, p.lengthHalt = s.LengthCounter, s.LengthHalt
	p.envelopeStart, p.envelopeDecay, p.envelopeDivider = s.EnvelopeStart, s.EnvelopeDecay, s.EnvelopeDivider
	p.envelopeVolume, p.envelopeConstant, p.envelopeLoop = s.EnvelopeVolume, s.EnvelopeConstant, s.EnvelopeLoop
	p.sweepEnabled, p.sweepPeriod, p.sweepDivider = s.SweepEnabled, s.SweepPeriod, s.SweepDivider
	p.sweepShift, p.sweepNegate, p.sweepReload = s.SweepShift, s.SweepNegate, s.SweepReload
	p.onesComplement = s.OnesComplement
}

type triangleState struct {
	Enabled                               bool
	TimerPeriod, TimerCounter             uint16
	SequenceStep                          uint8
	LengthCounter                         uint8
	LengthHalt                            bool
	LinearCounter, LinearReloadValue      uint8
	LinearReload                          bool
}

func (t *triangleChannel) snapshot() triangleState {
	return triangleState{
		t.enabled, t.timerPeriod, t.timerCounter, t.sequenceStep,
		t.lengthCounter, t.lengthHalt, t.linearCounter, t.linearReloadValue, t.linearReload,
	}
}

func (t *triangleChannel) restore(s triangleState) {
	t.enabled, t.timerPeriod, t.timerCounter = s.Enabled, s.TimerPeriod, s.TimerCounter
	t.sequenceStep = s.SequenceStep
	t.lengthCounter, t.lengthHalt = s.LengthCounter, s.LengthHalt
	t.linearCounter, t.linearReloadValue, t.linearReload = s.LinearCounter, s.LinearReloadValue, s.LinearReload
}

type noiseState struct {
	Enabled                                       bool
	Mode                                          bool
	ShiftRegister                                 uint16
	TimerPeriod, TimerCounter                     uint16
	LengthCounter                                 uint8
	LengthHalt                                    bool
	EnvelopeStart                                 bool
	EnvelopeDecay, EnvelopeDivider, EnvelopeVolume uint8
	EnvelopeConstant, EnvelopeLoop                 bool
}

func (n *noiseChannel) snapshot() noiseState {
	return noiseState{
		n.enabled, n.mode, n.shiftRegister, n.timerPeriod, n.timerCounter,
		n.lengthCounter, n.lengthHalt, n.envelopeStart, n.envelopeDecay,
		n.envelopeDivider, n.envelopeVolume, n.envelopeConstant, n.envelopeLoop,
	}
}

func (n *noiseChannel) restore(s noiseState) {
	n.enabled, n.mode, n.shiftRegister = s.Enabled, s.Mode, s.ShiftRegister
	n.timerPeriod, n.timerCounter = s.TimerPeriod, s.TimerCounter
	n.lengthCounter, n.lengthHalt = s.LengthCounter, s.LengthHalt
	n.envelopeStart, n.envelopeDecay, n.envelopeDivider = s.EnvelopeStart, s.EnvelopeDecay, s.EnvelopeDivider
	n.envelopeVolume, n.envelopeConstant, n.envelopeLoop = s.EnvelopeVolume, s.EnvelopeConstant, s.EnvelopeLoop
}

type dmcState struct {
	IRQEnable, Loop                  bool
	RateIndex                        uint8
	OutputLevel                      uint8
	SampleAddress, SampleLength       uint16
	CurrentAddress, BytesRemaining   uint16
	SampleBuffer                     uint8
	SampleBufferEmpty                bool
	OutputShift, OutputBitsRemaining uint8
	Silence                          bool
	TimerCounter                     uint16
	IRQFlag                          bool
}

func (d *dmcChannel) snapshot() dmcState {
	return dmcState{
		d.irqEnable, d.loop, d.rateIndex, d.outputLevel,
		d.sampleAddress, d.sampleLength, d.currentAddress, d.bytesRemaining,
		d.sampleBuffer, d.sampleBufferEmpty, d.outputShift, d.outputBitsRemaining,
		d.silence, d.timerCounter, d.irqFlag,
	}
}

func (d *dmcChannel) restore(s dmcState) {
	d.irqEnable, d.loop, d.rateIndex, d.outputLevel = s.IRQEnable, s.Loop, s.RateIndex, s.OutputLevel
	d.sampleAddress, d.sampleLength = s.SampleAddress, s.SampleLength
	d.currentAddress, d.bytesRemaining = s.CurrentAddress, s.BytesRemaining
	d.sampleBuffer, d.sampleBufferEmpty = s.SampleBuffer, s.SampleBufferEmpty
	d.outputShift, d.outputBitsRemaining = s.OutputShift, s.OutputBitsRemaining
	d.silence, d.timerCounter, d.irqFlag = s.Silence, s.TimerCounter, s.IRQFlag
}

// State is the explicit, versioned snapshot of the whole APU.
type State struct {
	Version int

	Pulse1, Pulse2 pulseState
	Triangle       triangleState
	Noise          noiseState
	DMC            dmcState

	FrameCounter    uint16
	FrameMode       bool
	FrameIRQInhibit bool
	FrameIRQFlag    bool
	FrameStep       uint8

	Cycles uint64
}

// Snapshot captures all channel, frame-counter, and cycle-count state.
// The sample-rate resampling accumulator and pending output buffer are
// intentionally excluded: they hold no gameplay-relevant state and
// resuming mid-sample causes at most one inaudible glitch.
func (a *APU) Snapshot() State {
	return State{
		Version:  apuStateVersion,
		Pulse1:   a.pulse1.snapshot(),
		Pulse2:   a.pulse2.snapshot(),
		Triangle: a.triangle.snapshot(),
		Noise:    a.noise.snapshot(),
		DMC:      a.dmc.snapshot(),

		FrameCounter:    a.frameCounter,
		FrameMode:       a.frameMode,
		FrameIRQInhibit: a.frameIRQInhibit,
		FrameIRQFlag:    a.frameIRQFlag,
		FrameStep:       a.frameStep,

		Cycles: a.cycles,
	}
}

// Restore replaces all channel, frame-counter, and cycle-count state.
func (a *APU) Restore(s State) {
	a.pulse1.restore(s.Pulse1)
	a.pulse2.restore(s.Pulse2)
	a.triangle.restore(s.Triangle)
	a.noise.restore(s.Noise)
	a.dmc.restore(s.DMC)

	a.frameCounter = s.FrameCounter
	a.frameMode = s.FrameMode
	a.frameIRQInhibit = s.FrameIRQInhibit
	a.frameIRQFlag = s.FrameIRQFlag
	a.frameStep = s.FrameStep

	a.cycles = s.Cycles
}
