package apu

import "testing"

type stubDMA struct {
	data   map[uint16]uint8
	stolen int
}

func (s *stubDMA) Read(addr uint16) uint8 { return s.data[addr] }
func (s *stubDMA) StealCycles(n int)      { s.stolen += n }

func TestLengthCounterLoadedFromTable(t *testing.T) {
	a := New(nil, nil)
	a.Write(0x4015, 0x01) // enable pulse1
	a.Write(0x4000, 0x00)
	a.Write(0x4002, 0xFF)
	a.Write(0x4003, 0x08) // length index 1 -> 254
	if a.pulse1.lengthCounter != lengthTable[1] {
		t.Fatalf("expected length %d, got %d", lengthTable[1], a.pulse1.lengthCounter)
	}
}

func TestStatusReadReflectsLengthCounters(t *testing.T) {
	a := New(nil, nil)
	a.Write(0x4015, 0x0F)
	a.Write(0x4003, 0x08)
	v := a.Read(0x4015)
	if v&0x01 == 0 {
		t.Fatalf("expected pulse1 length bit set, got %02x", v)
	}
}

func TestFrameCounterModeSwitchClocksImmediatelyInFiveStepMode(t *testing.T) {
	a := New(nil, nil)
	a.Write(0x4015, 0x01)
	a.Write(0x4003, 0x08)
	before := a.pulse1.lengthCounter
	a.Write(0x4017, 0x80) // 5-step mode triggers an immediate half-frame clock
	if a.pulse1.lengthCounter != before-1 {
		t.Fatalf("expected immediate length clock, before=%d after=%d", before, a.pulse1.lengthCounter)
	}
}

func TestNoiseShiftRegisterNeverZero(t *testing.T) {
	a := New(nil, nil)
	a.Write(0x400E, 0x00)
	for i := 0; i < 1000; i++ {
		a.noise.clockTimer()
		if a.noise.shiftRegister == 0 {
			t.Fatalf("shift register reached zero")
		}
	}
}

func TestMixerTablesAreZeroAtSilence(t *testing.T) {
	if pulseTable[0] != 0 {
		t.Fatalf("pulseTable[0] should be 0")
	}
	if tndTable[0] != 0 {
		t.Fatalf("tndTable[0] should be 0")
	}
	if pulseTable[30] <= pulseTable[1] {
		t.Fatalf("pulseTable should be monotonically increasing")
	}
}

func TestDMCSampleAddressAndLength(t *testing.T) {
	a := New(nil, nil)
	a.Write(0x4012, 0x01) // sample address = 0xC000 | (1<<6) = 0xC040
	a.Write(0x4013, 0x01) // sample length = (1<<4)+1 = 17
	if a.dmc.sampleAddress != 0xC040 {
		t.Fatalf("expected sample address 0xC040, got %#x", a.dmc.sampleAddress)
	}
	if a.dmc.sampleLength != 17 {
		t.Fatalf("expected sample length 17, got %d", a.dmc.sampleLength)
	}
}

func TestDMCDMAStealsCyclesOnFetch(t *testing.T) {
	dma := &stubDMA{data: map[uint16]uint8{0xC000: 0xAA}}
	a := New(dma, nil)
	a.dmc.currentAddress = 0xC000
	a.dmc.bytesRemaining = 1
	a.dmc.sampleBufferEmpty = true
	a.fillDMCBuffer()
	if dma.stolen != 4 {
		t.Fatalf("expected 4 stolen cycles, got %d", dma.stolen)
	}
	if a.dmc.sampleBuffer != 0xAA {
		t.Fatalf("expected sample buffer 0xAA, got %#x", a.dmc.sampleBuffer)
	}
}
