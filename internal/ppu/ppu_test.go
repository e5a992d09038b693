package ppu

import (
	"testing"

	"nescore/internal/cartridge"
)

// fakeMapper is a minimal, flat-CHR-RAM Mapper stub for PPU-level tests
// that don't need real bank switching.
type fakeMapper struct {
	chr       [0x2000]uint8
	mirror    cartridge.MirrorMode
	a12Rising int
}

func (m *fakeMapper) CPURead(uint16) uint8  { return 0 }
func (m *fakeMapper) CPUWrite(uint16, uint8) {}
func (m *fakeMapper) PPURead(addr uint16) uint8 { return m.chr[addr&0x1FFF] }
func (m *fakeMapper) PPUWrite(addr uint16, v uint8) { m.chr[addr&0x1FFF] = v }
func (m *fakeMapper) Mirror() cartridge.MirrorMode  { return m.mirror }
func (m *fakeMapper) OnA12Rising()                  { m.a12Rising++ }
func (m *fakeMapper) OnCPUCycle()                   {}
func (m *fakeMapper) NametableOverride(uint16) (uint8, bool) { return 0, false }
func (m *fakeMapper) Snapshot() any                 { return struct{}{} }
func (m *fakeMapper) Restore(any)                   {}

func TestPowerOnSetsStatusBits(t *testing.T) {
	p := New(&fakeMapper{})
	p.PowerOn()
	if p.status != 0xA0 {
		t.Fatalf("expected power-on status 0xA0, got 0x%02X", p.status)
	}
}

func TestPPUSTATUSReadClearsVBlankAndWriteToggle(t *testing.T) {
	p := New(&fakeMapper{})
	p.PowerOn()
	p.status |= statusVBlank
	p.w = true
	v := p.Read(0x2002)
	if v&statusVBlank == 0 {
		t.Fatal("expected VBlank bit set in the read value")
	}
	if p.status&statusVBlank != 0 {
		t.Fatal("expected VBlank bit cleared as a read side effect")
	}
	if p.w {
		t.Fatal("expected write toggle reset by a PPUSTATUS read")
	}
}

func TestPPUSCROLLWriteSequenceSetsFineXAndCoarseY(t *testing.T) {
	p := New(&fakeMapper{})
	p.Write(0x2005, 0x7D) // coarse X = 0x0F, fine X = 5
	if p.x != 5 {
		t.Fatalf("expected fine X 5, got %d", p.x)
	}
	p.Write(0x2005, 0x5E) // second write: coarse Y / fine Y
	if p.w {
		t.Fatal("expected write toggle to flip back to false after the second write")
	}
	// fine Y = 6 (bits 12-14), coarse Y = 11 (bits 5-9), coarse X = 15.
	if p.t != 0x616F {
		t.Fatalf("expected t=0x616F, got 0x%04X", p.t)
	}
}

func TestPPUADDRWriteSetsVRAMAddress(t *testing.T) {
	p := New(&fakeMapper{})
	p.Write(0x2006, 0x21)
	p.Write(0x2006, 0x08)
	if p.v != 0x2108 {
		t.Fatalf("expected v=0x2108, got 0x%04X", p.v)
	}
}

func TestPPUDATAReadIsBufferedExceptPalette(t *testing.T) {
	fm := &fakeMapper{}
	fm.chr[0x0010] = 0x42
	p := New(fm)
	p.Write(0x2006, 0x00)
	p.Write(0x2006, 0x10)
	first := p.Read(0x2007)
	if first != 0 {
		t.Fatalf("expected stale read-buffer value (0) on first post-seek read, got 0x%02X", first)
	}
	second := p.Read(0x2007)
	if second != 0x42 {
		t.Fatalf("expected buffered CHR byte 0x42, got 0x%02X", second)
	}
	p.Write(0x2006, 0x3F)
	p.Write(0x2006, 0x00)
	p.Write(0x2007, 0x2A)
	p.Write(0x2006, 0x3F)
	p.Write(0x2006, 0x00)
	if pal := p.Read(0x2007); pal != 0x2A {
		t.Fatalf("expected unbuffered palette byte 0x2A on first read, got 0x%02X", pal)
	}
}

func TestOAMDATAWriteAdvancesAddrAndWraps(t *testing.T) {
	p := New(&fakeMapper{})
	p.Write(0x2003, 0xFF)
	p.Write(0x2004, 0x55)
	if p.oamAddr != 0x00 {
		t.Fatalf("expected OAMADDR to wrap to 0 after writing at 0xFF, got 0x%02X", p.oamAddr)
	}
	if p.oam[0xFF] != 0x55 {
		t.Fatal("expected OAM byte 0xFF written")
	}
}

func TestHorizontalMirroringMapsNametables(t *testing.T) {
	p := New(&fakeMapper{mirror: cartridge.MirrorHorizontal})
	if p.mirrorIndex(0x2000) != p.mirrorIndex(0x2400) {
		t.Fatal("expected NT0 and NT1 to share storage under horizontal mirroring")
	}
	if p.mirrorIndex(0x2800) == p.mirrorIndex(0x2000) {
		t.Fatal("expected NT2 to use separate storage from NT0 under horizontal mirroring")
	}
}

func TestVerticalMirroringMapsNametables(t *testing.T) {
	p := New(&fakeMapper{mirror: cartridge.MirrorVertical})
	if p.mirrorIndex(0x2000) != p.mirrorIndex(0x2800) {
		t.Fatal("expected NT0 and NT2 to share storage under vertical mirroring")
	}
}

func TestA12RisingEdgeReportedOnce(t *testing.T) {
	fm := &fakeMapper{}
	p := New(fm)
	p.reportA12(0x0000)
	p.reportA12(0x1000) // rising edge
	p.reportA12(0x1800) // still high, no edge
	if fm.a12Rising != 1 {
		t.Fatalf("expected exactly one rising-edge notification, got %d", fm.a12Rising)
	}
}

func TestFrameReadyFiresOncePerFrame(t *testing.T) {
	fired := 0
	p := New(&fakeMapper{})
	p.FrameReady = func() { fired++ }
	for i := 0; i < dotsPerScanline*scanlinesPerFrame; i++ {
		p.Tick()
	}
	if fired != 1 {
		t.Fatalf("expected exactly one FrameReady callback per 341x262 frame, got %d", fired)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	p := New(&fakeMapper{})
	p.Write(0x2000, 0x80)
	p.Write(0x2006, 0x21)
	p.Write(0x2006, 0x08)
	snap := p.Snapshot()

	p.Write(0x2000, 0x00)
	p.Restore(snap)

	if p.ctrl != 0x80 || p.v != 0x2108 {
		t.Fatalf("restore did not recover register state: ctrl=0x%02X v=0x%04X", p.ctrl, p.v)
	}
}
