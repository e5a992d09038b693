package bus

import (
	"testing"

	"nescore/internal/input"
)

func minimalNROM() []byte {
	rom := make([]byte, 16+16384+8192)
	copy(rom, []byte("NES\x1A"))
	rom[4] = 1 // 1x16KB PRG
	rom[5] = 1 // 1x8KB CHR
	// Reset vector -> $8000
	rom[16+0x3FFC] = 0x00
	rom[16+0x3FFD] = 0x80
	return rom
}

func TestRAMMirroring(t *testing.T) {
	b := New()
	if _, err := b.InsertCartridge(minimalNROM()); err != nil {
		t.Fatalf("insert cartridge: %v", err)
	}
	b.Write(0x0000, 0x42)
	if v := b.Read(0x0800); v != 0x42 {
		t.Fatalf("expected RAM mirror at $0800 to read 0x42, got %#x", v)
	}
	if v := b.Read(0x1800); v != 0x42 {
		t.Fatalf("expected RAM mirror at $1800 to read 0x42, got %#x", v)
	}
}

func TestOAMDMAStealsCycles(t *testing.T) {
	b := New()
	if _, err := b.InsertCartridge(minimalNROM()); err != nil {
		t.Fatalf("insert cartridge: %v", err)
	}
	b.PowerOn()
	b.Write(0x0200, 0xAB)
	before := b.CPU.Cycles
	b.Write(0x4014, 0x02)
	// No CPU cycles have elapsed since power-on (even), so the stall is 513.
	if got := b.CPU.Snapshot().StallCycles; got != 513 {
		t.Fatalf("expected OAM DMA to stall the CPU for 513 cycles, got %d", got)
	}
	if v := b.PPU.FrameBuffer(); v == nil {
		t.Fatal("unexpected nil framebuffer")
	}
	_ = before
}

func TestControllerStrobeAndRead(t *testing.T) {
	b := New()
	if _, err := b.InsertCartridge(minimalNROM()); err != nil {
		t.Fatalf("insert cartridge: %v", err)
	}
	b.Controller1.ButtonDown(input.ButtonA)
	b.Write(0x4016, 1)
	b.Write(0x4016, 0)
	if v := b.Read(0x4016); v&0x01 != 0x01 {
		t.Fatalf("expected A button bit set, got %#x", v)
	}
}
