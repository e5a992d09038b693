package nes

import "testing"

func minimalNROM() []byte {
	rom := make([]byte, 16+16384+8192)
	copy(rom, []byte("NES\x1A"))
	rom[4] = 1
	rom[5] = 1
	rom[16+0x3FFC] = 0x00
	rom[16+0x3FFD] = 0x80
	return rom
}

func TestInsertCartridgePowersOn(t *testing.T) {
	c := New()
	if err := c.InsertCartridge(minimalNROM()); err != nil {
		t.Fatalf("insert cartridge: %v", err)
	}
	if c.CartridgeCRC32() == 0 {
		t.Fatal("expected nonzero CRC32 after insert")
	}
}

func TestRunFrameProducesFramebuffer(t *testing.T) {
	c := New()
	if err := c.InsertCartridge(minimalNROM()); err != nil {
		t.Fatalf("insert cartridge: %v", err)
	}
	c.RunFrame()
	fb := c.FrameBuffer()
	if len(fb) != 256*240 {
		t.Fatalf("expected 256x240 framebuffer, got %d pixels", len(fb))
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c := New()
	if err := c.InsertCartridge(minimalNROM()); err != nil {
		t.Fatalf("insert cartridge: %v", err)
	}
	c.RunFrame()
	snap := c.Snapshot()
	c.RunFrame()
	if err := c.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if c.Snapshot().CPU != snap.CPU {
		t.Fatal("CPU state did not round-trip through snapshot/restore")
	}
}

func TestRestoreRejectsMismatchedCartridge(t *testing.T) {
	c := New()
	if err := c.InsertCartridge(minimalNROM()); err != nil {
		t.Fatalf("insert cartridge: %v", err)
	}
	snap := c.Snapshot()
	snap.CartridgeCRC32 ^= 0xFFFFFFFF
	if err := c.Restore(snap); err != ErrCartridgeMismatch {
		t.Fatalf("expected ErrCartridgeMismatch, got %v", err)
	}
}
