package mapper

import (
	"testing"

	"nescore/internal/cartridge"
)

func newTestCart(mapperID uint8, prgSize, chrSize int) *cartridge.Cartridge {
	cart := &cartridge.Cartridge{
		MapperID: mapperID,
		PRGROM:   make([]uint8, prgSize),
		CHRROM:   make([]uint8, chrSize),
	}
	if chrSize == 0 {
		cart.CHRROM = make([]uint8, 8192)
		cart.HasCHRRAM = true
	}
	for i := range cart.PRGROM {
		cart.PRGROM[i] = uint8(i / 0x400)
	}
	return cart
}

func TestNROMMirrorsSingle16KBank(t *testing.T) {
	cart := newTestCart(0, 0x4000, 0x2000)
	m, err := New(cart)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.CPURead(0x8000) != m.CPURead(0xC000) {
		t.Fatal("expected 16 KiB PRG ROM to mirror into both halves of the CPU window")
	}
}

// TestUxROMNonPowerOfTwoBankCount exercises a 48 KiB (3-bank) PRG image,
// the exact shape that exposed the earlier 8 KiB/16 KiB unit mismatch:
// banks16 must be computed in 16 KiB units, not reused from an 8 KiB banker.
func TestUxROMNonPowerOfTwoBankCount(t *testing.T) {
	cart := newTestCart(2, 3*0x4000, 0)
	m, err := New(cart)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.CPUWrite(0x8000, 2)
	if got := m.CPURead(0x8000); got != cart.PRGROM[2*0x4000] {
		t.Fatalf("switched bank mismatch: got %d want %d", got, cart.PRGROM[2*0x4000])
	}
	// Last bank is always fixed at $C000 regardless of the switched bank.
	if got := m.CPURead(0xC000); got != cart.PRGROM[2*0x4000] {
		t.Fatalf("fixed last bank mismatch: got %d want %d", got, cart.PRGROM[2*0x4000])
	}
	m.CPUWrite(0x8000, 0)
	if got := m.CPURead(0x8000); got != cart.PRGROM[0] {
		t.Fatalf("bank 0 mismatch: got %d want %d", got, cart.PRGROM[0])
	}
}

func TestCNROMSwitchesCHRBank(t *testing.T) {
	cart := newTestCart(3, 0x4000, 2*0x2000)
	for i := range cart.CHRROM {
		cart.CHRROM[i] = uint8(i / 0x400)
	}
	m, err := New(cart)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.CPUWrite(0x8000, 1)
	if got := m.PPURead(0x0000); got != cart.CHRROM[0x2000] {
		t.Fatalf("CHR bank 1 mismatch: got %d want %d", got, cart.CHRROM[0x2000])
	}
}

func TestMMC1PRGModeSwitchFixesLastBank(t *testing.T) {
	cart := newTestCart(1, 4*0x4000, 0)
	m, err := New(cart)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mm := m.(*mmc1)
	writeMMC1 := func(addr uint16, v uint8) {
		for i := 0; i < 5; i++ {
			m.CPUWrite(addr, (v>>uint(i))&1)
		}
	}
	// control = 0x0C: PRG mode 3 (fix last bank at $C000, switch $8000).
	writeMMC1(0x8000, 0x0C)
	writeMMC1(0xE000, 0x01) // select PRG bank 1 at $8000
	if got, want := m.CPURead(0x8000), cart.PRGROM[1*0x4000]; got != want {
		t.Fatalf("switched bank mismatch: got %d want %d", got, want)
	}
	if got, want := m.CPURead(0xC000), cart.PRGROM[(mm.prgBankCount16K()-1)*0x4000]; got != want {
		t.Fatalf("fixed last bank mismatch: got %d want %d", got, want)
	}
}

func TestMMC3IRQFiresAfterReloadAndDecrement(t *testing.T) {
	cart := newTestCart(4, 4*0x2000, 4*0x0400)
	m, err := New(cart)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	src := m.(IRQSource)
	m.CPUWrite(0xC000, 2) // IRQ latch = 2
	m.CPUWrite(0xC001, 0) // force reload on next clock
	m.CPUWrite(0xE001, 0) // enable IRQ

	m.(*mmc3).OnA12Rising() // reload: counter = 2
	if src.IRQPending() {
		t.Fatal("IRQ should not be pending immediately after reload to a nonzero latch")
	}
	m.(*mmc3).OnA12Rising() // counter = 1
	m.(*mmc3).OnA12Rising() // counter = 0, IRQ should assert
	if !src.IRQPending() {
		t.Fatal("expected IRQ pending once the counter reaches zero")
	}
}

func TestMapperSnapshotRestoreRoundTrip(t *testing.T) {
	cart := newTestCart(2, 3*0x4000, 0)
	m, err := New(cart)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.CPUWrite(0x8000, 2)
	snap := m.Snapshot()
	m.CPUWrite(0x8000, 0)
	if m.CPURead(0x8000) == cart.PRGROM[2*0x4000] {
		t.Fatal("precondition failed: bank should have changed")
	}
	m.Restore(snap)
	if got := m.CPURead(0x8000); got != cart.PRGROM[2*0x4000] {
		t.Fatalf("restore did not recover switched bank: got %d want %d", got, cart.PRGROM[2*0x4000])
	}
}
