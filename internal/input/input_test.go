package input

import "testing"

func TestControllerStrobeLatchesAndShiftsOut(t *testing.T) {
	var c Controller
	c.ButtonDown(ButtonA)
	c.ButtonDown(ButtonStart)

	c.Strobe(true)
	c.Strobe(false)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d: got %d want %d", i, got, w)
		}
	}
	// Ninth and later reads return 1.
	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Fatalf("post-8th read %d: got %d want 1", i, got)
		}
	}
}

func TestControllerOpposingDirectionsMutuallyExclusive(t *testing.T) {
	var c Controller
	c.ButtonDown(ButtonLeft)
	c.ButtonDown(ButtonRight)
	c.Strobe(true)
	c.Strobe(false)
	for i := 0; i < int(ButtonLeft); i++ {
		c.Read()
	}
	if got := c.Read(); got != 0 {
		t.Fatal("ButtonLeft should have been cleared when ButtonRight was pressed")
	}
	if got := c.Read(); got != 1 {
		t.Fatal("ButtonRight should remain set")
	}
}

func TestControllerStrobeHighContinuouslyLatches(t *testing.T) {
	var c Controller
	c.Strobe(true)
	if got := c.Read(); got != 0 {
		t.Fatal("expected bit A clear before press")
	}
	c.ButtonDown(ButtonA)
	if got := c.Read(); got != 1 {
		t.Fatal("expected live bit A while strobe is held high")
	}
}

func TestControllerSnapshotRestoreRoundTrip(t *testing.T) {
	var c Controller
	c.ButtonDown(ButtonB)
	c.Strobe(true)
	c.Strobe(false)
	c.Read()
	snap := c.Snapshot()

	var restored Controller
	restored.Restore(snap)
	if restored != c {
		t.Fatalf("restored controller %+v does not match snapshot source %+v", restored, c)
	}
}

func TestZapperTriggerAndLightBits(t *testing.T) {
	z := NewZapper()
	z.Enabled = true
	z.SetSampler(func(x, y int) uint32 { return 0 }) // all dark

	z.Aim(10, 10, false)
	v := z.Read()
	if v&0x10 == 0 {
		t.Fatal("expected bit 4 set when trigger not pulled")
	}
	if v&0x08 == 0 {
		t.Fatal("expected bit 3 set over a dark pixel")
	}

	z.Aim(10, 10, true)
	v = z.Read()
	if v&0x10 != 0 {
		t.Fatal("expected bit 4 clear while triggered")
	}
}

func TestZapperBrightPixelClearsLightBit(t *testing.T) {
	z := NewZapper()
	z.Enabled = true
	z.SetSampler(func(x, y int) uint32 { return 0x00FFFFFF })
	z.Aim(5, 5, false)
	if v := z.Read(); v&0x08 != 0 {
		t.Fatal("expected bit 3 clear over a bright pixel")
	}
}

func TestZapperDisabledNeverReportsLight(t *testing.T) {
	z := NewZapper()
	z.SetSampler(func(x, y int) uint32 { return 0x00FFFFFF })
	z.Aim(5, 5, false)
	if v := z.Read(); v&0x08 == 0 {
		t.Fatal("a disabled Zapper should never report a lit pixel")
	}
}
