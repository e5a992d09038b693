// Package main implements the nescore NES emulator executable: an
// ebiten-backed frontend over the internal/nes console package.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nescore/internal/input"
	"nescore/internal/nes"
)

const sampleRate = 44100

func main() {
	var (
		romFile  = flag.String("rom", "", "Path to NES ROM file")
		nogui    = flag.Bool("nogui", false, "Run headless for a fixed number of frames")
		frames   = flag.Int("frames", 120, "Frame count for -nogui mode")
		scale    = flag.Int("scale", 3, "Window scale factor")
		zapper   = flag.Bool("zapper", false, "Enable the light gun on controller port 2")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}
	if *romFile == "" {
		printUsage()
		log.Fatal("a ROM file is required (-rom)")
	}

	romData, err := os.ReadFile(*romFile)
	if err != nil {
		log.Fatalf("failed to read ROM: %v", err)
	}

	console := nes.New()
	if err := console.InsertCartridge(romData); err != nil {
		log.Fatalf("failed to load cartridge: %v", err)
	}
	console.EnableZapper(*zapper)

	if *nogui {
		runHeadless(console, *frames)
		return
	}

	game := newGame(console)
	ebiten.SetWindowSize(256*(*scale), 240*(*scale))
	ebiten.SetWindowTitle(fmt.Sprintf("nescore - %s", *romFile))
	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("emulation stopped: %v", err)
	}
}

// runHeadless advances the console a fixed number of frames without a
// window; useful for smoke-testing mapper/timing changes against a ROM.
func runHeadless(console *nes.Console, frameCount int) {
	for i := 0; i < frameCount; i++ {
		console.RunFrame()
	}
	fb := console.FrameBuffer()
	nonBlack := 0
	for _, px := range fb {
		if px&0x00FFFFFF != 0 {
			nonBlack++
		}
	}
	fmt.Printf("ran %d frames, %d/%d pixels non-black\n", frameCount, nonBlack, len(fb))
}

// keyBindings maps keyboard keys to controller-1 buttons.
var keyBindings = map[ebiten.Key]input.Button{
	ebiten.KeyZ:         input.ButtonA,
	ebiten.KeyX:         input.ButtonB,
	ebiten.KeyBackslash: input.ButtonSelect,
	ebiten.KeyEnter:     input.ButtonStart,
	ebiten.KeyUp:        input.ButtonUp,
	ebiten.KeyDown:      input.ButtonDown,
	ebiten.KeyLeft:      input.ButtonLeft,
	ebiten.KeyRight:     input.ButtonRight,
}

// game implements ebiten.Game over a console.
type game struct {
	console *nes.Console
	player  *audio.Player
	frame   *ebiten.Image
}

func newGame(console *nes.Console) *game {
	g := &game{console: console, frame: ebiten.NewImage(256, 240)}
	audioCtx := audio.NewContext(sampleRate)
	stream := &sampleStream{console: console}
	player, err := audioCtx.NewPlayer(stream)
	if err == nil {
		player.SetBufferSize(0)
		player.Play()
		g.player = player
	}
	return g
}

func (g *game) Update() error {
	for key, button := range keyBindings {
		if ebiten.IsKeyPressed(key) {
			g.console.ButtonDown(0, button)
		} else {
			g.console.ButtonUp(0, button)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		// Reserved for save-state hotkeys; frontends that want
		// persistence wire Console.Snapshot/Restore here.
	}

	mx, my := ebiten.CursorPosition()
	g.console.AimZapper(mx, my, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	g.console.RunFrame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.console.FrameBuffer()
	pix := make([]byte, len(fb)*4)
	for i, c := range fb {
		pix[i*4+0] = byte(c >> 16)
		pix[i*4+1] = byte(c >> 8)
		pix[i*4+2] = byte(c)
		pix[i*4+3] = 0xFF
	}
	g.frame.WritePixels(pix)

	op := &ebiten.DrawImageOptions{}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op.GeoM.Scale(float64(sw)/256, float64(sh)/240)
	screen.DrawImage(g.frame, op)

	ebitenutil.DebugPrint(screen, "")
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 256, 240
}

// sampleStream adapts the console's float32 PCM samples to the
// io.Reader-based audio.Player source as signed 16-bit stereo PCM.
type sampleStream struct {
	console  *nes.Console
	leftover []byte
}

func (s *sampleStream) Read(p []byte) (int, error) {
	if len(s.leftover) == 0 {
		samples := s.console.AudioSamples()
		s.leftover = make([]byte, 0, len(samples)*4)
		for _, f := range samples {
			v := int16(f * 32767)
			s.leftover = append(s.leftover, byte(v), byte(v>>8), byte(v), byte(v>>8))
		}
	}
	n := copy(p, s.leftover)
	s.leftover = s.leftover[n:]
	return n, nil
}

func printUsage() {
	fmt.Println("nescore - a cycle-accurate NES emulator core")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  nes -rom <file> [options]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("CONTROLS:")
	fmt.Println("  Arrow Keys  - D-Pad")
	fmt.Println("  Z / X       - A / B")
	fmt.Println("  Enter       - Start")
	fmt.Println("  \\           - Select")
}
