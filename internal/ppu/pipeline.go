package ppu

// Tick advances the PPU by one dot (one PPU cycle); the orchestrator
// calls this three times per CPU cycle on NTSC hardware.
func (p *PPU) Tick() {
	renderingEnabled := p.mask&(maskShowBG|maskShowSprites) != 0

	if p.scanlineNotifier != nil && p.scanline != p.notifiedScanline &&
		(p.scanline == preRenderScanline || p.scanline < postRenderScanline) {
		p.scanlineNotifier.NotifyScanline(p.scanline == preRenderScanline)
		p.notifiedScanline = p.scanline
	}

	if p.scanline == preRenderScanline {
		p.preRenderTick(renderingEnabled)
	} else if p.scanline < postRenderScanline {
		p.visibleTick(renderingEnabled)
	} else if p.scanline == vblankStartScanline && p.dot == 1 {
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 {
			p.setNMI(true)
		}
	}

	p.advanceDot()
}

func (p *PPU) advanceDot() {
	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > preRenderScanline {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
			if p.FrameReady != nil {
				p.FrameReady()
			}
		}
		// NTSC skips the idle dot 0 of the first visible scanline on
		// odd frames when rendering is on.
		if p.scanline == 0 && p.oddFrame && p.mask&(maskShowBG|maskShowSprites) != 0 {
			p.dot = 1
		}
	}
}

func (p *PPU) preRenderTick(renderingEnabled bool) {
	if p.dot == 1 {
		p.status &^= statusVBlank | statusSprite0 | statusOverflow
		p.setNMI(false)
	}
	if renderingEnabled {
		p.backgroundFetchCycle()
		if p.dot == 257 {
			p.copyHorizontal()
		}
		if p.dot >= 280 && p.dot <= 304 {
			p.copyVertical()
		}
		if p.dot == 256 {
			p.incrementY()
		}
	}
}

func (p *PPU) visibleTick(renderingEnabled bool) {
	if p.dot >= 1 && p.dot <= 256 {
		if renderingEnabled {
			p.renderPixel()
		}
	}
	if renderingEnabled {
		p.backgroundFetchCycle()
		switch {
		case p.dot == 256:
			p.incrementY()
		case p.dot == 257:
			p.copyHorizontal()
			p.evaluateSprites()
			p.fetchSpritePatterns()
		case p.dot >= 257 && p.dot <= 320:
			p.fetchSpritePatterns()
		}
	}
}

// backgroundFetchCycle performs the 8-dot nametable/attribute/pattern
// fetch sequence across dots 1-256 and 321-336, shifting the background
// shift registers on every dot.
func (p *PPU) backgroundFetchCycle() {
	inFetchWindow := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	if inFetchWindow {
		p.shiftBackground()
		switch p.dot % 8 {
		case 1:
			p.reloadShifters()
			p.ntByte = p.vramRead(0x2000 | (p.v & 0x0FFF))
		case 3:
			p.atByte = p.fetchAttribute()
		case 5:
			p.patLo = p.fetchPattern(false)
		case 7:
			p.patHi = p.fetchPattern(true)
		case 0:
			if p.dot != 256 {
				p.incrementX()
			}
		}
	}
	if p.dot == 256 {
		// incrementY handled by caller
	}
	if p.dot == 337 || p.dot == 339 {
		// Two redundant nametable fetches close out the scanline; real
		// hardware performs them for MMC5-style latch behavior.
		p.vramRead(0x2000 | (p.v & 0x0FFF))
	}
}

func (p *PPU) fetchAttribute() uint8 {
	addr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
	b := p.vramRead(addr)
	shift := ((p.v >> 4) & 4) | (p.v & 2)
	return (b >> shift) & 0x03
}

func (p *PPU) fetchPattern(high bool) uint8 {
	fineY := (p.v >> 12) & 0x07
	base := uint16(0)
	if p.ctrl&ctrlBGPattern != 0 {
		base = 0x1000
	}
	addr := base | uint16(p.ntByte)<<4 | fineY
	if high {
		addr |= 8
	}
	p.reportA12(addr)
	return p.vramRead(addr)
}

// reportA12 tracks PPU address bit 12 and notifies the mapper on every
// low-to-high transition observed during a pattern fetch.
func (p *PPU) reportA12(addr uint16) {
	bit := addr&0x1000 != 0
	if bit && !p.prevA12 {
		p.mapper.OnA12Rising()
	}
	p.prevA12 = bit
}

func (p *PPU) reloadShifters() {
	p.bgShiftPatLo = (p.bgShiftPatLo &^ 0x00FF) | uint16(p.patLo)
	p.bgShiftPatHi = (p.bgShiftPatHi &^ 0x00FF) | uint16(p.patHi)
	var lo, hi uint16
	if p.atByte&0x01 != 0 {
		lo = 0xFF
	}
	if p.atByte&0x02 != 0 {
		hi = 0xFF
	}
	p.bgShiftAttrLo = (p.bgShiftAttrLo &^ 0x00FF) | lo
	p.bgShiftAttrHi = (p.bgShiftAttrHi &^ 0x00FF) | hi
}

func (p *PPU) shiftBackground() {
	p.bgShiftPatLo <<= 1
	p.bgShiftPatHi <<= 1
	p.bgShiftAttrLo <<= 1
	p.bgShiftAttrHi <<= 1
}

func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyHorizontal() {
	p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
}

func (p *PPU) copyVertical() {
	p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0)
}
