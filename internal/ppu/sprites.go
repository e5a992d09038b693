package ppu

// evaluateSprites scans primary OAM for sprites visible on the next
// scanline and sets the overflow flag once a 9th in-range sprite is
// found. Real hardware's overflow detection has its own off-by-one bug
// (it keeps advancing the byte index within each OAM entry instead of
// resetting to the Y byte, misreading attribute/X bytes as Y
// coordinates and both false-positive/false-negative the flag); that
// quirk isn't reproduced here.
func (p *PPU) evaluateSprites() {
	spriteHeight := 8
	if p.ctrl&ctrlSpriteSize8x16 != 0 {
		spriteHeight = 16
	}
	targetLine := p.scanline + 1

	p.secondaryLen = 0
	p.spriteZeroOnLine = false
	count := 0
	n := 0
	for n < 64 {
		y := int(p.oam[n*4])
		if targetLine >= y && targetLine < y+spriteHeight {
			if count < 8 {
				base := count * 4
				p.secondaryOAM[base+0] = p.oam[n*4+0]
				p.secondaryOAM[base+1] = p.oam[n*4+1]
				p.secondaryOAM[base+2] = p.oam[n*4+2]
				p.secondaryOAM[base+3] = p.oam[n*4+3]
				if n == 0 {
					p.spriteZeroOnLine = true
				}
				count++
			} else {
				p.status |= statusOverflow
				break
			}
		}
		n++
	}
	p.secondaryLen = count
	p.spriteCount = count
}

// fetchSpritePatterns loads pattern data for each evaluated sprite
// across dots 257-320, the dots real hardware spends doing the same
// fetches; we do it once per scanline rather than dot-by-dot.
func (p *PPU) fetchSpritePatterns() {
	if p.dot != 257 {
		return
	}
	spriteHeight := 8
	if p.ctrl&ctrlSpriteSize8x16 != 0 {
		spriteHeight = 16
	}
	targetLine := p.scanline + 1

	for i := 0; i < p.spriteCount; i++ {
		base := i * 4
		y := p.secondaryOAM[base+0]
		tile := p.secondaryOAM[base+1]
		attr := p.secondaryOAM[base+2]
		x := p.secondaryOAM[base+3]

		row := targetLine - int(y)
		if attr&0x80 != 0 { // flip vertical
			row = spriteHeight - 1 - row
		}

		var patAddr uint16
		if spriteHeight == 16 {
			table := uint16(tile&1) * 0x1000
			tileIdx := uint16(tile &^ 1)
			if row >= 8 {
				tileIdx++
				row -= 8
			}
			patAddr = table | tileIdx<<4 | uint16(row)
		} else {
			table := uint16(0)
			if p.ctrl&ctrlSpritePattern != 0 {
				table = 0x1000
			}
			patAddr = table | uint16(tile)<<4 | uint16(row)
		}

		lo := p.vramReadSprite(patAddr)
		hi := p.vramReadSprite(patAddr | 8)
		if attr&0x40 != 0 { // flip horizontal
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		p.sprites[i] = sprite{
			x: x, y: y, tileLo: lo, tileHi: hi, attr: attr,
			isSprite0: i == 0 && p.spriteZeroOnLine,
		}
	}
	for i := p.spriteCount; i < 8; i++ {
		p.sprites[i] = sprite{}
	}
}

// vramReadSprite performs the same pattern-table read as background
// fetches, reporting A12 edges identically.
func (p *PPU) vramReadSprite(addr uint16) uint8 {
	p.reportA12(addr)
	return p.vramRead(addr)
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}
