package qrcode

import (
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
	"github.com/skip2/go-qrcode/bitset"
	"github.com/skip2/go-qrcode/reedsolomon"
)

// The encoder library refuses empty content, so blank payloads are encoded
// here as a version 1 byte-mode symbol holding zero bytes.

const (
	v1Size       = 21
	v1Codewords  = 26
	byteModeBits = 0b0100
	// emptyMask is the mask applied to blank payloads. Decoders read the mask
	// from the format information, so any of the eight is valid.
	emptyMask = 0
)

type v1Level struct {
	formatBits    uint32 // two-bit error correction indicator
	dataCodewords int
}

var v1Levels = map[goqrcode.RecoveryLevel]v1Level{
	goqrcode.Low:     {formatBits: 0b01, dataCodewords: 19},
	goqrcode.Medium:  {formatBits: 0b00, dataCodewords: 16},
	goqrcode.High:    {formatBits: 0b11, dataCodewords: 13},
	goqrcode.Highest: {formatBits: 0b10, dataCodewords: 9},
}

// version1Symbol builds the 21x21 module matrix (no quiet zone) for payload
// in byte mode with the given mask pattern.
func version1Symbol(payload []byte, level goqrcode.RecoveryLevel, mask int) ([][]bool, error) {
	lv, ok := v1Levels[level]
	if !ok {
		return nil, fmt.Errorf("unknown recovery level %d", level)
	}
	if mask < 0 || mask > 7 {
		return nil, fmt.Errorf("mask %d out of range", mask)
	}

	capacity := lv.dataCodewords * 8
	data := bitset.New()
	data.AppendUint32(byteModeBits, 4)
	data.AppendUint32(uint32(len(payload)), 8)
	data.AppendBytes(payload)
	if data.Len() > capacity {
		return nil, fmt.Errorf("%d bytes do not fit a version 1 symbol", len(payload))
	}
	data.AppendNumBools(min(4, capacity-data.Len()), false)
	if r := data.Len() % 8; r != 0 {
		data.AppendNumBools(8-r, false)
	}
	pad := [2]byte{0xec, 0x11}
	for i := 0; data.Len() < capacity; i++ {
		data.AppendByte(pad[i%2], 8)
	}
	codewords := reedsolomon.Encode(data, v1Codewords-lv.dataCodewords)

	s := newSymbolGrid()
	s.drawFunctionPatterns()
	s.drawCodewords(codewords.Bits())
	s.applyMask(mask)
	s.drawFormat(lv.formatBits<<3 | uint32(mask))
	return s.module, nil
}

type symbolGrid struct {
	module   [][]bool
	reserved [][]bool
}

func newSymbolGrid() *symbolGrid {
	s := &symbolGrid{
		module:   make([][]bool, v1Size),
		reserved: make([][]bool, v1Size),
	}
	for i := range s.module {
		s.module[i] = make([]bool, v1Size)
		s.reserved[i] = make([]bool, v1Size)
	}
	return s
}

func (s *symbolGrid) set(row, col int, dark bool) {
	s.module[row][col] = dark
	s.reserved[row][col] = true
}

func (s *symbolGrid) drawFunctionPatterns() {
	for _, origin := range [][2]int{{0, 0}, {0, v1Size - 7}, {v1Size - 7, 0}} {
		s.drawFinder(origin[0], origin[1])
	}
	for i := 8; i < v1Size-8; i++ {
		s.set(6, i, i%2 == 0)
		s.set(i, 6, i%2 == 0)
	}
	// Format areas are reserved now and written after masking.
	for i := 0; i <= 8; i++ {
		s.reserved[8][i] = true
		s.reserved[i][8] = true
	}
	for i := v1Size - 8; i < v1Size; i++ {
		s.reserved[8][i] = true
		s.reserved[i][8] = true
	}
	s.set(v1Size-8, 8, true)
}

// drawFinder draws a finder pattern and its light separator.
func (s *symbolGrid) drawFinder(top, left int) {
	for dr := -1; dr <= 7; dr++ {
		for dc := -1; dc <= 7; dc++ {
			r, c := top+dr, left+dc
			if r < 0 || r >= v1Size || c < 0 || c >= v1Size {
				continue
			}
			ring := dr == 0 || dr == 6 || dc == 0 || dc == 6
			inRange := dr >= 0 && dr <= 6 && dc >= 0 && dc <= 6
			core := dr >= 2 && dr <= 4 && dc >= 2 && dc <= 4
			s.set(r, c, inRange && (ring || core))
		}
	}
}

// drawCodewords fills free modules in the two-column zigzag, bottom-right first.
func (s *symbolGrid) drawCodewords(bits []bool) {
	i := 0
	for right := v1Size - 1; right >= 1; right -= 2 {
		if right == 6 {
			right = 5
		}
		upward := (right+1)&2 == 0
		for vert := 0; vert < v1Size; vert++ {
			row := vert
			if upward {
				row = v1Size - 1 - vert
			}
			for j := 0; j < 2; j++ {
				col := right - j
				if s.reserved[row][col] || i >= len(bits) {
					continue
				}
				s.module[row][col] = bits[i]
				i++
			}
		}
	}
}

func (s *symbolGrid) applyMask(mask int) {
	for r := range v1Size {
		for c := range v1Size {
			if !s.reserved[r][c] && maskBit(mask, r, c) {
				s.module[r][c] = !s.module[r][c]
			}
		}
	}
}

func maskBit(mask, r, c int) bool {
	switch mask {
	case 0:
		return (r+c)%2 == 0
	case 1:
		return r%2 == 0
	case 2:
		return c%3 == 0
	case 3:
		return (r+c)%3 == 0
	case 4:
		return (r/2+c/3)%2 == 0
	case 5:
		return (r*c)%2+(r*c)%3 == 0
	case 6:
		return ((r*c)%2+(r*c)%3)%2 == 0
	default:
		return ((r+c)%2+(r*c)%3)%2 == 0
	}
}

// formatInfo returns the 15-bit BCH-protected, masked format word for the
// five data bits (error correction level and mask id).
func formatInfo(data uint32) uint32 {
	rem := data
	for range 10 {
		rem = rem<<1 ^ (rem>>9)*0x537
	}
	return (data<<10 | rem) ^ 0x5412
}

func (s *symbolGrid) drawFormat(data uint32) {
	bits := formatInfo(data)
	bit := func(i int) bool { return bits>>i&1 == 1 }

	// Copy around the top-left finder.
	for i := 0; i <= 5; i++ {
		s.set(i, 8, bit(i))
	}
	s.set(7, 8, bit(6))
	s.set(8, 8, bit(7))
	s.set(8, 7, bit(8))
	for i := 9; i < 15; i++ {
		s.set(8, 14-i, bit(i))
	}
	// Copy split between the top-right and bottom-left finders.
	for i := 0; i < 8; i++ {
		s.set(8, v1Size-1-i, bit(i))
	}
	for i := 8; i < 15; i++ {
		s.set(v1Size-15+i, 8, bit(i))
	}
}
