// framebuffer.go - 64x32 XOR framebuffer with phosphor-decay intensity model

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import "sync"

// FrameBuffer holds the binary pixel grid, mutated only by the draw
// instruction and 00E0, and a parallel intensity grid advanced once per
// rendered frame. A lit pixel snaps to full intensity; an unlit pixel
// keeps a fraction of its previous intensity, so the erase half of a
// sprite's erase-and-redraw cycle fades instead of blinking.
type FrameBuffer struct {
	mutex       sync.RWMutex
	pixels      [DISPLAY_WIDTH * DISPLAY_HEIGHT]byte
	intensity   [DISPLAY_WIDTH * DISPLAY_HEIGHT]float32
	decayFactor float32
	frameCount  uint64
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		decayFactor: DEFAULT_DECAY_FACTOR,
	}
}

// Clear zeroes the binary grid (00E0). The intensity grid is left to the
// next AdvanceFrame so cleared pixels fade out rather than vanish.
func (fb *FrameBuffer) Clear() {
	fb.mutex.Lock()
	for i := range fb.pixels {
		fb.pixels[i] = 0
	}
	fb.mutex.Unlock()
}

// DrawSprite XORs an N-byte sprite into the binary grid at (x, y), with
// wraparound on both axes. Returns true if any previously-set pixel was
// unset, the collision signal the engine routes into VF.
func (fb *FrameBuffer) DrawSprite(sprite []byte, x, y byte) bool {
	fb.mutex.Lock()
	defer fb.mutex.Unlock()

	collision := false
	for dy, row := range sprite {
		py := (int(y) + dy) % DISPLAY_HEIGHT
		for dx := 0; dx < SPRITE_WIDTH; dx++ {
			bit := row >> (SPRITE_WIDTH - 1 - dx) & 1
			if bit == 0 {
				continue
			}
			px := (int(x) + dx) % DISPLAY_WIDTH
			idx := py*DISPLAY_WIDTH + px
			if fb.pixels[idx] == 1 {
				collision = true
			}
			fb.pixels[idx] ^= 1
		}
	}
	return collision
}

// AdvanceFrame runs one decay step: on-pixels snap to 1.0, off-pixels
// keep decayFactor of their previous intensity. The update is incremental
// on purpose; the grid is never re-derived from pixel history.
func (fb *FrameBuffer) AdvanceFrame() {
	fb.mutex.Lock()
	for i, p := range fb.pixels {
		if p != 0 {
			fb.intensity[i] = 1.0
		} else {
			fb.intensity[i] *= fb.decayFactor
		}
	}
	fb.frameCount++
	fb.mutex.Unlock()
}

// SetDecayFactor adjusts the per-frame attenuation at runtime without
// disturbing the current intensity state. Values are clamped to
// [0, MAX_DECAY_FACTOR]; zero degenerates to the undecayed binary display.
func (fb *FrameBuffer) SetDecayFactor(d float64) {
	switch {
	case d < 0:
		d = 0
	case d > MAX_DECAY_FACTOR:
		d = MAX_DECAY_FACTOR
	}
	fb.mutex.Lock()
	fb.decayFactor = float32(d)
	fb.mutex.Unlock()
}

func (fb *FrameBuffer) DecayFactor() float64 {
	fb.mutex.RLock()
	defer fb.mutex.RUnlock()
	return float64(fb.decayFactor)
}

// Pixel reports the binary state of (x, y).
func (fb *FrameBuffer) Pixel(x, y int) bool {
	fb.mutex.RLock()
	defer fb.mutex.RUnlock()
	return fb.pixels[y*DISPLAY_WIDTH+x] != 0
}

// IntensityAt reports the decayed intensity of (x, y) in [0, 1].
func (fb *FrameBuffer) IntensityAt(x, y int) float32 {
	fb.mutex.RLock()
	defer fb.mutex.RUnlock()
	return fb.intensity[y*DISPLAY_WIDTH+x]
}

// SnapshotIntensity copies the intensity grid into dst, which must hold
// DISPLAY_WIDTH*DISPLAY_HEIGHT values. This is the renderer-facing output.
func (fb *FrameBuffer) SnapshotIntensity(dst []float32) {
	fb.mutex.RLock()
	copy(dst, fb.intensity[:])
	fb.mutex.RUnlock()
}

func (fb *FrameBuffer) FrameCount() uint64 {
	fb.mutex.RLock()
	defer fb.mutex.RUnlock()
	return fb.frameCount
}
