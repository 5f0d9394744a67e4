// video_chip.go - Intensity grid compositor feeding the video backends

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"sync"
)

// Phosphor palettes, fg over bg, packed 0xRRGGBB.
const (
	PHOSPHOR_WHITE = 0xFFFFFF
	PHOSPHOR_GREEN = 0x33FF33
	PHOSPHOR_AMBER = 0xFFB000
	SCREEN_BLACK   = 0x000000
)

// VideoChip turns the framebuffer's intensity grid into RGBA frames for a
// VideoOutput backend. Each pixel's brightness is the decayed intensity
// scaled into the foreground colour, so the phosphor afterglow is purely a
// presentation effect; the binary grid the engine draws into is untouched.
type VideoChip struct {
	mutex       sync.RWMutex
	output      VideoOutput
	enabled     bool
	scale       int
	fullscreen  bool
	fgColor     uint32
	bgColor     uint32
	frameBuffer []byte
	intensity   []float32
}

func NewVideoChip(backend int) (*VideoChip, error) {
	output, err := NewVideoOutput(backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create video output: %w", err)
	}

	return &VideoChip{
		output:      output,
		scale:       DEFAULT_SCALE,
		fgColor:     PHOSPHOR_WHITE,
		bgColor:     SCREEN_BLACK,
		frameBuffer: make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4),
		intensity:   make([]float32, DISPLAY_WIDTH*DISPLAY_HEIGHT),
	}, nil
}

// Configure sets the output scale and fullscreen preference before Start.
func (chip *VideoChip) Configure(scale int, fullscreen bool) {
	chip.mutex.Lock()
	if scale >= 1 {
		chip.scale = scale
	}
	chip.fullscreen = fullscreen
	chip.mutex.Unlock()
}

// SetColors selects the phosphor tint (fg) and screen colour (bg).
func (chip *VideoChip) SetColors(fg, bg uint32) {
	chip.mutex.Lock()
	chip.fgColor = fg
	chip.bgColor = bg
	chip.mutex.Unlock()
}

func (chip *VideoChip) Output() VideoOutput {
	return chip.output
}

func (chip *VideoChip) Start() error {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()

	chip.enabled = true
	config := DisplayConfig{
		Width:       DISPLAY_WIDTH,
		Height:      DISPLAY_HEIGHT,
		Scale:       chip.scale,
		RefreshRate: FRAME_RATE,
		Fullscreen:  chip.fullscreen,
		VSync:       true,
	}
	if err := chip.output.SetDisplayConfig(config); err != nil {
		return err
	}
	return chip.output.Start()
}

func (chip *VideoChip) Stop() {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()

	chip.enabled = false
	if chip.output != nil {
		if err := chip.output.Stop(); err != nil {
			return
		}
	}
}

// RenderFrame composes the current intensity grid into the RGBA buffer
// and pushes it to the backend. Called once per scheduler frame, after
// the decay pass.
func (chip *VideoChip) RenderFrame(fb *FrameBuffer) error {
	chip.mutex.Lock()
	defer chip.mutex.Unlock()

	if !chip.enabled {
		return nil
	}

	fb.SnapshotIntensity(chip.intensity)

	fr := float32(chip.fgColor >> 16 & 0xFF)
	fg := float32(chip.fgColor >> 8 & 0xFF)
	fbl := float32(chip.fgColor & 0xFF)
	br := float32(chip.bgColor >> 16 & 0xFF)
	bg := float32(chip.bgColor >> 8 & 0xFF)
	bbl := float32(chip.bgColor & 0xFF)

	for i, v := range chip.intensity {
		o := i * 4
		chip.frameBuffer[o] = byte(br + (fr-br)*v)
		chip.frameBuffer[o+1] = byte(bg + (fg-bg)*v)
		chip.frameBuffer[o+2] = byte(bbl + (fbl-bbl)*v)
		chip.frameBuffer[o+3] = 0xFF
	}

	return chip.output.UpdateFrame(chip.frameBuffer)
}
