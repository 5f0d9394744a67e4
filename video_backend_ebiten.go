//go:build !headless

// video_backend_ebiten.go - Ebiten video backend: window, keypad and control keys

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// ebitenKeypadMap carries the keypadLayout block onto ebiten key codes.
var ebitenKeypadMap = map[ebiten.Key]byte{
	ebiten.Key1: 0x1, ebiten.Key2: 0x2, ebiten.Key3: 0x3, ebiten.Key4: 0xC,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}

type EbitenOutput struct {
	running     bool
	window      *ebiten.Image
	width       int
	height      int
	scale       int
	fullscreen  bool
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  uint64
	refreshRate int

	keypad         *Keypad
	resetHandler   func()
	pauseHandler   func()
	stepHandler    func()
	quitHandler    func()
	statusProvider func() string
	showStatusBar  bool

	resetInProgress atomic.Bool
}

func NewEbitenOutput() (VideoOutput, error) {
	return &EbitenOutput{
		width:         DISPLAY_WIDTH,
		height:        DISPLAY_HEIGHT,
		scale:         DEFAULT_SCALE,
		frameBuffer:   make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4),
		refreshRate:   FRAME_RATE,
		showStatusBar: true,
	}, nil
}

func (eo *EbitenOutput) Start() error {
	if eo.running {
		return nil
	}
	eo.running = true
	ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
	ebiten.SetWindowTitle("Phosphor-8 (c) 2024 - 2026 Zayn Otley")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if eo.fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		defer func() { eo.running = false }()
		if err := ebiten.RunGame(eo); err != nil {
			if err != ebiten.Termination {
				fmt.Printf("Ebiten error: %v\n", err)
			}
		}
	}()
	return nil
}

func (eo *EbitenOutput) Stop() error {
	eo.running = false
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

func (eo *EbitenOutput) IsStarted() bool {
	return eo.running
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()

	if config.Width > 0 {
		eo.width = config.Width
	}
	if config.Height > 0 {
		eo.height = config.Height
	}
	if config.Scale >= 1 {
		eo.scale = config.Scale
	}
	eo.fullscreen = config.Fullscreen
	if config.RefreshRate > 0 {
		eo.refreshRate = config.RefreshRate
	}

	newSize := eo.width * eo.height * 4
	if len(eo.frameBuffer) != newSize {
		eo.frameBuffer = make([]byte, newSize)
	}
	if eo.window != nil {
		eo.window.Dispose()
		eo.window = nil
	}
	return nil
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Width:       eo.width,
		Height:      eo.height,
		Scale:       eo.scale,
		RefreshRate: eo.refreshRate,
		Fullscreen:  eo.fullscreen,
		VSync:       true,
	}
}

func (eo *EbitenOutput) UpdateFrame(data []byte) error {
	eo.bufferMutex.Lock()
	copy(eo.frameBuffer, data)
	eo.bufferMutex.Unlock()
	return nil
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&eo.frameCount)
}

func (eo *EbitenOutput) GetRefreshRate() int {
	return eo.refreshRate
}

func (eo *EbitenOutput) AttachKeypad(keypad *Keypad) {
	eo.bufferMutex.Lock()
	eo.keypad = keypad
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) SetResetHandler(fn func()) {
	eo.bufferMutex.Lock()
	eo.resetHandler = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) SetPauseHandler(fn func()) {
	eo.bufferMutex.Lock()
	eo.pauseHandler = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) SetStepHandler(fn func()) {
	eo.bufferMutex.Lock()
	eo.stepHandler = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) SetQuitHandler(fn func()) {
	eo.bufferMutex.Lock()
	eo.quitHandler = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) SetStatusProvider(fn func() string) {
	eo.bufferMutex.Lock()
	eo.statusProvider = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		eo.bufferMutex.RLock()
		quit := eo.quitHandler
		eo.bufferMutex.RUnlock()
		if quit != nil {
			quit()
		}
		return ebiten.Termination
	}
	if !eo.running {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.bufferMutex.Lock()
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
		}
		eo.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		eo.bufferMutex.Lock()
		eo.showStatusBar = !eo.showStatusBar
		eo.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		if eo.resetInProgress.CompareAndSwap(false, true) {
			eo.bufferMutex.RLock()
			handler := eo.resetHandler
			eo.bufferMutex.RUnlock()
			if handler != nil {
				go func() {
					defer eo.resetInProgress.Store(false)
					handler()
				}()
			} else {
				eo.resetInProgress.Store(false)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		eo.bufferMutex.RLock()
		handler := eo.pauseHandler
		eo.bufferMutex.RUnlock()
		if handler != nil {
			handler()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF8) {
		eo.bufferMutex.RLock()
		handler := eo.stepHandler
		eo.bufferMutex.RUnlock()
		if handler != nil {
			handler()
		}
	}

	eo.pollKeypad()
	return nil
}

func (eo *EbitenOutput) pollKeypad() {
	eo.bufferMutex.RLock()
	keypad := eo.keypad
	eo.bufferMutex.RUnlock()
	if keypad == nil {
		return
	}
	for key, index := range ebitenKeypadMap {
		keypad.Set(index, ebiten.IsKeyPressed(key))
	}
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	if eo.window == nil {
		eo.window = ebiten.NewImage(eo.width, eo.height)
	}

	eo.bufferMutex.RLock()
	eo.window.WritePixels(eo.frameBuffer)
	showStatusBar := eo.showStatusBar
	statusProvider := eo.statusProvider
	scale := eo.scale
	eo.bufferMutex.RUnlock()

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(eo.window, opts)

	if showStatusBar && statusProvider != nil {
		eo.drawStatusBar(screen, statusProvider())
	}

	atomic.AddUint64(&eo.frameCount, 1)
}

func (eo *EbitenOutput) drawStatusBar(screen *ebiten.Image, status string) {
	barHeight := 16
	h := eo.height * eo.scale
	w := eo.width * eo.scale
	if barHeight >= h {
		return
	}
	y := h - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(w), float64(barHeight), color.RGBA{0, 0, 0, 180})

	face := basicfont.Face7x13
	text.Draw(screen, status, face, 6, y+12, color.RGBA{190, 190, 190, 255})

	legend := "F8 Step  F9 Pause  F10 Reset  F11 Fullscreen  F12 Status"
	legendW := text.BoundString(face, legend).Dx()
	legendX := w - legendW - 6
	if legendX < 6 {
		legendX = 6
	}
	text.Draw(screen, legend, face, legendX, y+12, color.RGBA{120, 120, 120, 255})
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return eo.width * eo.scale, eo.height * eo.scale
}
