// video_backend_terminal.go - ANSI terminal video backend with raw-mode keypad input

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

const (
	// Terminals only report key-down, so a pressed key is released after
	// this long without a repeat byte. Long enough to bridge the typical
	// autorepeat gap, short enough that taps still feel like taps.
	terminalKeyHold = 150 * time.Millisecond
)

// TerminalOutput renders the intensity grid into the terminal using
// half-block glyphs (two display rows per text line) with 24-bit colour,
// and reads the keypad from raw-mode stdin.
type TerminalOutput struct {
	mutex       sync.Mutex
	started     bool
	config      DisplayConfig
	frameBuffer []byte
	frameCount  uint64

	keypad       *Keypad
	pauseHandler func()
	stepHandler  func()
	quitHandler  func()
	pressedAt    map[byte]time.Time

	oldTermState *term.State
	stopCh       chan struct{}
	stopOnce     sync.Once
}

func NewTerminalOutput() (VideoOutput, error) {
	return &TerminalOutput{
		frameBuffer: make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4),
		pressedAt:   make(map[byte]time.Time),
		stopCh:      make(chan struct{}),
	}, nil
}

func (to *TerminalOutput) Start() error {
	to.mutex.Lock()
	defer to.mutex.Unlock()
	if to.started {
		return nil
	}
	to.started = true

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		// Raw mode disables echo and line buffering so keypad bytes
		// arrive as they are typed.
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return &VideoError{Operation: "terminal start", Details: "failed to set raw mode", Err: err}
		}
		to.oldTermState = oldState
		go to.readLoop()
	}

	// Hide cursor, clear screen.
	fmt.Print("\x1b[?25l\x1b[2J")
	return nil
}

func (to *TerminalOutput) readLoop() {
	buf := make([]byte, 1)
	for {
		select {
		case <-to.stopCh:
			return
		default:
		}
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return
		}
		to.handleInputByte(buf[0])
	}
}

func (to *TerminalOutput) handleInputByte(b byte) {
	switch b {
	case 0x1B, 0x03: // ESC or Ctrl-C
		to.mutex.Lock()
		quit := to.quitHandler
		to.mutex.Unlock()
		if quit != nil {
			quit()
		}
		return
	case 'p':
		to.mutex.Lock()
		pause := to.pauseHandler
		to.mutex.Unlock()
		if pause != nil {
			pause()
		}
		return
	case '.':
		to.mutex.Lock()
		step := to.stepHandler
		to.mutex.Unlock()
		if step != nil {
			step()
		}
		return
	}

	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keypadLayout[rune(b)]
	if !ok {
		return
	}

	to.mutex.Lock()
	keypad := to.keypad
	to.pressedAt[key] = time.Now()
	to.mutex.Unlock()
	if keypad != nil {
		keypad.Set(key, true)
	}
}

// releaseStaleKeys synthesises key-up events the terminal cannot report.
func (to *TerminalOutput) releaseStaleKeys() {
	now := time.Now()
	to.mutex.Lock()
	keypad := to.keypad
	var stale []byte
	for key, at := range to.pressedAt {
		if now.Sub(at) > terminalKeyHold {
			stale = append(stale, key)
			delete(to.pressedAt, key)
		}
	}
	to.mutex.Unlock()
	if keypad == nil {
		return
	}
	for _, key := range stale {
		keypad.Set(key, false)
	}
}

func (to *TerminalOutput) Stop() error {
	to.mutex.Lock()
	defer to.mutex.Unlock()
	if !to.started {
		return nil
	}
	to.started = false
	to.stopOnce.Do(func() { close(to.stopCh) })

	if to.oldTermState != nil {
		_ = term.Restore(int(os.Stdin.Fd()), to.oldTermState)
		to.oldTermState = nil
	}
	// Show cursor, reset colours, move below the image.
	fmt.Print("\x1b[0m\x1b[?25h\n")
	return nil
}

func (to *TerminalOutput) Close() error {
	return to.Stop()
}

func (to *TerminalOutput) IsStarted() bool {
	to.mutex.Lock()
	defer to.mutex.Unlock()
	return to.started
}

func (to *TerminalOutput) SetDisplayConfig(config DisplayConfig) error {
	to.mutex.Lock()
	to.config = config
	to.mutex.Unlock()
	return nil
}

func (to *TerminalOutput) GetDisplayConfig() DisplayConfig {
	to.mutex.Lock()
	defer to.mutex.Unlock()
	return to.config
}

// UpdateFrame repaints the whole image. Two vertically adjacent pixels
// share one cell: the upper maps to the foreground of '▀', the lower to
// the background.
func (to *TerminalOutput) UpdateFrame(buffer []byte) error {
	to.mutex.Lock()
	if !to.started {
		to.mutex.Unlock()
		return nil
	}
	copy(to.frameBuffer, buffer)
	to.mutex.Unlock()

	to.releaseStaleKeys()

	var out bytes.Buffer
	out.WriteString("\x1b[H")
	for y := 0; y < DISPLAY_HEIGHT; y += 2 {
		for x := 0; x < DISPLAY_WIDTH; x++ {
			top := (y*DISPLAY_WIDTH + x) * 4
			bot := ((y+1)*DISPLAY_WIDTH + x) * 4
			fmt.Fprintf(&out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				to.frameBuffer[top], to.frameBuffer[top+1], to.frameBuffer[top+2],
				to.frameBuffer[bot], to.frameBuffer[bot+1], to.frameBuffer[bot+2])
		}
		out.WriteString("\x1b[0m\r\n")
	}
	if _, err := os.Stdout.Write(out.Bytes()); err != nil {
		return &VideoError{Operation: "terminal frame", Details: "stdout write failed", Err: err}
	}

	atomic.AddUint64(&to.frameCount, 1)
	return nil
}

func (to *TerminalOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&to.frameCount)
}

func (to *TerminalOutput) GetRefreshRate() int {
	return FRAME_RATE
}

func (to *TerminalOutput) AttachKeypad(keypad *Keypad) {
	to.mutex.Lock()
	to.keypad = keypad
	to.mutex.Unlock()
}

func (to *TerminalOutput) SetResetHandler(func()) {}

func (to *TerminalOutput) SetPauseHandler(fn func()) {
	to.mutex.Lock()
	to.pauseHandler = fn
	to.mutex.Unlock()
}

func (to *TerminalOutput) SetStepHandler(fn func()) {
	to.mutex.Lock()
	to.stepHandler = fn
	to.mutex.Unlock()
}

func (to *TerminalOutput) SetQuitHandler(fn func()) {
	to.mutex.Lock()
	to.quitHandler = fn
	to.mutex.Unlock()
}

func (to *TerminalOutput) SetStatusProvider(func() string) {}
