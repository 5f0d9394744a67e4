// video_interface.go - Video output interface and backend selection

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import "fmt"

// VideoError provides detailed error context for video operations
type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

// DisplayConfig contains hardware-independent configuration
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int // Integer scaling factor for output
	RefreshRate int // Target refresh rate in Hz
	Fullscreen  bool
	VSync       bool // Whether to sync frame updates to display refresh
}

// VideoOutput defines the minimal interface that backends must implement.
// Backends consume raw RGBA frames composed by the VideoChip; anything
// input- or control-related is an optional capability below.
type VideoOutput interface {
	// Lifecycle management
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	// Core display operations - kept minimal
	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	UpdateFrame(buffer []byte) error // Takes raw RGBA pixels only

	// Timing and synchronization
	GetFrameCount() uint64
	GetRefreshRate() int
}

// Optional interfaces for enhanced functionality
type KeypadCapable interface {
	AttachKeypad(keypad *Keypad)
}

type ControlCapable interface {
	SetResetHandler(fn func())
	SetPauseHandler(fn func())
	SetStepHandler(fn func())
	SetQuitHandler(fn func())
	SetStatusProvider(fn func() string)
}

// Predefined video backend types
const (
	VIDEO_BACKEND_EBITEN   = iota // Pure Go Ebiten backend
	VIDEO_BACKEND_TERMINAL        // ANSI terminal backend
)

// NewVideoOutput creates a new video output instance using the specified backend
func NewVideoOutput(backend int) (VideoOutput, error) {
	switch backend {
	case VIDEO_BACKEND_EBITEN:
		return NewEbitenOutput()
	case VIDEO_BACKEND_TERMINAL:
		return NewTerminalOutput()
	}
	return nil, &VideoError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}
