// chip8_constants.go - Chip-8 machine parameters and built-in font data

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import "time"

const (
	// Memory map
	MEMORY_SIZE = 4096
	ADDR_MASK   = 0x0FFF
	PROG_START  = 0x200
	FONT_START  = 0x050

	// Instruction format
	INSTRUCTION_SIZE = 2

	// Register file
	NUM_REGISTERS = 16
	FLAG_REGISTER = 0xF
	STACK_DEPTH   = 16

	// Keypad
	NUM_KEYS = 16

	// Display
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32
	SPRITE_WIDTH   = 8

	// Font glyphs are 4x5 pixels, one byte per row
	FONT_GLYPH_SIZE = 5

	// Largest ROM that fits between PROG_START and the end of memory
	MAX_ROM_SIZE = MEMORY_SIZE - PROG_START
)

const (
	// Frame and timer cadence
	FRAME_RATE     = 60
	TIMER_INTERVAL = time.Second / 60

	// Timer catch-up is abandoned beyond this gap (host was suspended,
	// debugger attached, etc.) and the accumulator resynchronises instead
	// of firing a burst of stale ticks.
	TIMER_RESYNC_THRESHOLD = 250 * time.Millisecond

	// Emulation speed and display defaults
	DEFAULT_CYCLES_PER_FRAME = 10
	DEFAULT_DECAY_FACTOR     = 0.6
	MAX_DECAY_FACTOR         = 0.999
	DEFAULT_SCALE            = 10
)

// chip8FontSet holds the sixteen built-in hex digit glyphs (0-F), resident
// at FONT_START and addressed by the FX29 instruction.
var chip8FontSet = [NUM_KEYS * FONT_GLYPH_SIZE]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}
