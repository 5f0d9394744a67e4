// component_reset.go - Reset() methods for all hardware components (hard reset support)

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import "time"

// Machine.Reset restores the power-on state: registers, stack and index
// cleared, PC at the program start, memory zeroed with the font table
// re-seeded, timers, display and keypad reset. The caller reloads ROM
// bytes afterwards if it wants the program back.
func (m *Machine) Reset() {
	m.initMemory()
	for i := range m.V {
		m.V[i] = 0
	}
	for i := range m.Stack {
		m.Stack[i] = 0
	}
	m.I = 0
	m.SP = 0
	m.PC = PROG_START

	m.Timers.Reset()
	m.Display.Reset()
	m.Keypad.Reset()
}

// TimerUnit.Reset zeroes both timers and realigns the tick accumulator.
func (t *TimerUnit) Reset() {
	t.mutex.Lock()
	t.delay = 0
	t.sound = 0
	t.lastTick = time.Now()
	t.mutex.Unlock()
}

// FrameBuffer.Reset clears both grids. The decay factor is configuration,
// not display state, and survives the reset.
func (fb *FrameBuffer) Reset() {
	fb.mutex.Lock()
	for i := range fb.pixels {
		fb.pixels[i] = 0
		fb.intensity[i] = 0
	}
	fb.frameCount = 0
	fb.mutex.Unlock()
}

// Keypad.Reset releases every key.
func (k *Keypad) Reset() {
	k.mutex.Lock()
	for i := range k.keys {
		k.keys[i] = false
	}
	k.mutex.Unlock()
}
