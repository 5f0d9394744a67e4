// input.go - 16-key hex keypad state shared between input backends and the engine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import "sync"

// Keypad holds the state of the sixteen hex keys. Input backends write it;
// the execution engine's key-query instructions only read it.
type Keypad struct {
	mutex sync.Mutex
	keys  [NUM_KEYS]bool
}

func NewKeypad() *Keypad {
	return &Keypad{}
}

// Set records the pressed state of key (0x0-0xF). Out-of-range indices
// are ignored so raw backend scan codes cannot corrupt adjacent state.
func (k *Keypad) Set(key byte, pressed bool) {
	if key >= NUM_KEYS {
		return
	}
	k.mutex.Lock()
	k.keys[key] = pressed
	k.mutex.Unlock()
}

// Pressed reports whether key (0x0-0xF) is currently down.
func (k *Keypad) Pressed(key byte) bool {
	if key >= NUM_KEYS {
		return false
	}
	k.mutex.Lock()
	defer k.mutex.Unlock()
	return k.keys[key]
}

// FirstPressed returns the lowest-numbered key currently down. Used by
// the wait-for-keypress instruction.
func (k *Keypad) FirstPressed() (byte, bool) {
	k.mutex.Lock()
	defer k.mutex.Unlock()
	for i, down := range k.keys {
		if down {
			return byte(i), true
		}
	}
	return 0, false
}

// keypadLayout maps the standard QWERTY block
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
//
// onto the Chip-8 hex pad, matching the keypad used by the original
// hardware's contemporaries. Backends translate through this table.
var keypadLayout = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}
