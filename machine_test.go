// machine_test.go - ROM loading, fetch cycle, call stack and reset tests

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadROMPlacesProgram(t *testing.T) {
	m := NewMachine()
	rom := []byte{0x60, 0x2A, 0x12, 0x00}

	if err := m.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}
	if m.PC != PROG_START {
		t.Fatalf("PC = %03X after load, expected %03X", m.PC, PROG_START)
	}
	for i, b := range rom {
		if m.Memory[PROG_START+i] != b {
			t.Fatalf("memory[%03X] = %02X, expected %02X", PROG_START+i, m.Memory[PROG_START+i], b)
		}
	}
	// The font table must survive loading.
	if m.Memory[FONT_START] != chip8FontSet[0] {
		t.Fatalf("font table clobbered, memory[%03X] = %02X", FONT_START, m.Memory[FONT_START])
	}
}

func TestLoadROMCapacity(t *testing.T) {
	m := NewMachine()

	if err := m.LoadROM(make([]byte, MAX_ROM_SIZE)); err != nil {
		t.Fatalf("maximum-size ROM rejected: %v", err)
	}

	m.V[0] = 0x42
	err := m.LoadROM(make([]byte, MAX_ROM_SIZE+1))
	var fault *ROMCapacityFault
	if !errors.As(err, &fault) {
		t.Fatalf("oversized ROM returned %v, expected *ROMCapacityFault", err)
	}
	if m.V[0] != 0x42 {
		t.Fatal("rejected load mutated machine state")
	}
}

func TestLoadROMFile(t *testing.T) {
	m := NewMachine()
	path := filepath.Join(t.TempDir(), "test.ch8")
	rom := []byte{0xA2, 0x00, 0xD0, 0x05}
	if err := os.WriteFile(path, rom, 0644); err != nil {
		t.Fatalf("writing ROM fixture: %v", err)
	}

	if err := m.LoadROMFile(path); err != nil {
		t.Fatalf("LoadROMFile failed: %v", err)
	}
	if m.Memory[PROG_START] != 0xA2 {
		t.Fatalf("memory[%03X] = %02X, expected A2", PROG_START, m.Memory[PROG_START])
	}

	if err := m.LoadROMFile(filepath.Join(t.TempDir(), "missing.ch8")); err == nil {
		t.Fatal("missing ROM file loaded without error")
	}
}

func TestStepFetchesBigEndian(t *testing.T) {
	m := NewMachine()
	if err := m.LoadROM([]byte{0x6A, 0xBC}); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}

	if err := m.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if m.V[0xA] != 0xBC {
		t.Fatalf("VA = %02X, expected BC from big-endian fetch", m.V[0xA])
	}
	if m.PC != PROG_START+2 {
		t.Fatalf("PC = %03X, expected advance to %03X", m.PC, PROG_START+2)
	}
}

func TestStepSurfacesDecodeFault(t *testing.T) {
	m := NewMachine()
	if err := m.LoadROM([]byte{0x8A, 0xBF}); err != nil { // unassigned 8XYF
		t.Fatalf("LoadROM failed: %v", err)
	}

	err := m.Step()
	var fault *DecodeFault
	if !errors.As(err, &fault) {
		t.Fatalf("Step returned %v, expected *DecodeFault", err)
	}
	if fault.Word != 0x8ABF || fault.PC != PROG_START {
		t.Fatalf("fault = word %04X PC %03X, expected word 8ABF PC %03X",
			fault.Word, fault.PC, PROG_START)
	}
}

func TestStepFetchAtMemoryEnd(t *testing.T) {
	m := NewMachine()
	m.PC = MEMORY_SIZE - 1 // only one byte left, fetch needs two

	err := m.Step()
	var fault *MemoryFault
	if !errors.As(err, &fault) {
		t.Fatalf("Step returned %v, expected *MemoryFault", err)
	}
}

func TestCallStackDepth(t *testing.T) {
	m := NewMachine()

	// Sixteen nested calls fill the stack exactly.
	for i := 0; i < STACK_DEPTH; i++ {
		exec(t, m, 0x2300)
	}
	if m.SP != STACK_DEPTH {
		t.Fatalf("SP = %d after %d calls, expected full stack", m.SP, STACK_DEPTH)
	}

	in, err := DecodeOpcode(0x2300, m.PC)
	if err != nil {
		t.Fatalf("DecodeOpcode(2300) failed: %v", err)
	}
	var overflow *StackOverflowFault
	if !errors.As(m.Execute(in), &overflow) {
		t.Fatal("seventeenth call did not overflow the stack")
	}

	// Unwind all sixteen, then one more return underflows.
	for i := 0; i < STACK_DEPTH; i++ {
		exec(t, m, 0x00EE)
	}
	in, err = DecodeOpcode(0x00EE, m.PC)
	if err != nil {
		t.Fatalf("DecodeOpcode(00EE) failed: %v", err)
	}
	var underflow *StackUnderflowFault
	if !errors.As(m.Execute(in), &underflow) {
		t.Fatal("return on empty stack did not underflow")
	}
}

func TestMachineReset(t *testing.T) {
	m := NewMachine()
	if err := m.LoadROM([]byte{0x60, 0x01}); err != nil {
		t.Fatalf("LoadROM failed: %v", err)
	}

	// Dirty every piece of state a program can touch.
	if err := m.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	m.I = 0x300
	m.SP = 3
	m.Timers.SetDelay(50)
	m.Keypad.Set(0x4, true)
	m.Display.DrawSprite([]byte{0xFF}, 0, 0)

	m.Reset()
	if m.PC != PROG_START || m.I != 0 || m.SP != 0 {
		t.Fatalf("core state after reset: PC %03X I %03X SP %d", m.PC, m.I, m.SP)
	}
	if m.V[0] != 0 {
		t.Fatalf("V0 = %02X after reset, expected 0", m.V[0])
	}
	if m.Timers.Delay() != 0 {
		t.Fatalf("delay = %d after reset, expected 0", m.Timers.Delay())
	}
	if m.Keypad.Pressed(0x4) {
		t.Fatal("key still latched after reset")
	}
	if m.Display.Pixel(0, 0) {
		t.Fatal("display pixel survived reset")
	}
	// Program memory is cleared; the font table is restored.
	if m.Memory[PROG_START] != 0 {
		t.Fatalf("memory[%03X] = %02X after reset, expected 0", PROG_START, m.Memory[PROG_START])
	}
	if m.Memory[FONT_START] != chip8FontSet[0] {
		t.Fatal("font table missing after reset")
	}
}

func TestKeypadRange(t *testing.T) {
	kp := NewKeypad()

	kp.Set(0xF, true)
	if !kp.Pressed(0xF) {
		t.Fatal("key F not registered")
	}
	// Out-of-range indices are ignored on write and read as released.
	kp.Set(0x10, true)
	if kp.Pressed(0x10) {
		t.Fatal("out-of-range key reported pressed")
	}

	key, ok := kp.FirstPressed()
	if !ok || key != 0xF {
		t.Fatalf("FirstPressed = %X %v, expected F true", key, ok)
	}

	kp.Set(0xF, false)
	if _, ok := kp.FirstPressed(); ok {
		t.Fatal("FirstPressed reported a key with all released")
	}
}
