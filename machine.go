// machine.go - Chip-8 machine state, ROM loading and the fetch/decode/execute step

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"
)

// Machine consolidates the whole execution core: memory, register file,
// call stack, timers, framebuffer and keypad. Nothing in here is safe for
// concurrent mutation; the scheduler serialises all access behind mutex.
type Machine struct {
	Memory [MEMORY_SIZE]byte
	V      [NUM_REGISTERS]byte
	I      uint16
	PC     uint16
	Stack  [STACK_DEPTH]uint16
	SP     byte

	Timers  *TimerUnit
	Display *FrameBuffer
	Keypad  *Keypad

	rng   *rand.Rand
	Trace bool
}

func NewMachine() *Machine {
	m := &Machine{
		Timers:  NewTimerUnit(),
		Display: NewFrameBuffer(),
		Keypad:  NewKeypad(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	m.initMemory()
	m.PC = PROG_START
	return m
}

func (m *Machine) initMemory() {
	for i := range m.Memory {
		m.Memory[i] = 0
	}
	copy(m.Memory[FONT_START:], chip8FontSet[:])
}

// SeedRandom reseeds the CXNN random source. Tests use it to pin draws.
func (m *Machine) SeedRandom(seed int64) {
	m.rng = rand.New(rand.NewSource(seed))
}

// LoadROM copies raw ROM bytes into the program region and resets the
// machine to its power-on state. ROMs larger than the program space are
// rejected with a ROMCapacityFault before any state is touched.
func (m *Machine) LoadROM(data []byte) error {
	if len(data) > MAX_ROM_SIZE {
		return &ROMCapacityFault{Size: len(data)}
	}
	m.Reset()
	copy(m.Memory[PROG_START:], data)
	return nil
}

// LoadROMFile loads a raw ROM image from disk. No header, no checksum.
func (m *Machine) LoadROMFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read ROM %s: %w", filename, err)
	}
	return m.LoadROM(data)
}

func (m *Machine) push(addr uint16) error {
	if m.SP >= STACK_DEPTH {
		return &StackOverflowFault{PC: m.PC}
	}
	m.Stack[m.SP] = addr
	m.SP++
	return nil
}

func (m *Machine) pop() (uint16, error) {
	if m.SP == 0 {
		return 0, &StackUnderflowFault{PC: m.PC}
	}
	m.SP--
	return m.Stack[m.SP], nil
}

// Step runs one fetch/decode/execute cycle. The word is read big-endian
// from PC, PC advances by 2 before dispatch, and any fault is returned
// without partial mutation beyond that advance. Halt-or-skip on fault is
// the caller's policy.
func (m *Machine) Step() error {
	fetchPC := m.PC
	if fetchPC+1 >= MEMORY_SIZE {
		return &MemoryFault{Operation: "instruction fetch", Addr: fetchPC}
	}
	word := uint16(m.Memory[fetchPC])<<8 | uint16(m.Memory[fetchPC+1])
	m.PC = (m.PC + INSTRUCTION_SIZE) & ADDR_MASK

	in, err := DecodeOpcode(word, fetchPC)
	if err != nil {
		return err
	}
	if m.Trace {
		fmt.Printf("%03X  %04X  %s\n", fetchPC, word, in.Disassemble())
	}
	return m.Execute(in)
}
