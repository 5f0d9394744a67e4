// execute_test.go - Instruction semantics tests for the execution engine

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import (
	"errors"
	"testing"
)

// exec decodes and executes one instruction word against m.
func exec(t *testing.T, m *Machine, word uint16) {
	t.Helper()
	in, err := DecodeOpcode(word, m.PC)
	if err != nil {
		t.Fatalf("DecodeOpcode(%04X) failed: %v", word, err)
	}
	if err := m.Execute(in); err != nil {
		t.Fatalf("Execute(%04X) failed: %v", word, err)
	}
}

func TestLoadAndAddImmediate(t *testing.T) {
	m := NewMachine()

	exec(t, m, 0x60AB) // LD V0, AB
	if m.V[0] != 0xAB {
		t.Fatalf("V0 = %02X, expected AB", m.V[0])
	}

	exec(t, m, 0x7010) // ADD V0, 10
	if m.V[0] != 0xBB {
		t.Fatalf("V0 = %02X, expected BB", m.V[0])
	}

	// 7XNN wraps mod 256 and must not touch VF.
	m.V[0xF] = 0x55
	exec(t, m, 0x70FF)
	if m.V[0] != 0xBA {
		t.Fatalf("V0 = %02X after wrap, expected BA", m.V[0])
	}
	if m.V[0xF] != 0x55 {
		t.Fatalf("VF = %02X, 7XNN must not set the flag", m.V[0xF])
	}
}

func TestAddRegisterCarry(t *testing.T) {
	m := NewMachine()

	m.V[0] = 250
	m.V[1] = 10
	exec(t, m, 0x8014) // ADD V0, V1
	if m.V[0] != 4 {
		t.Fatalf("V0 = %d, expected 4", m.V[0])
	}
	if m.V[0xF] != 1 {
		t.Fatalf("VF = %d, expected carry flag 1", m.V[0xF])
	}

	m.V[0] = 10
	m.V[1] = 20
	exec(t, m, 0x8014)
	if m.V[0] != 30 || m.V[0xF] != 0 {
		t.Fatalf("V0 = %d VF = %d, expected 30 and no carry", m.V[0], m.V[0xF])
	}
}

func TestSubRegisterBorrowPolarity(t *testing.T) {
	m := NewMachine()

	// VF=1 means no borrow occurred.
	m.V[2] = 30
	m.V[3] = 10
	exec(t, m, 0x8235) // SUB V2, V3
	if m.V[2] != 20 || m.V[0xF] != 1 {
		t.Fatalf("V2 = %d VF = %d, expected 20 and VF 1", m.V[2], m.V[0xF])
	}

	m.V[2] = 10
	m.V[3] = 30
	exec(t, m, 0x8235)
	if m.V[2] != 236 || m.V[0xF] != 0 {
		t.Fatalf("V2 = %d VF = %d, expected 236 and VF 0", m.V[2], m.V[0xF])
	}

	// Equal operands leave zero with VF=1.
	m.V[2] = 7
	m.V[3] = 7
	exec(t, m, 0x8235)
	if m.V[2] != 0 || m.V[0xF] != 1 {
		t.Fatalf("V2 = %d VF = %d, expected 0 and VF 1", m.V[2], m.V[0xF])
	}
}

func TestReverseSubRegister(t *testing.T) {
	m := NewMachine()

	m.V[4] = 10
	m.V[5] = 30
	exec(t, m, 0x8457) // SUBN V4, V5
	if m.V[4] != 20 || m.V[0xF] != 1 {
		t.Fatalf("V4 = %d VF = %d, expected 20 and VF 1", m.V[4], m.V[0xF])
	}

	m.V[4] = 30
	m.V[5] = 10
	exec(t, m, 0x8457)
	if m.V[4] != 236 || m.V[0xF] != 0 {
		t.Fatalf("V4 = %d VF = %d, expected 236 and VF 0", m.V[4], m.V[0xF])
	}
}

func TestShifts(t *testing.T) {
	m := NewMachine()

	m.V[1] = 0x05
	exec(t, m, 0x8106) // SHR V1
	if m.V[1] != 0x02 || m.V[0xF] != 1 {
		t.Fatalf("V1 = %02X VF = %d, expected 02 and VF 1", m.V[1], m.V[0xF])
	}

	m.V[1] = 0x04
	exec(t, m, 0x8106)
	if m.V[1] != 0x02 || m.V[0xF] != 0 {
		t.Fatalf("V1 = %02X VF = %d, expected 02 and VF 0", m.V[1], m.V[0xF])
	}

	m.V[1] = 0x81
	exec(t, m, 0x810E) // SHL V1
	if m.V[1] != 0x02 || m.V[0xF] != 1 {
		t.Fatalf("V1 = %02X VF = %d, expected 02 and VF 1", m.V[1], m.V[0xF])
	}

	m.V[1] = 0x41
	exec(t, m, 0x810E)
	if m.V[1] != 0x82 || m.V[0xF] != 0 {
		t.Fatalf("V1 = %02X VF = %d, expected 82 and VF 0", m.V[1], m.V[0xF])
	}
}

// TestFlagRegisterAsOperand pins the VX==VF case: the captured flag
// value overwrites the arithmetic result, never the other way round.
func TestFlagRegisterAsOperand(t *testing.T) {
	m := NewMachine()

	m.V[0xF] = 0x81
	exec(t, m, 0x8F0E) // SHL VF
	if m.V[0xF] != 1 {
		t.Fatalf("VF = %02X, expected the shifted-out bit 1", m.V[0xF])
	}

	m.V[0xF] = 200
	m.V[1] = 100
	exec(t, m, 0x8F14) // ADD VF, V1
	if m.V[0xF] != 1 {
		t.Fatalf("VF = %02X, expected the carry flag 1", m.V[0xF])
	}
}

func TestBitwiseOps(t *testing.T) {
	m := NewMachine()

	m.V[0] = 0xF0
	m.V[1] = 0x0F
	exec(t, m, 0x8011) // OR
	if m.V[0] != 0xFF {
		t.Fatalf("OR result = %02X, expected FF", m.V[0])
	}

	m.V[0] = 0xFC
	m.V[1] = 0x3F
	exec(t, m, 0x8012) // AND
	if m.V[0] != 0x3C {
		t.Fatalf("AND result = %02X, expected 3C", m.V[0])
	}

	m.V[0] = 0xAA
	m.V[1] = 0xFF
	exec(t, m, 0x8013) // XOR
	if m.V[0] != 0x55 {
		t.Fatalf("XOR result = %02X, expected 55", m.V[0])
	}
}

func TestConditionalSkips(t *testing.T) {
	m := NewMachine()
	start := m.PC

	m.V[3] = 0x42
	exec(t, m, 0x3342) // SE V3, 42 taken
	if m.PC != start+2 {
		t.Fatalf("PC = %03X, expected skip to %03X", m.PC, start+2)
	}

	exec(t, m, 0x3343) // SE V3, 43 not taken
	if m.PC != start+2 {
		t.Fatalf("PC = %03X, expected no movement", m.PC)
	}

	exec(t, m, 0x4343) // SNE V3, 43 taken
	if m.PC != start+4 {
		t.Fatalf("PC = %03X, expected skip to %03X", m.PC, start+4)
	}

	m.V[4] = 0x42
	exec(t, m, 0x5340) // SE V3, V4 taken
	if m.PC != start+6 {
		t.Fatalf("PC = %03X, expected skip to %03X", m.PC, start+6)
	}

	m.V[4] = 0x24
	exec(t, m, 0x9340) // SNE V3, V4 taken
	if m.PC != start+8 {
		t.Fatalf("PC = %03X, expected skip to %03X", m.PC, start+8)
	}
}

func TestJumpCallReturn(t *testing.T) {
	m := NewMachine()
	m.PC = 0x202

	exec(t, m, 0x2400) // CALL 400
	if m.PC != 0x400 {
		t.Fatalf("PC = %03X after call, expected 400", m.PC)
	}
	if m.SP != 1 || m.Stack[0] != 0x202 {
		t.Fatalf("stack = SP %d top %03X, expected SP 1 top 202", m.SP, m.Stack[0])
	}

	exec(t, m, 0x00EE) // RET
	if m.PC != 0x202 || m.SP != 0 {
		t.Fatalf("PC = %03X SP = %d after return, expected 202 and 0", m.PC, m.SP)
	}

	exec(t, m, 0x1ABC) // JP ABC
	if m.PC != 0xABC {
		t.Fatalf("PC = %03X, expected ABC", m.PC)
	}
}

// TestJumpOffsetMasksTo12Bits pins the BNNN quirk: the V0 sum wraps
// inside the address space instead of faulting.
func TestJumpOffsetMasksTo12Bits(t *testing.T) {
	m := NewMachine()

	m.V[0] = 0x10
	exec(t, m, 0xB300)
	if m.PC != 0x310 {
		t.Fatalf("PC = %03X, expected 310", m.PC)
	}

	m.V[0] = 0xFF
	exec(t, m, 0xBFFF)
	if m.PC != 0x0FE {
		t.Fatalf("PC = %03X, expected wrap to 0FE", m.PC)
	}
}

func TestRandomMasked(t *testing.T) {
	m := NewMachine()
	m.SeedRandom(1)

	for i := 0; i < 32; i++ {
		exec(t, m, 0xC00F) // RND V0, 0F
		if m.V[0] > 0x0F {
			t.Fatalf("RND produced %02X outside mask 0F", m.V[0])
		}
	}
}

func TestDrawCollisionFlag(t *testing.T) {
	m := NewMachine()

	m.I = 0x300
	m.Memory[0x300] = 0xFF
	m.V[0] = 8
	m.V[1] = 4

	exec(t, m, 0xD011) // first draw, clean
	if m.V[0xF] != 0 {
		t.Fatalf("VF = %d on clean draw, expected 0", m.V[0xF])
	}
	for dx := 0; dx < 8; dx++ {
		if !m.Display.Pixel(8+dx, 4) {
			t.Fatalf("pixel (%d,4) not set after draw", 8+dx)
		}
	}

	exec(t, m, 0xD011) // redraw erases via XOR and reports collision
	if m.V[0xF] != 1 {
		t.Fatalf("VF = %d on overlapping draw, expected 1", m.V[0xF])
	}
	for dx := 0; dx < 8; dx++ {
		if m.Display.Pixel(8+dx, 4) {
			t.Fatalf("pixel (%d,4) still set after XOR erase", 8+dx)
		}
	}
}

func TestDrawSpriteReadBounds(t *testing.T) {
	m := NewMachine()
	m.I = 0xFFE

	in, err := DecodeOpcode(0xD005, m.PC) // 5 rows from FFE overruns memory
	if err != nil {
		t.Fatalf("DecodeOpcode(D005) failed: %v", err)
	}
	err = m.Execute(in)
	var fault *MemoryFault
	if !errors.As(err, &fault) {
		t.Fatalf("draw past memory end returned %v, expected *MemoryFault", err)
	}
}

func TestKeySkips(t *testing.T) {
	m := NewMachine()
	start := m.PC
	m.V[0] = 0xA

	exec(t, m, 0xE09E) // SKP with key up, not taken
	if m.PC != start {
		t.Fatalf("PC = %03X, expected no skip while key up", m.PC)
	}

	m.Keypad.Set(0xA, true)
	exec(t, m, 0xE09E)
	if m.PC != start+2 {
		t.Fatalf("PC = %03X, expected skip while key down", m.PC)
	}

	exec(t, m, 0xE0A1) // SKNP with key down, not taken
	if m.PC != start+2 {
		t.Fatalf("PC = %03X, expected no skip while key down", m.PC)
	}

	m.Keypad.Set(0xA, false)
	exec(t, m, 0xE0A1)
	if m.PC != start+4 {
		t.Fatalf("PC = %03X, expected skip while key up", m.PC)
	}
}

// TestWaitKeyRetries verifies FX0A blocks by rewinding PC until a key
// is down, then latches the key index without further rewinding.
func TestWaitKeyRetries(t *testing.T) {
	m := NewMachine()
	m.PC = 0x204 // as if the word at 202 was just fetched

	in, err := DecodeOpcode(0xF20A, 0x202)
	if err != nil {
		t.Fatalf("DecodeOpcode(F20A) failed: %v", err)
	}

	if err := m.Execute(in); err != nil {
		t.Fatalf("Execute(F20A) failed: %v", err)
	}
	if m.PC != 0x202 {
		t.Fatalf("PC = %03X with no key down, expected rewind to 202", m.PC)
	}

	m.PC = 0x204
	m.Keypad.Set(0x7, true)
	if err := m.Execute(in); err != nil {
		t.Fatalf("Execute(F20A) failed: %v", err)
	}
	if m.PC != 0x204 {
		t.Fatalf("PC = %03X with key down, expected 204", m.PC)
	}
	if m.V[2] != 0x7 {
		t.Fatalf("V2 = %X, expected latched key 7", m.V[2])
	}
}

func TestTimerInstructions(t *testing.T) {
	m := NewMachine()

	m.V[5] = 60
	exec(t, m, 0xF515) // LD DT, V5
	exec(t, m, 0xF607) // LD V6, DT
	if m.V[6] != 60 {
		t.Fatalf("V6 = %d, expected delay timer value 60", m.V[6])
	}

	exec(t, m, 0xF518) // LD ST, V5
	if !m.Timers.SoundActive() {
		t.Fatal("sound timer inactive after LD ST")
	}
}

// TestAddIndexOverflow pins the FX1E quirk: I wraps in 12 bits and VF
// reports whether the sum left the address space.
func TestAddIndexOverflow(t *testing.T) {
	m := NewMachine()

	m.I = 0x100
	m.V[0] = 0x20
	exec(t, m, 0xF01E)
	if m.I != 0x120 || m.V[0xF] != 0 {
		t.Fatalf("I = %03X VF = %d, expected 120 and VF 0", m.I, m.V[0xF])
	}

	m.I = 0xFFF
	m.V[0] = 0x02
	exec(t, m, 0xF01E)
	if m.I != 0x001 || m.V[0xF] != 1 {
		t.Fatalf("I = %03X VF = %d, expected wrap to 001 and VF 1", m.I, m.V[0xF])
	}
}

func TestFontAddress(t *testing.T) {
	m := NewMachine()

	m.V[3] = 0x0
	exec(t, m, 0xF329)
	if m.I != FONT_START {
		t.Fatalf("I = %03X for glyph 0, expected %03X", m.I, FONT_START)
	}

	m.V[3] = 0xF
	exec(t, m, 0xF329)
	if m.I != FONT_START+15*FONT_GLYPH_SIZE {
		t.Fatalf("I = %03X for glyph F, expected %03X", m.I, FONT_START+15*FONT_GLYPH_SIZE)
	}

	// Glyph rows must match the loaded font table.
	for row := uint16(0); row < FONT_GLYPH_SIZE; row++ {
		if m.Memory[m.I+row] != chip8FontSet[15*FONT_GLYPH_SIZE+row] {
			t.Fatalf("glyph F row %d = %02X, font table disagrees", row, m.Memory[m.I+row])
		}
	}
}

func TestStoreBCD(t *testing.T) {
	m := NewMachine()

	m.I = 0x300
	m.V[7] = 254
	exec(t, m, 0xF733)
	if m.Memory[0x300] != 2 || m.Memory[0x301] != 5 || m.Memory[0x302] != 4 {
		t.Fatalf("BCD = %d %d %d, expected 2 5 4",
			m.Memory[0x300], m.Memory[0x301], m.Memory[0x302])
	}

	m.V[7] = 7
	exec(t, m, 0xF733)
	if m.Memory[0x300] != 0 || m.Memory[0x301] != 0 || m.Memory[0x302] != 7 {
		t.Fatalf("BCD = %d %d %d, expected 0 0 7",
			m.Memory[0x300], m.Memory[0x301], m.Memory[0x302])
	}
}

func TestRegisterDumpAndLoad(t *testing.T) {
	m := NewMachine()

	for i := byte(0); i <= 5; i++ {
		m.V[i] = i * 11
	}
	m.I = 0x320
	exec(t, m, 0xF555) // LD [I], V5

	for i := uint16(0); i <= 5; i++ {
		if m.Memory[0x320+i] != byte(i)*11 {
			t.Fatalf("memory[%03X] = %d, expected %d", 0x320+i, m.Memory[0x320+i], byte(i)*11)
		}
	}
	if m.I != 0x320 {
		t.Fatalf("I = %03X after dump, expected unchanged 320", m.I)
	}

	for i := range m.V {
		m.V[i] = 0xEE
	}
	exec(t, m, 0xF565) // LD V5, [I]
	for i := byte(0); i <= 5; i++ {
		if m.V[i] != i*11 {
			t.Fatalf("V%X = %d after load, expected %d", i, m.V[i], i*11)
		}
	}
	if m.V[6] != 0xEE {
		t.Fatalf("V6 = %02X, load must stop at V5", m.V[6])
	}
}

func TestRegisterDumpBounds(t *testing.T) {
	m := NewMachine()
	m.I = 0xFFD

	in, err := DecodeOpcode(0xFF55, m.PC) // 16 registers from FFD overruns
	if err != nil {
		t.Fatalf("DecodeOpcode(FF55) failed: %v", err)
	}
	err = m.Execute(in)
	var fault *MemoryFault
	if !errors.As(err, &fault) {
		t.Fatalf("oversized dump returned %v, expected *MemoryFault", err)
	}
}
