// opcode.go - Chip-8 instruction word decoder

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import "fmt"

// OpKind enumerates every instruction variant the machine understands.
// The decoder is the only place an unknown bit pattern can exist; once an
// Instruction carries one of these kinds the engine's dispatch is exhaustive.
type OpKind int

const (
	OpClear OpKind = iota // 00E0
	OpReturn              // 00EE
	OpJump                // 1NNN
	OpCall                // 2NNN
	OpSkipEqVal           // 3XNN
	OpSkipNeVal           // 4XNN
	OpSkipEqReg           // 5XY0
	OpLoadVal             // 6XNN
	OpAddVal              // 7XNN
	OpMove                // 8XY0
	OpOr                  // 8XY1
	OpAnd                 // 8XY2
	OpXor                 // 8XY3
	OpAddReg              // 8XY4
	OpSubReg              // 8XY5
	OpShiftRight          // 8XY6
	OpRSubReg             // 8XY7
	OpShiftLeft           // 8XYE
	OpSkipNeReg           // 9XY0
	OpLoadIndex           // ANNN
	OpJumpOffset          // BNNN
	OpRandom              // CXNN
	OpDraw                // DXYN
	OpSkipKeyPressed      // EX9E
	OpSkipKeyNotPressed   // EXA1
	OpReadDelay           // FX07
	OpWaitKey             // FX0A
	OpSetDelay            // FX15
	OpSetSound            // FX18
	OpAddIndex            // FX1E
	OpFontAddr            // FX29
	OpStoreBCD            // FX33
	OpDumpRegs            // FX55
	OpLoadRegs            // FX65
)

// Instruction is a decoded opcode word. Operand fields are populated
// unconditionally from the word's fixed nibble layout; each kind reads
// only the fields its encoding defines.
type Instruction struct {
	Kind OpKind
	Word uint16 // raw instruction word, kept for diagnostics
	X    byte   // second nibble, register index
	Y    byte   // third nibble, register index
	N    byte   // low nibble
	NN   byte   // low byte
	NNN  uint16 // low 12 bits, address operand
}

// DecodeOpcode classifies a big-endian instruction word fetched from pc.
// Unknown patterns return a DecodeFault carrying the word and pc.
func DecodeOpcode(word uint16, pc uint16) (Instruction, error) {
	in := Instruction{
		Word: word,
		X:    byte(word >> 8 & 0xF),
		Y:    byte(word >> 4 & 0xF),
		N:    byte(word & 0xF),
		NN:   byte(word),
		NNN:  word & ADDR_MASK,
	}

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			in.Kind = OpClear
			return in, nil
		case 0x00EE:
			in.Kind = OpReturn
			return in, nil
		}
	case 0x1:
		in.Kind = OpJump
		return in, nil
	case 0x2:
		in.Kind = OpCall
		return in, nil
	case 0x3:
		in.Kind = OpSkipEqVal
		return in, nil
	case 0x4:
		in.Kind = OpSkipNeVal
		return in, nil
	case 0x5:
		if in.N == 0x0 {
			in.Kind = OpSkipEqReg
			return in, nil
		}
	case 0x6:
		in.Kind = OpLoadVal
		return in, nil
	case 0x7:
		in.Kind = OpAddVal
		return in, nil
	case 0x8:
		switch in.N {
		case 0x0:
			in.Kind = OpMove
			return in, nil
		case 0x1:
			in.Kind = OpOr
			return in, nil
		case 0x2:
			in.Kind = OpAnd
			return in, nil
		case 0x3:
			in.Kind = OpXor
			return in, nil
		case 0x4:
			in.Kind = OpAddReg
			return in, nil
		case 0x5:
			in.Kind = OpSubReg
			return in, nil
		case 0x6:
			in.Kind = OpShiftRight
			return in, nil
		case 0x7:
			in.Kind = OpRSubReg
			return in, nil
		case 0xE:
			in.Kind = OpShiftLeft
			return in, nil
		}
	case 0x9:
		if in.N == 0x0 {
			in.Kind = OpSkipNeReg
			return in, nil
		}
	case 0xA:
		in.Kind = OpLoadIndex
		return in, nil
	case 0xB:
		in.Kind = OpJumpOffset
		return in, nil
	case 0xC:
		in.Kind = OpRandom
		return in, nil
	case 0xD:
		in.Kind = OpDraw
		return in, nil
	case 0xE:
		switch in.NN {
		case 0x9E:
			in.Kind = OpSkipKeyPressed
			return in, nil
		case 0xA1:
			in.Kind = OpSkipKeyNotPressed
			return in, nil
		}
	case 0xF:
		switch in.NN {
		case 0x07:
			in.Kind = OpReadDelay
			return in, nil
		case 0x0A:
			in.Kind = OpWaitKey
			return in, nil
		case 0x15:
			in.Kind = OpSetDelay
			return in, nil
		case 0x18:
			in.Kind = OpSetSound
			return in, nil
		case 0x1E:
			in.Kind = OpAddIndex
			return in, nil
		case 0x29:
			in.Kind = OpFontAddr
			return in, nil
		case 0x33:
			in.Kind = OpStoreBCD
			return in, nil
		case 0x55:
			in.Kind = OpDumpRegs
			return in, nil
		case 0x65:
			in.Kind = OpLoadRegs
			return in, nil
		}
	}
	return Instruction{}, &DecodeFault{Word: word, PC: pc}
}

// Disassemble renders the instruction in conventional Chip-8 mnemonics.
// Used by the trace output and the monitor-style fault reports.
func (in Instruction) Disassemble() string {
	switch in.Kind {
	case OpClear:
		return "CLS"
	case OpReturn:
		return "RET"
	case OpJump:
		return fmt.Sprintf("JP %03X", in.NNN)
	case OpCall:
		return fmt.Sprintf("CALL %03X", in.NNN)
	case OpSkipEqVal:
		return fmt.Sprintf("SE V%X, %02X", in.X, in.NN)
	case OpSkipNeVal:
		return fmt.Sprintf("SNE V%X, %02X", in.X, in.NN)
	case OpSkipEqReg:
		return fmt.Sprintf("SE V%X, V%X", in.X, in.Y)
	case OpLoadVal:
		return fmt.Sprintf("LD V%X, %02X", in.X, in.NN)
	case OpAddVal:
		return fmt.Sprintf("ADD V%X, %02X", in.X, in.NN)
	case OpMove:
		return fmt.Sprintf("LD V%X, V%X", in.X, in.Y)
	case OpOr:
		return fmt.Sprintf("OR V%X, V%X", in.X, in.Y)
	case OpAnd:
		return fmt.Sprintf("AND V%X, V%X", in.X, in.Y)
	case OpXor:
		return fmt.Sprintf("XOR V%X, V%X", in.X, in.Y)
	case OpAddReg:
		return fmt.Sprintf("ADD V%X, V%X", in.X, in.Y)
	case OpSubReg:
		return fmt.Sprintf("SUB V%X, V%X", in.X, in.Y)
	case OpShiftRight:
		return fmt.Sprintf("SHR V%X", in.X)
	case OpRSubReg:
		return fmt.Sprintf("SUBN V%X, V%X", in.X, in.Y)
	case OpShiftLeft:
		return fmt.Sprintf("SHL V%X", in.X)
	case OpSkipNeReg:
		return fmt.Sprintf("SNE V%X, V%X", in.X, in.Y)
	case OpLoadIndex:
		return fmt.Sprintf("LD I, %03X", in.NNN)
	case OpJumpOffset:
		return fmt.Sprintf("JP V0, %03X", in.NNN)
	case OpRandom:
		return fmt.Sprintf("RND V%X, %02X", in.X, in.NN)
	case OpDraw:
		return fmt.Sprintf("DRW V%X, V%X, %X", in.X, in.Y, in.N)
	case OpSkipKeyPressed:
		return fmt.Sprintf("SKP V%X", in.X)
	case OpSkipKeyNotPressed:
		return fmt.Sprintf("SKNP V%X", in.X)
	case OpReadDelay:
		return fmt.Sprintf("LD V%X, DT", in.X)
	case OpWaitKey:
		return fmt.Sprintf("LD V%X, K", in.X)
	case OpSetDelay:
		return fmt.Sprintf("LD DT, V%X", in.X)
	case OpSetSound:
		return fmt.Sprintf("LD ST, V%X", in.X)
	case OpAddIndex:
		return fmt.Sprintf("ADD I, V%X", in.X)
	case OpFontAddr:
		return fmt.Sprintf("LD F, V%X", in.X)
	case OpStoreBCD:
		return fmt.Sprintf("LD B, V%X", in.X)
	case OpDumpRegs:
		return fmt.Sprintf("LD [I], V%X", in.X)
	case OpLoadRegs:
		return fmt.Sprintf("LD V%X, [I]", in.X)
	}
	return fmt.Sprintf("DW %04X", in.Word)
}
