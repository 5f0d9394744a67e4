// machine_faults.go - Structured fault types surfaced by the execution core

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

import "fmt"

// DecodeFault reports an instruction word that matches no known opcode
// pattern. The PC is the address the word was fetched from.
type DecodeFault struct {
	Word uint16
	PC   uint16
}

func (f *DecodeFault) Error() string {
	return fmt.Sprintf("decode fault: unknown opcode %04X at PC=%03X", f.Word, f.PC)
}

// MemoryFault reports a computed address or range that falls outside the
// 4096-byte extent. Operation names the access that overran.
type MemoryFault struct {
	Operation string
	Addr      uint16
}

func (f *MemoryFault) Error() string {
	return fmt.Sprintf("memory fault: %s out of bounds at %03X", f.Operation, f.Addr)
}

// StackOverflowFault reports a call attempted at full stack depth.
type StackOverflowFault struct {
	PC uint16
}

func (f *StackOverflowFault) Error() string {
	return fmt.Sprintf("stack overflow: call at PC=%03X with stack depth %d", f.PC, STACK_DEPTH)
}

// StackUnderflowFault reports a return attempted on an empty stack.
type StackUnderflowFault struct {
	PC uint16
}

func (f *StackUnderflowFault) Error() string {
	return fmt.Sprintf("stack underflow: return at PC=%03X with empty stack", f.PC)
}

// ROMCapacityFault reports a ROM larger than the program region.
type ROMCapacityFault struct {
	Size int
}

func (f *ROMCapacityFault) Error() string {
	return fmt.Sprintf("ROM capacity fault: %d bytes exceeds %d byte program space", f.Size, MAX_ROM_SIZE)
}
