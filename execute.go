// execute.go - Execution engine: semantics for every decoded instruction

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Phosphor8
License: GPLv3 or later
*/

package main

// skipNext advances PC over the next instruction for the conditional
// skip family.
func (m *Machine) skipNext() {
	m.PC = (m.PC + INSTRUCTION_SIZE) & ADDR_MASK
}

// Execute applies one decoded instruction against the machine state.
// The dispatch is exhaustive over OpKind; unknown words never get this
// far because the decoder rejects them. Bounds checks precede writes so
// a faulting instruction leaves no partial mutation behind.
func (m *Machine) Execute(in Instruction) error {
	switch in.Kind {
	case OpClear:
		m.Display.Clear()

	case OpReturn:
		addr, err := m.pop()
		if err != nil {
			return err
		}
		m.PC = addr

	case OpJump:
		m.PC = in.NNN

	case OpCall:
		if err := m.push(m.PC); err != nil {
			return err
		}
		m.PC = in.NNN

	case OpSkipEqVal:
		if m.V[in.X] == in.NN {
			m.skipNext()
		}

	case OpSkipNeVal:
		if m.V[in.X] != in.NN {
			m.skipNext()
		}

	case OpSkipEqReg:
		if m.V[in.X] == m.V[in.Y] {
			m.skipNext()
		}

	case OpLoadVal:
		m.V[in.X] = in.NN

	case OpAddVal:
		// Wraps mod 256, VF untouched.
		m.V[in.X] += in.NN

	case OpMove:
		m.V[in.X] = m.V[in.Y]

	case OpOr:
		m.V[in.X] |= m.V[in.Y]

	case OpAnd:
		m.V[in.X] &= m.V[in.Y]

	case OpXor:
		m.V[in.X] ^= m.V[in.Y]

	case OpAddReg:
		sum := uint16(m.V[in.X]) + uint16(m.V[in.Y])
		m.V[in.X] = byte(sum)
		m.V[FLAG_REGISTER] = byte(sum >> 8)

	case OpSubReg:
		// VF=1 means no borrow.
		noBorrow := m.V[in.X] >= m.V[in.Y]
		m.V[in.X] -= m.V[in.Y]
		m.V[FLAG_REGISTER] = btob(noBorrow)

	case OpShiftRight:
		bit := m.V[in.X] & 0x01
		m.V[in.X] >>= 1
		m.V[FLAG_REGISTER] = bit

	case OpRSubReg:
		noBorrow := m.V[in.Y] >= m.V[in.X]
		m.V[in.X] = m.V[in.Y] - m.V[in.X]
		m.V[FLAG_REGISTER] = btob(noBorrow)

	case OpShiftLeft:
		bit := m.V[in.X] >> 7
		m.V[in.X] <<= 1
		m.V[FLAG_REGISTER] = bit

	case OpSkipNeReg:
		if m.V[in.X] != m.V[in.Y] {
			m.skipNext()
		}

	case OpLoadIndex:
		m.I = in.NNN

	case OpJumpOffset:
		m.PC = (in.NNN + uint16(m.V[0])) & ADDR_MASK

	case OpRandom:
		m.V[in.X] = byte(m.rng.Intn(256)) & in.NN

	case OpDraw:
		end := int(m.I) + int(in.N)
		if end > MEMORY_SIZE {
			return &MemoryFault{Operation: "sprite read", Addr: m.I}
		}
		collision := m.Display.DrawSprite(m.Memory[m.I:end], m.V[in.X], m.V[in.Y])
		m.V[FLAG_REGISTER] = btob(collision)

	case OpSkipKeyPressed:
		if m.Keypad.Pressed(m.V[in.X]) {
			m.skipNext()
		}

	case OpSkipKeyNotPressed:
		if !m.Keypad.Pressed(m.V[in.X]) {
			m.skipNext()
		}

	case OpReadDelay:
		m.V[in.X] = m.Timers.Delay()

	case OpWaitKey:
		key, ok := m.Keypad.FirstPressed()
		if !ok {
			// Rewind so the instruction refetches until a key is down.
			m.PC = (m.PC - INSTRUCTION_SIZE) & ADDR_MASK
			return nil
		}
		m.V[in.X] = key

	case OpSetDelay:
		m.Timers.SetDelay(m.V[in.X])

	case OpSetSound:
		m.Timers.SetSound(m.V[in.X])

	case OpAddIndex:
		// 12-bit add; VF reports range overflow (original hardware quirk).
		sum := m.I + uint16(m.V[in.X])
		overflow := sum > ADDR_MASK
		m.I = sum & ADDR_MASK
		m.V[FLAG_REGISTER] = btob(overflow)

	case OpFontAddr:
		m.I = FONT_START + FONT_GLYPH_SIZE*uint16(m.V[in.X])

	case OpStoreBCD:
		if int(m.I)+3 > MEMORY_SIZE {
			return &MemoryFault{Operation: "BCD store", Addr: m.I}
		}
		v := m.V[in.X]
		m.Memory[m.I] = v / 100
		m.Memory[m.I+1] = v / 10 % 10
		m.Memory[m.I+2] = v % 10

	case OpDumpRegs:
		count := int(in.X) + 1
		if int(m.I)+count > MEMORY_SIZE {
			return &MemoryFault{Operation: "register dump", Addr: m.I}
		}
		copy(m.Memory[m.I:], m.V[:count])

	case OpLoadRegs:
		count := int(in.X) + 1
		if int(m.I)+count > MEMORY_SIZE {
			return &MemoryFault{Operation: "register load", Addr: m.I}
		}
		copy(m.V[:count], m.Memory[m.I:int(m.I)+count])
	}
	return nil
}

func btob(b bool) byte {
	if b {
		return 1
	}
	return 0
}
