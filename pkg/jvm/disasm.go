package jvm

import "fmt"

// Disassemble renders an instruction stream as one line per instruction,
// with byte offsets, mnemonics and decoded operands. Branch operands are
// shown as their resolved target offsets. Unknown bytes are rendered as raw
// data and decoding continues at the next byte.
func Disassemble(code []byte) []string {
	lines := make([]string, 0, len(code)/2)

	for pc := 0; pc < len(code); {
		op := Opcode(code[pc])
		info := GetInfo(op)

		if info.Name == "" || pc+info.Width > len(code) {
			lines = append(lines, fmt.Sprintf("%4d: .byte 0x%02X", pc, code[pc]))
			pc++
			continue
		}

		var line string
		switch {
		case op >= Ifeq && op <= Goto:
			off := int16(uint16(code[pc+1])<<8 | uint16(code[pc+2]))
			line = fmt.Sprintf("%4d: %-13s %d", pc, info.Name, pc+int(off))
		case op == Iinc:
			line = fmt.Sprintf("%4d: %-13s %d %d", pc, info.Name, code[pc+1], int8(code[pc+2]))
		case op == Bipush:
			line = fmt.Sprintf("%4d: %-13s %d", pc, info.Name, int8(code[pc+1]))
		case op == Sipush:
			v := int16(uint16(code[pc+1])<<8 | uint16(code[pc+2]))
			line = fmt.Sprintf("%4d: %-13s %d", pc, info.Name, v)
		case info.Width == 3:
			v := uint16(code[pc+1])<<8 | uint16(code[pc+2])
			line = fmt.Sprintf("%4d: %-13s #%d", pc, info.Name, v)
		case info.Width == 2:
			line = fmt.Sprintf("%4d: %-13s %d", pc, info.Name, code[pc+1])
		default:
			line = fmt.Sprintf("%4d: %s", pc, info.Name)
		}

		lines = append(lines, line)
		pc += info.Width
	}

	return lines
}
