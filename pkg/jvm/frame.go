package jvm

import "tinyjvm/pkg/classfile"

// Frame holds the state of one active invocation: the operand stack, the
// local-variable slots, and the program counter. A frame is owned by the
// invocation that created it and dies on return.
type Frame struct {
	method *classfile.Method
	stack  []int32
	sp     int
	locals []int32
	pc     int
	check  bool // bounds-check local slots and array elements
}

func newFrame(m *classfile.Method, locals []int32, check bool) *Frame {
	return &Frame{
		method: m,
		stack:  make([]int32, m.MaxStack),
		locals: locals,
		check:  check,
	}
}

func (f *Frame) push(v int32) {
	if f.sp >= len(f.stack) {
		fault("operand stack overflow in %s at pc %d (max_stack=%d)",
			f.method.Name, f.pc, len(f.stack))
	}

	f.stack[f.sp] = v
	f.sp++
}

func (f *Frame) pop() int32 {
	if f.sp == 0 {
		fault("operand stack underflow in %s at pc %d", f.method.Name, f.pc)
	}

	f.sp--
	return f.stack[f.sp]
}

func (f *Frame) load(slot int) int32 {
	if f.check && (slot < 0 || slot >= len(f.locals)) {
		fault("local slot %d out of range in %s at pc %d (max_locals=%d)",
			slot, f.method.Name, f.pc, len(f.locals))
	}

	return f.locals[slot]
}

func (f *Frame) store(slot int, v int32) {
	if f.check && (slot < 0 || slot >= len(f.locals)) {
		fault("local slot %d out of range in %s at pc %d (max_locals=%d)",
			slot, f.method.Name, f.pc, len(f.locals))
	}

	f.locals[slot] = v
}

// u8 reads the unsigned byte operand k bytes past the current opcode.
func (f *Frame) u8(k int) uint8 {
	return f.method.Code[f.pc+k]
}

// i8 reads the signed byte operand k bytes past the current opcode.
func (f *Frame) i8(k int) int8 {
	return int8(f.method.Code[f.pc+k])
}

// u16 reads a big-endian two-byte operand starting k bytes past the opcode.
func (f *Frame) u16(k int) uint16 {
	return uint16(f.method.Code[f.pc+k])<<8 | uint16(f.method.Code[f.pc+k+1])
}

// branch moves the program counter by the signed 16-bit offset following the
// opcode. The offset is relative to the opcode's own position.
func (f *Frame) branch() {
	f.pc += int(int16(f.u16(1)))
}
