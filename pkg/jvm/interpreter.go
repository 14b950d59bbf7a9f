package jvm

import (
	"fmt"
	"io"
	"os"

	"tinyjvm/pkg/classfile"
	"tinyjvm/pkg/heap"
)

// Interpreter executes methods of one class against a shared heap. It holds
// no per-invocation state; each Execute call owns its own frame, so nested
// static calls are plain Go recursion.
type Interpreter struct {
	class *classfile.Class
	heap  *heap.Heap

	out io.Writer // destination of the print instruction pair

	checkBounds bool
}

type Option func(*Interpreter)

// WithWriter sets the writer that printed values go to.
func WithWriter(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithBoundsChecks turns out-of-range local-slot and array-element access
// into a Fault instead of trusting the bytecode stream.
func WithBoundsChecks(on bool) Option {
	return func(in *Interpreter) { in.checkBounds = on }
}

// New creates an Interpreter for a class and heap.
func New(class *classfile.Class, h *heap.Heap, opts ...Option) *Interpreter {
	in := &Interpreter{
		class: class,
		heap:  h,
		out:   os.Stdout,
	}

	for _, o := range opts {
		o(in)
	}

	return in
}

// Execute runs a method's instructions until it returns. The locals slice
// must already hold the method's parameters in slots [0, ParamCount); the
// remaining slots must be zero. A malformed instruction stream raises a
// *Fault panic.
func (in *Interpreter) Execute(m *classfile.Method, locals []int32) Result {
	f := newFrame(m, locals, in.checkBounds)
	code := m.Code

	for f.pc < len(code) {
		switch op := Opcode(code[f.pc]); op {
		case Nop:
			f.pc++

		case IconstM1, Iconst0, Iconst1, Iconst2, Iconst3, Iconst4, Iconst5:
			f.push(int32(op) - int32(Iconst0))
			f.pc++

		case Bipush:
			f.push(int32(f.i8(1)))
			f.pc += 2

		case Sipush:
			f.push(int32(int16(f.u16(1))))
			f.pc += 3

		case Ldc:
			// the pool index operand is 1-based
			v, err := in.class.IntConstant(uint16(f.u8(1)))
			if err != nil {
				fault("ldc at pc %d: %v", f.pc, err)
			}
			f.push(v)
			f.pc += 2

		case Iload, Aload:
			f.push(f.load(int(f.u8(1))))
			f.pc += 2

		case Iload0, Iload1, Iload2, Iload3:
			f.push(f.load(int(op - Iload0)))
			f.pc++

		case Aload0, Aload1, Aload2, Aload3:
			f.push(f.load(int(op - Aload0)))
			f.pc++

		case Istore, Astore:
			f.store(int(f.u8(1)), f.pop())
			f.pc += 2

		case Istore0, Istore1, Istore2, Istore3:
			f.store(int(op-Istore0), f.pop())
			f.pc++

		case Astore0, Astore1, Astore2, Astore3:
			f.store(int(op-Astore0), f.pop())
			f.pc++

		case Iinc:
			slot := int(f.u8(1))
			f.store(slot, f.load(slot)+int32(f.i8(2)))
			f.pc += 3

		case Iadd, Isub, Imul, Idiv, Irem, Ishl, Ishr, Iushr, Iand, Ior, Ixor:
			b := f.pop()
			a := f.pop()
			f.push(in.arith(f, op, a, b))
			f.pc++

		case Ineg:
			f.push(-f.pop())
			f.pc++

		case Ifeq, Ifne, Iflt, Ifge, Ifgt, Ifle:
			if compareZero(op, f.pop()) {
				f.branch()
			} else {
				f.pc += 3
			}

		case IfIcmpeq, IfIcmpne, IfIcmplt, IfIcmpge, IfIcmpgt, IfIcmple:
			b := f.pop()
			a := f.pop()
			if compare(op, a, b) {
				f.branch()
			} else {
				f.pc += 3
			}

		case Goto:
			f.branch()

		case Dup:
			v := f.pop()
			f.push(v)
			f.push(v)
			f.pc++

		case Getstatic:
			// Static fields are unsupported; the reference is skipped. It
			// only shows up to set up the output stream for the print call.
			f.pc += 3

		case Invokevirtual:
			// the single supported virtual call: print top of stack
			fmt.Fprintf(in.out, "%d\n", f.pop())
			f.pc += 3

		case Invokestatic:
			in.invoke(f)
			f.pc += 3

		case Return:
			return Void()

		case Ireturn, Areturn:
			return ValueOf(f.pop())

		case Newarray:
			count := f.pop()
			ref, err := in.heap.Alloc(count)
			if err != nil {
				fault("newarray at pc %d: %v", f.pc, err)
			}
			f.push(int32(ref))
			f.pc += 2

		case Arraylength:
			f.push(in.deref(f, f.pop())[0])
			f.pc++

		case Iaload:
			idx := f.pop()
			arr := in.deref(f, f.pop())
			in.checkIndex(f, arr, idx)
			f.push(arr[idx+1])
			f.pc++

		case Iastore:
			v := f.pop()
			idx := f.pop()
			arr := in.deref(f, f.pop())
			in.checkIndex(f, arr, idx)
			arr[idx+1] = v
			f.pc++

		default:
			fault("unknown opcode 0x%02X in %s at pc %d", byte(op), m.Name, f.pc)
		}
	}

	// fell off the end of the instruction stream
	return Void()
}

// arith evaluates a two-operand arithmetic or bitwise instruction. The
// operands arrive as [a, b] with b popped first; non-commutative operations
// compute a OP b.
func (in *Interpreter) arith(f *Frame, op Opcode, a, b int32) int32 {
	switch op {
	case Iadd:
		return a + b
	case Isub:
		return a - b
	case Imul:
		return a * b
	case Idiv:
		if b == 0 {
			fault("division by zero in %s at pc %d", f.method.Name, f.pc)
		}
		return a / b
	case Irem:
		if b == 0 {
			fault("remainder by zero in %s at pc %d", f.method.Name, f.pc)
		}
		return a % b
	case Ishl:
		in.checkShift(f, b)
		return a << uint32(b)
	case Ishr:
		in.checkShift(f, b)
		return a >> uint32(b)
	case Iushr:
		in.checkShift(f, b)
		return int32(uint32(a) >> uint32(b))
	case Iand:
		return a & b
	case Ior:
		return a | b
	case Ixor:
		return a ^ b
	}

	fault("not an arithmetic opcode: %s", op)
	return 0
}

func (in *Interpreter) checkShift(f *Frame, amount int32) {
	if amount < 0 {
		fault("negative shift amount %d in %s at pc %d", amount, f.method.Name, f.pc)
	}
}

func compareZero(op Opcode, a int32) bool {
	switch op {
	case Ifeq:
		return a == 0
	case Ifne:
		return a != 0
	case Iflt:
		return a < 0
	case Ifge:
		return a >= 0
	case Ifgt:
		return a > 0
	case Ifle:
		return a <= 0
	}

	return false
}

func compare(op Opcode, a, b int32) bool {
	switch op {
	case IfIcmpeq:
		return a == b
	case IfIcmpne:
		return a != b
	case IfIcmplt:
		return a < b
	case IfIcmpge:
		return a >= b
	case IfIcmpgt:
		return a > b
	case IfIcmple:
		return a <= b
	}

	return false
}

// invoke runs an invokestatic: resolve the callee, move its parameters from
// the caller's stack into fresh locals, recurse, and push a returned value.
func (in *Interpreter) invoke(f *Frame) {
	idx := f.u16(1)

	callee, err := in.class.MethodByIndex(idx)
	if err != nil {
		fault("invokestatic at pc %d: %v", f.pc, err)
	}

	locals := make([]int32, callee.MaxLocals)
	for i := callee.ParamCount() - 1; i >= 0; i-- {
		locals[i] = f.pop()
	}

	if res := in.Execute(callee, locals); res.HasValue {
		f.push(res.Value)
	}
}

// deref resolves a stack value that is actually a heap handle.
func (in *Interpreter) deref(f *Frame, ref int32) []int32 {
	arr, err := in.heap.Deref(heap.Ref(ref))
	if err != nil {
		fault("array access in %s at pc %d: %v", f.method.Name, f.pc, err)
	}

	return arr
}

func (in *Interpreter) checkIndex(f *Frame, arr []int32, idx int32) {
	if f.check && (idx < 0 || idx >= arr[0]) {
		fault("array index %d out of range in %s at pc %d (length=%d)",
			idx, f.method.Name, f.pc, arr[0])
	}
}
