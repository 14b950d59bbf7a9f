// Package jvm executes the bytecode of a parsed class against an operand
// stack and local-variable slots, one recursive invocation per static call.
package jvm

import "fmt"

// Opcode is the one-byte instruction tag at the start of each instruction.
type Opcode byte

const (
	Nop Opcode = 0x00

	// constant pushes
	IconstM1 Opcode = 0x02
	Iconst0  Opcode = 0x03
	Iconst1  Opcode = 0x04
	Iconst2  Opcode = 0x05
	Iconst3  Opcode = 0x06
	Iconst4  Opcode = 0x07
	Iconst5  Opcode = 0x08
	Bipush   Opcode = 0x10
	Sipush   Opcode = 0x11
	Ldc      Opcode = 0x12

	// local variable access
	Iload   Opcode = 0x15
	Aload   Opcode = 0x19
	Iload0  Opcode = 0x1A
	Iload1  Opcode = 0x1B
	Iload2  Opcode = 0x1C
	Iload3  Opcode = 0x1D
	Aload0  Opcode = 0x2A
	Aload1  Opcode = 0x2B
	Aload2  Opcode = 0x2C
	Aload3  Opcode = 0x2D
	Istore  Opcode = 0x36
	Astore  Opcode = 0x3A
	Istore0 Opcode = 0x3B
	Istore1 Opcode = 0x3C
	Istore2 Opcode = 0x3D
	Istore3 Opcode = 0x3E
	Astore0 Opcode = 0x4B
	Astore1 Opcode = 0x4C
	Astore2 Opcode = 0x4D
	Astore3 Opcode = 0x4E
	Iinc    Opcode = 0x84

	// arrays
	Iaload      Opcode = 0x2E
	Iastore     Opcode = 0x4F
	Newarray    Opcode = 0xBC
	Arraylength Opcode = 0xBE

	// stack
	Dup Opcode = 0x59

	// arithmetic and bitwise
	Iadd  Opcode = 0x60
	Isub  Opcode = 0x64
	Imul  Opcode = 0x68
	Idiv  Opcode = 0x6C
	Irem  Opcode = 0x70
	Ineg  Opcode = 0x74
	Ishl  Opcode = 0x78
	Ishr  Opcode = 0x7A
	Iushr Opcode = 0x7C
	Iand  Opcode = 0x7E
	Ior   Opcode = 0x80
	Ixor  Opcode = 0x82

	// branches
	Ifeq     Opcode = 0x99
	Ifne     Opcode = 0x9A
	Iflt     Opcode = 0x9B
	Ifge     Opcode = 0x9C
	Ifgt     Opcode = 0x9D
	Ifle     Opcode = 0x9E
	IfIcmpeq Opcode = 0x9F
	IfIcmpne Opcode = 0xA0
	IfIcmplt Opcode = 0xA1
	IfIcmpge Opcode = 0xA2
	IfIcmpgt Opcode = 0xA3
	IfIcmple Opcode = 0xA4
	Goto     Opcode = 0xA7

	// returns
	Ireturn Opcode = 0xAC
	Areturn Opcode = 0xB0
	Return  Opcode = 0xB1

	// field/method references
	Getstatic     Opcode = 0xB2
	Invokevirtual Opcode = 0xB6
	Invokestatic  Opcode = 0xB8
)

// Info describes an opcode: its mnemonic and the full instruction width in
// bytes, opcode included.
type Info struct {
	Op    Opcode
	Name  string
	Width int
}

var infos = make([]Info, 256)

func init() {
	ops := []Info{
		{Nop, "nop", 1},
		{IconstM1, "iconst_m1", 1},
		{Iconst0, "iconst_0", 1},
		{Iconst1, "iconst_1", 1},
		{Iconst2, "iconst_2", 1},
		{Iconst3, "iconst_3", 1},
		{Iconst4, "iconst_4", 1},
		{Iconst5, "iconst_5", 1},
		{Bipush, "bipush", 2},
		{Sipush, "sipush", 3},
		{Ldc, "ldc", 2},
		{Iload, "iload", 2},
		{Aload, "aload", 2},
		{Iload0, "iload_0", 1},
		{Iload1, "iload_1", 1},
		{Iload2, "iload_2", 1},
		{Iload3, "iload_3", 1},
		{Aload0, "aload_0", 1},
		{Aload1, "aload_1", 1},
		{Aload2, "aload_2", 1},
		{Aload3, "aload_3", 1},
		{Istore, "istore", 2},
		{Astore, "astore", 2},
		{Istore0, "istore_0", 1},
		{Istore1, "istore_1", 1},
		{Istore2, "istore_2", 1},
		{Istore3, "istore_3", 1},
		{Astore0, "astore_0", 1},
		{Astore1, "astore_1", 1},
		{Astore2, "astore_2", 1},
		{Astore3, "astore_3", 1},
		{Iinc, "iinc", 3},
		{Iaload, "iaload", 1},
		{Iastore, "iastore", 1},
		{Newarray, "newarray", 2},
		{Arraylength, "arraylength", 1},
		{Dup, "dup", 1},
		{Iadd, "iadd", 1},
		{Isub, "isub", 1},
		{Imul, "imul", 1},
		{Idiv, "idiv", 1},
		{Irem, "irem", 1},
		{Ineg, "ineg", 1},
		{Ishl, "ishl", 1},
		{Ishr, "ishr", 1},
		{Iushr, "iushr", 1},
		{Iand, "iand", 1},
		{Ior, "ior", 1},
		{Ixor, "ixor", 1},
		{Ifeq, "ifeq", 3},
		{Ifne, "ifne", 3},
		{Iflt, "iflt", 3},
		{Ifge, "ifge", 3},
		{Ifgt, "ifgt", 3},
		{Ifle, "ifle", 3},
		{IfIcmpeq, "if_icmpeq", 3},
		{IfIcmpne, "if_icmpne", 3},
		{IfIcmplt, "if_icmplt", 3},
		{IfIcmpge, "if_icmpge", 3},
		{IfIcmpgt, "if_icmpgt", 3},
		{IfIcmple, "if_icmple", 3},
		{Goto, "goto", 3},
		{Ireturn, "ireturn", 1},
		{Areturn, "areturn", 1},
		{Return, "return", 1},
		{Getstatic, "getstatic", 3},
		{Invokevirtual, "invokevirtual", 3},
		{Invokestatic, "invokestatic", 3},
	}
	for _, o := range ops {
		infos[o.Op] = o
	}
}

// GetInfo returns the Info for an opcode. Unknown opcodes have an empty Name
// and zero Width.
func GetInfo(op Opcode) Info {
	return infos[op]
}

// String returns the opcode's mnemonic, or its hex value if unknown.
func (op Opcode) String() string {
	if info := infos[op]; info.Name != "" {
		return info.Name
	}

	return fmt.Sprintf("0x%02X", byte(op))
}
