package classfile_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyjvm/pkg/classfile"
)

// image assembles a class file byte stream for parser tests.
type image struct {
	bytes.Buffer
}

func (im *image) u1(v uint8) {
	im.WriteByte(v)
}

func (im *image) u2(v uint16) {
	im.WriteByte(byte(v >> 8))
	im.WriteByte(byte(v))
}

func (im *image) u4(v uint32) {
	im.u2(uint16(v >> 16))
	im.u2(uint16(v))
}

func (im *image) utf8(s string) {
	im.u1(1)
	im.u2(uint16(len(s)))
	im.WriteString(s)
}

func (im *image) codeAttr(nameIdx, maxStack, maxLocals uint16, code []byte) {
	im.u2(nameIdx)
	im.u4(uint32(12 + len(code)))
	im.u2(maxStack)
	im.u2(maxLocals)
	im.u4(uint32(len(code)))
	im.Write(code)
	im.u2(0) // exception table
	im.u2(0) // code attributes
}

// testImage builds a class with a void main and a two-argument add method,
// plus a field and an unknown attribute to exercise the skip paths.
func testImage() *image {
	im := &image{}
	im.u4(0xCAFEBABE)
	im.u2(0)  // minor
	im.u2(52) // major

	im.u2(9)                          // pool count (8 entries)
	im.utf8("main")                   // 1
	im.utf8("([Ljava/lang/String;)V") // 2
	im.utf8("Code")                   // 3
	im.u1(3)                          // 4: Integer
	im.u4(1234)
	im.utf8("add")   // 5
	im.utf8("(II)I") // 6
	im.u1(12)        // 7: NameAndType add (II)I
	im.u2(5)
	im.u2(6)
	im.u1(10) // 8: Methodref -> 7
	im.u2(0)
	im.u2(7)

	im.u2(0x0021) // access flags
	im.u2(0)      // this
	im.u2(0)      // super
	im.u2(0)      // interfaces

	im.u2(1) // one field, skipped by the parser
	im.u2(0x0008)
	im.u2(5)
	im.u2(6)
	im.u2(0)

	im.u2(2) // methods

	// main: one unknown attribute before Code
	im.u2(0x0009)
	im.u2(1)
	im.u2(2)
	im.u2(2)
	im.u2(5) // attribute named "add", not "Code"
	im.u4(3)
	im.Write([]byte{0xAA, 0xBB, 0xCC})
	im.codeAttr(3, 2, 1, []byte{0xB1}) // return

	// add
	im.u2(0x0009)
	im.u2(5)
	im.u2(6)
	im.u2(1)
	im.codeAttr(3, 2, 2, []byte{0x1A, 0x1B, 0x60, 0xAC}) // iload_0, iload_1, iadd, ireturn

	return im
}

func TestParse(t *testing.T) {
	class, err := classfile.Parse(testImage())
	require.NoError(t, err)

	assert.Equal(t, uint16(0), class.MinorVersion)
	assert.Equal(t, uint16(52), class.MajorVersion)
	assert.Equal(t, uint16(0x0021), class.AccessFlags)
	assert.Len(t, class.ConstPool, 8)
	require.Len(t, class.Methods, 2)

	main := class.Methods[0]
	assert.Equal(t, "main", main.Name)
	assert.Equal(t, "([Ljava/lang/String;)V", main.Descriptor)
	assert.Equal(t, uint16(2), main.MaxStack)
	assert.Equal(t, uint16(1), main.MaxLocals)
	assert.Equal(t, []byte{0xB1}, main.Code)

	add := class.Methods[1]
	assert.Equal(t, "add", add.Name)
	assert.Equal(t, 2, add.ParamCount())
	assert.Equal(t, []byte{0x1A, 0x1B, 0x60, 0xAC}, add.Code)
}

func TestLookups(t *testing.T) {
	class, err := classfile.Parse(testImage())
	require.NoError(t, err)

	t.Run("method by name", func(t *testing.T) {
		m, err := class.MethodByName("add", "(II)I")
		require.NoError(t, err)
		assert.Equal(t, "add", m.Name)

		_, err = class.MethodByName("add", "()V")
		assert.ErrorIs(t, err, classfile.ErrNoSuchMethod)
	})

	t.Run("method by constant pool index", func(t *testing.T) {
		m, err := class.MethodByIndex(8)
		require.NoError(t, err)
		assert.Equal(t, "add", m.Name)

		_, err = class.MethodByIndex(1) // Utf8, not Methodref
		assert.ErrorIs(t, err, classfile.ErrBadConstant)

		_, err = class.MethodByIndex(0)
		assert.ErrorIs(t, err, classfile.ErrBadConstant)
	})

	t.Run("integer constant", func(t *testing.T) {
		v, err := class.IntConstant(4)
		require.NoError(t, err)
		assert.Equal(t, int32(1234), v)

		_, err = class.IntConstant(1) // Utf8, not Integer
		assert.ErrorIs(t, err, classfile.ErrBadConstant)

		_, err = class.IntConstant(99)
		assert.ErrorIs(t, err, classfile.ErrBadConstant)
	})
}

func TestParseBadMagic(t *testing.T) {
	im := &image{}
	im.u4(0xDEADBEEF)

	_, err := classfile.Parse(im)
	assert.ErrorIs(t, err, classfile.ErrBadMagic)
}

func TestParseUnsupportedTag(t *testing.T) {
	im := &image{}
	im.u4(0xCAFEBABE)
	im.u2(0)
	im.u2(52)
	im.u2(2) // one pool entry
	im.u1(5) // CONSTANT_Long, unsupported
	im.u4(0)
	im.u4(0)

	_, err := classfile.Parse(im)
	assert.ErrorIs(t, err, classfile.ErrUnsupportedTag)
}

func TestParseTruncated(t *testing.T) {
	full := testImage().Bytes()

	// cutting the stream anywhere after the magic must produce an error,
	// never a panic
	for _, cut := range []int{4, 8, 10, 20, len(full) / 2, len(full) - 1} {
		_, err := classfile.Parse(bytes.NewReader(full[:cut]))
		assert.Error(t, err, "cut at %d", cut)
	}
}
