package classfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const classMagic = 0xCAFEBABE

var (
	ErrBadMagic       = errors.New("not a class file (bad magic)")
	ErrUnsupportedTag = errors.New("unsupported constant pool tag")
)

// reader wraps an io.Reader with big-endian primitive reads and a sticky
// error, so the parser can read a whole section and check once.
type reader struct {
	r   *bufio.Reader
	err error
}

func (r *reader) u1() uint8 {
	if r.err != nil {
		return 0
	}

	b, err := r.r.ReadByte()
	if err != nil {
		r.err = err
		return 0
	}

	return b
}

func (r *reader) u2() uint16 {
	hi := r.u1()
	lo := r.u1()
	return uint16(hi)<<8 | uint16(lo)
}

func (r *reader) u4() uint32 {
	hi := r.u2()
	lo := r.u2()
	return uint32(hi)<<16 | uint32(lo)
}

func (r *reader) bytes(n uint32) []byte {
	if r.err != nil {
		return nil
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = err
		return nil
	}

	return buf
}

func (r *reader) skip(n uint32) {
	r.bytes(n)
}

// Parse reads a class file into its in-memory model. Only the constant pool
// kinds and the Code method attribute that the interpreter consumes are
// retained; everything else is validated for framing and skipped.
func Parse(src io.Reader) (*Class, error) {
	r := &reader{r: bufio.NewReader(src)}

	if magic := r.u4(); r.err == nil && magic != classMagic {
		return nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, magic)
	}

	c := &Class{}
	c.MinorVersion = r.u2()
	c.MajorVersion = r.u2()

	if err := parseConstPool(r, c); err != nil {
		return nil, err
	}

	c.AccessFlags = r.u2()
	r.u2() // this_class
	r.u2() // super_class

	interfaces := r.u2()
	r.skip(uint32(interfaces) * 2)

	// fields: framing only, the interpreter never reads them
	fields := r.u2()
	for i := uint16(0); i < fields && r.err == nil; i++ {
		r.skip(6) // access, name, descriptor
		skipAttributes(r)
	}

	if err := parseMethods(r, c); err != nil {
		return nil, err
	}

	if r.err != nil {
		return nil, fmt.Errorf("reading class file: %w", r.err)
	}

	return c, nil
}

func parseConstPool(r *reader, c *Class) error {
	count := r.u2()
	if r.err != nil {
		return fmt.Errorf("reading constant pool count: %w", r.err)
	}

	// pool indices are 1-based: count entries occupy indices 1..count-1
	c.ConstPool = make([]Constant, 0, count)
	for idx := uint16(1); idx < count; idx++ {
		tag := ConstKind(r.u1())
		if r.err != nil {
			return fmt.Errorf("reading constant %d: %w", idx, r.err)
		}

		var e Constant
		e.Kind = tag
		switch tag {
		case ConstUtf8:
			n := r.u2()
			e.Utf8 = string(r.bytes(uint32(n)))
		case ConstInteger:
			e.Int = int32(r.u4())
		case ConstClass, ConstString:
			e.Ref1 = r.u2()
		case ConstFieldref, ConstMethodref, ConstNameAndType:
			e.Ref1 = r.u2()
			e.Ref2 = r.u2()
		default:
			return fmt.Errorf("%w: %d at index %d", ErrUnsupportedTag, tag, idx)
		}

		c.ConstPool = append(c.ConstPool, e)
	}

	return nil
}

func parseMethods(r *reader, c *Class) error {
	count := r.u2()
	c.Methods = make([]*Method, 0, count)

	for i := uint16(0); i < count; i++ {
		m := &Method{}
		m.AccessFlags = r.u2()
		nameIdx := r.u2()
		descIdx := r.u2()
		if r.err != nil {
			return fmt.Errorf("reading method %d: %w", i, r.err)
		}

		var err error
		if m.Name, err = c.utf8(nameIdx); err != nil {
			return fmt.Errorf("method %d name: %w", i, err)
		}
		if m.Descriptor, err = c.utf8(descIdx); err != nil {
			return fmt.Errorf("method %d descriptor: %w", i, err)
		}

		attrs := r.u2()
		for a := uint16(0); a < attrs && r.err == nil; a++ {
			attrName := r.u2()
			attrLen := r.u4()

			name, err := c.utf8(attrName)
			if err != nil || name != "Code" {
				r.skip(attrLen)
				continue
			}

			m.MaxStack = r.u2()
			m.MaxLocals = r.u2()
			codeLen := r.u4()
			m.Code = r.bytes(codeLen)

			exceptions := r.u2()
			r.skip(uint32(exceptions) * 8)
			skipAttributes(r)
		}

		c.Methods = append(c.Methods, m)
	}

	return nil
}

func skipAttributes(r *reader) {
	count := r.u2()
	for i := uint16(0); i < count && r.err == nil; i++ {
		r.u2() // attribute name
		r.skip(r.u4())
	}
}
