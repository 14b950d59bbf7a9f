package classfile

import (
	"errors"
	"fmt"
)

// ConstKind is the tag byte of a constant pool entry.
type ConstKind byte

const (
	ConstUtf8        ConstKind = 1
	ConstInteger     ConstKind = 3
	ConstClass       ConstKind = 7
	ConstString      ConstKind = 8
	ConstFieldref    ConstKind = 9
	ConstMethodref   ConstKind = 10
	ConstNameAndType ConstKind = 12
)

// Constant is one constant pool entry. Ref1/Ref2 hold the 1-based pool
// indices of referenced entries for the kinds that carry them.
type Constant struct {
	Kind ConstKind
	Utf8 string
	Int  int32
	Ref1 uint16
	Ref2 uint16
}

// Class is the in-memory model of a parsed class file: the constant pool
// and the class's methods with their code.
type Class struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16
	ConstPool    []Constant
	Methods      []*Method
}

var (
	ErrNoSuchMethod = errors.New("method not found")
	ErrBadConstant  = errors.New("bad constant pool entry")
)

// constant returns the pool entry at a 1-based index.
func (c *Class) constant(idx uint16) (Constant, error) {
	if idx == 0 || int(idx) > len(c.ConstPool) {
		return Constant{}, fmt.Errorf("%w: index %d out of range", ErrBadConstant, idx)
	}

	return c.ConstPool[idx-1], nil
}

// utf8 returns the string of a CONSTANT_Utf8 entry at a 1-based index.
func (c *Class) utf8(idx uint16) (string, error) {
	e, err := c.constant(idx)
	if err != nil {
		return "", err
	}

	if e.Kind != ConstUtf8 {
		return "", fmt.Errorf("%w: index %d is not Utf8", ErrBadConstant, idx)
	}

	return e.Utf8, nil
}

// IntConstant returns the value of a CONSTANT_Integer entry at a 1-based
// index, as loaded by the ldc instruction.
func (c *Class) IntConstant(idx uint16) (int32, error) {
	e, err := c.constant(idx)
	if err != nil {
		return 0, err
	}

	if e.Kind != ConstInteger {
		return 0, fmt.Errorf("%w: index %d is not Integer", ErrBadConstant, idx)
	}

	return e.Int, nil
}

// MethodByName finds a method by its exact name and descriptor.
func (c *Class) MethodByName(name, descriptor string) (*Method, error) {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m, nil
		}
	}

	return nil, fmt.Errorf("%w: %s%s", ErrNoSuchMethod, name, descriptor)
}

// MethodByIndex resolves a CONSTANT_Methodref pool entry (1-based index, as
// encoded in an invokestatic instruction) to the method it names.
func (c *Class) MethodByIndex(idx uint16) (*Method, error) {
	ref, err := c.constant(idx)
	if err != nil {
		return nil, err
	}

	if ref.Kind != ConstMethodref {
		return nil, fmt.Errorf("%w: index %d is not Methodref", ErrBadConstant, idx)
	}

	nat, err := c.constant(ref.Ref2)
	if err != nil {
		return nil, err
	}

	if nat.Kind != ConstNameAndType {
		return nil, fmt.Errorf("%w: index %d is not NameAndType", ErrBadConstant, ref.Ref2)
	}

	name, err := c.utf8(nat.Ref1)
	if err != nil {
		return nil, err
	}

	descriptor, err := c.utf8(nat.Ref2)
	if err != nil {
		return nil, err
	}

	return c.MethodByName(name, descriptor)
}
