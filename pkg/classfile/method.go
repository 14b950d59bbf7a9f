package classfile

// Method is one method of a parsed class: its bytecode and the frame sizes
// declared by the compiler. Methods are immutable after parsing.
type Method struct {
	Name        string
	Descriptor  string
	AccessFlags uint16
	MaxStack    uint16
	MaxLocals   uint16
	Code        []byte
}

// ParamCount returns the number of parameters derived from the method's
// descriptor.
func (m *Method) ParamCount() int {
	return ParamCount(m.Descriptor)
}

// ParamCount counts the parameters in a method descriptor, e.g. "(II)I" has
// two and "([I)V" has one. Array and object types count as one parameter.
func ParamCount(descriptor string) int {
	n := 0
	i := 1 // skip '('
	for i < len(descriptor) && descriptor[i] != ')' {
		for i < len(descriptor) && descriptor[i] == '[' {
			i++
		}
		if i < len(descriptor) && descriptor[i] == 'L' {
			for i < len(descriptor) && descriptor[i] != ';' {
				i++
			}
		}
		i++
		n++
	}

	return n
}
