package jvm

import "fmt"

// Fault is an unrecoverable contract violation: the bytecode stream was not
// produced by a conforming compiler. Faults are raised as panics and never
// caught inside the interpreter.
type Fault struct {
	msg string
}

func (f *Fault) Error() string {
	return f.msg
}

func fault(format string, args ...any) {
	panic(&Fault{msg: fmt.Sprintf(format, args...)})
}
