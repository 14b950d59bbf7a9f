package jvm

// Result is the outcome of one method invocation: either void or a single
// 32-bit value. An int and a reference are indistinguishable at this layer.
type Result struct {
	Value    int32
	HasValue bool
}

// Void is the result of a method that returns nothing.
func Void() Result {
	return Result{}
}

// ValueOf wraps a returned 32-bit value.
func ValueOf(v int32) Result {
	return Result{Value: v, HasValue: true}
}
