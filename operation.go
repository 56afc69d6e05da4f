package collectives

import (
	"k8s.io/klog/v2"
)

// Operation identifies one kind of collective operation.
//
// Identity is by pointer: two arrivals belong to the same collective kind iff
// they carry the same *Operation. Each collective declares its token once as
// a package-level variable with newOperation, the Go equivalent of keying on
// the address of a per-operation static.
type Operation struct {
	name string
}

func newOperation(name string) *Operation {
	return &Operation{name: name}
}

// Name of the operation, e.g. "all_reduce".
func (op *Operation) Name() string { return op.name }

// String implements fmt.Stringer.
func (op *Operation) String() string { return op.name }

// logCall emits the entry log line for a communicator entry point and returns
// the function that emits the matching exit line. Meant to be used as
//
//	defer logCall(c, op, "set", which, generation)()
func logCall(c *Communicator, op *Operation, entryPoint string, which, generation int) func() {
	if !klog.V(1).Enabled() {
		return func() {}
	}
	klog.Infof("[COL] %s(>>> %s): communicator=%q which=%d generation=%d",
		entryPoint, op.name, c.name, which, generation)
	return func() {
		klog.Infof("[COL] %s(<<< %s): communicator=%q which=%d generation=%d",
			entryPoint, op.name, c.name, which, generation)
	}
}
