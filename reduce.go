package collectives

import (
	"github.com/gomlx/collectives/types/xsync"
	"github.com/gomlx/exceptions"
)

var reduceOp = newOperation("reduce")

// ReduceHere is the root side of a reduction: it contributes the root's own
// value and collects the reduction of every site's value. Sites other than
// the root arrive with ReduceThere.
func ReduceHere[T any](c *Communicator, which, generation int, value T, reduce func(a, b T) T) (*xsync.Future[T], error) {
	defer logCall(c, reduceOp, "get", which, generation)()
	if reduce == nil {
		exceptions.Panicf("collectives.ReduceHere: reduce function cannot be nil")
	}
	return handleData(c, reduceOp, which, generation,
		func(data []T, which int) {
			data[which] = value
		},
		func(data []T, _ bool, _ int) T {
			acc := data[0]
			for _, v := range data[1:] {
				acc = reduce(acc, v)
			}
			return acc
		},
		fullVector)
}

// ReduceThere contributes a non-root site's value toward a reduction
// collected at the root. The returned future resolves once the collective
// completed.
func ReduceThere[T any](c *Communicator, which, generation int, value T) (*xsync.Future[struct{}], error) {
	defer logCall(c, reduceOp, "set", which, generation)()
	return handleData[T, struct{}](c, reduceOp, which, generation,
		func(data []T, which int) {
			data[which] = value
		},
		nil,
		fullVector)
}
