package collectives

import (
	"github.com/gomlx/collectives/types/xsync"
	"github.com/gomlx/exceptions"
)

var allReduceOp = newOperation("all_reduce")

// AllReduce contributes value on behalf of site which and returns a future
// that resolves, once every site has contributed, to the reduction of all
// sites' values. Every site receives the same result.
//
// generation selects the collective generation, CurrentGeneration for the
// communicator's current one. All sites must pass an equivalent reduce
// function; for commutative reducers the result is independent of arrival
// order.
func AllReduce[T any](c *Communicator, which, generation int, value T, reduce func(a, b T) T) (*xsync.Future[T], error) {
	defer logCall(c, allReduceOp, "set", which, generation)()
	if reduce == nil {
		exceptions.Panicf("collectives.AllReduce: reduce function cannot be nil")
	}
	return handleData(c, allReduceOp, which, generation,
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
