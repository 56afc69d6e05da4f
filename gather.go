package collectives

import (
	"slices"

	"github.com/gomlx/collectives/types/xsync"
)

var gatherOp = newOperation("gather")

// GatherHere is the root side of a gather: it contributes the root's own
// value and collects every site's value. The returned future resolves to the
// gathered vector, ordered by site index. Sites other than the root arrive
// with GatherThere.
func GatherHere[T any](c *Communicator, which, generation int, value T) (*xsync.Future[[]T], error) {
	defer logCall(c, gatherOp, "get", which, generation)()
	return handleData(c, gatherOp, which, generation,
		func(data []T, which int) {
			data[which] = value
		},
		func(data []T, _ bool, _ int) []T {
			// The storage is reused across generations, hand out a copy.
			return slices.Clone(data)
		},
		fullVector)
}

// GatherThere contributes a non-root site's value toward a gather collected
// at the root. The returned future resolves once the collective completed.
func GatherThere[T any](c *Communicator, which, generation int, value T) (*xsync.Future[struct{}], error) {
	defer logCall(c, gatherOp, "set", which, generation)()
	return handleData[T, struct{}](c, gatherOp, which, generation,
		func(data []T, which int) {
			data[which] = value
		},
		nil,
		fullVector)
}
