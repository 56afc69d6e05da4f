package collectives

import (
	"slices"

	"github.com/gomlx/collectives/types/xsync"
)

var allGatherOp = newOperation("all_gather")

// AllGather contributes value on behalf of site which; every site's future
// resolves to the vector of all sites' values, ordered by site index.
func AllGather[T any](c *Communicator, which, generation int, value T) (*xsync.Future[[]T], error) {
	defer logCall(c, allGatherOp, "set", which, generation)()
	return handleData(c, allGatherOp, which, generation,
		func(data []T, which int) {
			data[which] = value
		},
		func(data []T, _ bool, _ int) []T {
			return slices.Clone(data)
		},
		fullVector)
}
