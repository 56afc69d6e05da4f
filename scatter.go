package collectives

import (
	"github.com/gomlx/collectives/types/xsync"
	"github.com/pkg/errors"
)

var scatterOp = newOperation("scatter")

// ScatterTo is the distributing side of a scatter: the root site provides one
// value per site (values must have exactly NumSites elements) and the root's
// future resolves to its own slot, values[which]. Sites other than the root
// arrive with ScatterFrom.
func ScatterTo[T any](c *Communicator, which, generation int, values []T) (*xsync.Future[T], error) {
	defer logCall(c, scatterOp, "set", which, generation)()
	if len(values) != c.numSites {
		return nil, errors.Errorf(
			"collectives.ScatterTo on communicator %q: got %d values, expected one per site (%d)",
			c.name, len(values), c.numSites)
	}
	return handleData(c, scatterOp, which, generation,
		func(data []T, _ int) {
			copy(data, values)
			c.dataAvailable = true
		},
		func(data []T, _ bool, which int) T {
			return data[which]
		},
		fullVector)
}

// ScatterFrom receives this site's slot of a scatter distributed by the root
// site with ScatterTo.
func ScatterFrom[T any](c *Communicator, which, generation int) (*xsync.Future[T], error) {
	defer logCall(c, scatterOp, "get", which, generation)()
	return handleData[T, T](c, scatterOp, which, generation,
		nil,
		func(data []T, _ bool, which int) T {
			return data[which]
		},
		fullVector)
}
