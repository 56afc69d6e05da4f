package collectives

import (
	"slices"

	"github.com/gomlx/collectives/types/xsync"
	"github.com/pkg/errors"
)

var allToAllOp = newOperation("all_to_all")

// AllToAll performs a personalized exchange: site which contributes one value
// per destination site (values must have exactly NumSites elements), and its
// future resolves to the vector of values addressed to it, ordered by source
// site: result[i] is the value site i addressed to site which.
func AllToAll[T any](c *Communicator, which, generation int, values []T) (*xsync.Future[[]T], error) {
	defer logCall(c, allToAllOp, "set", which, generation)()
	if len(values) != c.numSites {
		return nil, errors.Errorf(
			"collectives.AllToAll on communicator %q: got %d values, expected one per site (%d)",
			c.name, len(values), c.numSites)
	}
	return handleData(c, allToAllOp, which, generation,
		func(data [][]T, which int) {
			data[which] = slices.Clone(values)
		},
		func(data [][]T, _ bool, which int) []T {
			result := make([]T, len(data))
			for i, row := range data {
				result[i] = row[which]
			}
			return result
		},
		fullVector)
}
